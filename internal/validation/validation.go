// Package validation checks request payloads declared with `validate` struct
// tags and reports failures as field-level errors.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"campusevents/internal/domain"
)

var validate = New()

// now is replaced in tests that need a fixed clock for the future rule.
var now = time.Now

// New returns a validator with the custom tags used by request DTOs:
// future, phone and username. Field names are reported by their json tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("future", validateFuture)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("username", validateUsername)
	return v
}

func validateFuture(fl validator.FieldLevel) bool {
	switch t := fl.Field().Interface().(type) {
	case time.Time:
		return t.After(now())
	case *time.Time:
		return t != nil && t.After(now())
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	return domain.IsPhone(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	return domain.IsUsername(fl.Field().String())
}

// Struct validates v and returns one FieldError per failed rule. A nil result means v is valid.
func Struct(v any) []domain.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: a programming error, not bad input.
		panic(fmt.Sprintf("validation: %v", err))
	}
	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "future":
		return "must be in the future"
	case "phone":
		return "must be a valid phone number"
	case "username":
		return "must be 3-20 letters, digits or underscores"
	}
	return "is invalid"
}

// RequireAny reports an error unless at least one pointer field of the struct
// pointed to by v is set. Update payloads use it to reject empty bodies.
func RequireAny(v any) []domain.FieldError {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			break
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Field(i)
			if f.Kind() == reflect.Pointer && !f.IsNil() {
				return nil
			}
		}
	}
	return []domain.FieldError{{Field: "body", Message: "at least one field must be provided"}}
}

// DecodeError translates a JSON decoding failure into field errors so type
// mismatches (e.g. 3.5 for an integer) read like validation failures.
func DecodeError(err error) []domain.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return []domain.FieldError{{Field: field, Message: "must be " + typeName(typeErr.Type)}}
	}
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return []domain.FieldError{{Field: "body", Message: "timestamps must be RFC3339 formatted"}}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []domain.FieldError{{Field: "body", Message: "malformed JSON"}}
	}
	return []domain.FieldError{{Field: "body", Message: "invalid request body"}}
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	}
	if t == reflect.TypeOf(time.Time{}) {
		return "an RFC3339 timestamp"
	}
	return "a valid " + t.Kind().String()
}
