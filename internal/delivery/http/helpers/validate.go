package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"campusevents/internal/domain"
	"campusevents/internal/validation"
)

// MaxBodyBytes bounds request bodies read by DecodeAndValidate.
const MaxBodyBytes = 1 << 20

// Normalizer is implemented by request bodies that trim or lower-case fields
// before validation.
type Normalizer interface {
	Normalize()
}

// Validator is implemented by request bodies with rules that struct tags
// cannot express, such as cross-field ordering.
type Validator interface {
	Validate() []domain.FieldError
}

// DecodeAndValidate decodes the JSON body into dst, normalizes it, and runs
// the validate tags plus dst's own Validate when present. Unknown fields are
// ignored. On failure it writes a 400 with field errors and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			WriteValidationError(w, []domain.FieldError{{Field: "body", Message: "request body is required"}})
			return false
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return false
		}
		WriteValidationError(w, validation.DecodeError(err))
		return false
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	errs := validation.Struct(dst)
	if v, ok := dst.(Validator); ok {
		errs = append(errs, v.Validate()...)
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return false
	}
	return true
}
