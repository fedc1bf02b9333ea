package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by repositories, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidReference   = errors.New("referenced record does not exist")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Business-rule errors. Each carries the caller-facing message and the
// sentinel that decides its HTTP status.
var (
	ErrDuplicateRegistration = NewError(ErrConflict, "student is already registered for this event")
	ErrDuplicateAttendance   = NewError(ErrConflict, "attendance already recorded for this student and event")
	ErrDuplicateFeedback     = NewError(ErrConflict, "feedback already submitted for this student and event")
	ErrDuplicateStudentEmail = NewError(ErrConflict, "a student with this email already exists")
	ErrDuplicateAdmin        = NewError(ErrConflict, "username or email already exists")
	ErrEventClosed           = NewError(ErrInvalidInput, "event is not open for registration")
	ErrEventFull             = NewError(ErrConflict, "event has no free seats")
	ErrSelfDeactivation      = NewError(ErrInvalidInput, "you cannot deactivate your own account")
	ErrWrongPassword         = NewError(ErrInvalidInput, "current password is incorrect")
	ErrCollegeNotFound       = NewError(ErrInvalidReference, "college not found")
	ErrStudentNotFound       = NewError(ErrInvalidReference, "student not found")
	ErrEventNotFound         = NewError(ErrInvalidReference, "event not found")
)

// Error is a business error with a message safe to show to API callers.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// FieldError describes one invalid field of a request or record.
// swagger:model FieldError
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level failures. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError returns a ValidationError, or nil when errs is empty.
func NewValidationError(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
