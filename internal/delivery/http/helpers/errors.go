package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"campusevents/internal/domain"
)

// Messages used when the error carries nothing safe to show.
const (
	MsgInternalError   = "internal server error"
	MsgNotFound        = "resource not found"
	MsgBadReference    = "referenced record does not exist"
	MsgConflict        = "resource already exists"
	MsgInvalidInput    = "invalid input"
	MsgUnauthorized    = "authentication required"
	MsgForbidden       = "insufficient permissions"
	MsgBadCredentials  = "invalid credentials"
	MsgTokenExpired    = "token expired"
	MsgTokenInvalid    = "invalid token"
	MsgTooManyRequests = "too many requests, please try again later"
)

// StatusFor maps a service error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidReference):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// WriteServiceError translates err into the error envelope. Business errors
// keep their own message; 5xx responses never expose the cause, which is
// logged instead.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		WriteValidationError(w, verr.Errors)
		return
	}

	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, status, MsgInternalError, nil)
		return
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		WriteJSONError(w, status, derr.Message, nil)
		return
	}
	WriteJSONError(w, status, defaultMessage(err), nil)
}

func defaultMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, domain.ErrInvalidReference):
		return MsgBadReference
	case errors.Is(err, domain.ErrConflict):
		return MsgConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return MsgBadCredentials
	case errors.Is(err, domain.ErrTokenExpired):
		return MsgTokenExpired
	case errors.Is(err, domain.ErrTokenInvalid):
		return MsgTokenInvalid
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return MsgForbidden
	}
	return MsgInvalidInput
}

// NotFoundAs gives a plain not-found error a caller-facing message such as
// "event not found". Other errors are returned unchanged.
func NotFoundAs(err error, message string) error {
	var derr *domain.Error
	if errors.Is(err, domain.ErrNotFound) && !errors.As(err, &derr) {
		return domain.NewError(domain.ErrNotFound, message)
	}
	return err
}
