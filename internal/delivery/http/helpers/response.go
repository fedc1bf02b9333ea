package helpers

import (
	"encoding/json"
	"net/http"
	"time"

	"campusevents/internal/domain"
)

// now is replaced in tests that assert on the envelope timestamp.
var now = time.Now

// SuccessResponse is the envelope for every 2xx response.
// swagger:model SuccessResponse
type SuccessResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       any             `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ErrorResponse is the envelope for every 4xx and 5xx response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Errors    []domain.FieldError `json:"errors,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode and encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONSuccess writes a success envelope carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	WriteJSON(w, statusCode, SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now().UTC(),
	})
}

// WriteJSONPage writes a 200 success envelope for one page of a list.
func WriteJSONPage(w http.ResponseWriter, message string, data any, meta PaginationMeta) {
	WriteJSON(w, http.StatusOK, SuccessResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &meta,
		Timestamp:  now().UTC(),
	})
}

// WriteJSONError writes an error envelope. errs may be nil.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string, errs []domain.FieldError) {
	WriteJSON(w, statusCode, ErrorResponse{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: now().UTC(),
	})
}

// WriteValidationError writes a 400 with the field errors.
func WriteValidationError(w http.ResponseWriter, errs []domain.FieldError) {
	WriteJSONError(w, http.StatusBadRequest, "validation failed", errs)
}
