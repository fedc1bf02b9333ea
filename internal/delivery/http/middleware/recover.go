package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	h "campusevents/internal/delivery/http/helpers"
)

// Recover turns a panic in next into a logged 500 with the generic error envelope.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := wrap(w)
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic recovered",
				"path", r.URL.Path,
				"method", r.Method,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			if !wrapped.wroteHeader {
				h.WriteJSONError(wrapped, http.StatusInternalServerError, h.MsgInternalError, nil)
			}
		}()
		next.ServeHTTP(wrapped, r)
	})
}
