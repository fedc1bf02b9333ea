package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context to d so database calls give up once the
// client would no longer get a useful answer. A zero d disables it.
func Timeout(d time.Duration, next http.Handler) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
