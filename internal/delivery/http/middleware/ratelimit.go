package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// RateLimitRecorder counts rejected requests per limiter.
type RateLimitRecorder interface {
	IncrementRateLimited(limiter string)
}

// RateLimitConfig names a limiter and bounds it to Limit requests per Window.
type RateLimitConfig struct {
	Name   string
	Limit  int
	Window time.Duration
}

// RateLimit bounds requests per caller in a sliding window. Callers are the
// authenticated admin when claims are present, otherwise the client IP. When
// the store fails the request is let through and the failure logged.
func RateLimit(store domain.RateLimitStore, cfg RateLimitConfig, rec RateLimitRecorder, logger *slog.Logger) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := cfg.Name + ":" + callerKey(r)
			res, err := store.Allow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limit store failed", "limiter", cfg.Name, "err", err)
				next(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if res.Allowed {
				next(w, r)
				return
			}

			if rec != nil {
				rec.IncrementRateLimited(cfg.Name)
			}
			retry := retryAfter(res.ResetAt, time.Now())
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			h.WriteJSONError(w, http.StatusTooManyRequests, h.MsgTooManyRequests, []domain.FieldError{
				{Field: "retry_after", Message: strconv.Itoa(retry) + " seconds"},
			})
		}
	}
}

func callerKey(r *http.Request) string {
	if id, ok := AdminIDFromContext(r.Context()); ok {
		return "admin:" + id
	}
	return "ip:" + ClientIP(r)
}

// ClientIP returns the host part of the connection's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfter rounds the wait up to whole seconds, at least one.
func retryAfter(reset, now time.Time) int {
	secs := int(math.Ceil(reset.Sub(now).Seconds()))
	return max(secs, 1)
}
