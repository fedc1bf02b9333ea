package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// Middleware wraps a single route handler.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain applies mws to next so that the first one runs first.
func Chain(next http.HandlerFunc, mws ...Middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		next = mws[i](next)
	}
	return next
}

// SetClaims returns a context carrying the authenticated admin's claims.
func SetClaims(ctx context.Context, c *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the authenticated admin's claims, if present.
func ClaimsFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*domain.TokenClaims)
	return c, ok && c != nil
}

// AdminIDFromContext returns the authenticated admin ID from the context, if present.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.AdminID, true
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", "invalid authorization format"
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireAuth validates the access token and stores its claims in the request context.
// If the token is missing, expired or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, problem := BearerToken(r)
			if problem != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, problem, nil)
				return
			}
			claims, err := verifier.Verify(token, domain.TokenAccess)
			if err != nil {
				msg := h.MsgTokenInvalid
				if errors.Is(err, domain.ErrTokenExpired) {
					msg = h.MsgTokenExpired
				}
				h.WriteJSONError(w, http.StatusUnauthorized, msg, nil)
				return
			}
			next(w, r.WithContext(SetClaims(r.Context(), claims)))
		}
	}
}

// RequirePermission lets the request through only when the authenticated
// role may perform action on resource. It must run after RequireAuth.
func RequirePermission(resource domain.Resource, action domain.Action) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized, nil)
				return
			}
			if err := domain.Authorize(claims.Role, resource, action); err != nil {
				h.WriteJSONError(w, http.StatusForbidden, h.MsgForbidden, nil)
				return
			}
			next(w, r)
		}
	}
}
