package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/adapters/ratelimit"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	"campusevents/internal/platform/metrics"
)

type roleVerifier map[string]domain.Role

func (v roleVerifier) Verify(token string, _ domain.TokenKind) (*domain.TokenClaims, error) {
	if token == "expired-token" {
		return nil, domain.ErrTokenExpired
	}
	role, ok := v[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{AdminID: "4b6f7c3e-0d2a-4f51-9c61-2a8f0e6b7d05", Role: role, Kind: domain.TokenAccess}, nil
}

// stubAuthService answers ListAdmins; any other call panics on the nil embedded interface.
type stubAuthService struct {
	domain.AuthService
}

func (stubAuthService) ListAdmins(context.Context, domain.AdminFilter) ([]*domain.Admin, int, error) {
	return []*domain.Admin{{ID: "a1", Role: domain.RoleAdmin}}, 1, nil
}

func newTestRouter(t *testing.T, authLimit int, m MetricsProvider) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := roleVerifier{"admin-token": domain.RoleAdmin, "super-token": domain.RoleSuperAdmin}

	cfg := RouterConfig{
		Logger:         logger,
		Verifier:       verifier,
		Limiter:        ratelimit.NewMemoryStore(),
		APILimit:       middleware.RateLimitConfig{Name: "api", Limit: 100, Window: time.Minute},
		AuthLimit:      middleware.RateLimitConfig{Name: "auth", Limit: authLimit, Window: time.Minute},
		CORSOrigins:    []string{"*"},
		RequestTimeout: 5 * time.Second,
	}
	if m != nil {
		cfg.Metrics = m
	}
	return NewRouter(cfg, Controllers{
		Auth:         controllers.NewAuthController(logger, stubAuthService{}, verifier, nil),
		College:      controllers.NewCollegeController(logger, nil),
		Student:      controllers.NewStudentController(logger, nil),
		Event:        controllers.NewEventController(logger, nil),
		Registration: controllers.NewRegistrationController(logger, nil, nil),
		Attendance:   controllers.NewAttendanceController(logger, nil),
		Feedback:     controllers.NewFeedbackController(logger, nil),
		Report:       controllers.NewReportController(logger, nil, 0),
		Health:       controllers.NewHealthController(logger, nil),
	})
}

func do(h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func message(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Message
}

func TestRouter_AdminListRequiresSuperAdmin(t *testing.T) {
	router := newTestRouter(t, 10, nil)
	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantMsg    string
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized, wantMsg: "missing authorization header"},
		{name: "invalid token", token: "garbage", wantStatus: http.StatusUnauthorized, wantMsg: "invalid token"},
		{name: "expired token", token: "expired-token", wantStatus: http.StatusUnauthorized, wantMsg: "token expired"},
		{name: "admin", token: "admin-token", wantStatus: http.StatusForbidden, wantMsg: "insufficient permissions"},
		{name: "super admin", token: "super-token", wantStatus: http.StatusOK, wantMsg: "admins retrieved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(router, http.MethodGet, "/api/auth/admins", tt.token, "")
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantMsg, message(t, rr))
		})
	}
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	router := newTestRouter(t, 10, nil)
	for _, target := range []string{"/api/colleges", "/api/students", "/api/events", "/api/registrations", "/api/attendance", "/api/feedback", "/api/reports/dashboard"} {
		rr := do(router, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, target)
	}
}

func TestRouter_AuthRateLimit(t *testing.T) {
	router := newTestRouter(t, 2, nil)

	for i := 0; i < 2; i++ {
		rr := do(router, http.MethodPost, "/api/auth/login", "", `{}`)
		require.Equal(t, http.StatusBadRequest, rr.Code, "request %d", i+1)
		assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	}

	rr := do(router, http.MethodPost, "/api/auth/login", "", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, "too many requests, please try again later", message(t, rr))
}

func TestRouter_Operational(t *testing.T) {
	m := metrics.New()
	router := newTestRouter(t, 10, m)

	rr := do(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodGet, "/api/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "route not found", message(t, rr))

	rr = do(router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `campusevents_http_requests_total{method="GET",route="GET /health",status="200"} 1`)
	assert.Contains(t, body, `campusevents_http_requests_total{method="GET",route="/",status="404"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, 10, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "https://dashboard.campus.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://dashboard.campus.edu", rr.Header().Get("Access-Control-Allow-Origin"))
}
