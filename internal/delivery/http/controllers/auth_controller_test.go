package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func newAuthController(svc *fakeAuthService, failures LoginFailureRecorder) *AuthController {
	verifier := fakeVerifier{"admin-token": domain.RoleAdmin, "super-token": domain.RoleSuperAdmin}
	return NewAuthController(testLogger(), svc, verifier, failures)
}

func TestAuthController_Register(t *testing.T) {
	valid := `{"username":"jane_doe","email":" Jane@Campus.edu ","password":"supersecret","full_name":"Jane"}`
	tests := []struct {
		name       string
		body       string
		token      string
		svcErr     error
		wantStatus int
		wantMsg    string
		wantFields []string
	}{
		{name: "created", body: valid, wantStatus: http.StatusCreated, wantMsg: "admin registered successfully"},
		{name: "missing body", wantStatus: http.StatusBadRequest, wantFields: []string{"body"}},
		{
			name:       "invalid fields",
			body:       `{"username":"j","email":"nope","password":"short","role":"owner"}`,
			wantStatus: http.StatusBadRequest,
			wantFields: []string{"username", "email", "password", "role"},
		},
		{name: "duplicate", body: valid, svcErr: domain.ErrDuplicateAdmin, wantStatus: http.StatusConflict, wantMsg: "username or email already exists"},
		{
			name:       "super_admin without token",
			body:       `{"username":"boss","email":"boss@campus.edu","password":"supersecret","role":"super_admin"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "super_admin with admin token",
			body:       `{"username":"boss","email":"boss@campus.edu","password":"supersecret","role":"super_admin"}`,
			token:      "admin-token",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "super_admin with super token",
			body:       `{"username":"boss","email":"boss@campus.edu","password":"supersecret","role":"super_admin"}`,
			token:      "super-token",
			wantStatus: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{
				result: &domain.AuthResult{Admin: &domain.Admin{ID: adminID}, AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"},
				err:    tt.svcErr,
			}
			c := newAuthController(svc, nil)
			req := newRequest(http.MethodPost, "/auth/register", tt.body)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := serve(t, "POST /auth/register", c.Register, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			env := decodeEnvelope(t, rr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, env.Message)
			}
			if tt.wantFields != nil {
				assert.ElementsMatch(t, tt.wantFields, errorFields(env))
			}
		})
	}
}

func TestAuthController_Register_NormalizesEmail(t *testing.T) {
	svc := &fakeAuthService{result: &domain.AuthResult{}}
	c := newAuthController(svc, nil)
	body := `{"username":"jane_doe","email":" Jane@Campus.edu ","password":"supersecret"}`
	rr := serve(t, "POST /auth/register", c.Register, newRequest(http.MethodPost, "/auth/register", body))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "jane@campus.edu", svc.lastParams.Email)
	assert.Equal(t, domain.Role(""), svc.lastParams.Role)
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success with email alias", func(t *testing.T) {
		svc := &fakeAuthService{result: &domain.AuthResult{AccessToken: "a"}}
		rr := serve(t, "POST /auth/login", newAuthController(svc, nil).Login,
			newRequest(http.MethodPost, "/auth/login", `{"email":"jane@campus.edu","password":"supersecret"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "jane@campus.edu", svc.lastLogin)
	})

	t.Run("invalid credentials are counted", func(t *testing.T) {
		failures := &countingFailures{}
		svc := &fakeAuthService{err: domain.ErrInvalidCredentials}
		rr := serve(t, "POST /auth/login", newAuthController(svc, failures).Login,
			newRequest(http.MethodPost, "/auth/login", `{"identifier":"jane_doe","password":"wrong-password"}`))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "invalid credentials", decodeEnvelope(t, rr).Message)
		assert.Equal(t, 1, failures.n)
	})

	t.Run("missing identifier", func(t *testing.T) {
		failures := &countingFailures{}
		rr := serve(t, "POST /auth/login", newAuthController(&fakeAuthService{}, failures).Login,
			newRequest(http.MethodPost, "/auth/login", `{"password":"x"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []string{"identifier"}, errorFields(decodeEnvelope(t, rr)))
		assert.Zero(t, failures.n)
	})
}

func TestAuthController_ForgotPassword_SameAnswerForUnknownEmail(t *testing.T) {
	svc := &fakeAuthService{}
	rr := serve(t, "POST /auth/forgot-password", newAuthController(svc, nil).ForgotPassword,
		newRequest(http.MethodPost, "/auth/forgot-password", `{"email":"Nobody@Campus.edu"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "if that email is registered, a reset link has been sent", decodeEnvelope(t, rr).Message)
	assert.Equal(t, "nobody@campus.edu", svc.forgotEmail)
}

func TestAuthController_ResetPassword_ExpiredToken(t *testing.T) {
	svc := &fakeAuthService{err: domain.ErrTokenExpired}
	rr := serve(t, "POST /auth/reset-password", newAuthController(svc, nil).ResetPassword,
		newRequest(http.MethodPost, "/auth/reset-password", `{"token":"abc","new_password":"newsecret1"}`))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "token expired", decodeEnvelope(t, rr).Message)
	assert.Equal(t, "abc", svc.resetToken)
}

func TestAuthController_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		claims     bool
		wantStatus int
		wantMsg    string
	}{
		{name: "changed", body: `{"current_password":"oldsecret","new_password":"newsecret1"}`, claims: true, wantStatus: http.StatusOK},
		{name: "wrong current", body: `{"current_password":"oldsecret","new_password":"newsecret1"}`, claims: true, svcErr: domain.ErrWrongPassword, wantStatus: http.StatusBadRequest, wantMsg: "current password is incorrect"},
		{name: "same password", body: `{"current_password":"samesecret","new_password":"samesecret"}`, claims: true, wantStatus: http.StatusBadRequest, wantMsg: "validation failed"},
		{name: "no claims", body: `{"current_password":"oldsecret","new_password":"newsecret1"}`, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{err: tt.svcErr}
			req := newRequest(http.MethodPost, "/auth/change-password", tt.body)
			if tt.claims {
				req = withClaims(req, adminID, domain.RoleAdmin)
			}
			rr := serve(t, "POST /auth/change-password", newAuthController(svc, nil).ChangePassword, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rr).Message)
			}
		})
	}
}

func TestAuthController_UpdateProfile_RequiresAField(t *testing.T) {
	req := withClaims(newRequest(http.MethodPut, "/auth/profile", `{}`), adminID, domain.RoleAdmin)
	rr := serve(t, "PUT /auth/profile", newAuthController(&fakeAuthService{}, nil).UpdateProfile, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"body"}, errorFields(decodeEnvelope(t, rr)))
}

func TestAuthController_GetProfile_NotFound(t *testing.T) {
	req := withClaims(newRequest(http.MethodGet, "/auth/profile", ""), adminID, domain.RoleAdmin)
	rr := serve(t, "GET /auth/profile", newAuthController(&fakeAuthService{err: domain.ErrNotFound}, nil).GetProfile, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "admin not found", decodeEnvelope(t, rr).Message)
}

func TestAuthController_Validate(t *testing.T) {
	req := withClaims(newRequest(http.MethodGet, "/auth/validate", ""), adminID, domain.RoleSuperAdmin)
	rr := serve(t, "GET /auth/validate", newAuthController(&fakeAuthService{}, nil).Validate, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"valid":true,"claims":{"admin_id":"`+adminID+`","username":"tester","email":"","role":"super_admin","kind":"access","expires_at":"0001-01-01T00:00:00Z"}}`,
		string(decodeEnvelope(t, rr).Data))
}

func TestAuthController_SetActive(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		path       string
		pattern    string
		active     bool
		wantStatus int
		wantMsg    string
	}{
		{name: "deactivate other", target: otherAdminID, pattern: "POST /auth/admins/{id}/deactivate", path: "/deactivate", wantStatus: http.StatusOK, wantMsg: "admin deactivated"},
		{name: "deactivate self", target: adminID, pattern: "POST /auth/admins/{id}/deactivate", path: "/deactivate", wantStatus: http.StatusBadRequest, wantMsg: "you cannot deactivate your own account"},
		{name: "activate self", target: adminID, pattern: "POST /auth/admins/{id}/activate", path: "/activate", active: true, wantStatus: http.StatusOK, wantMsg: "admin activated"},
		{name: "bad id", target: "42", pattern: "POST /auth/admins/{id}/deactivate", path: "/deactivate", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{}
			c := newAuthController(svc, nil)
			handler := c.DeactivateAdmin
			if tt.active {
				handler = c.ActivateAdmin
			}
			req := withClaims(newRequest(http.MethodPost, "/auth/admins/"+tt.target+tt.path, ""), adminID, domain.RoleSuperAdmin)
			rr := serve(t, tt.pattern, handler, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rr).Message)
				assert.Equal(t, tt.active, svc.lastActive)
			}
		})
	}
}

func TestAuthController_ListAdmins(t *testing.T) {
	svc := &fakeAuthService{admins: []*domain.Admin{{ID: adminID, Role: domain.RoleAdmin}}, total: 21}
	req := newRequest(http.MethodGet, "/auth/admins?role=admin&active=true&page=2&page_size=20", "")
	rr := serve(t, "GET /auth/admins", newAuthController(svc, nil).ListAdmins, req)

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.TotalPages)
	assert.Equal(t, domain.RoleAdmin, svc.lastFilter.Role)
	require.NotNil(t, svc.lastFilter.Active)
	assert.True(t, *svc.lastFilter.Active)

	rr = serve(t, "GET /auth/admins", newAuthController(svc, nil).ListAdmins, newRequest(http.MethodGet, "/auth/admins?role=owner", ""))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"role"}, errorFields(decodeEnvelope(t, rr)))
}
