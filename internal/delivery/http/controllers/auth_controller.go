package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	"campusevents/internal/validation"
)

// LoginFailureRecorder counts rejected logins.
type LoginFailureRecorder interface {
	IncrementLoginFailures()
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

// Normalize implements helpers.Normalizer.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

// LoginRequest is the request body for POST /auth/login. Identifier is an email or a username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=254"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

// Normalize implements helpers.Normalizer. Email is accepted as an alias of identifier.
func (l *LoginRequest) Normalize() {
	l.Identifier = strings.TrimSpace(l.Identifier)
	l.Email = strings.TrimSpace(l.Email)
	if l.Identifier == "" {
		l.Identifier = l.Email
	}
}

// RefreshRequest is the request body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest is the request body for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Normalize implements helpers.Normalizer.
func (f *ForgotPasswordRequest) Normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

// ResetPasswordRequest is the request body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// UpdateProfileRequest is the request body for PUT /auth/profile.
type UpdateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

// Normalize implements helpers.Normalizer.
func (u *UpdateProfileRequest) Normalize() {
	if u.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*u.Email))
		u.Email = &e
	}
	if u.FullName != nil {
		n := strings.TrimSpace(*u.FullName)
		u.FullName = &n
	}
}

// Validate implements helpers.Validator.
func (u *UpdateProfileRequest) Validate() []domain.FieldError {
	return validation.RequireAny(u)
}

// ChangePasswordRequest is the request body for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// Validate implements helpers.Validator.
func (c *ChangePasswordRequest) Validate() []domain.FieldError {
	if c.CurrentPassword != "" && c.CurrentPassword == c.NewPassword {
		return []domain.FieldError{{Field: "new_password", Message: "must differ from current_password"}}
	}
	return nil
}

// TokenInfo is the data payload of GET /auth/validate.
type TokenInfo struct {
	Valid  bool                `json:"valid"`
	Claims *domain.TokenClaims `json:"claims"`
}

type AuthController struct {
	Logger   *slog.Logger
	Service  domain.AuthService
	Verifier domain.TokenVerifier
	Failures LoginFailureRecorder
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService, verifier domain.TokenVerifier, failures LoginFailureRecorder) *AuthController {
	return &AuthController{
		Logger:   logger,
		Service:  svc,
		Verifier: verifier,
		Failures: failures,
	}
}

// Register godoc
// @Summary Register an admin account
// @Description Creates an admin and returns an access/refresh token pair. Creating a super_admin requires the bearer token of an existing super_admin.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account data"
// @Success 201 {object} helpers.SuccessResponse "data is an AuthResult"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 403 {object} helpers.ErrorResponse "super_admin creation without a super_admin token"
// @Failure 409 {object} helpers.ErrorResponse "username or email already exists"
// @Failure 429 {object} helpers.ErrorResponse "too many requests"
// @Router /api/auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if domain.Role(req.Role) == domain.RoleSuperAdmin && !c.callerIsSuperAdmin(r) {
		h.WriteJSONError(w, http.StatusForbidden, "only a super_admin can create another super_admin", nil)
		return
	}
	res, err := c.Service.Register(r.Context(), domain.AdminParams{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "admin registered successfully", res)
}

func (c *AuthController) callerIsSuperAdmin(r *http.Request) bool {
	token, problem := middleware.BearerToken(r)
	if problem != "" {
		return false
	}
	claims, err := c.Verifier.Verify(token, domain.TokenAccess)
	return err == nil && claims.Role == domain.RoleSuperAdmin
}

// Login godoc
// @Summary Log in
// @Description Authenticates with an email or username and a password. Unknown accounts, wrong passwords and deactivated accounts all yield the same 401.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} helpers.SuccessResponse "data is an AuthResult"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 401 {object} helpers.ErrorResponse "invalid credentials"
// @Failure 429 {object} helpers.ErrorResponse "too many requests"
// @Router /api/auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if c.Failures != nil {
				c.Failures.IncrementLoginFailures()
			}
			c.Logger.WarnContext(r.Context(), "login rejected", "ip", middleware.ClientIP(r))
		}
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "login successful", res)
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Exchanges a refresh token for a new access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} helpers.SuccessResponse "data is an AuthResult"
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 401 {object} helpers.ErrorResponse "token expired or invalid token"
// @Router /api/auth/refresh [post]
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "token refreshed", res)
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always answers with the same message. When the email belongs to an active admin a reset token is emailed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Account email"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Router /api/auth/forgot-password [post]
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "if that email is registered, a reset link has been sent", nil)
}

// ResetPassword godoc
// @Summary Reset a password
// @Description Sets a new password using the token from the reset email.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse "validation failed"
// @Failure 401 {object} helpers.ErrorResponse "token expired or invalid token"
// @Router /api/auth/reset-password [post]
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "password has been reset", nil)
}

// GetProfile godoc
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.SuccessResponse "data is an Admin"
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/auth/profile [get]
func (c *AuthController) GetProfile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized, nil)
		return
	}
	admin, err := c.Service.GetProfile(r.Context(), adminID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "admin not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "profile retrieved", admin)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Admin"
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse "email already in use"
// @Router /api/auth/profile [put]
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized, nil)
		return
	}
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	admin, err := c.Service.UpdateProfile(r.Context(), adminID, domain.AdminProfileUpdate{Email: req.Email, FullName: req.FullName})
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "admin not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "profile updated", admin)
}

// ChangePassword godoc
// @Summary Change own password
// @Description Requires the current password.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse "validation failed or current password is incorrect"
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/change-password [post]
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized, nil)
		return
	}
	var req ChangePasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ChangePassword(r.Context(), adminID, req.CurrentPassword, req.NewPassword); err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "admin not found"))
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "password changed successfully", nil)
}

// Validate godoc
// @Summary Validate the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.SuccessResponse "data is a TokenInfo"
// @Failure 401 {object} helpers.ErrorResponse "token expired or invalid token"
// @Router /api/auth/validate [get]
func (c *AuthController) Validate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized, nil)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "token is valid", TokenInfo{Valid: true, Claims: claims})
}

// Logout godoc
// @Summary Log out
// @Description Tokens are stateless; the client discards them. The call only confirms the token was valid.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.SuccessResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if adminID, ok := middleware.AdminIDFromContext(r.Context()); ok {
		c.Logger.InfoContext(r.Context(), "admin logged out", "admin_id", adminID)
	}
	h.WriteJSONSuccess(w, http.StatusOK, "logged out successfully", nil)
}

// ListAdmins godoc
// @Summary List admin accounts
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param role query string false "admin or super_admin"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.SuccessResponse "data is a list of Admin"
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse "caller is not a super_admin"
// @Router /api/auth/admins [get]
func (c *AuthController) ListAdmins(w http.ResponseWriter, r *http.Request) {
	q := h.NewQuery(r)
	f := domain.AdminFilter{
		Role:       domain.Role(q.Enum("role", func(s string) bool { return domain.Role(s).Valid() }, "admin, super_admin")),
		Active:     q.Bool("active"),
		Pagination: q.Pagination(),
	}
	if errs := q.Errors(); len(errs) > 0 {
		h.WriteValidationError(w, errs)
		return
	}
	items, total, err := c.Service.ListAdmins(r.Context(), f)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Admin{}
	}
	h.WriteJSONPage(w, "admins retrieved", items, h.NewPaginationMeta(f.Pagination, total))
}

// ActivateAdmin godoc
// @Summary Activate an admin account
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Admin"
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/auth/admins/{id}/activate [post]
func (c *AuthController) ActivateAdmin(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, true)
}

// DeactivateAdmin godoc
// @Summary Deactivate an admin account
// @Description A super_admin cannot deactivate their own account.
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path string true "Admin ID (UUID)"
// @Success 200 {object} helpers.SuccessResponse "data is the updated Admin"
// @Failure 400 {object} helpers.ErrorResponse "self-deactivation"
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/auth/admins/{id}/deactivate [post]
func (c *AuthController) DeactivateAdmin(w http.ResponseWriter, r *http.Request) {
	c.setActive(w, r, false)
}

func (c *AuthController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	actorID, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized, nil)
		return
	}
	targetID, ok := h.PathUUID(w, r, "id")
	if !ok {
		return
	}
	admin, err := c.Service.SetAdminActive(r.Context(), actorID, targetID, active)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, h.NotFoundAs(err, "admin not found"))
		return
	}
	msg := "admin deactivated"
	if active {
		msg = "admin activated"
	}
	h.WriteJSONSuccess(w, http.StatusOK, msg, admin)
}
