package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Admin is a dashboard account.
// swagger:model Admin
type Admin struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name,omitempty"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AdminParams holds the caller-supplied fields of a new admin account.
type AdminParams struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     Role
}

// MinPasswordLen applies to registration, password change and reset.
const MinPasswordLen = 8

// NewAdmin validates p and returns an active Admin without credentials; the
// caller sets PasswordHash and Salt. An empty role defaults to admin.
func NewAdmin(p AdminParams, now time.Time) (*Admin, error) {
	a := &Admin{
		Username:  strings.TrimSpace(p.Username),
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FullName:  strings.TrimSpace(p.FullName),
		Role:      p.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	var ck checker
	if !IsUsername(a.Username) {
		ck.add("username", "must be 3-20 letters, digits or underscores")
	}
	ck.email("email", a.Email)
	if len(p.Password) < MinPasswordLen {
		ck.add("password", "must be at least 8 characters")
	}
	if !a.Role.Valid() {
		ck.add("role", "must be admin or super_admin")
	}
	if err := ck.err(); err != nil {
		return nil, err
	}
	return a, nil
}

// IsSuperAdmin reports whether the account holds the super_admin role.
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// AdminProfileUpdate holds the profile fields an admin may change about themselves.
type AdminProfileUpdate struct {
	Email    *string
	FullName *string
}

// AdminFilter narrows admin list queries.
type AdminFilter struct {
	Role       Role
	Active     *bool
	Pagination PaginationParams
}

// AdminRepository defines storage operations for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id string) (*Admin, error)
	// GetByIdentifier looks an admin up by email or username.
	GetByIdentifier(ctx context.Context, identifier string) (*Admin, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, f AdminFilter) ([]*Admin, error)
	Count(ctx context.Context, f AdminFilter) (int, error)
	Update(ctx context.Context, a *Admin) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// AuthResult is returned by register, login and refresh.
// swagger:model AuthResult
type AuthResult struct {
	Admin        *Admin `json:"admin"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService defines authentication and admin account operations.
type AuthService interface {
	Register(ctx context.Context, p AdminParams) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	GetProfile(ctx context.Context, adminID string) (*Admin, error)
	UpdateProfile(ctx context.Context, adminID string, u AdminProfileUpdate) (*Admin, error)
	ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	ListAdmins(ctx context.Context, f AdminFilter) ([]*Admin, int, error)
	SetAdminActive(ctx context.Context, actorID, targetID string, active bool) (*Admin, error)
}
