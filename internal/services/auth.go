package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusevents/internal/domain"
)

const tokenTypeBearer = "Bearer"

type authService struct {
	admins domain.AdminRepository
	hasher domain.PasswordHasher
	tokens domain.TokenManager
	emails domain.EmailService
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService. emails may be nil, in which case no
// welcome or reset emails are sent.
func NewAuthService(admins domain.AdminRepository, hasher domain.PasswordHasher, tokens domain.TokenManager, emails domain.EmailService, logger *slog.Logger) domain.AuthService {
	return &authService{
		admins: admins,
		hasher: hasher,
		tokens: tokens,
		emails: emails,
		logger: logger,
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, p domain.AdminParams) (*domain.AuthResult, error) {
	admin, err := domain.NewAdmin(p, s.now())
	if err != nil {
		return nil, err
	}
	exists, err := s.admins.ExistsByUsernameOrEmail(ctx, admin.Username, admin.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateAdmin
	}
	if err := s.setPassword(admin, p.Password); err != nil {
		return nil, err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	if s.emails != nil {
		data := &domain.WelcomeEmailData{Email: admin.Email, Username: admin.Username}
		if err := s.emails.SendWelcome(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email not sent", "admin_id", admin.ID, "err", err)
		}
	}
	return s.issue(admin)
}

// Login accepts an email or a username. Every failure that depends on the
// account, including a deactivated one, is reported as ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	admin, err := s.admins.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		return nil, err
	}
	admin.LastLogin = &now
	return s.issue(admin)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}
	admin, err := s.admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return s.issue(admin)
}

func (s *authService) GetProfile(ctx context.Context, adminID string) (*domain.Admin, error) {
	return s.admins.GetByID(ctx, adminID)
}

func (s *authService) UpdateProfile(ctx context.Context, adminID string, u domain.AdminProfileUpdate) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		if !domain.IsEmail(email) {
			return nil, domain.NewValidationError([]domain.FieldError{{Field: "email", Message: "must be a valid email address"}})
		}
		admin.Email = email
	}
	if u.FullName != nil {
		admin.FullName = strings.TrimSpace(*u.FullName)
	}
	admin.UpdatedAt = s.now()
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *authService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, currentPassword); err != nil {
		return domain.ErrWrongPassword
	}
	if err := checkPassword("new_password", newPassword); err != nil {
		return err
	}
	if err := s.setPassword(admin, newPassword); err != nil {
		return err
	}
	admin.UpdatedAt = s.now()
	return s.admins.Update(ctx, admin)
}

// ForgotPassword emails a reset token when email belongs to an active admin.
// It returns nil for unknown or inactive accounts so callers cannot probe for them.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := s.admins.GetByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !admin.IsActive || admin.Email != email {
		return nil
	}
	token, err := s.tokens.Issue(domain.ClaimsFor(admin, domain.TokenReset))
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}
	if s.emails == nil {
		return nil
	}
	data := &domain.PasswordResetEmailData{
		Email:            admin.Email,
		Username:         admin.Username,
		Token:            token,
		ExpiresInMinutes: int(s.tokens.TTL(domain.TokenReset).Minutes()),
	}
	if err := s.emails.SendPasswordReset(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "password reset email not sent", "admin_id", admin.ID, "err", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Verify(resetToken, domain.TokenReset)
	if err != nil {
		return err
	}
	if err := checkPassword("new_password", newPassword); err != nil {
		return err
	}
	admin, err := s.admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	if !admin.IsActive {
		return domain.ErrTokenInvalid
	}
	if err := s.setPassword(admin, newPassword); err != nil {
		return err
	}
	admin.UpdatedAt = s.now()
	return s.admins.Update(ctx, admin)
}

func (s *authService) ListAdmins(ctx context.Context, f domain.AdminFilter) ([]*domain.Admin, int, error) {
	items, err := s.admins.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.admins.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *authService) SetAdminActive(ctx context.Context, actorID, targetID string, active bool) (*domain.Admin, error) {
	if !active && actorID == targetID {
		return nil, domain.ErrSelfDeactivation
	}
	admin, err := s.admins.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	admin.IsActive = active
	admin.UpdatedAt = s.now()
	if err := s.admins.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *authService) setPassword(admin *domain.Admin, password string) error {
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Salt = salt
	admin.PasswordHash = hash
	return nil
}

func (s *authService) issue(admin *domain.Admin) (*domain.AuthResult, error) {
	access, err := s.tokens.Issue(domain.ClaimsFor(admin, domain.TokenAccess))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := s.tokens.Issue(domain.ClaimsFor(admin, domain.TokenRefresh))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &domain.AuthResult{
		Admin:        admin,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.tokens.TTL(domain.TokenAccess).Seconds()),
	}, nil
}

func checkPassword(field, password string) error {
	if len(password) < domain.MinPasswordLen {
		return domain.NewValidationError([]domain.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", domain.MinPasswordLen),
		}})
	}
	return nil
}
