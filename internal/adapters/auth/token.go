package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campusevents/internal/domain"
)

const (
	issuer = "campusevents"

	// DefaultResetTTL bounds how long a forgot-password link stays usable.
	DefaultResetTTL = 30 * time.Minute
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Role     domain.Role      `json:"role"`
	Kind     domain.TokenKind `json:"kind"`
}

// JWTConfig holds the signing secrets and lifetimes for each token kind.
// An empty RefreshSecret reuses AccessSecret.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

type jwtManager struct {
	keys map[domain.TokenKind][]byte
	ttls map[domain.TokenKind]time.Duration
	now  func() time.Time
}

// NewJWTManager returns a TokenManager that signs HS256 JWTs. Each kind has its
// own key, so a token of one kind never verifies as another.
func NewJWTManager(cfg JWTConfig) domain.TokenManager {
	refresh := cfg.RefreshSecret
	if refresh == "" {
		refresh = cfg.AccessSecret
	}
	resetTTL := cfg.ResetTTL
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	return &jwtManager{
		keys: map[domain.TokenKind][]byte{
			domain.TokenAccess:  []byte(cfg.AccessSecret),
			domain.TokenRefresh: []byte("refresh:" + refresh),
			domain.TokenReset:   []byte("reset:" + cfg.AccessSecret),
		},
		ttls: map[domain.TokenKind]time.Duration{
			domain.TokenAccess:  cfg.AccessTTL,
			domain.TokenRefresh: cfg.RefreshTTL,
			domain.TokenReset:   resetTTL,
		},
		now: time.Now,
	}
}

func (m *jwtManager) TTL(kind domain.TokenKind) time.Duration {
	return m.ttls[kind]
}

func (m *jwtManager) Issue(c domain.TokenClaims) (string, error) {
	key, ok := m.keys[c.Kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", c.Kind)
	}
	now := m.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   c.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttls[c.Kind])),
		},
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
		Kind:     c.Kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *jwtManager) Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error) {
	key, ok := m.keys[kind]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	var claims jwtClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{
		AdminID:   claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
		Kind:      claims.Kind,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
