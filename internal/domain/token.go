package domain

import "time"

// TokenKind distinguishes the purposes a signed token can serve.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
	TokenReset   TokenKind = "reset"
)

// TokenClaims is the identity carried by a token and attached to authenticated requests.
type TokenClaims struct {
	AdminID   string    `json:"admin_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Kind      TokenKind `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ClaimsFor builds token claims for an admin.
func ClaimsFor(a *Admin, kind TokenKind) TokenClaims {
	return TokenClaims{
		AdminID:  a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		Kind:     kind,
	}
}

// TokenIssuer signs tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims) (token string, err error)
	TTL(kind TokenKind) time.Duration
}

// TokenVerifier checks a token of the expected kind. It returns ErrTokenExpired
// for expired tokens and ErrTokenInvalid for anything else that fails.
type TokenVerifier interface {
	Verify(token string, kind TokenKind) (*TokenClaims, error)
}

// TokenManager both signs and verifies tokens.
type TokenManager interface {
	TokenIssuer
	TokenVerifier
}
