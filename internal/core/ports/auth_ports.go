package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

// RevocationStore remembers refresh token ids that must no longer be honoured.
type RevocationStore interface {
	// Revoke records tokenID for ttl and reports whether this call added it.
	// false means the id was already revoked.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) (bool, error)
}

type TokenIssuer interface {
	IssueAccessToken(userID uuid.UUID, role domain.Role) (string, domain.Claims, error)
	IssueRefreshToken(userID uuid.UUID) (string, domain.Claims, error)
	VerifyAccessToken(token string) (domain.Claims, error)
	VerifyRefreshToken(token string) (domain.Claims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Profile  domain.Profile
	// RequesterToken is the caller's access token, if any. It is only consulted
	// when Role requires escalation.
	RequesterToken string
}

type LoginInput struct {
	Email    string
	Password string
}

// Session is the result of a successful register, login or refresh.
type Session struct {
	User   *domain.User
	Tokens domain.TokenPair
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}
