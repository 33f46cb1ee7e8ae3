package domain

import (
	"time"

	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims is the verified content of an access or refresh token.
// Role is empty for refresh tokens.
type Claims struct {
	ID        string
	Subject   uuid.UUID
	Role      Role
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is what a successful register, login or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Access       Claims
	Refresh      Claims
}
