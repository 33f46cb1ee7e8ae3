package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

const tokenIssuer = "storefront"

type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService signs and verifies access and refresh tokens. Each kind has its
// own secret so a leaked access secret cannot mint refresh tokens.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

type tokenClaims struct {
	Role domain.Role      `json:"role,omitempty"`
	Kind domain.TokenKind `json:"type"`
	jwt.RegisteredClaims
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

func (s *TokenService) IssueAccessToken(userID uuid.UUID, role domain.Role) (string, domain.Claims, error) {
	return s.issue(userID, role, domain.TokenAccess, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

// IssueRefreshToken carries no role so that a refresh always re-reads it from the store.
func (s *TokenService) IssueRefreshToken(userID uuid.UUID) (string, domain.Claims, error) {
	return s.issue(userID, "", domain.TokenRefresh, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

func (s *TokenService) VerifyAccessToken(token string) (domain.Claims, error) {
	return s.verify(token, domain.TokenAccess, s.cfg.AccessSecret)
}

func (s *TokenService) VerifyRefreshToken(token string) (domain.Claims, error) {
	return s.verify(token, domain.TokenRefresh, s.cfg.RefreshSecret)
}

func (s *TokenService) issue(userID uuid.UUID, role domain.Role, kind domain.TokenKind, secret []byte, ttl time.Duration) (string, domain.Claims, error) {
	now := s.now()
	claims := tokenClaims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, claims.toDomain(userID), nil
}

func (s *TokenService) verify(token string, kind domain.TokenKind, secret []byte) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, domain.ErrMissingToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)

	claims := &tokenClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	if claims.Kind != kind {
		return domain.Claims{}, fmt.Errorf("%w: expected %s token, got %q", domain.ErrInvalidSignature, kind, claims.Kind)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: bad subject", domain.ErrInvalidSignature)
	}

	return claims.toDomain(subject), nil
}

func (c tokenClaims) toDomain(subject uuid.UUID) domain.Claims {
	out := domain.Claims{
		ID:      c.ID,
		Subject: subject,
		Role:    c.Role,
		Kind:    c.Kind,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
