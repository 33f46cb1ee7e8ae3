package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "storefront-dummy-password"

type AuthService struct {
	userRepo    ports.UserRepository
	tokens      ports.TokenIssuer
	hasher      ports.PasswordHasher
	revocations ports.RevocationStore
	logger      *slog.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo ports.UserRepository, tokens ports.TokenIssuer, hasher ports.PasswordHasher, revocations ports.RevocationStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		hasher:      hasher,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.Session, error) {
	email := NormalizeEmail(input.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	if role != domain.RoleUser {
		if err := s.authorizeRoleAssignment(ctx, input.RequesterToken, role); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Profile:      input.Profile,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()), slog.String("role", string(user.Role)))

	return s.newSession(user)
}

// authorizeRoleAssignment resolves the requester from its access token and
// applies domain.CanAssignRole. A requester without a usable token is reported
// as both unauthorized and unauthenticated.
func (s *AuthService) authorizeRoleAssignment(ctx context.Context, requesterToken string, requested domain.Role) error {
	requester, err := s.Authenticate(ctx, requesterToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return err
	}

	if !domain.CanAssignRole(requester.Role, requested) {
		s.logger.WarnContext(ctx, "role escalation denied",
			slog.String("requester_id", requester.ID.String()),
			slog.String("requested_role", string(requested)),
		)
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		_ = s.hasher.Compare(s.dummyPasswordHash(), input.Password)
		s.logger.DebugContext(ctx, "login failed", slog.String("reason", "unknown email"))
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.ErrorContext(ctx, "password comparison failed", slog.String("user_id", user.ID.String()), slog.Any("error", err))
		}
		s.logger.DebugContext(ctx, "login failed", slog.String("reason", "password mismatch"), slog.String("user_id", user.ID.String()))
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.Session, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrIdentityGone
	}

	// Consuming the token before issuing makes concurrent refreshes with the
	// same token race on the store; only one of them wins.
	consumed, err := s.consume(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, domain.ErrTokenRevoked
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "refresh token rotated", slog.String("user_id", user.ID.String()))

	return session, nil
}

// Logout revokes the refresh token when it still verifies. An absent or
// invalid token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	_, err = s.consume(ctx, claims)
	return err
}

// Authenticate verifies an access token and loads the identity it names.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrIdentityGone
	}
	return user, nil
}

// consume revokes the refresh token and reports whether this call was the
// one that did it.
func (s *AuthService) consume(ctx context.Context, claims domain.Claims) (bool, error) {
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return true, nil
	}
	first, err := s.revocations.Revoke(ctx, claims.ID, ttl)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return first, nil
}

func (s *AuthService) newSession(user *domain.User) (*ports.Session, error) {
	accessToken, accessClaims, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshClaims, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &ports.Session{
		User: user,
		Tokens: domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			Access:       accessClaims,
			Refresh:      refreshClaims,
		},
	}, nil
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Error("failed to prepare dummy password hash", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
