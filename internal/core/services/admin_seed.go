package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
)

// SeedAdmin creates an admin directly in the store, bypassing the role
// assignment rule. It reports false when the email is already registered,
// whatever that user's role is.
func SeedAdmin(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, input ports.RegisterInput) (bool, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := hasher.Hash(input.Password)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	return true, nil
}
