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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type UserService struct {
	repo ports.UserRepository
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := NormalizeEmail(*input.Email)
		if email != user.Email {
			other, err := s.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to get user: %w", err)
			}
			if other != nil {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Profile.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Profile.Address = *input.Address
	}
	// An empty photo URL clears the photo.
	if input.PhotoURL != nil {
		user.Profile.PhotoURL = *input.PhotoURL
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, input ports.ListUsersInput) ([]*domain.User, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := input.Page
	if page < 1 {
		page = 1
	}

	users, err := s.repo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
