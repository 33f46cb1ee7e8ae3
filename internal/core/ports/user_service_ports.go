package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

// UpdateProfileInput carries optional fields; nil leaves the stored value untouched.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	PhotoURL *string
	Phone    *string
	Address  *string
}

type ListUsersInput struct {
	Page  int
	Limit int
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*domain.User, error)
	List(ctx context.Context, input ListUsersInput) ([]*domain.User, error)
}
