package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

// UserRepository is the credential store. Lookups return nil, nil when nothing matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}
