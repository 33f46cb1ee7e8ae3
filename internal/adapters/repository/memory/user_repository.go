// Package memory is a process-local credential store used by tests and by
// DATABASE_URL=memory:// for local runs. Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]domain.User
	byEmail map[string]uuid.UUID
	order   []uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[uuid.UUID]domain.User{},
		byEmail: map[string]uuid.UUID{},
	}
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailTaken
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return domain.ErrEmailTaken
	}

	// The password hash is not updatable through this path.
	next := *user
	next.PasswordHash = current.PasswordHash
	next.CreatedAt = current.CreatedAt

	delete(r.byEmail, current.Email)
	r.byEmail[next.Email] = next.ID
	r.byID[next.ID] = next
	return nil
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []*domain.User{}
	for i := offset; i < len(r.order) && len(users) < limit; i++ {
		u := r.byID[r.order[i]]
		users = append(users, &u)
	}
	return users, nil
}

// Delete removes a user. It is not part of the credential store port and
// exists so callers can simulate an identity disappearing.
func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
