package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

// MockUserRepository implements ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

// memoryRevocations records revocations only when enabled, mirroring the
// no-op store used when revocation is switched off.
type memoryRevocations struct {
	enabled bool
	mu      sync.Mutex
	ids     map[string]time.Duration
}

func newMemoryRevocations(enabled bool) *memoryRevocations {
	return &memoryRevocations{enabled: enabled, ids: map[string]time.Duration{}}
}

func (s *memoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if !s.enabled {
		return true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[tokenID]; ok {
		return false, nil
	}
	s.ids[tokenID] = ttl
	return true, nil
}
