package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdmin(t *testing.T) {
	repo := memory.NewUserRepository()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	ctx := context.Background()
	input := ports.RegisterInput{Name: " Root ", Email: "Root@Example.com", Password: "secret123"}

	created, err := SeedAdmin(ctx, repo, hasher, input)
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := repo.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "Root", admin.Name)
	assert.NoError(t, hasher.Compare(admin.PasswordHash, "secret123"))

	created, err = SeedAdmin(ctx, repo, hasher, input)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedAdmin_AdminCanRegisterAdmins(t *testing.T) {
	repo := memory.NewUserRepository()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	ctx := context.Background()

	_, err := SeedAdmin(ctx, repo, hasher, ports.RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)

	svc := NewAuthService(repo, NewTokenService(testTokenConfig), hasher, newMemoryRevocations(false), nil)
	session, err := svc.Login(ctx, ports.LoginInput{Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)

	second, err := svc.Register(ctx, ports.RegisterInput{
		Name:           "Second",
		Email:          "second@example.com",
		Password:       "secret123",
		Role:           domain.RoleAdmin,
		RequesterToken: session.Tokens.AccessToken,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, second.User.Role)
}

func TestSeedAdmin_Errors(t *testing.T) {
	ctx := context.Background()
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := SeedAdmin(ctx, memory.NewUserRepository(), hasher, ports.RegisterInput{Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = SeedAdmin(ctx, memory.NewUserRepository(), hasher, ports.RegisterInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	repo := new(MockUserRepository)
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)

	created, err := SeedAdmin(ctx, repo, hasher, ports.RegisterInput{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.False(t, created)
	repo.AssertExpectations(t)
}

func TestSeedAdmin_PasswordTooLong(t *testing.T) {
	repo := memory.NewUserRepository()
	input := ports.RegisterInput{Email: "root@example.com", Password: strings.Repeat("p", 73)}

	created, err := SeedAdmin(context.Background(), repo, NewBcryptHasher(bcrypt.MinCost), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, created)
	admin, err := repo.GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Nil(t, admin)
}
