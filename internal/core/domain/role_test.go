package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	r, err = ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCanAssignRole(t *testing.T) {
	tests := []struct {
		requester Role
		requested Role
		want      bool
	}{
		{RoleAnonymous, RoleUser, true},
		{RoleUser, RoleUser, true},
		{RoleAdmin, RoleUser, true},
		{RoleAnonymous, RoleAdmin, false},
		{RoleUser, RoleAdmin, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, Role("root"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.requester)+"->"+string(tt.requested), func(t *testing.T) {
			assert.Equal(t, tt.want, CanAssignRole(tt.requester, tt.requested))
		})
	}
}

func TestPublicOmitsPasswordHash(t *testing.T) {
	u := &User{Name: "A", Email: "a@x.com", PasswordHash: "$2a$10$secret", Role: RoleUser}
	p := u.Public()
	assert.Equal(t, "a@x.com", p.Email)
	assert.Equal(t, RoleUser, p.Role)
}

func TestTokenErrorsAreUnauthenticated(t *testing.T) {
	for _, err := range []error{ErrInvalidSignature, ErrTokenExpired, ErrTokenRevoked, ErrMissingToken, ErrIdentityGone} {
		assert.True(t, errors.Is(err, ErrUnauthenticated), err.Error())
	}
	assert.True(t, errors.Is(ErrEmailTaken, ErrConflict))
	assert.True(t, errors.Is(ErrUserNotFound, ErrNotFound))
}
