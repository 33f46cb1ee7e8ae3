package services

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

var testTokenConfig = TokenConfig{
	AccessSecret:  []byte(strings.Repeat("a", 32)),
	RefreshSecret: []byte(strings.Repeat("r", 32)),
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := NewTokenService(testTokenConfig)
	userID := uuid.New()

	token, issued, err := svc.IssueAccessToken(userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenAccess, issued.Kind)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 2*time.Second)
}

func TestTokenService_RefreshCarriesNoRole(t *testing.T) {
	svc := NewTokenService(testTokenConfig)
	userID := uuid.New()

	token, _, err := svc.IssueRefreshToken(userID)
	require.NoError(t, err)

	claims, err := svc.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, domain.Role(""), claims.Role)
	assert.Equal(t, domain.TokenRefresh, claims.Kind)

	unverified := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, unverified)
	require.NoError(t, err)
	_, hasRole := unverified["role"]
	assert.False(t, hasRole)
}

func TestTokenService_KindsAreNotInterchangeable(t *testing.T) {
	svc := NewTokenService(testTokenConfig)
	userID := uuid.New()

	access, _, err := svc.IssueAccessToken(userID, domain.RoleUser)
	require.NoError(t, err)
	refresh, _, err := svc.IssueRefreshToken(userID)
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestTokenService_KindClaimChecked(t *testing.T) {
	svc := NewTokenService(testTokenConfig)

	claims := tokenClaims{
		Kind: domain.TokenRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testTokenConfig.AccessSecret)
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	past := NewTokenService(testTokenConfig).WithClock(func() time.Time { return issuedAt })

	token, _, err := past.IssueAccessToken(uuid.New(), domain.RoleUser)
	require.NoError(t, err)

	_, err = NewTokenService(testTokenConfig).VerifyAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestTokenService_WrongSecret(t *testing.T) {
	other := testTokenConfig
	other.AccessSecret = []byte(strings.Repeat("x", 32))

	token, _, err := NewTokenService(other).IssueAccessToken(uuid.New(), domain.RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenService(testTokenConfig).VerifyAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	claims := tokenClaims{
		Role: domain.RoleAdmin,
		Kind: domain.TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testTokenConfig).VerifyAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestTokenService_MalformedAndEmpty(t *testing.T) {
	svc := NewTokenService(testTokenConfig)

	_, err := svc.VerifyAccessToken("")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = svc.VerifyAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestTokenService_SignatureBitFlipsRejected(t *testing.T) {
	svc := NewTokenService(testTokenConfig)
	token, _, err := svc.IssueAccessToken(uuid.New(), domain.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := 0; i < len(sig)*8; i++ {
		mutated := append([]byte(nil), sig...)
		mutated[i/8] ^= 1 << (i % 8)
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(mutated)

		_, err := svc.VerifyAccessToken(tampered)
		if !errors.Is(err, domain.ErrInvalidSignature) {
			t.Fatalf("bit %d: expected invalid signature, got %v", i, err)
		}
	}
}
