package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/storefront/internal/adapters/revocation"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
	"github.com/vncsmyrnk/storefront/internal/core/services"
	"golang.org/x/crypto/bcrypt"
)

var testTokenConfig = services.TokenConfig{
	AccessSecret:  []byte(strings.Repeat("a", 32)),
	RefreshSecret: []byte(strings.Repeat("r", 32)),
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
}

type serverOptions struct {
	revocation bool
	production bool
}

type testServer struct {
	handler http.Handler
	users   *memory.UserRepository
	tokens  *services.TokenService
	hasher  *services.BcryptHasher
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	users := memory.NewUserRepository()
	tokens := services.NewTokenService(testTokenConfig)
	hasher := services.NewBcryptHasher(bcrypt.MinCost)

	var revocations ports.RevocationStore = revocation.NoopStore{}
	if opts.revocation {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		revocations = revocation.NewRedisStore(client)
	}

	authService := services.NewAuthService(users, tokens, hasher, revocations, nil)
	userService := services.NewUserService(users)

	handler := NewHandler(
		NewAuthHandler(authService, CookieConfig{Secure: opts.production}, opts.production, nil),
		NewUserHandler(userService, opts.production, nil),
		NewAuthenticator(authService, opts.production, nil),
		[]string{"http://localhost:5173"},
	)

	return &testServer{handler: handler, users: users, tokens: tokens, hasher: hasher}
}

// seed stores a user directly and returns it with a valid access token.
func (s *testServer) seed(t *testing.T, email string, role domain.Role) (*domain.User, string) {
	t.Helper()

	hash, err := s.hasher.Hash("secret123")
	require.NoError(t, err)

	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Seeded",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.users.Create(context.Background(), user))

	token, _, err := s.tokens.IssueAccessToken(user.ID, role)
	require.NoError(t, err)
	return user, token
}

type request struct {
	method  string
	path    string
	body    any
	bearer  string
	cookies []*http.Cookie
}

func (s *testServer) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(req.body))
	}

	r := httptest.NewRequest(req.method, req.path, &body)
	r.Header.Set("Content-Type", "application/json")
	if req.bearer != "" {
		r.Header.Set("Authorization", "Bearer "+req.bearer)
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func sessionCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		if c := cookieNamed(rec, name); c != nil {
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

func refreshCookie(rec *httptest.ResponseRecorder) []*http.Cookie {
	c := cookieNamed(rec, refreshTokenCookie)
	if c == nil {
		return nil
	}
	return []*http.Cookie{{Name: c.Name, Value: c.Value}}
}

type sessionBody struct {
	Success     bool              `json:"success"`
	AccessToken string            `json:"accessToken"`
	User        domain.PublicUser `json:"user"`
}

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func registerBody(email string) map[string]string {
	return map[string]string{"name": "Ana", "email": email, "password": "secret123"}
}
