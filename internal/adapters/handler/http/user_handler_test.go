package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

func TestUpdateMe(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	user, token := srv.seed(t, "ana@example.com", domain.RoleUser)
	srv.seed(t, "taken@example.com", domain.RoleUser)

	t.Run("updates the profile", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodPatch, path: "/api/users/me", bearer: token, body: map[string]string{
			"name":      "Ana Maria",
			"phone":     "555-0199",
			"photo_url": "https://cdn.example.com/ana.png",
		}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[userResponse](t, rec)
		assert.Equal(t, user.ID, body.User.ID)
		assert.Equal(t, "Ana Maria", body.User.Name)
		assert.Equal(t, "555-0199", body.User.Phone)
		assert.Equal(t, "ana@example.com", body.User.Email)
	})

	t.Run("email conflict", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodPatch, path: "/api/users/me", bearer: token, body: map[string]string{
			"email": "Taken@example.com",
		}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already in use", decode[errorBody](t, rec).Message)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodPatch, path: "/api/users/me", bearer: token, body: map[string]string{
			"name": "",
		}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[errorBody](t, rec).Errors, "name")
	})

	t.Run("requires a session", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodPatch, path: "/api/users/me", body: map[string]string{"name": "X"}})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListUsers(t *testing.T) {
	srv := newTestServer(t, serverOptions{})
	_, adminToken := srv.seed(t, "admin@example.com", domain.RoleAdmin)
	_, userToken := srv.seed(t, "user@example.com", domain.RoleUser)
	for i := range 3 {
		srv.seed(t, fmt.Sprintf("u%d@example.com", i), domain.RoleUser)
	}

	t.Run("admin pages through users", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users?page=2&limit=2", bearer: adminToken})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[usersResponse](t, rec)
		assert.Equal(t, 2, body.Count)
		assert.Equal(t, 2, body.Page)
		assert.Equal(t, "u0@example.com", body.Users[0].Email)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("bad paging", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users?limit=abc", bearer: adminToken})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users", bearer: userToken})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetUser(t *testing.T) {
	srv := newTestServer(t, serverOptions{production: true})
	_, adminToken := srv.seed(t, "admin@example.com", domain.RoleAdmin)
	member, _ := srv.seed(t, "user@example.com", domain.RoleUser)

	t.Run("found", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users/" + member.ID.String(), bearer: adminToken})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, member.ID, decode[userResponse](t, rec).User.ID)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users/not-a-uuid", bearer: adminToken})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("absent", func(t *testing.T) {
		rec := srv.do(t, request{method: http.MethodGet, path: "/api/users/" + uuid.NewString(), bearer: adminToken})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decode[errorBody](t, rec)
		assert.Empty(t, body.Error, "production responses carry no error detail")
	})
}
