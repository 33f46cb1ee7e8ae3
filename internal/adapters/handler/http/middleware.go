package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

type userContextKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user attached by RequireAuth.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*domain.User)
	return user, ok && user != nil
}

// IdentityResolver turns a verified access token into the stored user.
type IdentityResolver interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

type tokenExtractor func(r *http.Request) string

func fromAuthorizationHeader(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func fromCookie(name string) tokenExtractor {
	return func(r *http.Request) string {
		return readCookie(r, name)
	}
}

var accessTokenExtractors = []tokenExtractor{
	fromAuthorizationHeader,
	fromCookie(accessTokenCookie),
}

// accessTokenFrom returns the first token found by the extractor chain.
func accessTokenFrom(r *http.Request) string {
	for _, extract := range accessTokenExtractors {
		if token := extract(r); token != "" {
			return token
		}
	}
	return ""
}

type Authenticator struct {
	identities IdentityResolver
	responder
}

func NewAuthenticator(identities IdentityResolver, production bool, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		identities: identities,
		responder:  newResponder(production, logger),
	}
}

// RequireAuth rejects the request unless it carries a valid access token for
// a user that still exists. It never lets a request through anonymously.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFrom(r)
		if token == "" {
			a.reject(w, r, domain.ErrMissingToken)
			return
		}

		user, err := a.identities.Authenticate(r.Context(), token)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrUnauthenticated) {
		a.logger.DebugContext(r.Context(), "request not authenticated",
			"path", r.URL.Path,
			"reason", err.Error(),
		)
	}
	a.writeError(w, r, err)
}

// RequireRole admits only authenticated users holding one of roles. Stacked
// gates must all pass.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Not authorized to access this route"})
				return
			}
			if !slices.Contains(roles, user.Role) {
				writeJSON(w, http.StatusForbidden, errorResponse{
					Message: "User role " + string(user.Role) + " is not authorized to access this route",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
