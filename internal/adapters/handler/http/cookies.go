package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Domain string
	// Secure is set in production only so the cookies work over plain http
	// during development.
	Secure bool
}

type cookieJar struct {
	cfg CookieConfig
	now func() time.Time
}

func newCookieJar(cfg CookieConfig) cookieJar {
	return cookieJar{cfg: cfg, now: time.Now}
}

func (j cookieJar) setSession(w http.ResponseWriter, tokens domain.TokenPair) {
	j.set(w, accessTokenCookie, tokens.AccessToken, tokens.Access.ExpiresAt)
	j.set(w, refreshTokenCookie, tokens.RefreshToken, tokens.Refresh.ExpiresAt)
}

func (j cookieJar) set(w http.ResponseWriter, name, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(expiresAt.Sub(j.now()).Seconds()),
		HttpOnly: true,
		Secure:   j.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (j cookieJar) expire(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   j.cfg.Domain,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   j.cfg.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func readCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
