package http

import (
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/storefront/internal/core/domain"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     cookieJar
	responder
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig, production bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     newCookieJar(cookies),
		responder:   newResponder(production, logger),
	}
}

type sessionResponse struct {
	Success     bool              `json:"success"`
	AccessToken string            `json:"accessToken"`
	User        domain.PublicUser `json:"user"`
}

type userResponse struct {
	Success bool              `json:"success"`
	User    domain.PublicUser `json:"user"`
}

// Register godoc
// @Summary      Registers a new user
// @Description  Creates the account and starts a session. Requesting the admin role needs a valid admin session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      401
// @Failure      403
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	session, err := h.authService.Register(r.Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		Profile: domain.Profile{
			PhotoURL: req.PhotoURL,
			Phone:    req.Phone,
			Address:  req.Address,
		},
		RequesterToken: accessTokenFrom(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// An elevated account is created on behalf of the requester, whose own
	// cookies must stay in place.
	if role != domain.RoleUser {
		h.writeSession(w, http.StatusCreated, session)
		return
	}
	h.startSession(w, http.StatusCreated, session)
}

// Login godoc
// @Summary      Logs a user in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	session, err := h.authService.Login(r.Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.startSession(w, http.StatusOK, session)
}

// Refresh godoc
// @Summary      Rotates the session tokens
// @Description  Issues a new access and refresh token pair from the refresh token cookie. Any failure clears both cookies.
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /auth/refresh-token [get]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := readCookie(r, refreshTokenCookie)
	if token == "" {
		h.cookies.expire(w)
		h.writeError(w, r, domain.ErrMissingToken)
		return
	}

	session, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		h.cookies.expire(w)
		h.writeError(w, r, err)
		return
	}

	h.startSession(w, http.StatusOK, session)
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Clears both session cookies. Always succeeds.
// @Tags         auth
// @Produce      json
// @Success      200
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := readCookie(r, refreshTokenCookie); token != "" {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			h.logger.WarnContext(r.Context(), "logout could not revoke refresh token", "error", err)
		}
	}

	h.cookies.expire(w)
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}

// Me godoc
// @Summary      Returns the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrMissingToken)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user.Public()})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, session *ports.Session) {
	h.cookies.setSession(w, session.Tokens)
	h.writeSession(w, status, session)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, session *ports.Session) {
	writeJSON(w, status, sessionResponse{
		Success:     true,
		AccessToken: session.Tokens.AccessToken,
		User:        session.User.Public(),
	})
}
