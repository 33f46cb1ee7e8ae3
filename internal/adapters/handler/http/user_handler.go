package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
	"github.com/vncsmyrnk/storefront/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	responder
}

func NewUserHandler(service ports.UserService, production bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		responder: newResponder(production, logger),
	}
}

type usersResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Page    int                 `json:"page"`
	Users   []domain.PublicUser `json:"users"`
}

// UpdateMe godoc
// @Summary      Updates the authenticated user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, domain.ErrMissingToken)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), current.ID, ports.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user.Public()})
}

// List godoc
// @Summary      Lists users
// @Description  Admin only. Paginated with `page` and `limit` (at most 100).
// @Tags         users
// @Produce      json
// @Success      200
// @Failure      401
// @Failure      403
// @Router       /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	users, err := h.service.List(r.Context(), ports.ListUsersInput{Page: page, Limit: limit})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	writeJSON(w, http.StatusOK, usersResponse{
		Success: true,
		Count:   len(out),
		Page:    max(page, 1),
		Users:   out,
	})
}

// Get godoc
// @Summary      Returns a user by id
// @Description  Admin only.
// @Tags         users
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.badRequest(w, "invalid user id")
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user.Public()})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, key)
	}
	return n, nil
}
