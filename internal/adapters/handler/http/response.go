package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// responder writes JSON bodies and the error envelope shared by every handler.
type responder struct {
	production bool
	logger     *slog.Logger
}

func newResponder(production bool, logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{production: production, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (rs responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		rs.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	body := errorResponse{Message: message}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		body.Errors = verrs
	}
	if !rs.production {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

func (rs responder) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: message})
}

// statusFor maps the domain error taxonomy onto HTTP. Order matters: an
// escalation refused for lack of a valid session wraps both ErrUnauthorized
// and ErrUnauthenticated and must answer 401.
func statusFor(err error) (int, string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Validation failed"
	case errors.Is(err, domain.ErrUnauthorized) && errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authorized to create admin user"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "Not authorized to create admin user"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authorized to access this route"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Not authorized to access this route"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, "Email already in use"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}
