package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/vncsmyrnk/storefront/internal/core/domain"
)

const (
	maxBodyBytes = 1 << 20

	minPasswordBytes = 6
	// bcrypt rejects passwords longer than 72 bytes.
	maxPasswordBytes = 72
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	PhotoURL string `json:"photo_url"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordBytes, maxPasswordBytes)),
		validation.Field(&r.Role, validation.In(string(domain.RoleUser), string(domain.RoleAdmin))),
		validation.Field(&r.PhotoURL, is.URL),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Address, validation.Length(0, 500)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	PhotoURL *string `json:"photo_url"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

func (r *updateProfileRequest) normalize() {
	for _, field := range []*string{r.Name, r.Email} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

func (r updateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, validation.Length(3, 254), is.Email),
		validation.Field(&r.PhotoURL, is.URL),
		validation.Field(&r.Phone, validation.Length(0, 32)),
		validation.Field(&r.Address, validation.Length(0, 500)),
	)
}
