package domain

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	PhotoURL string `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
}

// User is the persisted identity. PasswordHash never leaves the service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the outbound projection of a User.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		PhotoURL:  u.Profile.PhotoURL,
		Phone:     u.Profile.Phone,
		Address:   u.Profile.Address,
		CreatedAt: u.CreatedAt,
	}
}
