package domain

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// RoleAnonymous is the requester role of a caller without a valid access token.
const RoleAnonymous Role = ""

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole maps an empty string to RoleUser and rejects anything outside the enum.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// CanAssignRole reports whether a requester holding requesterRole may create an
// identity with the requested role. Only admins can mint admins.
func CanAssignRole(requesterRole, requested Role) bool {
	switch requested {
	case RoleUser:
		return true
	case RoleAdmin:
		return requesterRole == RoleAdmin
	default:
		return false
	}
}
