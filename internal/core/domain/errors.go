package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUnauthorized       = errors.New("not authorized to assign this role")
	ErrForbidden          = errors.New("not authorized to access this route")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInternal           = errors.New("internal server error")

	ErrEmailTaken   = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// Token failures; callers treat all of them as ErrUnauthenticated.
	ErrInvalidSignature = fmt.Errorf("%w: invalid token signature", ErrUnauthenticated)
	ErrTokenExpired     = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenRevoked     = fmt.Errorf("%w: token revoked", ErrUnauthenticated)
	ErrMissingToken     = fmt.Errorf("%w: no token provided", ErrUnauthenticated)
	ErrIdentityGone     = fmt.Errorf("%w: identity no longer exists", ErrUnauthenticated)
)
