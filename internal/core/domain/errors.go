package domain

import "errors"

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrProjectNotFound     = errors.New("project not found")
	ErrContactNotFound     = errors.New("contact message not found")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")
)

// Expected reports whether err is a domain outcome rather than an
// infrastructure failure. The storage fallback decorator uses this to decide
// whether to degrade to the in-memory store: a NotFound or duplicate must pass
// through untouched, anything else means the backend itself is unhappy.
func Expected(err error) bool {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrContactNotFound),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrInvalidStatus):
		return true
	}
	return false
}
