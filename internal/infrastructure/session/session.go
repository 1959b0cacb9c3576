// Package session implements server-side sessions keyed by an opaque token.
// The principal lives under the token in Redis when configured, or in a
// process-local map otherwise; the browser only ever holds the token in an
// HttpOnly cookie.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie the API sets and reads.
const CookieName = "cv_session"

// DefaultTTL bounds how long an idle session stays valid.
const DefaultTTL = 24 * time.Hour

// Principal is the minimal authenticated identity attached to a session.
type Principal struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = Error("session not found")

// Error is a trivial string error to avoid importing domain here.
type Error string

func (e Error) Error() string { return string(e) }

// Store persists principals under opaque tokens.
type Store interface {
	// Create stores p under a fresh token and returns the token.
	Create(ctx context.Context, p Principal) (string, error)
	// Get returns the principal for token, or ErrNoSession.
	Get(ctx context.Context, token string) (*Principal, error)
	// Destroy removes the session. Destroying an unknown token is a no-op.
	Destroy(ctx context.Context, token string) error
}

func newToken() string { return uuid.NewString() }
