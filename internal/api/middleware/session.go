package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/infrastructure/session"
)

// PrincipalKey is the echo context key the Session middleware stores the
// authenticated principal under.
const PrincipalKey = "principal"

// Session resolves the session cookie into a principal and injects it into
// the request context. Requests without a valid session pass through
// unauthenticated; RequireAuth decides whether that is acceptable.
func Session(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			principal, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				return next(c)
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

// Principal returns the authenticated principal for the request, or nil.
func Principal(c echo.Context) *session.Principal {
	p, _ := c.Get(PrincipalKey).(*session.Principal)
	return p
}
