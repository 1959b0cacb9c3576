package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/core/domain"
)

// RequireAuth rejects requests that carry no authenticated principal.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Principal(c) == nil {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. It runs before any
// resource lookup, so a non-admin gets 403 whether or not the target exists.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := Principal(c)
			if p == nil {
				return domain.ErrNotAuthenticated
			}
			if _, ok := allowed[p.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
