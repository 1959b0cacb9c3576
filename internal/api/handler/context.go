package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/api/middleware"
	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/infrastructure/session"
)

// ctxPrincipal extracts the authenticated principal injected by the Session
// middleware. Handlers behind RequireAuth can rely on it being present; the
// nil check guards routes that were wired without the middleware.
func ctxPrincipal(c echo.Context) (*session.Principal, error) {
	p := middleware.Principal(c)
	if p == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return p, nil
}
