package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
)

// AnalyticsHandler serves the admin analytics snapshots.
type AnalyticsHandler struct {
	analyticsService ports.AnalyticsService
}

func NewAnalyticsHandler(analyticsService ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard returns the full analytics snapshot.
//
// @Summary      Analytics dashboard
// @Tags         analytics
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  ports.AnalyticsData
// @Failure      403  {object}  map[string]string
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := domain.Authorize(p.Role, p.UserID, domain.ActionViewAnalytics, ""); err != nil {
		return err
	}

	data, err := h.analyticsService.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// Project returns the per-project drill-down.
//
// @Summary      Project analytics
// @Tags         analytics
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  ports.ProjectAnalytics
// @Failure      404  {object}  map[string]string
// @Router       /api/analytics/projects/{id} [get]
func (h *AnalyticsHandler) Project(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := domain.Authorize(p.Role, p.UserID, domain.ActionViewAnalytics, ""); err != nil {
		return err
	}

	data, err := h.analyticsService.Project(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
