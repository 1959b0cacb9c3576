package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/core/ports"
)

// ProjectHandler handles client-facing project operations.
type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type createProjectRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description"`
	ProjectType   string `json:"project_type"`
	Budget        string `json:"budget"`
	Timeline      string `json:"timeline"`
	ContactMethod string `json:"contact_method"`
}

// Create records a new project request owned by the caller.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      createProjectRequest  true  "Project request"
// @Success      201   {object}  domain.Project
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.Create(c.Request().Context(), ports.CreateProjectInput{
		UserID:        p.UserID,
		Title:         req.Title,
		Description:   req.Description,
		ProjectType:   req.ProjectType,
		Budget:        req.Budget,
		Timeline:      req.Timeline,
		ContactMethod: req.ContactMethod,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// List returns the caller's projects, newest first.
//
// @Summary      List own projects
// @Tags         projects
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}  domain.Project
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.ListOwn(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Get fetches one project, visible to its owner or any admin.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  domain.Project
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.Get(c.Request().Context(), c.Param("id"), p.UserID, p.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// ListUpdates returns a project's update feed. Ownership is checked through
// the same policy as Get.
//
// @Summary      List project updates
// @Tags         projects
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Project id"
// @Success      200  {array}   domain.ProjectUpdate
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id}/updates [get]
func (h *ProjectHandler) ListUpdates(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if _, err := h.projectService.Get(c.Request().Context(), id, p.UserID, p.Role); err != nil {
		return err
	}

	updates, err := h.projectService.ListUpdates(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updates)
}
