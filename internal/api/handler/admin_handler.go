package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/api/metrics"
	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/notify"
)

// AdminHandler groups the admin-only management endpoints. All of its routes
// sit behind RequireRole("admin").
type AdminHandler struct {
	store          ports.Store
	projectService ports.ProjectService
	contactService ports.ContactService
	hub            *notify.Hub
	mailer         *notify.Mailer
}

func NewAdminHandler(store ports.Store, projectService ports.ProjectService, contactService ports.ContactService, hub *notify.Hub, mailer *notify.Mailer) *AdminHandler {
	return &AdminHandler{
		store:          store,
		projectService: projectService,
		contactService: contactService,
		hub:            hub,
		mailer:         mailer,
	}
}

// ListUsers returns every registered user, newest first.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}  domain.User
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := domain.Authorize(p.Role, p.UserID, domain.ActionManageUsers, ""); err != nil {
		return err
	}

	users, err := h.store.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

type setUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SetUserStatus toggles a user's active flag.
//
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string                true  "User id"
// @Param        body  body      setUserStatusRequest  true  "New flag"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/users/{id}/status [patch]
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := domain.Authorize(p.Role, p.UserID, domain.ActionManageUsers, ""); err != nil {
		return err
	}

	var req setUserStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.IsActive == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_active is required")
	}

	user, err := h.store.UpdateUser(c.Request().Context(), c.Param("id"), domain.UserPatch{IsActive: req.IsActive})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListProjects returns every project joined with its owner.
//
// @Summary      List all projects
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}  ports.ProjectWithOwner
// @Router       /api/admin/projects [get]
func (h *AdminHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListAllWithOwners(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

type setProjectStatusRequest struct {
	Status        string     `json:"status" validate:"required"`
	Message       string     `json:"message"`
	EstimatedCost *float64   `json:"estimated_cost"`
	ActualCost    *float64   `json:"actual_cost"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

// SetProjectStatus applies a status transition and triggers the fan-out.
//
// @Summary      Transition a project's status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string                   true  "Project id"
// @Param        body  body      setProjectStatusRequest  true  "Transition"
// @Success      200   {object}  domain.Project
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/admin/projects/{id}/status [patch]
func (h *AdminHandler) SetProjectStatus(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req setProjectStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.SetStatus(c.Request().Context(), ports.SetStatusInput{
		ProjectID: c.Param("id"),
		ActorID:   p.UserID,
		ActorRole: p.Role,
		Status:    domain.ProjectStatus(req.Status),
		Message:   req.Message,
		Patch: domain.ProjectPatch{
			EstimatedCost: req.EstimatedCost,
			ActualCost:    req.ActualCost,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
		},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

type addUpdateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// AddProjectUpdate appends an annotation to a project's update feed.
//
// @Summary      Add a project update
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string            true  "Project id"
// @Param        body  body      addUpdateRequest  true  "Update"
// @Success      201   {object}  domain.ProjectUpdate
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/projects/{id}/updates [post]
func (h *AdminHandler) AddProjectUpdate(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req addUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update, err := h.projectService.AddUpdate(c.Request().Context(), ports.AddUpdateInput{
		ProjectID:   c.Param("id"),
		ActorID:     p.UserID,
		ActorRole:   p.Role,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.ProjectStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, update)
}

// ListContacts returns every contact message, newest first.
//
// @Summary      List contact messages
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}  domain.ContactMessage
// @Router       /api/admin/contacts [get]
func (h *AdminHandler) ListContacts(c echo.Context) error {
	msgs, err := h.contactService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

type setContactStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	AdminNotes string `json:"admin_notes"`
}

// SetContactStatus moves a contact message through the triage states.
//
// @Summary      Triage a contact message
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string                   true  "Message id"
// @Param        body  body      setContactStatusRequest  true  "New status"
// @Success      200   {object}  domain.ContactMessage
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/contacts/{id}/status [patch]
func (h *AdminHandler) SetContactStatus(c echo.Context) error {
	var req setContactStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.contactService.SetStatus(c.Request().Context(), c.Param("id"), domain.ContactStatus(req.Status), req.AdminNotes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

type sendNotificationRequest struct {
	Target  string `json:"target" validate:"required,oneof=broadcast user admins"`
	UserID  string `json:"user_id"`
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// SendNotification pushes an ad-hoc notification over the socket hub.
//
// @Summary      Send a manual notification
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      sendNotificationRequest  true  "Notification"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/notifications/send [post]
func (h *AdminHandler) SendNotification(c echo.Context) error {
	var req sendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	n := notify.Notification{
		Type:      notify.TypeAdminAction,
		Title:     req.Title,
		Message:   req.Message,
		Timestamp: time.Now().UTC(),
	}
	switch req.Target {
	case "broadcast":
		// Everyone-facing pushes are system alerts, not admin actions.
		n.Type = notify.TypeSystemAlert
		h.hub.Broadcast(n)
	case "admins":
		h.hub.SendToAdmins(n)
	case "user":
		if req.UserID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "user_id is required for target user")
		}
		h.hub.SendToUser(req.UserID, n)
	}
	metrics.NotificationsSentTotal.WithLabelValues("manual").Inc()
	return c.JSON(http.StatusOK, map[string]string{"message": "notification sent"})
}

// EmailStatus reports whether outbound mail is configured.
//
// @Summary      Email transport status
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]bool
// @Router       /api/email/status [get]
func (h *AdminHandler) EmailStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"configured": h.mailer.Configured()})
}

type testEmailRequest struct {
	To string `json:"to" validate:"required,email"`
}

// TestEmail sends a test message to verify the transport.
//
// @Summary      Send a test email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      testEmailRequest  true  "Recipient"
// @Success      200   {object}  map[string]bool
// @Router       /api/email/test [post]
func (h *AdminHandler) TestEmail(c echo.Context) error {
	var req testEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sent := h.mailer.Send(req.To, "Charlieverse test email",
		"<p>This is a test email from the Charlieverse platform.</p>",
		"This is a test email from the Charlieverse platform.")
	return c.JSON(http.StatusOK, map[string]bool{"sent": sent})
}

// WebsocketStatus reports current socket hub occupancy.
//
// @Summary      Websocket hub status
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]int
// @Router       /api/websocket/status [get]
func (h *AdminHandler) WebsocketStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"connected": h.hub.ConnectedCount()})
}
