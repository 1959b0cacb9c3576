package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/core/ports"
)

// ContactHandler handles the public contact form.
type ContactHandler struct {
	contactService ports.ContactService
}

func NewContactHandler(contactService ports.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

type contactRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"project_type"`
	Message     string `json:"message" validate:"required"`
}

// Submit records an inquiry from the public contact form.
//
// @Summary      Submit a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Inquiry"
// @Success      201   {object}  domain.ContactMessage
// @Failure      400   {object}  map[string]string
// @Router       /api/contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.contactService.Submit(c.Request().Context(), ports.SubmitContactInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ProjectType: req.ProjectType,
		Message:     req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}
