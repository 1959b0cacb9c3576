package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
)

// UserHandler handles self-service profile operations.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	Bio       *string `json:"bio"`
}

// UpdateProfile applies a partial update to the caller's own profile.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  map[string]string
// @Router       /api/user/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), p.UserID, domain.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Company:   req.Company,
		Bio:       req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
