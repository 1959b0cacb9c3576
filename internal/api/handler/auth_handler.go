package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/infrastructure/session"
)

// AuthHandler handles registration, login, Firebase sync, password recovery
// and session management.
type AuthHandler struct {
	authService  ports.AuthService
	sessions     session.Store
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, sessions session.Store, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, secureCookie: secureCookie}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Bio       string `json:"bio"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type syncFirebaseRequest struct {
	IDToken     string `json:"id_token"`
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Bio         string `json:"bio"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type authResponse struct {
	User *domain.User `json:"user"`
}

// Register creates a new account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Company:   req.Company,
		Bio:       req.Bio,
	})
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates with email and password and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// SyncFirebase upserts a local account from an external identity assertion
// and starts a session.
//
// @Summary      Sync a Firebase identity
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      syncFirebaseRequest  true  "Identity assertion"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/sync-firebase [post]
func (h *AuthHandler) SyncFirebase(c echo.Context) error {
	var req syncFirebaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.SyncFirebase(c.Request().Context(), ports.SyncFirebaseInput{
		IDToken:     req.IDToken,
		FirebaseUID: req.FirebaseUID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Company:     req.Company,
		Bio:         req.Bio,
	})
	if err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// Logout destroys the current session. Idempotent: logging out without a
// session still returns 200.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		_ = h.sessions.Destroy(c.Request().Context(), cookie.Value)
	}
	h.clearCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the current principal.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  session.Principal
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// ForgotPassword issues a reset token by email. Always answers 200 so the
// endpoint cannot be used to probe for accounts.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "if the account exists, a reset email has been sent"})
}

// ResetPassword validates a reset token and sets a new password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *AuthHandler) startSession(c echo.Context, user *domain.User) error {
	token, err := h.sessions.Create(c.Request().Context(), session.Principal{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	})
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.DefaultTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
