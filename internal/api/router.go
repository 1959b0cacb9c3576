package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api/handler"
	"github.com/charlieverse/platform/internal/api/middleware"
	"github.com/charlieverse/platform/internal/core/domain"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/events"
	"github.com/charlieverse/platform/internal/infrastructure/session"
	"github.com/charlieverse/platform/internal/infrastructure/upload"
	"github.com/charlieverse/platform/internal/notify"
)

// Deps carries everything the router needs wired up by main.
type Deps struct {
	Store            ports.Store
	StoreName        string
	Sessions         session.Store
	SessionRedis     *redis.Client
	AuthService      ports.AuthService
	ProjectService   ports.ProjectService
	ContactService   ports.ContactService
	AnalyticsService ports.AnalyticsService
	Uploads          *upload.Service
	Bus              *events.Bus
	Hub              *notify.Hub
	Mailer           *notify.Mailer
	SecureCookies    bool
	Logger           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("charlieverse"))
	e.Use(middleware.Session(d.Sessions))

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.Sessions, d.SecureCookies)
	userHandler := handler.NewUserHandler(d.AuthService)
	projectHandler := handler.NewProjectHandler(d.ProjectService)
	contactHandler := handler.NewContactHandler(d.ContactService)
	analyticsHandler := handler.NewAnalyticsHandler(d.AnalyticsService)
	uploadHandler := handler.NewUploadHandler(d.Uploads, d.Bus)
	adminHandler := handler.NewAdminHandler(d.Store, d.ProjectService, d.ContactService, d.Hub, d.Mailer)

	// --- Auth ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/sync-firebase", authHandler.SyncFirebase)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Authenticated user surface ---
	e.PUT("/api/user/profile", userHandler.UpdateProfile, requireAuth)
	e.POST("/api/projects", projectHandler.Create, requireAuth)
	e.GET("/api/projects", projectHandler.List, requireAuth)
	e.GET("/api/projects/:id", projectHandler.Get, requireAuth)
	e.GET("/api/projects/:id/updates", projectHandler.ListUpdates, requireAuth)

	e.POST("/api/files/upload", uploadHandler.Upload, requireAuth)
	e.GET("/api/files/:filename", uploadHandler.Serve, requireAuth)
	e.GET("/api/files/:filename/info", uploadHandler.Info, requireAuth)

	// --- Public contact form ---
	e.POST("/api/contact", contactHandler.Submit)

	// --- Admin surface ---
	admin := e.Group("/api/admin", requireAdmin)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/status", adminHandler.SetUserStatus)
	admin.GET("/projects", adminHandler.ListProjects)
	admin.PATCH("/projects/:id/status", adminHandler.SetProjectStatus)
	admin.POST("/projects/:id/updates", adminHandler.AddProjectUpdate)
	admin.GET("/contacts", adminHandler.ListContacts)
	admin.PATCH("/contacts/:id/status", adminHandler.SetContactStatus)

	e.GET("/api/analytics/dashboard", analyticsHandler.Dashboard, requireAdmin)
	e.GET("/api/analytics/projects/:id", analyticsHandler.Project, requireAdmin)
	e.POST("/api/notifications/send", adminHandler.SendNotification, requireAdmin)
	e.GET("/api/email/status", adminHandler.EmailStatus, requireAdmin)
	e.POST("/api/email/test", adminHandler.TestEmail, requireAdmin)
	e.GET("/api/websocket/status", adminHandler.WebsocketStatus, requireAdmin)

	// --- Websocket upgrade ---
	e.GET("/ws", func(c echo.Context) error {
		return d.Hub.ServeWS(c.Response(), c.Request())
	})

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Store, d.StoreName, d.SessionRedis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
