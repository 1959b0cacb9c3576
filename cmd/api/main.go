package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/charlieverse/platform/internal/api"
	"github.com/charlieverse/platform/internal/core/ports"
	"github.com/charlieverse/platform/internal/core/service"
	"github.com/charlieverse/platform/internal/events"
	"github.com/charlieverse/platform/internal/infrastructure/config"
	"github.com/charlieverse/platform/internal/infrastructure/db/fallback"
	"github.com/charlieverse/platform/internal/infrastructure/db/memory"
	"github.com/charlieverse/platform/internal/infrastructure/db/mongo"
	"github.com/charlieverse/platform/internal/infrastructure/db/postgres"
	"github.com/charlieverse/platform/internal/infrastructure/db/redis"
	"github.com/charlieverse/platform/internal/infrastructure/firebase"
	"github.com/charlieverse/platform/internal/infrastructure/session"
	"github.com/charlieverse/platform/internal/infrastructure/upload"
	"github.com/charlieverse/platform/internal/notify"
	"github.com/charlieverse/platform/internal/seed"
	"github.com/charlieverse/platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Persistence ---
	store, storeName := buildStore(ctx, cfg, log)

	// --- Sessions: Redis when configured, in-process otherwise ---
	var sessionRedis *goredis.Client
	var sessions session.Store = session.NewMemoryStore(session.DefaultTTL)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, sessions fall back to process memory")
		} else {
			sessionRedis = rdb
			sessions = session.NewRedisStore(rdb, session.DefaultTTL)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("sessions backed by redis")
		}
	}

	// --- External identity ---
	verifier, err := firebase.NewVerifier(ctx, firebase.Config{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})
	if err != nil {
		log.Warn().Err(err).Msg("firebase init failed, identity sync trusts posted profiles")
		verifier = nil
	}

	// --- Uploads ---
	uploads, err := upload.NewService(cfg.Upload.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.Dir).Msg("uploads directory unavailable")
	}

	// Uploads older than 30 days are purged hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := uploads.Cleanup(30 * 24 * time.Hour); err == nil && n > 0 {
					log.Info().Int("deleted", n).Msg("purged old uploads")
				}
			}
		}
	}()

	// --- Event fan-out ---
	bus := events.NewBus(log)
	hub := notify.NewHub(log)
	mailer := notify.NewMailer(notify.MailConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		User:      cfg.SMTP.User,
		Pass:      cfg.SMTP.Pass,
		From:      cfg.SMTP.From,
		GmailUser: cfg.SMTP.GmailUser,
		GmailPass: cfg.SMTP.GmailPass,
	}, cfg.AdminEmail, log)
	bus.Subscribe(hub)
	bus.Subscribe(mailer)
	bus.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(store, verifier, bus, mailer,
		cfg.ResetSecret, cfg.AdminEmail, cfg.BaseURL, log)
	projectService := service.NewProjectService(store, bus, log)
	contactService := service.NewContactService(store, bus, log)
	analyticsService := service.NewAnalyticsService(store, log)

	if err := seed.Admin(ctx, store, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Error().Err(err).Msg("admin seeding failed")
	}

	e := api.NewRouter(api.Deps{
		Store:            store,
		StoreName:        storeName,
		Sessions:         sessions,
		SessionRedis:     sessionRedis,
		AuthService:      authService,
		ProjectService:   projectService,
		ContactService:   contactService,
		AnalyticsService: analyticsService,
		Uploads:          uploads,
		Bus:              bus,
		Hub:              hub,
		Mailer:           mailer,
		SecureCookies:    cfg.Env == "production",
		Logger:           log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("store", storeName).Msg("charlieverse api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}

// buildStore connects the configured backend and wraps it with the in-memory
// fallback. Connection failure at boot degrades straight to memory.
func buildStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Store, string) {
	mem := memory.NewStore()

	switch cfg.StorageDriver {
	case "mongo":
		_, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Warn().Err(err).Msg("mongo unavailable, using in-memory storage")
			return mem, "memory"
		}
		ms := mongo.NewStore(db)
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("mongo index creation failed")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("storage backed by mongo")
		return fallback.NewStore(ms, mem, log), "mongodb"

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, using in-memory storage")
			return mem, "memory"
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Warn().Err(err).Msg("postgres migration failed, using in-memory storage")
			return mem, "memory"
		}
		log.Info().Msg("storage backed by postgres")
		return fallback.NewStore(postgres.NewStore(pool), mem, log), "postgres"

	default:
		log.Info().Msg("storage backed by process memory")
		return mem, "memory"
	}
}
