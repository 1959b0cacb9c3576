package config

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	BaseURL       string `env:"BASE_URL,       default=http://localhost:8080"`
	SessionSecret string `env:"SESSION_SECRET, default=charlieverse-session-secret"`
	ResetSecret   string `env:"RESET_SECRET,   default=charlieverse-reset-secret"`

	// AdminEmail gets the admin role on registration and is seeded at boot.
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@charlieverse.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`

	// StorageDriver selects the persistence backend: memory, mongo, postgres.
	StorageDriver string `env:"STORAGE_DRIVER, default=memory"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Firebase FirebaseConfig
	Upload   UploadConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=charlieverse"`
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL"`
}

type RedisConfig struct {
	// Addr empty means sessions are kept in process memory.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT, default=587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM"`

	// Gmail pair used when the generic SMTP settings are absent.
	GmailUser string `env:"GMAIL_USER"`
	GmailPass string `env:"GMAIL_PASS"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

type UploadConfig struct {
	Dir string `env:"UPLOAD_DIR, default=uploads"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	return &cfg
}
