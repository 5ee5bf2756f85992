package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevJWTSecret is only suitable for local development.
const DevJWTSecret = "your_jwt_secret"

type Config struct {
	Port      string `env:"PORT" envDefault:"5000"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	SiteName  string `env:"SITE_NAME" envDefault:"Knights Khayal"`

	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	Upload   UploadConfig

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	MySQLURL string `env:"MYSQL_URL"`
	Host     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASS"`
	Name     string `env:"DB_NAME" envDefault:"band_db"`
	LogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"your_jwt_secret"`
	TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"1h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`

	DefaultAdminUsername string `env:"DEFAULT_ADMIN_USERNAME" envDefault:"admin"`
	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD" envDefault:"admin123"`
	DefaultAdminEmail    string `env:"DEFAULT_ADMIN_EMAIL" envDefault:"admin@example.com"`
}

type MailConfig struct {
	ResendAPIKey     string `env:"RESEND_API_KEY"`
	From             string `env:"MAIL_FROM" envDefault:"onboarding@resend.dev"`
	ContactRecipient string `env:"CONTACT_RECIPIENT" envDefault:"admin@example.com"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFromName string `env:"SMTP_FROM_NAME"`
}

type UploadConfig struct {
	Dir       string `env:"UPLOAD_DIR" envDefault:"uploads"`
	URLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
	MaxBytes  int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
}

// Load reads .env (optional) and decodes the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found or couldn't load it; continuing with environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")
	cfg.CORSOrigins = cleanOrigins(cfg.CORSOrigins)

	if cfg.Auth.JWTSecret == DevJWTSecret {
		slog.Warn("JWT_SECRET is not set; using the development secret")
	}
	return &cfg, nil
}

func cleanOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, part := range raw {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// ParseLogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
