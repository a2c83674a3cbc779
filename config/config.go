package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is only meant for local development.
const DefaultSessionSecret = "lanoel-dev-secret"

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort  int
	DatabaseURL string

	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool

	UploadDir string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	R2Endpoint        string

	AdminEmail    string
	AdminHandle   string
	AdminPassword string

	LogLevel slog.Level
}

// Load читает конфигурацию из переменных окружения.
// Если рядом лежит .env файл, он подгружается первым; его отсутствие не ошибка.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	port, err := strconv.Atoi(env("PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	ttl, err := time.ParseDuration(env("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL environment variable: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}

	secure, err := strconv.ParseBool(env("SECURE_COOKIES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SECURE_COOKIES environment variable: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	return &Config{
		ServerPort:  port,
		DatabaseURL: env("DATABASE_URL", "data/lanoel.db"),

		SessionSecret: env("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:    ttl,
		SecureCookies: secure,

		UploadDir: env("UPLOAD_DIR", "public/uploads"),

		R2AccountID:       env("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     env("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: env("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      env("R2_BUCKET_NAME", ""),
		R2PublicBaseURL:   env("R2_PUBLIC_BASE_URL", ""),
		R2Endpoint:        env("R2_ENDPOINT", ""),

		AdminEmail:    env("ADMIN_EMAIL", "admin@lanoel.local"),
		AdminHandle:   env("ADMIN_HANDLE", "admin"),
		AdminPassword: env("ADMIN_PASSWORD", "Admin"),

		LogLevel: level,
	}, nil
}
