package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	MaxDBConns  int32
	RedisURL    string
	// SecretKey signs session tokens.
	SecretKey           string
	SessionExpiry       time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	BcryptCost          int
	ClassCacheTTL       time.Duration
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
// DATABASE_URL and SECRET_KEY have no defaults; call Validate before use.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MaxDBConns:          int32(getEnvInt("MAX_DB_CONNS", 16)),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SecretKey:           os.Getenv("SECRET_KEY"),
		SessionExpiry:       time.Duration(getEnvInt("SESSION_EXPIRY_HOURS", 24)) * time.Hour,
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "kelas_session"),
		SessionCookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		BcryptCost:          getEnvInt("BCRYPT_COST", 10),
		ClassCacheTTL:       time.Duration(getEnvInt("CLASS_CACHE_TTL_SECONDS", 300)) * time.Second,
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// Validate reports the required settings that are missing.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is not set"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
