package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// ErrNoJWTSecret aborts startup: without a signing secret the process would
// mint tokens nothing can verify.
var ErrNoJWTSecret = errors.New("app: MEMBERHUB_JWT_SECRET is required")

type Config struct {
	JWTSecret string // Required: HS256 secret for session tokens
	CSRFKey   string // Optional: HMAC key for anti-forgery tokens (default: derived from JWTSecret)

	Issuer              string        // Optional: issuer claim for tokens (default: memberhub)
	Audience            string        // Optional: audience claim for tokens (default: memberhub-web)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./memberhub.db)
	PepperFile          string        // Optional: path to pepper file for password hashing (default: ./pepper)
	CacheTTL            time.Duration // Optional: response cache entry lifetime (default: 60s)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:           os.Getenv("MEMBERHUB_JWT_SECRET"),
		CSRFKey:             os.Getenv("MEMBERHUB_CSRF_KEY"),
		Issuer:              getEnvOrDefault("MEMBERHUB_ISSUER", "memberhub"),
		Audience:            getEnvOrDefault("MEMBERHUB_AUDIENCE", "memberhub-web"),
		DatabaseFile:        getEnvOrDefault("MEMBERHUB_DATABASE_FILE", "memberhub.db"),
		PepperFile:          getEnvOrDefault("MEMBERHUB_PEPPER_FILE", "pepper"),
		CacheTTL:            getEnvDurationOrDefault("MEMBERHUB_CACHE_TTL", 60*time.Second),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrNoJWTSecret
	}
	if cfg.CSRFKey == "" {
		// A dedicated key is preferred but the signing secret is an acceptable
		// fallback: both are server-held and never leave the process.
		cfg.CSRFKey = cfg.JWTSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
