// Package slogx wires log/slog for the member service: one process logger
// built from the logging block of the application config, and a
// request-scoped child logger carried through context by the HTTP middleware
// so every line emitted while serving a request shares its request id.
package slogx

import (
	"log/slog"
	"os"
	"strings"
)

// Config is the logging slice of the application configuration.
type Config struct {
	Service string
	Version string
	Env     string // dev, staging, prod
	Level   string // debug, info, warn, error
	Format  string // json (default) or text
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// New builds the process logger and installs it as the slog default, so code
// that never sees a context (early startup, background goroutines) still logs
// with the service identity attached. Source locations are recorded outside
// prod only; production lines stay lean.
func New(cfg Config) *slog.Logger {
	level, ok := levels[strings.ToLower(cfg.Level)]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Env != "prod",
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)
	slog.SetDefault(logger)
	return logger
}
