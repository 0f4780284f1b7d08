package slogx

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithContext stores a logger in the context; downstream code retrieves it
// with FromContext.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request-scoped logger, falling back to the process
// default when the HTTP middleware did not run (tests, background work).
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
