package util

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: human-readable text with debug level in
// development, JSON at info level everywhere else. Every record carries the
// service name so aggregated logs stay attributable.
func NewLogger(env, service string) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", service)
}
