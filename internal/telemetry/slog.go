// Package telemetry configures logging and tracing for the service.
package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogger builds a slog.Logger from the configured format and level and
// installs it as the default.
//
// format: "json" → JSONHandler (machine readable; recommended for production),
// anything else → TextHandler. level: "debug", "info", "warn", "error"
// (case-insensitive); defaults to "info".
func SetupLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
