package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a structured JSON logger. The level comes from SIGILO_LOG_LEVEL
// (debug, info, warn, error), defaulting to info.
//
// Raw search terms and identifier digits must never be logged; log the
// one-way hash or the masked form instead.
func New() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("SIGILO_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
