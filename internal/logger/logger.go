// Package logger configures the application slog logger and provides request scoped logging.
//
// dev and test environments get colourised text output (tint), prod and staging get JSON.
//
// RequestLogging stores a request logger in the context. Handlers and middleware fetch it with
// ContextRequestLogger and can add attributes to the final "request completed" line with
// ContextWithLogAttrs.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelNone disables logging when used as the handler level.
const LevelNone = slog.LevelError + 4

// InitLogger creates the application logger and installs it as the slog default.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	logger := NewLogger(os.Stdout, level, environment)
	slog.SetDefault(logger)
	return logger
}

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer, level slog.Level, environment string) *slog.Logger {
	switch environment {
	case "prod", "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		}))
	}
}

// ParseLogLevel converts a LOG_LEVEL value to a slog level.
// "none" disables logging; unrecognised values default to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "off":
		return LevelNone
	}

	// accept slog's own text form (e.g. "ERROR+4") so a level survives a round trip through String()
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err == nil {
		return level
	}
	return slog.LevelInfo
}
