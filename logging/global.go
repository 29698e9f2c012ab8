package logging

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// InitLogger initializes the global logger and installs it as the slog
// default. An empty logDir logs to console only.
func InitLogger(logDir string, retentionWeeks int, level slog.Level) {
	defaultLogger = SetupLogger(logDir, retentionWeeks, level)
	slog.SetDefault(defaultLogger)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fallback is used before InitLogger has run, so early failures still land
// somewhere visible.
func fallback() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func logger() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return fallback()
}

// Package-level helpers for direct access

func Debug(msg string, args ...any) { logger().Debug(msg, args...) }

func Info(msg string, args ...any) { logger().Info(msg, args...) }

func Warn(msg string, args ...any) { logger().Warn(msg, args...) }

func Error(msg string, args ...any) { logger().Error(msg, args...) }
