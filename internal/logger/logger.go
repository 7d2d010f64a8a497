// Package logger настраивает структурированный логгер приложения
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New создает JSON-логгер с указанным уровнем.
// Неизвестный уровень трактуется как INFO; w == nil означает stdout.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true, // файл и строка источника
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel переводит строковый уровень (DEBUG, INFO, WARN, ERROR) в slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
