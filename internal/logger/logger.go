// Package logger provides slog helpers for the app.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/handsomefox/flixora/internal/env"
)

// New builds the process logger: JSON on stderr in production, text
// locally.
func New(level slog.Level) *slog.Logger {
	return slog.New(handler(os.Stderr, level, env.Current))
}

// NewFile logs to a size-rotated file. The terminal browser uses it because
// its stdout and stderr belong to the UI.
func NewFile(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, err
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}
	return slog.New(handler(sink, level, env.Current)), sink, nil
}

func handler(w io.Writer, level slog.Level, e env.Environment) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: e == env.Production,
		Level:     level,
	}
	if e == env.Production {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel maps a config value onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "nil")
	}
	return slog.String("err", err.Error())
}
