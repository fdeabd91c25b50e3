// Package logger builds the structured logger shared by the app.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup returns a JSON slog.Logger writing to w at level.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Open picks the log destination. The TUI owns the terminal, so logs go to
// path when set, to stderr when verbose, and nowhere otherwise. The returned
// close func is always non-nil.
func Open(path string, verbose bool, level slog.Level) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open log file: %w", err)
		}
		return Setup(f, level), f.Close, nil
	case verbose:
		return Setup(os.Stderr, slog.LevelDebug), noop, nil
	default:
		return slog.New(slog.DiscardHandler), noop, nil
	}
}
