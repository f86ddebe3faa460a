// Package bgplog wraps log/slog behind a small interface, so peer,
// rib, and kernel code can log without depending directly on a
// concrete handler, and tests can substitute a no-op logger.
package bgplog

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Logger is the subset of *slog.Logger this module calls.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	*slog.Logger
}

func (l slogLogger) With(args ...any) Logger {
	return slogLogger{l.Logger.With(args...)}
}

// Wrap adapts an existing *slog.Logger to Logger.
func Wrap(l *slog.Logger) Logger {
	return slogLogger{l}
}

// New builds a terminal-friendly logger via tint, suitable for
// interactive runs. verbose lowers the level to Debug.
func New(verbose bool) Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return Wrap(slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level})))
}

// NewJSON builds a structured JSON logger, suitable for non-interactive
// or production use where logs are consumed by another system.
func NewJSON(verbose bool) Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return Wrap(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// Nop returns a Logger that discards everything — the default for code
// paths (tests, library use) that never configured a real logger.
func Nop() Logger {
	return Wrap(slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1})))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
