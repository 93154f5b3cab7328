package utils

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used across the mesh packages.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, warnings and errors go to stderr as text.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that writes human-readable text logs at or above level.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON logs at or above level.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// ParseLevel maps debug, info, warn and error to slog levels, defaulting to warn.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

func (l *Logger) WithElement(dim, id int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim, "id", id)}
}

func (l *Logger) WithShape(shape string) *Logger {
	return &Logger{Logger: l.Logger.With("shape", shape)}
}

// LogDegenerate records a recovered numerical degeneracy.
func (l *Logger) LogDegenerate(op string, err error) {
	l.Warn("degenerate geometry, using best-effort result",
		"op", op,
		"error", err,
	)
}

var defaultLogger = NewLogger(nil)

// DefaultLogger is used by components constructed without a logger.
func DefaultLogger() *Logger { return defaultLogger }

// OrDefault returns l, or the default logger when l is nil.
func (l *Logger) OrDefault() *Logger {
	if l == nil {
		return defaultLogger
	}
	return l
}
