package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger so packages share one constructor and level parsing.
type Logger struct {
	*slog.Logger
}

func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &Logger{Logger: slog.New(handler)}
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	return NewWithWriter(io.Discard, "error")
}

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

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.With("component", name)}
}
