package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns the JSON logger the API writes to stdout.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit destination. Unknown levels fall back
// to info.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps LOG_LEVEL values onto slog levels. "warning" is accepted
// as an alias of "warn".
func ParseLevel(level string) slog.Level {
	s := strings.ToLower(strings.TrimSpace(level))
	if s == "warning" {
		s = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ForApp tags every line with the app name and environment.
func ForApp(logger *slog.Logger, name, env string) *slog.Logger {
	return logger.With(slog.Group("app", slog.String("name", name), slog.String("env", env)))
}

// Discard drops everything; tests use it when output does not matter.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
