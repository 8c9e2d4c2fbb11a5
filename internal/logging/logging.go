// Package logging builds the zerolog loggers used across cookiz.
//
// There is no package-level logger. The command layer creates one with New
// and hands children to each component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for building a logger.
type Config struct {
	Level   string    // "debug", "info", ...; defaults to info
	Output  io.Writer // defaults to io.Discard
	Service string    // attached to every entry; defaults to "cookiz"
	Version string
}

// New returns a logger for cfg. An unparsable level is an error.
// Timestamps are written as RFC 3339.
func New(cfg Config) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	w := cfg.Output
	if w == nil {
		w = io.Discard
	}
	service := cfg.Service
	if service == "" {
		service = "cookiz"
	}

	ctx := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", service)
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return ctx.Logger(), nil
}

// Component returns a child logger annotated with the given component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// DefaultFile returns $XDG_STATE_HOME/cookiz/cookiz.log, falling back to
// ~/.local/state.
func DefaultFile() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "cookiz", "cookiz.log"), nil
}
