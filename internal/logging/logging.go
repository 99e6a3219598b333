// Package logging builds the zerolog logger from config. The play command
// owns the terminal, so logs normally go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jask/slidedeck/internal/config"
)

// FieldComponent tags log lines with the subsystem that wrote them.
const FieldComponent = "component"

// New returns a logger for cfg and a closer for its output. Path "-" writes
// to stderr.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out, closer, err := openOutput(cfg.Path)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var w io.Writer = out
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: out != os.Stderr}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), closer, nil
}

// Component returns a child logger tagged with name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(FieldComponent, name).Logger()
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" || path == "-" {
		return os.Stderr, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
