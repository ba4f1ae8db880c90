// Package logging builds the process logger; the terminal owns stdout, so
// debug output goes to a JSON lines file
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/config"
)

// Setup returns the process logger and a closer for its file
// With debug off the logger discards everything
func Setup(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	if !cfg.Debug {
		return zerolog.Nop(), nopCloser{}, nil
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level: %w", err)
	}

	path := cfg.File
	if path == "" {
		path = filepath.Join("logs", "drive.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log file: %w", err)
	}

	return New(f, level), f, nil
}

// New builds a timestamped logger writing JSON to w
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
