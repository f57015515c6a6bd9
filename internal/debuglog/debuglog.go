// Package debuglog writes structured debug logs to a file. The TUI owns the
// terminal, so nothing is ever logged to stdout or stderr.
package debuglog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// EnvVar enables debug logging when set to 1
const EnvVar = "MOODLIST_DEBUG"

// Enabled reports whether logging was requested by config or environment
func Enabled(configured bool) bool {
	return configured || os.Getenv(EnvVar) == "1"
}

// DefaultPath returns the log file inside dataDir
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "debug.log")
}

// New returns a JSON logger appending to path, or a discarding logger when
// disabled. The returned closer must be called on shutdown.
func New(path string, enabled bool) (*slog.Logger, io.Closer, error) {
	if !enabled {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
