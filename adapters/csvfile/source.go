// Package csvfile reads plain CSV files from disk. Files are rejected by a
// size check before any content is read, so oversized uploads never reach
// the engine.
package csvfile

import (
	"context"
	"fmt"
	"os"

	"datascrub/domain/core"
)

// Source reads one CSV file. A maxBytes of zero disables the size guard.
type Source struct {
	path     string
	maxBytes int64
}

// NewSource creates a file source with the given size limit
func NewSource(path string, maxBytes int64) *Source {
	return &Source{path: path, maxBytes: maxBytes}
}

// Name identifies the source file
func (s *Source) Name() string {
	return s.path
}

// ReadCSV returns the file contents as text
func (s *Source) ReadCSV(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return "", core.NewInputTooLargeError(int(info.Size()), int(s.maxBytes))
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
