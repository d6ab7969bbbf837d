// Package statefile implements the WatermarkStore port as a plain text file
// holding a single decimal integer.
package statefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WatermarkStore = (*Store)(nil)

// Store reads and writes the watermark file at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store for the file at path. The file and its directory
// need not exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the watermark file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored watermark. A missing file, empty content, or content
// that is not a non-negative integer all yield 0 without an error.
func (s *Store) Load(_ context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("watermark file absent, starting from zero", "path", s.path)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read watermark file %s: %w", s.path, err)
	}

	raw := strings.TrimSpace(string(data))
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Debug("watermark file unreadable, starting from zero", "path", s.path, "content", raw)
		return 0, nil
	}

	return n, nil
}

// Save overwrites the file with the decimal form of watermark, creating the
// parent directory if needed. The write is atomic: readers see either the old
// or the new value.
func (s *Store) Save(_ context.Context, watermark int) error {
	if watermark < 0 {
		return fmt.Errorf("save watermark: negative value %d", watermark)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create watermark directory %s: %w", dir, err)
		}
	}

	if err := atomic.WriteFile(s.path, strings.NewReader(strconv.Itoa(watermark))); err != nil {
		return fmt.Errorf("write watermark file %s: %w", s.path, err)
	}

	return nil
}
