// Package spool stages downloaded audio on the local filesystem for the lifetime of a
// single upload.
package spool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the spool directory.
type Config struct {
	// Dir is where staged files are written. Empty means os.TempDir().
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Spool writes short-lived files into one directory.
type Spool struct {
	dir string
}

// New creates a Spool, creating the directory if needed and checking it is writable.
func New(cfg Config) (*Spool, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = os.TempDir()
	}

	info, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat spool directory: %w", err)
		}
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create spool directory: %w", mkErr)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("spool path is not a directory")
	}

	probe, err := os.CreateTemp(dir, ".writable_test")
	if err != nil {
		return nil, fmt.Errorf("spool directory is not writable: %w", err)
	}
	_ = probe.Close()
	if err := os.Remove(probe.Name()); err != nil {
		return nil, fmt.Errorf("failed to clean up test file: %w", err)
	}

	return &Spool{dir: dir}, nil
}

// Dir returns the directory files are staged in.
func (s *Spool) Dir() string {
	return s.dir
}

// WithFile writes data to a new file named after pattern (see os.CreateTemp), calls fn with
// its path and removes the file afterwards, whether or not fn succeeded.
func (s *Spool) WithFile(pattern string, data []byte, fn func(path string) error) (err error) {
	f, err := os.CreateTemp(s.dir, sanitizePattern(pattern))
	if err != nil {
		return fmt.Errorf("create spool file: %w", err)
	}
	path := f.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = errors.Join(err, fmt.Errorf("remove spool file: %w", rmErr))
		}
	}()

	if _, writeErr := f.Write(data); writeErr != nil {
		_ = f.Close()
		return fmt.Errorf("write spool file: %w", writeErr)
	}
	if closeErr := f.Close(); closeErr != nil {
		return fmt.Errorf("close spool file: %w", closeErr)
	}
	return fn(path)
}

// sanitizePattern keeps user-supplied words from escaping the spool directory.
func sanitizePattern(pattern string) string {
	pattern = strings.Map(func(r rune) rune {
		if r == filepath.Separator || r == '/' || r == 0 {
			return '_'
		}
		return r
	}, pattern)
	if pattern == "" {
		return "audio-*"
	}
	return pattern
}
