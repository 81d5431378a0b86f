// Package uuid mints correlation ids that tag every log line of one Telegram update.
package uuid

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates UUIDv7 correlation ids.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUIDv7 string. v7 ids sort by creation time, so log lines of
// consecutive updates stay ordered.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return id.String(), nil
}

// MustID is NewID for call sites that would rather log without a correlation id
// than fail: on error it returns the empty string.
func (g Generator) MustID() string {
	id, err := g.NewID()
	if err != nil {
		return ""
	}
	return id
}
