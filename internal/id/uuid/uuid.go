// Package uuid generates crawl run IDs.
package uuid

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
)

var _ crawler.IDGenerator = Generator{}

// Generator creates time-ordered UUID v7 run IDs.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUID7 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return id.String(), nil
}
