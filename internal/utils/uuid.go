// Package utils holds small helpers shared by the storage layer.
package utils

import "github.com/google/uuid"

// DocumentIDGenerator issues row identifiers for stored documents. IDs are
// UUIDv7, so rows sort by creation time.
type DocumentIDGenerator struct{}

func NewDocumentIDGenerator() *DocumentIDGenerator {
	return &DocumentIDGenerator{}
}

// NewID returns a fresh identifier. It falls back to a random UUIDv4 if the
// clock-based generator fails.
func (g *DocumentIDGenerator) NewID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
