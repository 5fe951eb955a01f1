// uuid is a small generator wrapper that allows mocking in tests
package uuid

import (
	"github.com/google/uuid"
)

// Generator produces unique identifiers.
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator using google/uuid.
type GoogleUUIDGenerator struct{}

// New returns a fresh UUID string.
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator.
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}
