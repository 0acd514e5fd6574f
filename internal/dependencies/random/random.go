package random

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// NewID returns a fresh globally unique identifier
	NewID() string

	// NewToken returns an unguessable secret
	NewToken() string
}

// UUIDRandom implements Random with random (v4) UUIDs
type UUIDRandom struct{}

// New creates a new UUIDRandom
func New() *UUIDRandom {
	return &UUIDRandom{}
}

// NewID returns a random UUID string
func (r *UUIDRandom) NewID() string {
	return uuid.NewString()
}

// NewToken joins two crypto/rand texts for 256 bits of entropy
func (r *UUIDRandom) NewToken() string {
	return rand.Text() + rand.Text()
}
