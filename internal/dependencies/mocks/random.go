package mocks

import (
	"fmt"

	"github.com/mcoot/drawguess/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	// IDResults is a queue of results to return from NewID
	IDResults []string
	idIndex   int
	generated int

	// TokenResults is a queue of results to return from NewToken
	TokenResults []string
	tokenIndex   int
	tokens       int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// NewID returns the next queued id, or a sequential "id-N" once the queue is empty
func (r *MockRandom) NewID() string {
	if r.idIndex < len(r.IDResults) {
		result := r.IDResults[r.idIndex]
		r.idIndex++
		return result
	}
	r.generated++
	return fmt.Sprintf("id-%d", r.generated)
}

// NewToken returns the next queued token, or a sequential "token-N"
func (r *MockRandom) NewToken() string {
	if r.tokenIndex < len(r.TokenResults) {
		result := r.TokenResults[r.tokenIndex]
		r.tokenIndex++
		return result
	}
	r.tokens++
	return fmt.Sprintf("token-%d", r.tokens)
}

// QueueToken adds values to the NewToken result queue
func (r *MockRandom) QueueToken(values ...string) {
	r.TokenResults = append(r.TokenResults, values...)
}

// QueueID adds values to the NewID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.IDResults = append(r.IDResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.IDResults = nil
	r.idIndex = 0
	r.generated = 0
	r.TokenResults = nil
	r.tokenIndex = 0
	r.tokens = 0
}
