package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// Source implements Random on a ChaCha8 generator. Fleet placement draws
// thousands of values per board, so it avoids a crypto/rand read per call.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source seeded from crypto/rand
func New() *Source {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic("random: reading seed: " + err.Error())
	}
	return &Source{rng: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded creates a Source with a fixed seed, producing a reproducible sequence
func NewSeeded(seed uint64) *Source {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return &Source{rng: rand.New(rand.NewChaCha8(s))}
}

// Intn returns a random int in [0, n), or 0 if n is not positive
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
