package rewards

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"sync"
)

// LockedSource is a ChaCha8 generator seeded from the OS entropy pool and
// guarded for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource seeds a fresh LockedSource from crypto/rand.
func NewSource() (*LockedSource, error) {
	var seed [32]byte

	_, err := crand.Read(seed[:])
	if err != nil {
		return nil, fmt.Errorf("seed rng: %w", err)
	}

	return &LockedSource{rng: rand.New(rand.NewChaCha8(seed))}, nil
}

// NewSeededSource is deterministic; meant for simulations and tests.
func NewSeededSource(seed [32]byte) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewChaCha8(seed))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Float64()
}
