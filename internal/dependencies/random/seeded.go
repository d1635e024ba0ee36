package random

import (
	"sync"

	"golang.org/x/exp/rand"
)

// SeededRandom implements Random with a deterministic PCG source. The same
// seed always yields the same sequence, which makes self-play and replays
// reproducible.
type SeededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Random = (*SeededRandom)(nil)

// NewSeeded creates a SeededRandom from seed
func NewSeeded(seed uint64) *SeededRandom {
	return &SeededRandom{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n)
func (r *SeededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Float64 returns a pseudo-random float in [0.0, 1.0)
func (r *SeededRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// String generates a pseudo-random string of the given length from the given alphabet
func (r *SeededRandom) String(length int, alphabet string) string {
	return randomString(r, length, alphabet)
}
