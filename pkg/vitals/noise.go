package vitals

import (
	"math/rand"
	"sync"
)

// NoiseSource supplies the random draws the generator consumes. UniformInt is
// inclusive of both bounds.
type NoiseSource interface {
	UniformInt(a, b int) int
	UniformFloat(a, b float64) float64
}

// RandSource is a seeded source. Safe for concurrent use.
type RandSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandSource(seed int64) *RandSource {
	return &RandSource{rnd: rand.New(rand.NewSource(seed))}
}

func (r *RandSource) UniformInt(a, b int) int {
	if b < a {
		a, b = b, a
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return a + r.rnd.Intn(b-a+1)
}

func (r *RandSource) UniformFloat(a, b float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return a + r.rnd.Float64()*(b-a)
}

type globalSource struct{}

// DefaultSource draws from the process-wide math/rand source.
func DefaultSource() NoiseSource {
	return globalSource{}
}

func (globalSource) UniformInt(a, b int) int {
	if b < a {
		a, b = b, a
	}
	return a + rand.Intn(b-a+1)
}

func (globalSource) UniformFloat(a, b float64) float64 {
	return a + rand.Float64()*(b-a)
}
