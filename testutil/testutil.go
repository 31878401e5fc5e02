package testutil

import (
	"math"
	"math/rand"
	"sync"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int64s returns num values uniform in [-span, span).
func (r *RNG) Int64s(num int, span int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, num)
	for i := range out {
		out[i] = r.rand.Int63n(2*span) - span
	}
	return out
}

// Float64s returns num values from a standard normal distribution.
func (r *RNG) Float64s(num int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, num)
	for i := range out {
		out[i] = r.rand.NormFloat64()
	}
	return out
}

// Strings returns num lowercase strings with lengths in [0, maxLen].
func (r *RNG) Strings(num, maxLen int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, num)
	for i := range out {
		b := make([]byte, r.rand.Intn(maxLen+1))
		for j := range b {
			b[j] = alphabet[r.rand.Intn(len(alphabet))]
		}
		out[i] = string(b)
	}
	return out
}

// ZipfInt64s returns num values in [0, n) where value k is drawn with
// probability proportional to 1/(k+1)^s. Low values repeat often.
func (r *RNG) ZipfInt64s(num, n int, s float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Build CDF once per call.
	cdf := make([]float64, n)
	var sum float64
	for i := range n {
		sum += 1.0 / math.Pow(float64(i+1), s)
		cdf[i] = sum
	}

	out := make([]int64, num)
	for i := range out {
		x := r.rand.Float64() * sum
		k := 0
		for k < n-1 && cdf[k] < x {
			k++
		}
		out[i] = int64(k)
	}
	return out
}

// Shuffle randomizes the order of n elements.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}
