package sonify

import (
	"fmt"
	"math"
)

// RNG is a Mulberry32 seeded pseudo-random number generator.
// The full output sequence is a pure function of the seed: 32-bit wraparound
// arithmetic only, so sequences are bit-identical across platforms.
type RNG struct {
	state       uint32
	initialSeed uint32
}

// NewRNG creates a generator from a numeric seed.
func NewRNG(seed uint32) *RNG {
	return &RNG{
		state:       seed,
		initialSeed: seed,
	}
}

// Reset rewinds the generator to its initial seed.
func (r *RNG) Reset() {
	r.state = r.initialSeed
}

// Next advances the state and returns a float64 in [0, 1).
func (r *RNG) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// NextInt returns an integer in [min, max] inclusive.
func (r *RNG) NextInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + int(r.Next()*float64(max-min+1))
}

// NextFloat returns a float in [min, max).
func (r *RNG) NextFloat(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Gaussian returns a normally distributed value via the Box-Muller transform.
// Consumes exactly two draws.
func (r *RNG) Gaussian(mean, stddev float64) float64 {
	u1 := r.Next()
	u2 := r.Next()
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}

// Pick returns a uniformly chosen element. An empty slice is a contract
// violation and reported as an error.
func Pick[T any](r *RNG, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("pick from empty slice")
	}
	return items[r.NextInt(0, len(items)-1)], nil
}

// WeightedPick selects an element by cumulative weight. Weights need not sum
// to 1. If all weights are zero the last item is returned; this is the
// documented degenerate-vector fallback, not an error.
func WeightedPick[T any](r *RNG, items []T, weights []float64) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, fmt.Errorf("weighted pick from empty slice")
	}
	if len(items) != len(weights) {
		return zero, fmt.Errorf("weighted pick: %d items but %d weights", len(items), len(weights))
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return items[len(items)-1], nil
	}

	target := r.Next() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return items[i], nil
		}
	}
	return items[len(items)-1], nil
}

// Shuffle returns a new Fisher-Yates shuffled copy. The input is not mutated.
func Shuffle[T any](r *RNG, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := r.NextInt(0, i)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// StarSeed derives a deterministic default seed from a star's identity fields,
// so generation without an explicit seed is still stable per star.
func StarSeed(id string, ra, dec float64) uint32 {
	seed := uint32(2166136261)
	for i := 0; i < len(id); i++ {
		seed ^= uint32(id[i])
		seed *= 16777619
	}
	seed ^= uint32(int32(ra*1000)) * 2654435761
	seed ^= uint32(int32((dec+90)*1000)) * 2246822519
	seed = (seed ^ (seed >> 16)) * 0x85ebca6b
	seed = (seed ^ (seed >> 13)) * 0xc2b2ae35
	return seed ^ (seed >> 16)
}
