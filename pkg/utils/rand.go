package utils

import (
	"math/rand"
)

// RandSource is a seeded pseudo-random stream.
// A run creates exactly one RandSource from its configured seed and threads it
// through every sampling call, so the draw order fully determines the outcome.
// RandSource is not safe for concurrent use.
type RandSource struct {
	seed int64
	rng  *rand.Rand
}

// NewRandSource creates a new random source with the given seed
func NewRandSource(seed int64) *RandSource {
	return &RandSource{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with
func (r *RandSource) Seed() int64 {
	return r.seed
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// BernoulliBool returns true with probability p, false otherwise
func (r *RandSource) BernoulliBool(p float64) bool {
	return r.rng.Float64() < p
}

// UniformFloat64 returns a uniformly distributed random number in [min, max)
func (r *RandSource) UniformFloat64(min, max float64) float64 {
	return min + r.rng.Float64()*(max-min)
}

// UniformInt returns a uniformly distributed random integer in [min, max).
// It panics if max <= min.
func (r *RandSource) UniformInt(min, max int) int {
	return min + r.rng.Intn(max-min)
}
