package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// Monte-Carlo sampling. Callers own their RNG and pass it explicitly.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Normal draws from a Gaussian with the given mean and standard deviation.
// A non-positive sd returns mean without consuming randomness.
func (r *RNG) Normal(mean, sd float64) float64 {
	if sd <= 0 {
		return mean
	}
	return mean + sd*r.r.NormFloat64()
}

// Uniform draws from [mean-span/2, mean+span/2). A non-positive span returns
// mean without consuming randomness.
func (r *RNG) Uniform(mean, span float64) float64 {
	if span <= 0 {
		return mean
	}
	return mean - 0.5*span + span*r.r.Float64()
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
