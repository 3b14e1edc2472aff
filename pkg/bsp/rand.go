package bsp

import "math/rand/v2"

// Rand is the random source threaded through every generation step.
// *rand.Rand from math/rand/v2 satisfies it; tests substitute scripted
// sources.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// NewRand returns the PCG stream used for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// floatRange draws uniformly from [lo, hi).
func floatRange(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// intRange draws uniformly from the closed interval [lo, hi].
func intRange(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
