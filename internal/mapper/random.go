package mapper

import (
	"math/rand/v2"
)

// RandomSource is the only source of randomness the resolvers use.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// IntN returns a uniform integer in [0, n). n > 0.
	IntN(n int) int
}

// NewRandomSource returns a seeded PCG generator. It is not safe for
// concurrent use; give each layout pass its own.
func NewRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
