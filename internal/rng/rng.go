// Package rng provides the two seeded random streams used by world
// generation: the 48-bit linear congruential generator used by legacy
// worlds and Xoroshiro128++ used by modern ones. Both come with positional
// factories that derive independent streams from block positions or names.
package rng

import (
	"fmt"
	"math"
)

// Source is a seeded random stream. Implementations are not safe for
// concurrent use.
type Source interface {
	NextInt() int32
	// NextIntn returns a value in [0, bound). bound must be positive.
	NextIntn(bound int) int
	NextLong() int64
	NextBool() bool
	NextFloat() float32
	NextDouble() float64
	NextGaussian() float64
	// ConsumeCount advances the stream by n draws.
	ConsumeCount(n int)
	Fork() Source
	ForkPositional() Positional
}

// Positional derives streams that do not depend on the order in which they
// are requested.
type Positional interface {
	At(x, y, z int) Source
	FromHashOf(name string) Source
	FromSeed(seed int64) Source
}

// Algorithm selects the stream family for a world seed.
type Algorithm uint8

const (
	AlgorithmXoroshiro Algorithm = iota
	AlgorithmLegacy
)

// New returns a fresh stream of this family.
func (a Algorithm) New(seed int64) Source {
	if a == AlgorithmLegacy {
		return NewLegacy(seed)
	}
	return NewXoroshiro(seed)
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmLegacy:
		return "legacy"
	case AlgorithmXoroshiro:
		return "xoroshiro"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// gaussian implements the Marsaglia polar method on top of NextDouble.
type gaussian struct {
	next    float64
	hasNext bool
}

func (g *gaussian) reset() { g.hasNext = false }

func (g *gaussian) sample(nextDouble func() float64) float64 {
	if g.hasNext {
		g.hasNext = false
		return g.next
	}
	for {
		d := 2.0*nextDouble() - 1.0
		e := 2.0*nextDouble() - 1.0
		f := float64(d*d) + float64(e*e)
		if f >= 1.0 || f == 0.0 {
			continue
		}
		m := math.Sqrt(-2.0 * math.Log(f) / f)
		g.next = e * m
		g.hasNext = true
		return d * m
	}
}
