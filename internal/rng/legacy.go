package rng

import "mini-worldgen/internal/mathx"

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = 1<<48 - 1
)

// Legacy is the 48-bit linear congruential generator.
type Legacy struct {
	seed  int64
	gauss gaussian
}

func NewLegacy(seed int64) *Legacy {
	l := &Legacy{}
	l.SetSeed(seed)
	return l
}

// SetSeed scrambles seed into the 48-bit state.
func (l *Legacy) SetSeed(seed int64) {
	l.seed = (seed ^ lcgMultiplier) & lcgMask
	l.gauss.reset()
}

func (l *Legacy) next(bits uint) int32 {
	l.seed = (l.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int32(l.seed >> (48 - bits))
}

func (l *Legacy) NextInt() int32 { return l.next(32) }

func (l *Legacy) NextIntn(bound int) int {
	if bound <= 0 {
		panic("rng: bound must be positive")
	}
	b := int32(bound)
	if b&-b == b {
		return int((int64(b) * int64(l.next(31))) >> 31)
	}
	for {
		bits := l.next(31)
		val := bits % b
		if bits-val+(b-1) >= 0 {
			return int(val)
		}
	}
}

func (l *Legacy) NextLong() int64 {
	hi := int64(l.next(32))
	lo := int64(l.next(32))
	return hi<<32 + lo
}

func (l *Legacy) NextBool() bool { return l.next(1) != 0 }

func (l *Legacy) NextFloat() float32 {
	return float32(l.next(24)) * (1.0 / (1 << 24))
}

func (l *Legacy) NextDouble() float64 {
	hi := int64(l.next(26))
	lo := int64(l.next(27))
	return float64(hi<<27+lo) * 0x1p-53
}

func (l *Legacy) NextGaussian() float64 { return l.gauss.sample(l.NextDouble) }

func (l *Legacy) ConsumeCount(n int) {
	for i := 0; i < n; i++ {
		l.next(32)
	}
}

func (l *Legacy) Fork() Source { return NewLegacy(l.NextLong()) }

func (l *Legacy) ForkPositional() Positional { return LegacyPositional{seed: l.NextLong()} }

// LegacyPositional mixes positions and name hashes into the factory seed.
type LegacyPositional struct {
	seed int64
}

func NewLegacyPositional(seed int64) LegacyPositional { return LegacyPositional{seed: seed} }

func (p LegacyPositional) At(x, y, z int) Source {
	return NewLegacy(mathx.Seed(x, y, z) ^ p.seed)
}

func (p LegacyPositional) FromHashOf(name string) Source {
	return NewLegacy(int64(mathx.StringHash32(name)) ^ p.seed)
}

func (p LegacyPositional) FromSeed(seed int64) Source { return NewLegacy(seed) }
