package rng

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"

	"mini-worldgen/internal/mathx"
)

const (
	goldenRatio64 uint64 = 0x9E3779B97F4A7C15
	silverRatio64 uint64 = 0x6A09E667F3BCC909
)

func mixStafford13(z uint64) uint64 {
	z = (z ^ z>>30) * 0xBF58476D1CE4E5B9
	z = (z ^ z>>27) * 0x94D049BB133111EB
	return z ^ z>>31
}

// upgradeSeed expands a 64-bit seed into a mixed 128-bit state.
func upgradeSeed(seed int64) (lo, hi uint64) {
	lo = uint64(seed) ^ silverRatio64
	hi = lo + goldenRatio64
	return mixStafford13(lo), mixStafford13(hi)
}

// Xoroshiro is a Xoroshiro128++ stream.
type Xoroshiro struct {
	lo, hi uint64
	gauss  gaussian
}

func NewXoroshiro(seed int64) *Xoroshiro {
	return NewXoroshiro128(upgradeSeed(seed))
}

// NewXoroshiro128 uses the state words as given. An all-zero state is
// replaced by the fixed golden/silver pair.
func NewXoroshiro128(lo, hi uint64) *Xoroshiro {
	if lo|hi == 0 {
		lo, hi = goldenRatio64, silverRatio64
	}
	return &Xoroshiro{lo: lo, hi: hi}
}

func (x *Xoroshiro) next() uint64 {
	l, m := x.lo, x.hi
	n := bits.RotateLeft64(l+m, 17) + l
	m ^= l
	x.lo = bits.RotateLeft64(l, 49) ^ m ^ (m << 21)
	x.hi = bits.RotateLeft64(m, 28)
	return n
}

func (x *Xoroshiro) nextBits(n uint) uint64 { return x.next() >> (64 - n) }

func (x *Xoroshiro) NextInt() int32 { return int32(x.next()) }

func (x *Xoroshiro) NextIntn(bound int) int {
	if bound <= 0 {
		panic("rng: bound must be positive")
	}
	b := uint64(uint32(bound))
	m := uint64(uint32(x.NextInt())) * b
	low := m & 0xFFFFFFFF
	if low < b {
		threshold := uint64(uint32(-int32(bound)) % uint32(bound))
		for low < threshold {
			m = uint64(uint32(x.NextInt())) * b
			low = m & 0xFFFFFFFF
		}
	}
	return int(m >> 32)
}

func (x *Xoroshiro) NextLong() int64 { return int64(x.next()) }

func (x *Xoroshiro) NextBool() bool { return x.next()&1 != 0 }

func (x *Xoroshiro) NextFloat() float32 {
	return float32(x.nextBits(24)) * (1.0 / (1 << 24))
}

func (x *Xoroshiro) NextDouble() float64 {
	return float64(x.nextBits(53)) * 0x1p-53
}

func (x *Xoroshiro) NextGaussian() float64 { return x.gauss.sample(x.NextDouble) }

func (x *Xoroshiro) ConsumeCount(n int) {
	for i := 0; i < n; i++ {
		x.next()
	}
}

func (x *Xoroshiro) Fork() Source {
	lo := x.next()
	hi := x.next()
	return NewXoroshiro128(lo, hi)
}

func (x *Xoroshiro) ForkPositional() Positional {
	lo := x.next()
	hi := x.next()
	return XoroshiroPositional{lo: lo, hi: hi}
}

// XoroshiroPositional derives streams by xoring a position hash or the MD5
// digest of a name into its two seed words.
type XoroshiroPositional struct {
	lo, hi uint64
}

func (p XoroshiroPositional) At(x, y, z int) Source {
	return NewXoroshiro128(uint64(mathx.Seed(x, y, z))^p.lo, p.hi)
}

func (p XoroshiroPositional) FromHashOf(name string) Source {
	sum := md5.Sum([]byte(name))
	lo := binary.BigEndian.Uint64(sum[0:8])
	hi := binary.BigEndian.Uint64(sum[8:16])
	return NewXoroshiro128(lo^p.lo, hi^p.hi)
}

func (p XoroshiroPositional) FromSeed(seed int64) Source {
	return NewXoroshiro128(uint64(seed)^p.lo, uint64(seed)^p.hi)
}
