// Package mathx holds the numeric helpers shared by the noise, density and
// region packages. Results must be bit-exact across platforms: products that
// feed an addition are wrapped in an explicit float64 conversion so the
// compiler never fuses them into FMA instructions.
package mathx

import "math"

// Floor truncates, then steps down for negative non-integers.
func Floor(d float64) int {
	i := int(d)
	if d < float64(i) {
		return i - 1
	}
	return i
}

// LFloor is the 64-bit variant of Floor.
func LFloor(d float64) int64 {
	l := int64(d)
	if d < float64(l) {
		return l - 1
	}
	return l
}

func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// Lerp returns start + delta*(end-start).
func Lerp(delta, start, end float64) float64 {
	return start + float64(delta*(end-start))
}

func Lerp2(dx, dy, x0y0, x1y0, x0y1, x1y1 float64) float64 {
	return Lerp(dy, Lerp(dx, x0y0, x1y0), Lerp(dx, x0y1, x1y1))
}

// Lerp3 interpolates X first, then Y, then Z. Corner arguments are ordered
// 000, 100, 010, 110, 001, 101, 011, 111 (xyz).
func Lerp3(dx, dy, dz, v000, v100, v010, v110, v001, v101, v011, v111 float64) float64 {
	return Lerp(dz, Lerp2(dx, dy, v000, v100, v010, v110), Lerp2(dx, dy, v001, v101, v011, v111))
}

func LerpF(delta, start, end float32) float32 {
	return start + float32(delta*(end-start))
}

// Smoothstep is the quintic fade 6t^5 - 15t^4 + 10t^3.
func Smoothstep(t float64) float64 {
	inner := float64(t*(float64(t*6.0)-15.0)) + 10.0
	return float64(float64(t*t)*t) * inner
}

func ClampedLerp(start, end, delta float64) float64 {
	if delta < 0.0 {
		return start
	}
	if delta > 1.0 {
		return end
	}
	return Lerp(delta, start, end)
}

func InverseLerp(v, start, end float64) float64 {
	return (v - start) / (end - start)
}

// ClampedMap maps v from [fromStart, fromEnd] onto [toStart, toEnd],
// saturating outside the input range.
func ClampedMap(v, fromStart, fromEnd, toStart, toEnd float64) float64 {
	return ClampedLerp(toStart, toEnd, InverseLerp(v, fromStart, fromEnd))
}

// ClampF clamps in float32; NaN passes through.
func ClampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func SqrtF(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

func AbsF(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

// BinarySearch returns the first index in [from, to) for which pred is true,
// or to when there is none. pred must be monotone.
func BinarySearch(from, to int, pred func(int) bool) int {
	n := to - from
	for n > 0 {
		half := n / 2
		mid := from + half
		if pred(mid) {
			n = half
			continue
		}
		from = mid + 1
		n -= half + 1
	}
	return from
}

// Seed hashes a block position into a 64-bit seed. The X product wraps in
// 32-bit arithmetic.
func Seed(x, y, z int) int64 {
	l := int64(int32(x)*3129871) ^ int64(z)*116129781 ^ int64(y)
	l = l*l*42317861 + l*11
	return l >> 16
}

func QuartFromBlock(v int) int { return v >> 2 }

func QuartToBlock(v int) int { return v << 2 }

// StringHash32 is the base-31 polynomial hash over UTF-16 code units.
func StringHash32(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			h = 31*h + int32(0xD800+(r>>10))
			h = 31*h + int32(0xDC00+(r&0x3FF))
			continue
		}
		h = 31*h + int32(r)
	}
	return h
}

func Square(v int64) int64 { return v * v }

func AbsInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
