package noise

import (
	"math"

	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/rng"
)

// endIslandSkip positions the legacy stream where the island field is drawn.
const endIslandSkip = 17292

// EndIslands is the float32 island height field of the outer end.
type EndIslands struct {
	island *Simplex
}

func NewEndIslands(seed int64) *EndIslands {
	r := rng.NewLegacy(seed)
	r.ConsumeCount(endIslandSkip)
	return &EndIslands{island: NewSimplex(r)}
}

// Height returns the island height at a coordinate in 8-block units.
func (e *EndIslands) Height(x, z int) float32 {
	cx, cz := x/2, z/2
	ox, oz := x%2, z%2
	dist := mathx.SqrtF(float32(int32(x)*int32(x) + int32(z)*int32(z)))
	f := mathx.ClampF(100-float32(dist*8), -100, 80)

	threshold := float64(float32(-0.9))
	for o := -12; o <= 12; o++ {
		for p := -12; p <= 12; p++ {
			q := int64(cx + o)
			r := int64(cz + p)
			if q*q+r*r <= 4096 {
				continue
			}
			if !(e.island.Value2D(float64(q), float64(r)) < threshold) {
				continue
			}
			ax := float32(mathx.AbsF(float32(q)) * 3439)
			az := float32(mathx.AbsF(float32(r)) * 147)
			g := float32(math.Mod(float64(ax+az), 13)) + 9
			h := float32(ox - o*2)
			s := float32(oz - p*2)
			d := mathx.SqrtF(float32(h*h) + float32(s*s))
			t := mathx.ClampF(100-float32(d*g), -100, 80)
			f = max(f, t)
		}
	}
	return f
}

// Compute samples at a block position. Division truncates toward zero.
func (e *EndIslands) Compute(x, z int) float64 {
	return (float64(e.Height(x/8, z/8)) - 8) / 128
}

const (
	EndIslandsMin = -0.84375
	EndIslandsMax = 0.5625
)
