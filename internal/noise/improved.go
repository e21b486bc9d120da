package noise

import (
	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/rng"
)

// gradient is the 16-entry lattice gradient table shared with simplex noise.
var gradient = [16][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

func gradDot(g [3]float64, x, y, z float64) float64 {
	return float64(g[0]*x) + float64(g[1]*y) + float64(g[2]*z)
}

// Improved is one octave of improved gradient noise.
type Improved struct {
	perm       [256]byte
	xo, yo, zo float64
}

// NewImproved draws the three offsets and then shuffles the permutation
// table from r. The draw order is part of the output.
func NewImproved(r rng.Source) *Improved {
	n := &Improved{
		xo: r.NextDouble() * 256.0,
		yo: r.NextDouble() * 256.0,
		zo: r.NextDouble() * 256.0,
	}
	for i := 0; i < 256; i++ {
		n.perm[i] = byte(i)
	}
	for i := 0; i < 256; i++ {
		j := r.NextIntn(256 - i)
		n.perm[i], n.perm[i+j] = n.perm[i+j], n.perm[i]
	}
	return n
}

// YOffset is the instance's Y translation; flat 2D sampling pins y to -YOffset.
func (n *Improved) YOffset() float64 { return n.yo }

func (n *Improved) p(i int) int { return int(n.perm[i&0xFF]) }

// Noise samples at (x, y, z). A non-zero yScale folds the Y lattice
// fraction used for gradients onto multiples of yScale, bounded above by
// yMax when yMax is non-negative.
func (n *Improved) Noise(x, y, z, yScale, yMax float64) float64 {
	dx := x + n.xo
	dy := y + n.yo
	dz := z + n.zo
	ix := mathx.Floor(dx)
	iy := mathx.Floor(dy)
	iz := mathx.Floor(dz)
	fx := dx - float64(ix)
	fy := dy - float64(iy)
	fz := dz - float64(iz)

	var fold float64
	if yScale != 0 {
		r := fy
		if yMax >= 0 && yMax < fy {
			r = yMax
		}
		fold = float64(float64(mathx.Floor(r/yScale+float64(float32(1e-7)))) * yScale)
	}
	return n.sampleAndLerp(ix, iy, iz, fx, fy-fold, fz, fy)
}

// Sample is Noise without Y folding.
func (n *Improved) Sample(x, y, z float64) float64 {
	return n.Noise(x, y, z, 0, 0)
}

func (n *Improved) sampleAndLerp(ix, iy, iz int, fx, fy, fz, fyOrig float64) float64 {
	h0 := n.p(ix)
	h1 := n.p(ix + 1)
	h00 := n.p(h0 + iy)
	h01 := n.p(h0 + iy + 1)
	h10 := n.p(h1 + iy)
	h11 := n.p(h1 + iy + 1)

	v000 := gradDot(gradient[n.p(h00+iz)&15], fx, fy, fz)
	v100 := gradDot(gradient[n.p(h10+iz)&15], fx-1, fy, fz)
	v010 := gradDot(gradient[n.p(h01+iz)&15], fx, fy-1, fz)
	v110 := gradDot(gradient[n.p(h11+iz)&15], fx-1, fy-1, fz)
	v001 := gradDot(gradient[n.p(h00+iz+1)&15], fx, fy, fz-1)
	v101 := gradDot(gradient[n.p(h10+iz+1)&15], fx-1, fy, fz-1)
	v011 := gradDot(gradient[n.p(h01+iz+1)&15], fx, fy-1, fz-1)
	v111 := gradDot(gradient[n.p(h11+iz+1)&15], fx-1, fy-1, fz-1)

	sx := mathx.Smoothstep(fx)
	sy := mathx.Smoothstep(fyOrig)
	sz := mathx.Smoothstep(fz)
	return mathx.Lerp3(sx, sy, sz, v000, v100, v010, v110, v001, v101, v011, v111)
}
