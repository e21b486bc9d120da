package noise

import (
	"math"

	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/rng"
)

var (
	sqrt3    = math.Sqrt(3)
	skewF2   = 0.5 * (sqrt3 - 1)
	unskewG2 = (3 - sqrt3) / 6
)

const (
	skewF3   = 0.3333333333333333
	unskewG3 = 0.16666666666666666
)

// Simplex is 2D and 3D simplex noise with its own permutation table.
type Simplex struct {
	perm       [512]int
	xo, yo, zo float64
}

func NewSimplex(r rng.Source) *Simplex {
	s := &Simplex{
		xo: r.NextDouble() * 256.0,
		yo: r.NextDouble() * 256.0,
		zo: r.NextDouble() * 256.0,
	}
	for i := 0; i < 256; i++ {
		s.perm[i] = i
	}
	for i := 0; i < 256; i++ {
		j := r.NextIntn(256 - i)
		s.perm[i], s.perm[i+j] = s.perm[i+j], s.perm[i]
	}
	return s
}

// Offsets returns the translation drawn at construction; callers that want
// it apply it themselves.
func (s *Simplex) Offsets() (x, y, z float64) { return s.xo, s.yo, s.zo }

func (s *Simplex) p(i int) int { return s.perm[i&0xFF] }

func cornerNoise(g int, x, y, z, radius float64) float64 {
	h := radius - float64(x*x) - float64(y*y) - float64(z*z)
	if h < 0 {
		return 0
	}
	h *= h
	return float64(h*h) * gradDot(gradient[g], x, y, z)
}

// Value2D samples 2D simplex noise, roughly in [-1, 1].
func (s *Simplex) Value2D(x, y float64) float64 {
	f := float64((x + y) * skewF2)
	i := mathx.Floor(x + f)
	j := mathx.Floor(y + f)
	g := float64(float64(i+j) * unskewG2)
	x0 := x - (float64(i) - g)
	y0 := y - (float64(j) - g)

	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + unskewG2
	y1 := y0 - float64(j1) + unskewG2
	x2 := x0 - 1 + float64(2*unskewG2)
	y2 := y0 - 1 + float64(2*unskewG2)

	ii := i & 0xFF
	jj := j & 0xFF
	g0 := s.p(ii+s.p(jj)) % 12
	g1 := s.p(ii+i1+s.p(jj+j1)) % 12
	g2 := s.p(ii+1+s.p(jj+1)) % 12

	n0 := cornerNoise(g0, x0, y0, 0, 0.5)
	n1 := cornerNoise(g1, x1, y1, 0, 0.5)
	n2 := cornerNoise(g2, x2, y2, 0, 0.5)
	return 70 * (n0 + n1 + n2)
}

// Value3D samples 3D simplex noise, roughly in [-1, 1].
func (s *Simplex) Value3D(x, y, z float64) float64 {
	f := float64((x + y + z) * skewF3)
	i := mathx.Floor(x + f)
	j := mathx.Floor(y + f)
	k := mathx.Floor(z + f)
	g := float64(float64(i+j+k) * unskewG3)
	x0 := x - (float64(i) - g)
	y0 := y - (float64(j) - g)
	z0 := z - (float64(k) - g)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + unskewG3
	y1 := y0 - float64(j1) + unskewG3
	z1 := z0 - float64(k1) + unskewG3
	x2 := x0 - float64(i2) + skewF3
	y2 := y0 - float64(j2) + skewF3
	z2 := z0 - float64(k2) + skewF3
	x3 := x0 - 1 + 0.5
	y3 := y0 - 1 + 0.5
	z3 := z0 - 1 + 0.5

	ii := i & 0xFF
	jj := j & 0xFF
	kk := k & 0xFF
	g0 := s.p(ii+s.p(jj+s.p(kk))) % 12
	g1 := s.p(ii+i1+s.p(jj+j1+s.p(kk+k1))) % 12
	g2 := s.p(ii+i2+s.p(jj+j2+s.p(kk+k2))) % 12
	g3 := s.p(ii+1+s.p(jj+1+s.p(kk+1))) % 12

	n0 := cornerNoise(g0, x0, y0, z0, 0.6)
	n1 := cornerNoise(g1, x1, y1, z1, 0.6)
	n2 := cornerNoise(g2, x2, y2, z2, 0.6)
	n3 := cornerNoise(g3, x3, y3, z3, 0.6)
	return 32 * (n0 + n1 + n2 + n3)
}
