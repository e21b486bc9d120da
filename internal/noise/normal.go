package noise

import (
	"math"

	"mini-worldgen/internal/rng"
)

// normalInputFactor decorrelates the second field from the first.
const normalInputFactor = 1.0181268882175227

// Normal sums two independently seeded Perlin fields and rescales the sum so
// its deviation is roughly independent of the octave count.
type Normal struct {
	params      Parameters
	first       *Perlin
	second      *Perlin
	valueFactor float64
	maxValue    float64
}

// NewNormal builds both fields positionally.
func NewNormal(r rng.Source, p Parameters) *Normal {
	return newNormal(p, NewPerlin(r, p), NewPerlin(r, p))
}

// NewNormalLegacy builds both fields with sequential legacy construction, as
// the legacy climate noises do.
func NewNormalLegacy(r rng.Source, p Parameters) (*Normal, error) {
	first, err := NewPerlinLegacy(r, p)
	if err != nil {
		return nil, err
	}
	second, err := NewPerlinLegacy(r, p)
	if err != nil {
		return nil, err
	}
	return newNormal(p, first, second), nil
}

func newNormal(p Parameters, first, second *Perlin) *Normal {
	lo, hi := int32(math.MaxInt32), int32(math.MinInt32)
	for i, amp := range p.Amplitudes {
		if amp != 0 {
			lo = min(lo, int32(i))
			hi = max(hi, int32(i))
		}
	}
	n := &Normal{
		params:      p,
		first:       first,
		second:      second,
		valueFactor: 0.16666666666666666 / expectedDeviation(hi-lo),
	}
	n.maxValue = (first.MaxValue() + second.MaxValue()) * n.valueFactor
	return n
}

func expectedDeviation(span int32) float64 {
	return 0.1 * (1.0 + 1.0/float64(span+1))
}

func (n *Normal) Value(x, y, z float64) float64 {
	a := n.first.Value(x, y, z)
	b := n.second.Value(x*normalInputFactor, y*normalInputFactor, z*normalInputFactor)
	return (a + b) * n.valueFactor
}

func (n *Normal) MaxValue() float64 { return n.maxValue }

func (n *Normal) Parameters() Parameters { return n.params }
