package noise

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/rng"
)

// skipPerOctave is the number of draws one improved-noise construction
// consumes: three offsets of two draws each and 256 shuffle draws.
const skipPerOctave = 262

const wrapPeriod = 33554432.0

var (
	ErrPositiveOctave = errors.New("positive octaves are not supported by legacy construction")
	ErrLevelCount     = errors.New("noise level count does not match non-zero amplitudes")
)

// Wrap folds large coordinates back near the origin so lattice lookups keep
// their precision.
func Wrap(v float64) float64 {
	return v - float64(float64(mathx.LFloor(v/wrapPeriod+0.5))*wrapPeriod)
}

// Perlin is a sum of improved-noise octaves. Levels are stored from the
// lowest frequency upwards and nil for zero-amplitude octaves.
type Perlin struct {
	levels      []*Improved
	firstOctave int
	amplitudes  []float64

	lowestFreqInputFactor float64
	lowestFreqValueFactor float64
	maxValue              float64
}

// NewPerlin builds every octave from its own positional stream, seeded by
// the hash of "octave_<n>", so construction order does not matter.
func NewPerlin(r rng.Source, p Parameters) *Perlin {
	n := newPerlinShell(p)
	factory := r.ForkPositional()
	for k, amp := range n.amplitudes {
		if amp != 0 {
			name := "octave_" + strconv.Itoa(n.firstOctave+k)
			n.levels[k] = NewImproved(factory.FromHashOf(name))
		}
	}
	n.finish()
	return n
}

// NewPerlinLegacy consumes r sequentially from octave 0 downwards. Octaves
// with zero amplitude, and octaves below the configured range, still advance
// the stream by one octave's worth of draws.
func NewPerlinLegacy(r rng.Source, p Parameters) (*Perlin, error) {
	n := newPerlinShell(p)
	count := len(n.amplitudes)
	top := -n.firstOctave

	zero := NewImproved(r)
	if top >= 0 && top < count && n.amplitudes[top] != 0 {
		n.levels[top] = zero
	}
	for k := top - 1; k >= 0; k-- {
		if k < count && n.amplitudes[k] != 0 {
			n.levels[k] = NewImproved(r)
			continue
		}
		r.ConsumeCount(skipPerOctave)
	}

	built, want := 0, 0
	for k, lvl := range n.levels {
		if lvl != nil {
			built++
		}
		if n.amplitudes[k] != 0 {
			want++
		}
	}
	if built != want {
		return nil, fmt.Errorf("%v: %w", p, ErrLevelCount)
	}
	if top < count-1 {
		return nil, fmt.Errorf("%v: %w", p, ErrPositiveOctave)
	}
	n.finish()
	return n, nil
}

// newPerlinRange is the legacy construction over unit amplitudes for every
// octave in [lo, hi]. hi must not be positive.
func newPerlinRange(r rng.Source, lo, hi int) *Perlin {
	n, err := NewPerlinLegacy(r, octaveRange(lo, hi))
	if err != nil {
		panic(err)
	}
	return n
}

func newPerlinShell(p Parameters) *Perlin {
	amps := append([]float64(nil), p.Amplitudes...)
	return &Perlin{
		levels:      make([]*Improved, len(amps)),
		firstOctave: p.FirstOctave,
		amplitudes:  amps,
	}
}

func (n *Perlin) finish() {
	count := len(n.amplitudes)
	n.lowestFreqInputFactor = math.Pow(2, float64(n.firstOctave))
	n.lowestFreqValueFactor = math.Pow(2, float64(count-1)) / (math.Pow(2, float64(count)) - 1)
	n.maxValue = n.edgeValue(2)
}

// Value samples the sum at (x, y, z).
func (n *Perlin) Value(x, y, z float64) float64 {
	return n.value(x, y, z, 0, 0, false)
}

// ValueFlat samples the sum with every octave's Y pinned to its own -YOffset.
func (n *Perlin) ValueFlat(x, z float64) float64 {
	return n.value(x, 0, z, 0, 0, true)
}

func (n *Perlin) value(x, y, z, yScale, yMax float64, flatY bool) float64 {
	var sum float64
	in := n.lowestFreqInputFactor
	out := n.lowestFreqValueFactor
	for i, lvl := range n.levels {
		if lvl != nil {
			sy := -lvl.yo
			if !flatY {
				sy = Wrap(float64(y * in))
			}
			v := lvl.Noise(Wrap(float64(x*in)), sy, Wrap(float64(z*in)), yScale*in, yMax*in)
			sum += float64(float64(n.amplitudes[i]*v) * out)
		}
		in *= 2
		out /= 2
	}
	return sum
}

// OctaveNoise returns the i-th level counted from the highest frequency
// downwards, or nil.
func (n *Perlin) OctaveNoise(i int) *Improved {
	return n.levels[len(n.levels)-1-i]
}

func (n *Perlin) edgeValue(d float64) float64 {
	var sum float64
	out := n.lowestFreqValueFactor
	for i, lvl := range n.levels {
		if lvl != nil {
			sum += float64(float64(n.amplitudes[i]*d) * out)
		}
		out /= 2
	}
	return sum
}

func (n *Perlin) MaxValue() float64 { return n.maxValue }

// MaxBrokenValue bounds the output when octaves are sampled with a Y fold
// of d.
func (n *Perlin) MaxBrokenValue(d float64) float64 { return n.edgeValue(d + 2) }

func (n *Perlin) FirstOctave() int { return n.firstOctave }

func (n *Perlin) Amplitudes() []float64 { return n.amplitudes }
