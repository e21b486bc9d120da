package noise

import (
	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/rng"
)

// BlendedSettings are the scale parameters of the legacy terrain noise.
type BlendedSettings struct {
	XZScale              float64 `yaml:"xz_scale"`
	YScale               float64 `yaml:"y_scale"`
	XZFactor             float64 `yaml:"xz_factor"`
	YFactor              float64 `yaml:"y_factor"`
	SmearScaleMultiplier float64 `yaml:"smear_scale_multiplier"`
}

// DefaultBlendedSettings are the overworld values.
var DefaultBlendedSettings = BlendedSettings{
	XZScale:              0.25,
	YScale:               0.125,
	XZFactor:             80,
	YFactor:              160,
	SmearScaleMultiplier: 8,
}

// Blended is the legacy terrain noise: an 8-octave main field picks the
// blend factor between two 16-octave limit fields. Limit fields whose weight
// is zero are not sampled.
type Blended struct {
	settings BlendedSettings
	minLimit *Perlin
	maxLimit *Perlin
	main     *Perlin

	xzMultiplier float64
	yMultiplier  float64
	maxValue     float64
}

// NewBlended builds min, max and main from r in that order.
func NewBlended(r rng.Source, s BlendedSettings) *Blended {
	b := &Blended{
		settings: s,
		minLimit: newPerlinRange(r, -15, 0),
		maxLimit: newPerlinRange(r, -15, 0),
		main:     newPerlinRange(r, -7, 0),
	}
	b.xzMultiplier = 684.412 * s.XZScale
	b.yMultiplier = 684.412 * s.YScale
	b.maxValue = b.minLimit.MaxBrokenValue(b.yMultiplier)
	return b
}

// NewBlendedUnseeded builds the placeholder instance used before a world
// seed is known.
func NewBlendedUnseeded(s BlendedSettings) *Blended {
	return NewBlended(rng.NewXoroshiro(0), s)
}

// WithRandom rebuilds the noise with the same settings on a new stream.
func (b *Blended) WithRandom(r rng.Source) *Blended {
	return NewBlended(r, b.settings)
}

func (b *Blended) Settings() BlendedSettings { return b.settings }

// Compute samples at a block position.
func (b *Blended) Compute(x, y, z int) float64 {
	d := float64(x) * b.xzMultiplier
	e := float64(y) * b.yMultiplier
	f := float64(z) * b.xzMultiplier
	g := d / b.settings.XZFactor
	h := e / b.settings.YFactor
	i := f / b.settings.XZFactor
	smear := b.yMultiplier * b.settings.SmearScaleMultiplier
	smearMain := smear / b.settings.YFactor

	var lo, hi, mainSum float64
	o := 1.0
	for p := 0; p < 8; p++ {
		if q := b.main.OctaveNoise(p); q != nil {
			mainSum += q.Noise(Wrap(float64(g*o)), Wrap(float64(h*o)), Wrap(float64(i*o)), smearMain*o, h*o) / o
		}
		o /= 2
	}

	t := (mainSum/10 + 1) / 2
	skipMin := t >= 1
	skipMax := t <= 0
	o = 1
	for p := 0; p < 16; p++ {
		wx := Wrap(float64(d * o))
		wy := Wrap(float64(e * o))
		wz := Wrap(float64(f * o))
		ys := smear * o
		if !skipMin {
			if q := b.minLimit.OctaveNoise(p); q != nil {
				lo += q.Noise(wx, wy, wz, ys, e*o) / o
			}
		}
		if !skipMax {
			if q := b.maxLimit.OctaveNoise(p); q != nil {
				hi += q.Noise(wx, wy, wz, ys, e*o) / o
			}
		}
		o /= 2
	}
	return mathx.ClampedLerp(lo/512, hi/512, t) / 128
}

func (b *Blended) MinValue() float64 { return -b.maxValue }

func (b *Blended) MaxValue() float64 { return b.maxValue }
