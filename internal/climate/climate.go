// Package climate maps climate samples to biomes. Biomes claim axis-aligned
// boxes in a seven axis quantized parameter space; a sample picks the biome
// whose box is nearest.
package climate

import (
	"errors"
	"fmt"
)

// Axes is the dimension of the parameter space: the six sampled climate
// values plus the offset axis.
const Axes = 7

const quantizationFactor = 10000

var ErrSpan = errors.New("climate: span minimum above maximum")

// Quantize converts a climate value to fixed point, truncating toward zero.
func Quantize(v float32) int64 { return int64(float32(v * quantizationFactor)) }

func Unquantize(v int64) float32 { return float32(v) / quantizationFactor }

// Parameter is a closed quantized interval on one axis.
type Parameter struct {
	Min, Max int64
}

func Point(v float32) Parameter {
	q := Quantize(v)
	return Parameter{Min: q, Max: q}
}

func Span(lo, hi float32) (Parameter, error) {
	if lo > hi {
		return Parameter{}, fmt.Errorf("%w: %v > %v", ErrSpan, lo, hi)
	}
	return Parameter{Min: Quantize(lo), Max: Quantize(hi)}, nil
}

// Join spans from the minimum of a to the maximum of b.
func Join(a, b Parameter) Parameter { return Parameter{Min: a.Min, Max: b.Max} }

// Distance is how far v lies outside the interval, or 0 inside it.
func (p Parameter) Distance(v int64) int64 {
	if d := v - p.Max; d > 0 {
		return d
	}
	return max(p.Min-v, 0)
}

// DistanceTo is the gap between two intervals, or 0 if they overlap.
func (p Parameter) DistanceTo(o Parameter) int64 {
	if d := o.Min - p.Max; d > 0 {
		return d
	}
	return max(p.Min-o.Max, 0)
}

func (p Parameter) Union(o Parameter) Parameter {
	return Parameter{Min: min(p.Min, o.Min), Max: max(p.Max, o.Max)}
}

func (p Parameter) mid() int64 { return (p.Min + p.Max) / 2 }

func (p Parameter) width() int64 { return abs64(p.Max - p.Min) }

func (p Parameter) String() string {
	if p.Min == p.Max {
		return fmt.Sprintf("%v", Unquantize(p.Min))
	}
	return fmt.Sprintf("[%v..%v]", Unquantize(p.Min), Unquantize(p.Max))
}

// ParameterPoint is the box a biome claims. Offset is a fixed distance
// added to every match, pushing the biome behind others.
type ParameterPoint struct {
	Temperature     Parameter
	Humidity        Parameter
	Continentalness Parameter
	Erosion         Parameter
	Depth           Parameter
	Weirdness       Parameter
	Offset          int64
}

// Space returns the box as one interval per axis.
func (p ParameterPoint) Space() [Axes]Parameter {
	return [Axes]Parameter{
		p.Temperature, p.Humidity, p.Continentalness, p.Erosion, p.Depth, p.Weirdness,
		{Min: p.Offset, Max: p.Offset},
	}
}

// Fitness is the squared distance from t to the box; lower is better.
func (p ParameterPoint) Fitness(t TargetPoint) int64 {
	return square(p.Temperature.Distance(t.Temperature)) +
		square(p.Humidity.Distance(t.Humidity)) +
		square(p.Continentalness.Distance(t.Continentalness)) +
		square(p.Erosion.Distance(t.Erosion)) +
		square(p.Depth.Distance(t.Depth)) +
		square(p.Weirdness.Distance(t.Weirdness)) +
		square(p.Offset)
}

// TargetPoint is a quantized climate sample.
type TargetPoint struct {
	Temperature     int64
	Humidity        int64
	Continentalness int64
	Erosion         int64
	Depth           int64
	Weirdness       int64
}

func Target(temperature, humidity, continentalness, erosion, depth, weirdness float32) TargetPoint {
	return TargetPoint{
		Temperature:     Quantize(temperature),
		Humidity:        Quantize(humidity),
		Continentalness: Quantize(continentalness),
		Erosion:         Quantize(erosion),
		Depth:           Quantize(depth),
		Weirdness:       Quantize(weirdness),
	}
}

// array lays t out along the index axes; the offset axis is always 0.
func (t TargetPoint) array() [Axes]int64 {
	return [Axes]int64{t.Temperature, t.Humidity, t.Continentalness, t.Erosion, t.Depth, t.Weirdness, 0}
}

func square(v int64) int64 { return v * v }

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
