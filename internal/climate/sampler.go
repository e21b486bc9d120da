package climate

import (
	"mini-worldgen/internal/density"
	"mini-worldgen/internal/mathx"
)

// Sampler names the density nodes that produce the six climate values.
type Sampler struct {
	Temperature     density.Ref
	Humidity        density.Ref
	Continentalness density.Ref
	Erosion         density.Ref
	Depth           density.Ref
	Weirdness       density.Ref
}

// NewSampler looks the climate nodes up by key in g.
func NewSampler(g *density.Graph, temperature, humidity, continentalness, erosion, depth, weirdness string) (Sampler, error) {
	var s Sampler
	for _, f := range []struct {
		key string
		dst *density.Ref
	}{
		{temperature, &s.Temperature},
		{humidity, &s.Humidity},
		{continentalness, &s.Continentalness},
		{erosion, &s.Erosion},
		{depth, &s.Depth},
		{weirdness, &s.Weirdness},
	} {
		r, ok := g.Lookup(f.key)
		if !ok {
			return Sampler{}, &density.ConfigError{Key: f.key, Err: density.ErrUndefined}
		}
		*f.dst = r
	}
	return s, nil
}

// Sample evaluates the climate at quart position (x, y, z).
func (s Sampler) Sample(ev density.Evaluator, x, y, z int) TargetPoint {
	p := density.Point{X: mathx.QuartToBlock(x), Y: mathx.QuartToBlock(y), Z: mathx.QuartToBlock(z)}
	return Target(
		float32(ev.Eval(s.Temperature, p)),
		float32(ev.Eval(s.Humidity, p)),
		float32(ev.Eval(s.Continentalness, p)),
		float32(ev.Eval(s.Erosion, p)),
		float32(ev.Eval(s.Depth, p)),
		float32(ev.Eval(s.Weirdness, p)),
	)
}
