// Package noise implements the seeded gradient noise generators behind the
// density graph's leaf nodes: single-octave improved noise, the
// multi-octave Perlin sum, the dual-field normal noise, the legacy blended
// terrain noise, simplex noise and the end-island height field.
//
// Every generator is immutable after construction and safe for concurrent
// reads.
package noise

import "fmt"

// Parameters describe a multi-octave noise: the lowest octave and the
// amplitude of each octave from there upwards.
type Parameters struct {
	FirstOctave int       `yaml:"first_octave" json:"first_octave"`
	Amplitudes  []float64 `yaml:"amplitudes" json:"amplitudes"`
}

func NewParameters(firstOctave int, amplitudes ...float64) Parameters {
	return Parameters{FirstOctave: firstOctave, Amplitudes: amplitudes}
}

func (p Parameters) String() string {
	return fmt.Sprintf("octave %d %v", p.FirstOctave, p.Amplitudes)
}

// ParameterSource supplies parameters by noise identifier.
type ParameterSource interface {
	NoiseParameters(id string) (Parameters, bool)
}

// ParameterMap is the simplest ParameterSource.
type ParameterMap map[string]Parameters

func (m ParameterMap) NoiseParameters(id string) (Parameters, bool) {
	p, ok := m[id]
	return p, ok
}

// octaveRange builds unit amplitudes for every octave in [lo, hi].
func octaveRange(lo, hi int) Parameters {
	amps := make([]float64, hi-lo+1)
	for i := range amps {
		amps[i] = 1
	}
	return Parameters{FirstOctave: lo, Amplitudes: amps}
}
