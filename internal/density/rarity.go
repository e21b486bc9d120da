package density

import "fmt"

// Rarity maps an input value band to the scale factor of a weird scaled
// sampler.
type Rarity uint8

const (
	RarityNone Rarity = iota
	// RarityTunnels3D is "type_1".
	RarityTunnels3D
	// RarityTunnels2D is "type_2".
	RarityTunnels2D
)

func ParseRarity(name string) (Rarity, error) {
	switch name {
	case "type_1":
		return RarityTunnels3D, nil
	case "type_2":
		return RarityTunnels2D, nil
	}
	return RarityNone, fmt.Errorf("%w: unknown rarity mapper %q", ErrInvalid, name)
}

func (r Rarity) String() string {
	switch r {
	case RarityTunnels3D:
		return "type_1"
	case RarityTunnels2D:
		return "type_2"
	}
	return fmt.Sprintf("Rarity(%d)", uint8(r))
}

func (r Rarity) Scale(d float64) float64 {
	if r == RarityTunnels2D {
		switch {
		case d < -0.75:
			return 0.5
		case d < -0.5:
			return 0.75
		case d < 0.5:
			return 1
		case d < 0.75:
			return 2
		}
		return 3
	}
	switch {
	case d < -0.5:
		return 0.75
	case d < 0:
		return 1
	case d < 0.5:
		return 1.5
	}
	return 2
}

func (r Rarity) MaxScale() float64 {
	if r == RarityTunnels2D {
		return 3
	}
	return 2
}
