package density

import (
	"fmt"

	"mini-worldgen/internal/noise"
)

// Binder supplies the seed-dependent instances a graph samples.
type Binder interface {
	Noise(id string) (*noise.Normal, error)
	Blended(s noise.BlendedSettings) *noise.Blended
	EndIslands() *noise.EndIslands
}

// Bind returns a copy of g with every noise leaf attached to the instance b
// supplies. Bounds are recomputed because they depend on the bound noise.
// g itself is left untouched.
func (g *Graph) Bind(b Binder) (*Graph, error) {
	out := &Graph{nodes: make([]Node, len(g.nodes)), keys: g.keys}
	copy(out.nodes, g.nodes)

	var islands *noise.EndIslands
	blended := make(map[noise.BlendedSettings]*noise.Blended)
	for i := range out.nodes {
		n := &out.nodes[i]
		if n.Spline != nil {
			n.Spline = n.Spline.clone(func(r Ref) Ref { return r })
		}
		switch n.Kind {
		case KindNoise, KindShiftedNoise, KindShiftA, KindShiftB, KindShift, KindWeirdScaled:
			inst, err := b.Noise(n.NoiseID)
			if err != nil {
				return nil, &ConfigError{Key: n.NoiseID, Err: fmt.Errorf("bind %v: %w", n.Kind, err)}
			}
			n.normal = inst
		case KindOldBlendedNoise:
			inst, ok := blended[n.Blended]
			if !ok {
				inst = b.Blended(n.Blended)
				blended[n.Blended] = inst
			}
			n.blended = inst
		case KindEndIslands:
			if islands == nil {
				islands = b.EndIslands()
			}
			n.islands = islands
		}
	}
	out.computeBounds()
	return out, nil
}
