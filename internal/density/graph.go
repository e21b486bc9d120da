// Package density models scalar fields as an immutable graph of nodes held
// in an arena. Nodes are addressed by Ref; the same Ref used by several
// parents is one node, so caches keyed by Ref are shared between them.
package density

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/noise"
)

// Ref addresses a node in a Graph.
type Ref int32

// NoRef marks an unused child slot.
const NoRef Ref = -1

type Kind uint8

const (
	KindConstant Kind = iota
	KindReference
	KindAdd
	KindMul
	KindMin
	KindMax
	KindAddConst
	KindMulConst
	KindClamp
	KindAbs
	KindSquare
	KindCube
	KindHalfNegative
	KindQuarterNegative
	KindSqueeze
	KindYClampedGradient
	KindRangeChoice
	KindNoise
	KindShiftedNoise
	KindShiftA
	KindShiftB
	KindShift
	KindWeirdScaled
	KindOldBlendedNoise
	KindEndIslands
	KindSpline
	KindInterpolated
	KindFlatCache
	KindCache2D
	KindCacheOnce
	KindCacheAllInCell
)

var kindNames = [...]string{
	KindConstant:         "constant",
	KindReference:        "reference",
	KindAdd:              "add",
	KindMul:              "mul",
	KindMin:              "min",
	KindMax:              "max",
	KindAddConst:         "add_const",
	KindMulConst:         "mul_const",
	KindClamp:            "clamp",
	KindAbs:              "abs",
	KindSquare:           "square",
	KindCube:             "cube",
	KindHalfNegative:     "half_negative",
	KindQuarterNegative:  "quarter_negative",
	KindSqueeze:          "squeeze",
	KindYClampedGradient: "y_clamped_gradient",
	KindRangeChoice:      "range_choice",
	KindNoise:            "noise",
	KindShiftedNoise:     "shifted_noise",
	KindShiftA:           "shift_a",
	KindShiftB:           "shift_b",
	KindShift:            "shift",
	KindWeirdScaled:      "weird_scaled_sampler",
	KindOldBlendedNoise:  "old_blended_noise",
	KindEndIslands:       "end_islands",
	KindSpline:           "spline",
	KindInterpolated:     "interpolated",
	KindFlatCache:        "flat_cache",
	KindCache2D:          "cache_2d",
	KindCacheOnce:        "cache_once",
	KindCacheAllInCell:   "cache_all_in_cell",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsMarker reports whether k only declares a caching policy for its child.
func (k Kind) IsMarker() bool {
	return k >= KindInterpolated && k <= KindCacheAllInCell
}

// Node is one field expression. Which fields are meaningful depends on Kind.
type Node struct {
	Kind Kind
	// In holds child nodes: the operands of binary nodes, the single input
	// of unary nodes and markers, (input, whenIn, whenOut) for range choice
	// and the (x, y, z) shifts of shifted noise.
	In [3]Ref

	// Value is the constant, or the constant operand of add/mul const.
	Value float64
	// Lo and Hi are the clamp bounds, the range-choice interval, or the
	// output range of the Y gradient.
	Lo, Hi     float64
	FromY, ToY int
	XZScale    float64
	YScale     float64
	NoiseID    string
	Rarity     Rarity
	// Mapper is the rarity mapper name of a weird scaled sampler.
	Mapper  string
	Blended noise.BlendedSettings
	Spline  *Spline
	// Key is the target of a reference node.
	Key string

	normal  *noise.Normal
	blended *noise.Blended
	islands *noise.EndIslands

	min, max float64
}

func (n *Node) MinValue() float64 { return n.min }

func (n *Node) MaxValue() float64 { return n.max }

// NoiseInstance returns the bound noise, or nil before Bind.
func (n *Node) NoiseInstance() *noise.Normal { return n.normal }

// Children returns the child slots in use for n.Kind. Spline coordinates are
// not included.
func (n *Node) Children() []Ref {
	switch n.Kind {
	case KindAdd, KindMul, KindMin, KindMax:
		return n.In[:2]
	case KindRangeChoice, KindShiftedNoise:
		return n.In[:3]
	case KindReference, KindAddConst, KindMulConst, KindClamp, KindAbs, KindSquare, KindCube,
		KindHalfNegative, KindQuarterNegative, KindSqueeze, KindWeirdScaled,
		KindInterpolated, KindFlatCache, KindCache2D, KindCacheOnce, KindCacheAllInCell:
		return n.In[:1]
	}
	return nil
}

// Context supplies the block position being sampled.
type Context interface {
	BlockX() int
	BlockY() int
	BlockZ() int
}

// Point is a fixed position Context.
type Point struct{ X, Y, Z int }

func (p Point) BlockX() int { return p.X }
func (p Point) BlockY() int { return p.Y }
func (p Point) BlockZ() int { return p.Z }

// Evaluator computes a node's value; Graph.Compute asks it for children so
// that caching layers can intercept any node.
type Evaluator interface {
	Eval(r Ref, ctx Context) float64
}

// Graph is the built, immutable arena. It is safe for concurrent reads.
type Graph struct {
	nodes []Node
	keys  map[string]Ref
}

func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at r. Callers must not modify it.
func (g *Graph) Node(r Ref) *Node { return &g.nodes[r] }

// Lookup returns the resolved node defined under key.
func (g *Graph) Lookup(key string) (Ref, bool) {
	r, ok := g.keys[key]
	return r, ok
}

// Keys returns the defined keys in sorted order.
func (g *Graph) Keys() []string {
	out := make([]string, 0, len(g.keys))
	for k := range g.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Resolve follows reference nodes to the node they stand for.
func (g *Graph) Resolve(r Ref) Ref {
	for g.nodes[r].Kind == KindReference {
		r = g.nodes[r].In[0]
	}
	return r
}

func (g *Graph) MinValue(r Ref) float64 { return g.nodes[r].min }

func (g *Graph) MaxValue(r Ref) float64 { return g.nodes[r].max }

// Compute evaluates node r at ctx, asking ev for the value of every child.
// Markers and references return their child's value unchanged.
func (g *Graph) Compute(r Ref, ctx Context, ev Evaluator) float64 {
	n := &g.nodes[r]
	switch n.Kind {
	case KindConstant:
		return n.Value
	case KindAdd:
		return ev.Eval(n.In[0], ctx) + ev.Eval(n.In[1], ctx)
	case KindMul:
		d := ev.Eval(n.In[0], ctx)
		if d == 0 {
			return 0
		}
		return d * ev.Eval(n.In[1], ctx)
	case KindMin:
		d := ev.Eval(n.In[0], ctx)
		if d < g.nodes[n.In[1]].min {
			return d
		}
		return math.Min(d, ev.Eval(n.In[1], ctx))
	case KindMax:
		d := ev.Eval(n.In[0], ctx)
		if d > g.nodes[n.In[1]].max {
			return d
		}
		return math.Max(d, ev.Eval(n.In[1], ctx))
	case KindAddConst:
		return ev.Eval(n.In[0], ctx) + n.Value
	case KindMulConst:
		return ev.Eval(n.In[0], ctx) * n.Value
	case KindClamp:
		return mgl64.Clamp(ev.Eval(n.In[0], ctx), n.Lo, n.Hi)
	case KindAbs, KindSquare, KindCube, KindHalfNegative, KindQuarterNegative, KindSqueeze:
		return transform(n.Kind, ev.Eval(n.In[0], ctx))
	case KindYClampedGradient:
		return mathx.ClampedMap(float64(ctx.BlockY()), float64(n.FromY), float64(n.ToY), n.Lo, n.Hi)
	case KindRangeChoice:
		d := ev.Eval(n.In[0], ctx)
		if d >= n.Lo && d < n.Hi {
			return ev.Eval(n.In[1], ctx)
		}
		return ev.Eval(n.In[2], ctx)
	case KindNoise:
		return sampleNoise(n.normal,
			float64(ctx.BlockX())*n.XZScale,
			float64(ctx.BlockY())*n.YScale,
			float64(ctx.BlockZ())*n.XZScale)
	case KindShiftedNoise:
		x := float64(float64(ctx.BlockX())*n.XZScale) + ev.Eval(n.In[0], ctx)
		y := float64(float64(ctx.BlockY())*n.YScale) + ev.Eval(n.In[1], ctx)
		z := float64(float64(ctx.BlockZ())*n.XZScale) + ev.Eval(n.In[2], ctx)
		return sampleNoise(n.normal, x, y, z)
	case KindShiftA:
		return shiftSample(n.normal, ctx.BlockX(), 0, ctx.BlockZ())
	case KindShiftB:
		return shiftSample(n.normal, ctx.BlockZ(), ctx.BlockX(), 0)
	case KindShift:
		return shiftSample(n.normal, ctx.BlockX(), ctx.BlockY(), ctx.BlockZ())
	case KindWeirdScaled:
		e := n.Rarity.Scale(ev.Eval(n.In[0], ctx))
		v := sampleNoise(n.normal, float64(ctx.BlockX())/e, float64(ctx.BlockY())/e, float64(ctx.BlockZ())/e)
		return e * math.Abs(v)
	case KindOldBlendedNoise:
		return n.blended.Compute(ctx.BlockX(), ctx.BlockY(), ctx.BlockZ())
	case KindEndIslands:
		return n.islands.Compute(ctx.BlockX(), ctx.BlockZ())
	case KindSpline:
		return float64(n.Spline.apply(ev, ctx))
	case KindReference, KindInterpolated, KindFlatCache, KindCache2D, KindCacheOnce, KindCacheAllInCell:
		return ev.Eval(n.In[0], ctx)
	}
	panic(fmt.Sprintf("density: compute of unknown kind %v", n.Kind))
}

func sampleNoise(n *noise.Normal, x, y, z float64) float64 {
	if n == nil {
		return 0
	}
	return n.Value(x, y, z)
}

func shiftSample(n *noise.Normal, x, y, z int) float64 {
	return sampleNoise(n, float64(x)*0.25, float64(y)*0.25, float64(z)*0.25) * 4
}

func noiseMax(n *noise.Normal) float64 {
	if n == nil {
		return 2
	}
	return n.MaxValue()
}

func transform(k Kind, d float64) float64 {
	switch k {
	case KindAbs:
		return math.Abs(d)
	case KindSquare:
		return d * d
	case KindCube:
		return d * d * d
	case KindHalfNegative:
		if d > 0 {
			return d
		}
		return d * 0.5
	case KindQuarterNegative:
		if d > 0 {
			return d
		}
		return d * 0.25
	case KindSqueeze:
		e := mgl64.Clamp(d, -1, 1)
		return e/2 - float64(float64(e*e)*e)/24
	}
	return d
}

// pure evaluates without any caching.
type pure struct{ g *Graph }

func (p pure) Eval(r Ref, ctx Context) float64 { return p.g.Compute(r, ctx, p) }

// Evaluate computes node r at ctx with every marker passing straight
// through. The result depends only on the graph, r and the position.
func Evaluate(g *Graph, r Ref, ctx Context) float64 {
	return g.Compute(r, ctx, pure{g})
}

// PureEvaluator returns the uncached Evaluator for g.
func PureEvaluator(g *Graph) Evaluator { return pure{g} }
