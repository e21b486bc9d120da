package density

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"mini-worldgen/internal/noise"
)

// Builder accumulates nodes and named definitions. Children must be Refs
// returned by the same builder; named references may point forward to keys
// defined later.
type Builder struct {
	nodes []Node
	defs  map[string]Ref
	order []string
}

func NewBuilder() *Builder {
	return &Builder{defs: make(map[string]Ref)}
}

func (b *Builder) add(n Node) Ref {
	for i := range n.In {
		if n.In[i] == 0 && i >= len(n.Children()) {
			n.In[i] = NoRef
		}
	}
	b.nodes = append(b.nodes, n)
	return Ref(len(b.nodes) - 1)
}

// Define names r. Redefining a key replaces the earlier definition.
func (b *Builder) Define(key string, r Ref) Ref {
	if _, ok := b.defs[key]; !ok {
		b.order = append(b.order, key)
	}
	b.defs[key] = r
	return r
}

// Reference stands for whatever key is defined as when the graph is built.
func (b *Builder) Reference(key string) Ref {
	return b.add(Node{Kind: KindReference, Key: key, In: [3]Ref{NoRef}})
}

func (b *Builder) Constant(v float64) Ref {
	return b.add(Node{Kind: KindConstant, Value: v})
}

func (b *Builder) Add(a, c Ref) Ref { return b.add(Node{Kind: KindAdd, In: [3]Ref{a, c}}) }
func (b *Builder) Mul(a, c Ref) Ref { return b.add(Node{Kind: KindMul, In: [3]Ref{a, c}}) }
func (b *Builder) Min(a, c Ref) Ref { return b.add(Node{Kind: KindMin, In: [3]Ref{a, c}}) }
func (b *Builder) Max(a, c Ref) Ref { return b.add(Node{Kind: KindMax, In: [3]Ref{a, c}}) }

func (b *Builder) Clamp(in Ref, lo, hi float64) Ref {
	return b.add(Node{Kind: KindClamp, In: [3]Ref{in}, Lo: lo, Hi: hi})
}

func (b *Builder) unary(k Kind, in Ref) Ref { return b.add(Node{Kind: k, In: [3]Ref{in}}) }

func (b *Builder) Abs(in Ref) Ref             { return b.unary(KindAbs, in) }
func (b *Builder) Square(in Ref) Ref          { return b.unary(KindSquare, in) }
func (b *Builder) Cube(in Ref) Ref            { return b.unary(KindCube, in) }
func (b *Builder) HalfNegative(in Ref) Ref    { return b.unary(KindHalfNegative, in) }
func (b *Builder) QuarterNegative(in Ref) Ref { return b.unary(KindQuarterNegative, in) }
func (b *Builder) Squeeze(in Ref) Ref         { return b.unary(KindSqueeze, in) }

func (b *Builder) Interpolated(in Ref) Ref   { return b.unary(KindInterpolated, in) }
func (b *Builder) FlatCache(in Ref) Ref      { return b.unary(KindFlatCache, in) }
func (b *Builder) Cache2D(in Ref) Ref        { return b.unary(KindCache2D, in) }
func (b *Builder) CacheOnce(in Ref) Ref      { return b.unary(KindCacheOnce, in) }
func (b *Builder) CacheAllInCell(in Ref) Ref { return b.unary(KindCacheAllInCell, in) }

// YClampedGradient maps Y from [fromY, toY] onto [fromValue, toValue].
func (b *Builder) YClampedGradient(fromY, toY int, fromValue, toValue float64) Ref {
	return b.add(Node{Kind: KindYClampedGradient, FromY: fromY, ToY: toY, Lo: fromValue, Hi: toValue})
}

// RangeChoice picks whenIn when lo <= input < hi and whenOut otherwise.
func (b *Builder) RangeChoice(input Ref, lo, hi float64, whenIn, whenOut Ref) Ref {
	return b.add(Node{Kind: KindRangeChoice, In: [3]Ref{input, whenIn, whenOut}, Lo: lo, Hi: hi})
}

func (b *Builder) Noise(id string, xzScale, yScale float64) Ref {
	return b.add(Node{Kind: KindNoise, NoiseID: id, XZScale: xzScale, YScale: yScale})
}

func (b *Builder) ShiftedNoise(shiftX, shiftY, shiftZ Ref, xzScale, yScale float64, id string) Ref {
	return b.add(Node{
		Kind:    KindShiftedNoise,
		In:      [3]Ref{shiftX, shiftY, shiftZ},
		XZScale: xzScale,
		YScale:  yScale,
		NoiseID: id,
	})
}

func (b *Builder) ShiftA(id string) Ref { return b.add(Node{Kind: KindShiftA, NoiseID: id}) }
func (b *Builder) ShiftB(id string) Ref { return b.add(Node{Kind: KindShiftB, NoiseID: id}) }
func (b *Builder) Shift(id string) Ref  { return b.add(Node{Kind: KindShift, NoiseID: id}) }

// WeirdScaledSampler samples noise id with a scale chosen from input by the
// named rarity mapper ("type_1" or "type_2").
func (b *Builder) WeirdScaledSampler(input Ref, id string, mapper string) Ref {
	r, _ := ParseRarity(mapper)
	return b.add(Node{Kind: KindWeirdScaled, In: [3]Ref{input}, NoiseID: id, Rarity: r, Mapper: mapper})
}

func (b *Builder) OldBlendedNoise(s noise.BlendedSettings) Ref {
	return b.add(Node{Kind: KindOldBlendedNoise, Blended: s})
}

func (b *Builder) EndIslands() Ref { return b.add(Node{Kind: KindEndIslands}) }

func (b *Builder) Spline(s *Spline) Ref { return b.add(Node{Kind: KindSpline, Spline: s}) }

// buildState carries reference resolution. The key stack is passed
// explicitly so resolution is reentrant.
type buildState struct {
	b     *Builder
	nodes []Node
	memo  map[string]Ref
	done  []bool
}

// Build resolves every reference, validates every node and computes value
// bounds. Errors are *ConfigError values.
func (b *Builder) Build() (*Graph, error) {
	st := &buildState{
		b:     b,
		nodes: make([]Node, len(b.nodes)),
		memo:  make(map[string]Ref, len(b.defs)),
		done:  make([]bool, len(b.nodes)),
	}
	copy(st.nodes, b.nodes)
	for i := range st.nodes {
		if sp := st.nodes[i].Spline; sp != nil {
			st.nodes[i].Spline = sp.clone(func(r Ref) Ref { return r })
		}
	}

	keys := append([]string(nil), b.order...)
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := st.resolveKey(key, nil); err != nil {
			return nil, err
		}
	}
	for i := range st.nodes {
		if _, err := st.visit(Ref(i), nil); err != nil {
			return nil, err
		}
	}

	g := &Graph{nodes: st.nodes, keys: st.memo}
	for i := range g.nodes {
		if err := g.validate(Ref(i)); err != nil {
			return nil, err
		}
	}
	g.attachTemplates()
	g.computeBounds()
	g.specialize()
	return g, nil
}

func (st *buildState) resolveKey(key string, stack []string) (Ref, error) {
	if slices.Contains(stack, key) {
		chain := append(append([]string(nil), stack...), key)
		return NoRef, &ConfigError{Key: key, Chain: chain, Err: ErrCycle}
	}
	if r, ok := st.memo[key]; ok {
		return r, nil
	}
	def, ok := st.b.defs[key]
	if !ok {
		return NoRef, &ConfigError{Key: key, Chain: slices.Clone(stack), Err: ErrUndefined}
	}
	r, err := st.visit(def, append(stack, key))
	if err != nil {
		return NoRef, err
	}
	st.memo[key] = r
	return r, nil
}

// visit resolves the references below r and returns the node r stands for.
func (st *buildState) visit(r Ref, stack []string) (Ref, error) {
	if r < 0 || int(r) >= len(st.nodes) {
		return NoRef, &ConfigError{Chain: slices.Clone(stack), Err: fmt.Errorf("%w: ref %d out of range", ErrInvalid, r)}
	}
	n := &st.nodes[r]
	if n.Kind == KindReference {
		t, err := st.resolveKey(n.Key, stack)
		if err != nil {
			return NoRef, err
		}
		n.In[0] = t
		return t, nil
	}
	if st.done[r] {
		return r, nil
	}
	for i, c := range n.Children() {
		t, err := st.visit(c, stack)
		if err != nil {
			return NoRef, err
		}
		n.In[i] = t
	}
	if n.Spline != nil {
		if err := n.Spline.validate(); err != nil {
			return NoRef, &ConfigError{Chain: slices.Clone(stack), Err: err}
		}
		var err error
		n.Spline.coordinates(func(c *Ref) {
			if err != nil {
				return
			}
			var t Ref
			t, err = st.visit(*c, stack)
			*c = t
		})
		if err != nil {
			return NoRef, err
		}
	}
	st.done[r] = true
	return r, nil
}

func (g *Graph) validate(r Ref) error {
	n := &g.nodes[r]
	switch n.Kind {
	case KindClamp:
		if n.Lo > n.Hi {
			return invalid("", "clamp min %v above max %v", n.Lo, n.Hi)
		}
	case KindNoise, KindShiftedNoise, KindShiftA, KindShiftB, KindShift:
		if n.NoiseID == "" {
			return invalid("", "%v without noise id", n.Kind)
		}
	case KindWeirdScaled:
		if n.NoiseID == "" {
			return invalid("", "%v without noise id", n.Kind)
		}
		if _, err := ParseRarity(n.Mapper); err != nil {
			return &ConfigError{Key: n.NoiseID, Err: err}
		}
	case KindSpline:
		if n.Spline == nil {
			return invalid("", "spline node without spline")
		}
		if err := n.Spline.validate(); err != nil {
			return &ConfigError{Err: err}
		}
	}
	return nil
}

// attachTemplates gives seed-dependent leaves their unseeded instances so an
// unbound graph still evaluates.
func (g *Graph) attachTemplates() {
	var islands *noise.EndIslands
	blended := make(map[noise.BlendedSettings]*noise.Blended)
	for i := range g.nodes {
		n := &g.nodes[i]
		switch n.Kind {
		case KindOldBlendedNoise:
			if n.blended == nil {
				t, ok := blended[n.Blended]
				if !ok {
					t = noise.NewBlendedUnseeded(n.Blended)
					blended[n.Blended] = t
				}
				n.blended = t
			}
		case KindEndIslands:
			if n.islands == nil {
				if islands == nil {
					islands = noise.NewEndIslands(0)
				}
				n.islands = islands
			}
		}
	}
}

// computeBounds fills min and max for every node, children first.
func (g *Graph) computeBounds() {
	done := make([]bool, len(g.nodes))
	var walk func(r Ref)
	walk = func(r Ref) {
		if done[r] {
			return
		}
		done[r] = true
		n := &g.nodes[r]
		for _, c := range n.Children() {
			walk(c)
		}
		if n.Spline != nil {
			n.Spline.coordinates(func(c *Ref) { walk(*c) })
			n.Spline.computeBounds(g)
		}
		n.min, n.max = g.bounds(n)
	}
	for i := range g.nodes {
		walk(Ref(i))
	}
}

func (g *Graph) bounds(n *Node) (lo, hi float64) {
	child := func(i int) *Node { return &g.nodes[n.In[i]] }
	switch n.Kind {
	case KindConstant:
		return n.Value, n.Value
	case KindAdd, KindMul, KindMin, KindMax:
		return binaryBounds(n.Kind, child(0), child(1))
	case KindAddConst, KindMulConst:
		return binaryBounds(n.Kind, child(0), &Node{min: n.Value, max: n.Value})
	case KindClamp:
		return n.Lo, n.Hi
	case KindAbs, KindSquare, KindCube, KindHalfNegative, KindQuarterNegative, KindSqueeze:
		in := child(0)
		e := transform(n.Kind, in.min)
		f := transform(n.Kind, in.max)
		if n.Kind == KindAbs || n.Kind == KindSquare {
			return math.Max(0, in.min), math.Max(e, f)
		}
		return e, f
	case KindYClampedGradient:
		return math.Min(n.Lo, n.Hi), math.Max(n.Lo, n.Hi)
	case KindRangeChoice:
		return math.Min(child(1).min, child(2).min), math.Max(child(1).max, child(2).max)
	case KindNoise, KindShiftedNoise:
		m := noiseMax(n.normal)
		return -m, m
	case KindShiftA, KindShiftB, KindShift:
		m := noiseMax(n.normal) * 4
		return -m, m
	case KindWeirdScaled:
		return 0, n.Rarity.MaxScale() * noiseMax(n.normal)
	case KindOldBlendedNoise:
		return n.blended.MinValue(), n.blended.MaxValue()
	case KindEndIslands:
		return noise.EndIslandsMin, noise.EndIslandsMax
	case KindSpline:
		return float64(n.Spline.min), float64(n.Spline.max)
	default:
		c := child(0)
		return c.min, c.max
	}
}

func binaryBounds(k Kind, a, b *Node) (lo, hi float64) {
	d, e, f, g := a.min, b.min, a.max, b.max
	switch k {
	case KindAdd, KindAddConst:
		return d + e, f + g
	case KindMul, KindMulConst:
		switch {
		case d > 0 && e > 0:
			return d * e, f * g
		case f < 0 && g < 0:
			return f * g, d * e
		}
		return math.Min(d*g, f*e), math.Max(d*e, f*g)
	case KindMin:
		return math.Min(d, e), math.Min(f, g)
	}
	return math.Max(d, e), math.Max(f, g)
}

// specialize turns add and mul with a constant operand into their const
// forms. Bounds are already computed from both operands.
func (g *Graph) specialize() {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Kind != KindAdd && n.Kind != KindMul {
			continue
		}
		k := KindAddConst
		if n.Kind == KindMul {
			k = KindMulConst
		}
		a, c := &g.nodes[n.In[0]], &g.nodes[n.In[1]]
		switch {
		case a.Kind == KindConstant:
			n.Kind, n.Value, n.In = k, a.Value, [3]Ref{n.In[1], NoRef, NoRef}
		case c.Kind == KindConstant:
			n.Kind, n.Value, n.In = k, c.Value, [3]Ref{n.In[0], NoRef, NoRef}
		}
	}
}
