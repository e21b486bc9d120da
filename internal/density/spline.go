package density

import (
	"fmt"
	"math"

	"mini-worldgen/internal/mathx"
)

// Spline is a float32 cubic spline: either a constant leaf or a multipoint
// node whose values are themselves splines. The coordinate of a multipoint
// node is another density node.
type Spline struct {
	constant bool
	value    float32

	coordinate  Ref
	locations   []float32
	values      []*Spline
	derivatives []float32

	min, max float32
}

// SplineConstant returns a leaf spline.
func SplineConstant(v float32) *Spline {
	return &Spline{constant: true, value: v, coordinate: NoRef, min: v, max: v}
}

// SplineBuilder collects the points of a multipoint spline. Ordering and
// size checks happen when the owning graph is built.
type SplineBuilder struct {
	s *Spline
}

func NewSplineBuilder(coordinate Ref) *SplineBuilder {
	return &SplineBuilder{s: &Spline{coordinate: coordinate}}
}

func (b *SplineBuilder) Add(location float32, value *Spline, derivative float32) *SplineBuilder {
	b.s.locations = append(b.s.locations, location)
	b.s.values = append(b.s.values, value)
	b.s.derivatives = append(b.s.derivatives, derivative)
	return b
}

func (b *SplineBuilder) AddConst(location, value, derivative float32) *SplineBuilder {
	return b.Add(location, SplineConstant(value), derivative)
}

func (b *SplineBuilder) Build() *Spline { return b.s }

func (s *Spline) MinValue() float32 { return s.min }

func (s *Spline) MaxValue() float32 { return s.max }

func (s *Spline) IsConstant() bool { return s.constant }

func (s *Spline) validate() error {
	if s.constant {
		return nil
	}
	if len(s.locations) == 0 {
		return fmt.Errorf("%w: multipoint spline with no points", ErrInvalid)
	}
	if len(s.locations) != len(s.values) || len(s.locations) != len(s.derivatives) {
		return fmt.Errorf("%w: spline sizes differ", ErrInvalid)
	}
	for i := 1; i < len(s.locations); i++ {
		if !(s.locations[i-1] < s.locations[i]) {
			return fmt.Errorf("%w: spline locations not ascending at %v", ErrInvalid, s.locations[i])
		}
	}
	for _, v := range s.values {
		if v == nil {
			return fmt.Errorf("%w: nil spline value", ErrInvalid)
		}
		if err := v.validate(); err != nil {
			return err
		}
	}
	return nil
}

// clone deep-copies s, mapping every coordinate through remap.
func (s *Spline) clone(remap func(Ref) Ref) *Spline {
	if s.constant {
		c := *s
		return &c
	}
	c := &Spline{
		coordinate:  remap(s.coordinate),
		locations:   append([]float32(nil), s.locations...),
		derivatives: append([]float32(nil), s.derivatives...),
		values:      make([]*Spline, len(s.values)),
	}
	for i, v := range s.values {
		c.values[i] = v.clone(remap)
	}
	return c
}

func (s *Spline) coordinates(visit func(*Ref)) {
	if s.constant {
		return
	}
	visit(&s.coordinate)
	for _, v := range s.values {
		v.coordinates(visit)
	}
}

// Coordinates returns the coordinate node of every multipoint level,
// outermost first.
func (s *Spline) Coordinates() []Ref {
	var out []Ref
	s.coordinates(func(r *Ref) { out = append(out, *r) })
	return out
}

func linearExtend(f float32, locations []float32, g float32, derivatives []float32, i int) float32 {
	h := derivatives[i]
	if h == 0 {
		return g
	}
	return g + float32(h*(f-locations[i]))
}

// computeBounds sets min and max from the coordinate bounds in g. Children
// first.
func (s *Spline) computeBounds(g *Graph) {
	if s.constant {
		return
	}
	for _, v := range s.values {
		v.computeBounds(g)
	}
	last := len(s.locations) - 1
	lo := float32(math.Inf(1))
	hi := float32(math.Inf(-1))
	cmin := float32(g.nodes[s.coordinate].min)
	cmax := float32(g.nodes[s.coordinate].max)

	if cmin < s.locations[0] {
		a := linearExtend(cmin, s.locations, s.values[0].min, s.derivatives, 0)
		b := linearExtend(cmin, s.locations, s.values[0].max, s.derivatives, 0)
		lo = min(lo, min(a, b))
		hi = max(hi, max(a, b))
	}
	if cmax > s.locations[last] {
		a := linearExtend(cmax, s.locations, s.values[last].min, s.derivatives, last)
		b := linearExtend(cmax, s.locations, s.values[last].max, s.derivatives, last)
		lo = min(lo, min(a, b))
		hi = max(hi, max(a, b))
	}
	for _, v := range s.values {
		lo = min(lo, v.min)
		hi = max(hi, v.max)
	}
	for i := 0; i < last; i++ {
		span := s.locations[i+1] - s.locations[i]
		left, right := s.values[i], s.values[i+1]
		d0, d1 := s.derivatives[i], s.derivatives[i+1]
		if d0 == 0 && d1 == 0 {
			continue
		}
		v := float32(d0 * span)
		w := float32(d1 * span)
		lowest := min(left.min, right.min)
		highest := max(left.max, right.max)
		z := v - right.max + left.min
		aa := v - right.min + left.max
		ab := -w + right.min - left.max
		ac := -w + right.max - left.min
		lo = min(lo, lowest+float32(0.25*min(z, ab)))
		hi = max(hi, highest+float32(0.25*max(aa, ac)))
	}
	s.min, s.max = lo, hi
}

// apply evaluates the spline, asking ev for coordinate values.
func (s *Spline) apply(ev Evaluator, ctx Context) float32 {
	if s.constant {
		return s.value
	}
	f := float32(ev.Eval(s.coordinate, ctx))
	i := mathx.BinarySearch(0, len(s.locations), func(k int) bool { return f < s.locations[k] }) - 1
	last := len(s.locations) - 1
	if i < 0 {
		return linearExtend(f, s.locations, s.values[0].apply(ev, ctx), s.derivatives, 0)
	}
	if i == last {
		return linearExtend(f, s.locations, s.values[last].apply(ev, ctx), s.derivatives, last)
	}
	x0, x1 := s.locations[i], s.locations[i+1]
	k := (f - x0) / (x1 - x0)
	n := s.values[i].apply(ev, ctx)
	o := s.values[i+1].apply(ev, ctx)
	p := float32(s.derivatives[i]*(x1-x0)) - (o - n)
	q := float32(-s.derivatives[i+1]*(x1-x0)) + (o - n)
	return mathx.LerpF(k, n, o) + float32(float32(k*(1-k))*mathx.LerpF(k, p, q))
}
