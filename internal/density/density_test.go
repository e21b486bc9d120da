package density

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mini-worldgen/internal/noise"
	"mini-worldgen/internal/rng"
)

type testBinder struct{ seed int64 }

func (b testBinder) Noise(id string) (*noise.Normal, error) {
	if id == "missing" {
		return nil, errors.New("unknown noise")
	}
	src := rng.NewXoroshiro(b.seed).ForkPositional().FromHashOf(id)
	return noise.NewNormal(src, noise.NewParameters(-4, 1, 1)), nil
}

func (b testBinder) Blended(s noise.BlendedSettings) *noise.Blended {
	return noise.NewBlended(rng.NewXoroshiro(b.seed), s)
}

func (b testBinder) EndIslands() *noise.EndIslands { return noise.NewEndIslands(b.seed) }

// countingEvaluator records how often each node is evaluated.
type countingEvaluator struct {
	g     *Graph
	calls map[Ref]int
}

func (c *countingEvaluator) Eval(r Ref, ctx Context) float64 {
	c.calls[r]++
	return c.g.Compute(r, ctx, c)
}

func mustBuild(t *testing.T, b *Builder) *Graph {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestEvaluate_AddConstants(t *testing.T) {
	b := NewBuilder()
	sum := b.Define("sum", b.Add(b.Constant(1), b.Constant(2)))
	g := mustBuild(t, b)

	for _, p := range []Point{{0, 0, 0}, {-100, 64, 33}, {1 << 20, -64, -(1 << 20)}} {
		if got := Evaluate(g, sum, p); got != 3 {
			t.Errorf("Evaluate at %v = %v, want 3", p, got)
		}
	}
	if g.Node(sum).Kind != KindAddConst {
		t.Errorf("add with a constant operand should specialise, got %v", g.Node(sum).Kind)
	}
	if g.MinValue(sum) != 3 || g.MaxValue(sum) != 3 {
		t.Errorf("bounds = [%v, %v], want [3, 3]", g.MinValue(sum), g.MaxValue(sum))
	}
}

func TestSpline_TwoPointLinear(t *testing.T) {
	b := NewBuilder()
	coord := b.Define("coord", b.Reference("input"))
	sp := NewSplineBuilder(coord).AddConst(0, 0, 0).AddConst(1, 10, 0).Build()
	root := b.Spline(sp)

	cases := []struct {
		in, want float64
	}{
		{0.5, 5}, {-1, 0}, {2, 10}, {0, 0}, {1, 10},
	}
	for _, c := range cases {
		b.Define("input", b.Constant(c.in))
		g := mustBuild(t, b)
		got := Evaluate(g, root, Point{})
		if !mgl64.FloatEqualThreshold(got, c.want, 1e-6) {
			t.Errorf("spline(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSpline_BoundsWithFlatEdges(t *testing.T) {
	b := NewBuilder()
	coord := b.YClampedGradient(0, 100, -1, 2)
	root := b.Spline(NewSplineBuilder(coord).AddConst(0, 0, 0).AddConst(1, 10, 0).Build())
	g := mustBuild(t, b)
	if g.MinValue(root) != 0 || g.MaxValue(root) != 10 {
		t.Errorf("bounds = [%v, %v], want [0, 10]", g.MinValue(root), g.MaxValue(root))
	}
}

func TestSpline_Nested(t *testing.T) {
	b := NewBuilder()
	outer := b.YClampedGradient(0, 10, 0, 1)
	inner := NewSplineBuilder(outer).AddConst(0, 1, 0).AddConst(1, 3, 0).Build()
	root := b.Spline(NewSplineBuilder(outer).Add(0, inner, 0).AddConst(1, 5, 0).Build())
	g := mustBuild(t, b)
	if got := Evaluate(g, root, Point{Y: 0}); got != 1 {
		t.Errorf("nested spline at 0 = %v, want 1", got)
	}
	if got := Evaluate(g, root, Point{Y: 10}); got != 5 {
		t.Errorf("nested spline at 1 = %v, want 5", got)
	}
}

func TestSpline_Validation(t *testing.T) {
	b := NewBuilder()
	coord := b.Constant(0)
	b.Spline(NewSplineBuilder(coord).AddConst(1, 0, 0).AddConst(0, 1, 0).Build())
	_, err := b.Build()
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("descending locations: err = %v, want ErrInvalid", err)
	}

	b = NewBuilder()
	b.Spline(NewSplineBuilder(b.Constant(0)).Build())
	if _, err := b.Build(); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty spline: err = %v, want ErrInvalid", err)
	}
}

func TestBuild_CycleReportsChain(t *testing.T) {
	b := NewBuilder()
	b.Define("a", b.Add(b.Reference("b"), b.Constant(1)))
	b.Define("b", b.Mul(b.Reference("a"), b.Constant(2)))
	_, err := b.Build()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err is not a *ConfigError: %T", err)
	}
	if got := strings.Join(ce.Chain, " -> "); got != "a -> b -> a" {
		t.Errorf("chain = %q, want %q", got, "a -> b -> a")
	}
	if !strings.Contains(err.Error(), "a -> b -> a") {
		t.Errorf("message %q does not name the chain", err.Error())
	}
}

func TestBuild_SelfReference(t *testing.T) {
	b := NewBuilder()
	b.Define("loop", b.Reference("loop"))
	if _, err := b.Build(); !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
}

func TestBuild_Undefined(t *testing.T) {
	b := NewBuilder()
	b.Define("a", b.Abs(b.Reference("nowhere")))
	_, err := b.Build()
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("err = %v, want ErrUndefined", err)
	}
	if !strings.Contains(err.Error(), "nowhere") {
		t.Errorf("message %q does not name the key", err.Error())
	}
}

func TestBuild_SharedReferenceIsOneNode(t *testing.T) {
	b := NewBuilder()
	shared := b.Define("shared", b.Noise("n", 1, 1))
	left := b.Abs(b.Reference("shared"))
	right := b.Square(b.Reference("shared"))
	b.Define("root", b.Add(left, right))
	g := mustBuild(t, b)

	if got, _ := g.Lookup("shared"); got != shared {
		t.Errorf("Lookup(shared) = %d, want %d", got, shared)
	}
	if g.Node(left).In[0] != shared || g.Node(right).In[0] != shared {
		t.Errorf("references were not rewritten to the shared node")
	}
	keys := g.Keys()
	if len(keys) != 2 || keys[0] != "root" || keys[1] != "shared" {
		t.Errorf("Keys = %v", keys)
	}
}

func TestEvaluate_Pure(t *testing.T) {
	b := NewBuilder()
	shift := b.FlatCache(b.ShiftA("offset"))
	cont := b.ShiftedNoise(shift, b.Constant(0), b.ShiftB("offset"), 0.25, 0, "continentalness")
	ridges := b.WeirdScaledSampler(b.Noise("rarity", 2, 1), "ridge", "type_1")
	blend := b.OldBlendedNoise(noise.DefaultBlendedSettings)
	grad := b.YClampedGradient(-64, 320, 1.5, -1.5)
	mix := b.RangeChoice(cont, -0.2, 0.2, b.Squeeze(b.Add(grad, blend)), b.Cube(ridges))
	root := b.Interpolated(b.Max(b.Clamp(mix, -1, 1), b.HalfNegative(b.Shift("offset"))))
	islands := b.CacheOnce(b.EndIslands())
	b.Define("root", b.Add(root, b.QuarterNegative(islands)))
	g := mustBuild(t, b)
	g, err := g.Bind(testBinder{seed: 42})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	ref, _ := g.Lookup("root")
	for x := -40; x <= 40; x += 13 {
		for y := -64; y <= 200; y += 37 {
			p := Point{X: x, Y: y, Z: x * 3}
			a := Evaluate(g, ref, p)
			c := Evaluate(g, ref, p)
			if a != c || math.IsNaN(a) {
				t.Fatalf("Evaluate at %v not reproducible: %v vs %v", p, a, c)
			}
			if a < g.MinValue(ref) || a > g.MaxValue(ref) {
				t.Fatalf("Evaluate at %v = %v outside [%v, %v]", p, a, g.MinValue(ref), g.MaxValue(ref))
			}
		}
	}
}

func TestCompute_MulShortCircuit(t *testing.T) {
	b := NewBuilder()
	zeroAtBottom := b.YClampedGradient(0, 10, 0, 1)
	expensive := b.Noise("n", 1, 1)
	root := b.Mul(zeroAtBottom, expensive)
	g := mustBuild(t, b)

	ev := &countingEvaluator{g: g, calls: map[Ref]int{}}
	if got := ev.Eval(root, Point{Y: -5}); got != 0 {
		t.Errorf("mul = %v, want 0", got)
	}
	if ev.calls[expensive] != 0 {
		t.Errorf("second operand evaluated %d times, want 0", ev.calls[expensive])
	}
	ev.Eval(root, Point{Y: 5})
	if ev.calls[expensive] != 1 {
		t.Errorf("second operand evaluated %d times, want 1", ev.calls[expensive])
	}
}

func TestCompute_MinMaxShortCircuit(t *testing.T) {
	b := NewBuilder()
	low := b.YClampedGradient(0, 10, -5, -4)
	unit := b.YClampedGradient(0, 10, 0, 1)
	minNode := b.Min(low, unit)
	maxNode := b.Max(b.YClampedGradient(0, 10, 4, 5), unit)
	g := mustBuild(t, b)

	ev := &countingEvaluator{g: g, calls: map[Ref]int{}}
	if got := ev.Eval(minNode, Point{Y: 5}); got != -4.5 {
		t.Errorf("min = %v, want -4.5", got)
	}
	if got := ev.Eval(maxNode, Point{Y: 5}); got != 4.5 {
		t.Errorf("max = %v, want 4.5", got)
	}
	if ev.calls[unit] != 0 {
		t.Errorf("bounded operand evaluated %d times, want 0", ev.calls[unit])
	}
}

func TestTransforms(t *testing.T) {
	cases := []struct {
		k        Kind
		in, want float64
	}{
		{KindAbs, -2, 2},
		{KindSquare, -3, 9},
		{KindCube, -2, -8},
		{KindHalfNegative, -2, -1},
		{KindHalfNegative, 2, 2},
		{KindQuarterNegative, -2, -0.5},
		{KindQuarterNegative, 3, 3},
		{KindSqueeze, 2, 0.5 - 1.0/24},
		{KindSqueeze, 0, 0},
	}
	for _, c := range cases {
		if got := transform(c.k, c.in); !mgl64.FloatEqualThreshold(got, c.want, 1e-15) {
			t.Errorf("%v(%v) = %v, want %v", c.k, c.in, got, c.want)
		}
	}
}

func TestBounds_Transforms(t *testing.T) {
	b := NewBuilder()
	grad := b.YClampedGradient(0, 10, -1, 2)
	abs := b.Abs(grad)
	sq := b.Square(grad)
	half := b.HalfNegative(grad)
	g := mustBuild(t, b)
	if g.MinValue(abs) != 0 || g.MaxValue(abs) != 2 {
		t.Errorf("abs bounds = [%v, %v]", g.MinValue(abs), g.MaxValue(abs))
	}
	if g.MinValue(sq) != 0 || g.MaxValue(sq) != 4 {
		t.Errorf("square bounds = [%v, %v]", g.MinValue(sq), g.MaxValue(sq))
	}
	if g.MinValue(half) != -0.5 || g.MaxValue(half) != 2 {
		t.Errorf("half negative bounds = [%v, %v]", g.MinValue(half), g.MaxValue(half))
	}
}

func TestRangeChoice_HalfOpen(t *testing.T) {
	b := NewBuilder()
	in := b.YClampedGradient(0, 10, 0, 10)
	root := b.RangeChoice(in, 2, 5, b.Constant(1), b.Constant(-1))
	g := mustBuild(t, b)
	for y, want := range map[int]float64{1: -1, 2: 1, 4: 1, 5: -1, 9: -1} {
		if got := Evaluate(g, root, Point{Y: y}); got != want {
			t.Errorf("y=%d: %v, want %v", y, got, want)
		}
	}
}

func TestShiftNodes_SampleAxes(t *testing.T) {
	b := NewBuilder()
	a := b.ShiftA("offset")
	bb := b.ShiftB("offset")
	s := b.Shift("offset")
	g, err := mustBuild(t, b).Bind(testBinder{seed: 7})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	n := g.Node(a).NoiseInstance()
	p := Point{X: 12, Y: 70, Z: -33}
	if got, want := Evaluate(g, a, p), n.Value(12*0.25, 0, -33*0.25)*4; got != want {
		t.Errorf("shift_a = %v, want %v", got, want)
	}
	if got, want := Evaluate(g, bb, p), n.Value(-33*0.25, 12*0.25, 0)*4; got != want {
		t.Errorf("shift_b = %v, want %v", got, want)
	}
	if got, want := Evaluate(g, s, p), n.Value(12*0.25, 70*0.25, -33*0.25)*4; got != want {
		t.Errorf("shift = %v, want %v", got, want)
	}
	if g.MaxValue(a) != n.MaxValue()*4 {
		t.Errorf("shift bounds not scaled by 4")
	}
}

func TestBind_RecomputesNoiseBounds(t *testing.T) {
	b := NewBuilder()
	n := b.Noise("n", 1, 1)
	g := mustBuild(t, b)
	if g.MaxValue(n) != 2 {
		t.Errorf("unbound noise max = %v, want 2", g.MaxValue(n))
	}
	bound, err := g.Bind(testBinder{seed: 1})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if want := bound.Node(n).NoiseInstance().MaxValue(); bound.MaxValue(n) != want {
		t.Errorf("bound noise max = %v, want %v", bound.MaxValue(n), want)
	}
	if g.Node(n).NoiseInstance() != nil {
		t.Errorf("Bind modified the unbound graph")
	}
	if got := Evaluate(g, n, Point{X: 5}); got != 0 {
		t.Errorf("unbound noise should sample 0, got %v", got)
	}
}

func TestBind_UnknownNoise(t *testing.T) {
	b := NewBuilder()
	b.Noise("missing", 1, 1)
	_, err := mustBuild(t, b).Bind(testBinder{})
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Key != "missing" {
		t.Errorf("err = %v, want ConfigError for missing", err)
	}
}

func TestBuild_InvalidNodes(t *testing.T) {
	b := NewBuilder()
	b.WeirdScaledSampler(b.Constant(0), "n", "type_9")
	if _, err := b.Build(); !errors.Is(err, ErrInvalid) {
		t.Errorf("unknown rarity: err = %v, want ErrInvalid", err)
	}

	b = NewBuilder()
	b.Clamp(b.Constant(0), 1, -1)
	if _, err := b.Build(); !errors.Is(err, ErrInvalid) {
		t.Errorf("inverted clamp: err = %v, want ErrInvalid", err)
	}
}

func TestBuild_MapperIsNotAReference(t *testing.T) {
	b := NewBuilder()
	b.Define("type_1", b.Constant(3))
	b.Define("weird", b.WeirdScaledSampler(b.Reference("type_1"), "n", "type_1"))
	g := mustBuild(t, b)

	r, ok := g.Lookup("weird")
	if !ok {
		t.Fatal("weird not defined")
	}
	n := g.Node(r)
	if n.Mapper != "type_1" || n.Key != "" {
		t.Errorf("mapper %q, key %q", n.Mapper, n.Key)
	}
	if n.Rarity != RarityTunnels3D {
		t.Errorf("rarity = %v", n.Rarity)
	}
	if got := Evaluate(g, n.In[0], Point{}); got != 3 {
		t.Errorf("input = %v, want the constant behind type_1", got)
	}
}

func TestRarity(t *testing.T) {
	r3, err := ParseRarity("type_1")
	if err != nil || r3 != RarityTunnels3D {
		t.Fatalf("ParseRarity(type_1) = %v, %v", r3, err)
	}
	if r3.Scale(-0.6) != 0.75 || r3.Scale(-0.1) != 1 || r3.Scale(0.2) != 1.5 || r3.Scale(0.9) != 2 {
		t.Errorf("type_1 bands wrong")
	}
	r2, _ := ParseRarity("type_2")
	if r2.Scale(-0.8) != 0.5 || r2.Scale(-0.6) != 0.75 || r2.Scale(0) != 1 || r2.Scale(0.6) != 2 || r2.Scale(0.8) != 3 {
		t.Errorf("type_2 bands wrong")
	}
	if r3.MaxScale() != 2 || r2.MaxScale() != 3 {
		t.Errorf("max scales wrong")
	}
}

func TestKind_IsMarker(t *testing.T) {
	for _, k := range []Kind{KindInterpolated, KindFlatCache, KindCache2D, KindCacheOnce, KindCacheAllInCell} {
		if !k.IsMarker() {
			t.Errorf("%v should be a marker", k)
		}
	}
	if KindSpline.IsMarker() || KindAdd.IsMarker() {
		t.Errorf("non-marker reported as marker")
	}
}
