package climate

import (
	"errors"
	"math/rand"
	"testing"

	"mini-worldgen/internal/density"
)

func span(t *testing.T, lo, hi float32) Parameter {
	t.Helper()
	p, err := Span(lo, hi)
	if err != nil {
		t.Fatalf("Span(%v, %v): %v", lo, hi, err)
	}
	return p
}

func box(t *testing.T, tLo, tHi float32) ParameterPoint {
	t.Helper()
	zero := Point(0)
	return ParameterPoint{
		Temperature:     span(t, tLo, tHi),
		Humidity:        zero,
		Continentalness: zero,
		Erosion:         zero,
		Depth:           zero,
		Weirdness:       zero,
	}
}

func TestQuantize(t *testing.T) {
	cases := []struct {
		in   float32
		want int64
	}{
		{0, 0},
		{1, 10000},
		{-0.45, -4500},
		{0.00015, 1},
		{-0.00015, -1},
	}
	for _, c := range cases {
		if got := Quantize(c.in); got != c.want {
			t.Errorf("Quantize(%v) = %d, want %d", c.in, got, c.want)
		}
	}
	if Unquantize(2500) != 0.25 {
		t.Errorf("Unquantize(2500) = %v", Unquantize(2500))
	}
}

func TestParameter_Distance(t *testing.T) {
	p := Parameter{Min: -100, Max: 100}
	for v, want := range map[int64]int64{0: 0, 100: 0, -100: 0, 150: 50, -130: 30} {
		if got := p.Distance(v); got != want {
			t.Errorf("Distance(%d) = %d, want %d", v, got, want)
		}
	}
	if d := p.DistanceTo(Parameter{Min: 150, Max: 200}); d != 50 {
		t.Errorf("DistanceTo right = %d", d)
	}
	if d := p.DistanceTo(Parameter{Min: -300, Max: -200}); d != 100 {
		t.Errorf("DistanceTo left = %d", d)
	}
	if d := p.DistanceTo(Parameter{Min: 50, Max: 500}); d != 0 {
		t.Errorf("overlapping DistanceTo = %d", d)
	}
	if u := p.Union(Parameter{Min: 50, Max: 500}); u != (Parameter{Min: -100, Max: 500}) {
		t.Errorf("Union = %v", u)
	}
	if j := Join(Point(-1), Point(0.5)); j != (Parameter{Min: -10000, Max: 5000}) {
		t.Errorf("Join = %v", j)
	}
}

func TestSpan_RejectsInverted(t *testing.T) {
	if _, err := Span(0.5, -0.5); !errors.Is(err, ErrSpan) {
		t.Errorf("err = %v, want ErrSpan", err)
	}
}

func TestParameterPoint_FitnessIncludesOffset(t *testing.T) {
	p := box(t, -0.1, 0.1)
	p.Offset = 3
	if f := p.Fitness(Target(0, 0, 0, 0, 0, 0)); f != 9 {
		t.Errorf("fitness inside box = %d, want offset squared", f)
	}
	if f := p.Fitness(Target(0.2, 0, 0, 0, 0, 0)); f != 1000*1000+9 {
		t.Errorf("fitness outside box = %d", f)
	}
}

func TestNewIndex_Empty(t *testing.T) {
	if _, err := NewIndex[string](nil); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("err = %v, want ErrEmptyIndex", err)
	}
}

func TestIndex_ThreeBoxes(t *testing.T) {
	ix, err := NewIndex([]Pair[string]{
		{box(t, -1, -0.5), "a"},
		{box(t, -0.2, 0.2), "b"},
		{box(t, 0.5, 1), "c"},
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	cases := []struct {
		temp float32
		want string
	}{
		{0, "b"},
		{-0.75, "a"},
		{0.9, "c"},
		{0.3, "b"},
		{2, "c"},
	}
	for _, c := range cases {
		target := Target(c.temp, 0, 0, 0, 0, 0)
		if got := ix.Find(target); got != c.want {
			t.Errorf("Find(%v) = %s, want %s", c.temp, got, c.want)
		}
		if got := ix.FindBruteForce(target); got != c.want {
			t.Errorf("FindBruteForce(%v) = %s, want %s", c.temp, got, c.want)
		}
	}
	if got := ix.Lookup([6]float64{0.1, 0, 0, 0, 0, 0}); got != "b" {
		t.Errorf("Lookup = %s, want b", got)
	}
}

// Equidistant boxes: the search keeps the first leaf it reaches, which in a
// small index is the one with the smaller absolute midpoint sum.
func TestIndex_TieKeepsFirstVisited(t *testing.T) {
	ix, err := NewIndex([]Pair[string]{
		{box(t, 0.4, 0.6), "far"},
		{box(t, -0.3, -0.1), "near"},
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	// 0.15 is 0.25 away from both boxes.
	target := Target(0.15, 0, 0, 0, 0, 0)
	if got := ix.Find(target); got != "near" {
		t.Errorf("tie resolved to %s, want near", got)
	}
	// Brute force keeps construction order instead.
	if got := ix.FindBruteForce(target); got != "far" {
		t.Errorf("brute-force tie resolved to %s, want far", got)
	}
}

func randomPoint(r *rand.Rand) ParameterPoint {
	p := func() Parameter {
		a := r.Float32()*4 - 2
		b := a + r.Float32()*0.5
		return Parameter{Min: Quantize(a), Max: Quantize(b)}
	}
	return ParameterPoint{
		Temperature:     p(),
		Humidity:        p(),
		Continentalness: p(),
		Erosion:         p(),
		Depth:           p(),
		Weirdness:       p(),
		Offset:          Quantize(r.Float32() * 0.1),
	}
}

func TestIndex_AgreesWithBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	pairs := make([]Pair[int], 300)
	for i := range pairs {
		pairs[i] = Pair[int]{randomPoint(r), i}
	}
	ix, err := NewIndex(pairs)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	cur := ix.NewCursor()
	for i := 0; i < 2000; i++ {
		target := Target(r.Float32()*4-2, r.Float32()*4-2, r.Float32()*4-2, r.Float32()*4-2, r.Float32()*4-2, r.Float32()*4-2)
		want := pairs[ix.FindBruteForce(target)].Point.Fitness(target)
		if got := pairs[ix.Find(target)].Point.Fitness(target); got != want {
			t.Fatalf("Find fitness %d, brute force %d", got, want)
		}
		if got := pairs[cur.Find(target)].Point.Fitness(target); got != want {
			t.Fatalf("Cursor fitness %d, brute force %d", got, want)
		}
	}
}

func TestCursor_RepeatsAreStable(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	pairs := make([]Pair[int], 60)
	for i := range pairs {
		pairs[i] = Pair[int]{randomPoint(r), i}
	}
	ix, _ := NewIndex(pairs)
	cur := ix.NewCursor()
	target := Target(0.1, -0.2, 0.3, 0, 0, 0.5)
	first := cur.Find(target)
	for i := 0; i < 5; i++ {
		if got := cur.Find(target); got != first {
			t.Fatalf("repeat %d returned %d, want %d", i, got, first)
		}
	}
}

func TestSampler(t *testing.T) {
	b := density.NewBuilder()
	b.Define("temperature", b.Constant(0.5))
	b.Define("humidity", b.Constant(-0.25))
	b.Define("continentalness", b.YClampedGradient(0, 64, 0, 1))
	b.Define("erosion", b.Constant(0))
	b.Define("depth", b.Constant(0))
	b.Define("weirdness", b.Constant(1))
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, err := NewSampler(g, "temperature", "humidity", "continentalness", "erosion", "depth", "weirdness")
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	got := s.Sample(density.PureEvaluator(g), 3, 8, -2)
	want := Target(0.5, -0.25, 0.5, 0, 0, 1)
	if got != want {
		t.Errorf("Sample = %+v, want %+v", got, want)
	}

	if _, err := NewSampler(g, "temperature", "nope", "continentalness", "erosion", "depth", "weirdness"); !errors.Is(err, density.ErrUndefined) {
		t.Errorf("missing key err = %v", err)
	}
}
