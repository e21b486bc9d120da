package climate

import (
	"cmp"
	"errors"
	"math"
	"slices"
)

const childrenPerNode = 6

var ErrEmptyIndex = errors.New("climate: index needs at least one value")

// Pair assigns a value, usually a biome, to a box.
type Pair[T any] struct {
	Point ParameterPoint
	Value T
}

// node is either a leaf holding one pair or a subtree whose space is the
// union of its children.
type node[T any] struct {
	space    [Axes]Parameter
	children []*node[T]
	leaf     bool
	value    T
}

func (n *node[T]) distance(t *[Axes]int64) int64 {
	var d int64
	for i := range n.space {
		d += square(n.space[i].Distance(t[i]))
	}
	return d
}

func (n *node[T]) cost() int64 {
	var c int64
	for _, p := range n.space {
		c += p.width()
	}
	return c
}

// search returns the leaf below n nearest to t, or best if nothing below n is
// strictly nearer. Equal distances keep the leaf found first.
func (n *node[T]) search(t *[Axes]int64, best *node[T]) *node[T] {
	if n.leaf {
		return n
	}
	bound := int64(math.MaxInt64)
	if best != nil {
		bound = best.distance(t)
	}
	for _, child := range n.children {
		d := child.distance(t)
		if bound <= d {
			continue
		}
		found := child.search(t, best)
		if found != child {
			d = found.distance(t)
		}
		if bound <= d {
			continue
		}
		bound, best = d, found
	}
	return best
}

func newSubtree[T any](children []*node[T]) *node[T] {
	n := &node[T]{children: children, space: children[0].space}
	for _, c := range children[1:] {
		for i := range n.space {
			n.space[i] = n.space[i].Union(c.space[i])
		}
	}
	return n
}

func build[T any](nodes []*node[T]) *node[T] {
	if len(nodes) == 1 {
		return nodes[0]
	}
	if len(nodes) <= childrenPerNode {
		slices.SortStableFunc(nodes, func(a, b *node[T]) int {
			return cmp.Compare(absMidSum(a), absMidSum(b))
		})
		return newSubtree(nodes)
	}

	best := int64(math.MaxInt64)
	axis := -1
	var buckets []*node[T]
	for k := 0; k < Axes; k++ {
		sortNodes(nodes, k, false)
		bs := bucketize(nodes)
		var cost int64
		for _, b := range bs {
			cost += b.cost()
		}
		if best <= cost {
			continue
		}
		best, axis, buckets = cost, k, bs
	}
	sortNodes(buckets, axis, true)
	children := make([]*node[T], len(buckets))
	for i, b := range buckets {
		children[i] = build(b.children)
	}
	return newSubtree(children)
}

func absMidSum[T any](n *node[T]) int64 {
	var s int64
	for _, p := range n.space {
		s += abs64(p.mid())
	}
	return s
}

// sortNodes orders nodes by the midpoint on axis, breaking ties on the
// following axes in rotation.
func sortNodes[T any](nodes []*node[T], axis int, absolute bool) {
	key := func(n *node[T], i int) int64 {
		m := n.space[i].mid()
		if absolute {
			return abs64(m)
		}
		return m
	}
	slices.SortStableFunc(nodes, func(a, b *node[T]) int {
		for k := 0; k < Axes; k++ {
			i := (axis + k) % Axes
			if c := cmp.Compare(key(a, i), key(b, i)); c != 0 {
				return c
			}
		}
		return 0
	})
}

// bucketize groups consecutive nodes into subtrees of the largest power of
// six below len(nodes).
func bucketize[T any](nodes []*node[T]) []*node[T] {
	size := int(math.Pow(childrenPerNode, math.Floor(math.Log(float64(len(nodes))-0.01)/math.Log(childrenPerNode))))
	var out []*node[T]
	for i := 0; i < len(nodes); i += size {
		end := min(i+size, len(nodes))
		out = append(out, newSubtree(slices.Clone(nodes[i:end])))
	}
	return out
}

// Index is an immutable R-tree over biome boxes. It is safe for concurrent
// use; per-goroutine locality hints live in Cursors.
type Index[T any] struct {
	root  *node[T]
	pairs []Pair[T]
}

// NewIndex builds the tree. The pairs slice is copied.
func NewIndex[T any](pairs []Pair[T]) (*Index[T], error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyIndex
	}
	leaves := make([]*node[T], len(pairs))
	for i, p := range pairs {
		leaves[i] = &node[T]{space: p.Point.Space(), leaf: true, value: p.Value}
	}
	return &Index[T]{root: build(leaves), pairs: slices.Clone(pairs)}, nil
}

func (ix *Index[T]) Len() int { return len(ix.pairs) }

// Pairs returns the pairs in construction order. Callers must not modify it.
func (ix *Index[T]) Pairs() []Pair[T] { return ix.pairs }

// Find searches without a hint.
func (ix *Index[T]) Find(t TargetPoint) T {
	a := t.array()
	return ix.root.search(&a, nil).value
}

// Lookup finds the value for six unquantized climate values in axis order:
// temperature, humidity, continentalness, erosion, depth, weirdness.
func (ix *Index[T]) Lookup(v [6]float64) T {
	return ix.Find(Target(float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3]), float32(v[4]), float32(v[5])))
}

// FindBruteForce scans every pair; the first best fitness wins.
func (ix *Index[T]) FindBruteForce(t TargetPoint) T {
	best := ix.pairs[0]
	bestFit := best.Point.Fitness(t)
	for _, p := range ix.pairs[1:] {
		if f := p.Point.Fitness(t); f < bestFit {
			best, bestFit = p, f
		}
	}
	return best.Value
}

// NewCursor returns a search handle for one goroutine.
func (ix *Index[T]) NewCursor() *Cursor[T] { return &Cursor[T]{ix: ix} }

// Cursor seeds each search with the previous result, which is usually the
// answer for a neighbouring sample.
type Cursor[T any] struct {
	ix   *Index[T]
	last *node[T]
}

func (c *Cursor[T]) Find(t TargetPoint) T {
	a := t.array()
	c.last = c.ix.root.search(&a, c.last)
	return c.last.value
}
