package region

import (
	"mini-worldgen/internal/density"
	"mini-worldgen/internal/mathx"
)

type marker interface {
	sample(e *evaluator, ctx density.Context) float64
	computations() int
}

// interpolator samples its child only at cell corners and interpolates
// trilinearly in between. Corners are kept in the order
// 000, 100, 010, 110, 001, 101, 011, 111 (xyz).
type interpolator struct {
	c        *Cache
	child    density.Ref
	computed int

	// slices of corner values indexed [z][y]; slice0 is the X side of the
	// current cell column, slice1 the next.
	slice0, slice1 [][]float64
	corners        [8]float64

	xz00, xz10, xz01, xz11 float64
	z0, z1                 float64
	value                  float64

	table cornerTable
}

func newInterpolator(c *Cache, child density.Ref) *interpolator {
	return &interpolator{
		c:      c,
		child:  child,
		slice0: allocateSlice(c.cellCountY, c.cfg.CellCountXZ),
		slice1: allocateSlice(c.cellCountY, c.cfg.CellCountXZ),
	}
}

func allocateSlice(cellsY, cellsXZ int) [][]float64 {
	s := make([][]float64, cellsXZ+1)
	for i := range s {
		s[i] = make([]float64, cellsY+1)
	}
	return s
}

func (it *interpolator) computations() int { return it.computed }

func (it *interpolator) selectCell(y, z int) {
	it.corners = [8]float64{
		it.slice0[z][y], it.slice1[z][y], it.slice0[z][y+1], it.slice1[z][y+1],
		it.slice0[z+1][y], it.slice1[z+1][y], it.slice0[z+1][y+1], it.slice1[z+1][y+1],
	}
}

func (it *interpolator) updateY(t float64) {
	k := &it.corners
	it.xz00 = mathx.Lerp(t, k[0], k[2])
	it.xz10 = mathx.Lerp(t, k[1], k[3])
	it.xz01 = mathx.Lerp(t, k[4], k[6])
	it.xz11 = mathx.Lerp(t, k[5], k[7])
}

func (it *interpolator) updateX(t float64) {
	it.z0 = mathx.Lerp(t, it.xz00, it.xz10)
	it.z1 = mathx.Lerp(t, it.xz01, it.xz11)
}

func (it *interpolator) updateZ(t float64) {
	it.value = mathx.Lerp(t, it.z0, it.z1)
}

func (it *interpolator) swapSlices() {
	it.slice0, it.slice1 = it.slice1, it.slice0
}

// fold reduces eight corners to one value in the same order as the scan:
// Y, then X, then Z.
func fold(k *[8]float64, tx, ty, tz float64) float64 {
	xz00 := mathx.Lerp(ty, k[0], k[2])
	xz10 := mathx.Lerp(ty, k[1], k[3])
	xz01 := mathx.Lerp(ty, k[4], k[6])
	xz11 := mathx.Lerp(ty, k[5], k[7])
	z0 := mathx.Lerp(tx, xz00, xz10)
	z1 := mathx.Lerp(tx, xz01, xz11)
	return mathx.Lerp(tz, z0, z1)
}

func lerpCorners(k *[8]float64, tx, ty, tz float64) float64 {
	return mathx.Lerp3(tx, ty, tz, k[0], k[1], k[2], k[3], k[4], k[5], k[6], k[7])
}

func (it *interpolator) sample(e *evaluator, ctx density.Context) float64 {
	c := it.c
	switch e.mode {
	case Scan:
		if !c.interpolating {
			panic("region: sampling an interpolator outside the interpolation loop")
		}
		switch {
		case c.fillingSlice:
			it.computed++
			return e.Eval(it.child, ctx)
		case c.fillingCell:
			w, h := float64(c.cfg.CellWidth), float64(c.cfg.CellHeight)
			return lerpCorners(&it.corners, float64(c.inX)/w, float64(c.inY)/h, float64(c.inZ)/w)
		}
		return it.value
	case Query:
		return it.queryAt(e, ctx)
	}
	it.computed++
	return e.Eval(it.child, ctx)
}

func (it *interpolator) queryAt(e *evaluator, ctx density.Context) float64 {
	c := it.c
	cx, cy, cz, dx, dy, dz := c.cellOf(ctx.BlockX(), ctx.BlockY(), ctx.BlockZ())
	key := packCell(cx, cy, cz)
	k, ok := it.table.get(key)
	if !ok {
		k = it.cornersAt(e, cx*c.cfg.CellWidth, cy*c.cfg.CellHeight, cz*c.cfg.CellWidth)
		it.table.put(key, k)
	}
	w, h := float64(c.cfg.CellWidth), float64(c.cfg.CellHeight)
	tx, ty, tz := float64(dx)/w, float64(dy)/h, float64(dz)/w
	if c.queryFilling {
		return lerpCorners(&k, tx, ty, tz)
	}
	return fold(&k, tx, ty, tz)
}

func (it *interpolator) cornersAt(e *evaluator, x, y, z int) [8]float64 {
	c := it.c
	w, h := c.cfg.CellWidth, c.cfg.CellHeight
	filling := c.queryFilling
	c.queryFilling = false
	var k [8]float64
	for i := range k {
		p := density.Point{X: x + i&1*w, Y: y + i>>1&1*h, Z: z + i>>2&1*w}
		k[i] = e.Eval(it.child, p)
	}
	c.queryFilling = filling
	it.computed += len(k)
	return k
}

// cellCache holds its child's value for every block of one cell.
type cellCache struct {
	c        *Cache
	child    density.Ref
	computed int
	values   []float64

	queryCell   uint64
	queryValid  bool
	queryValues []float64
	queryFilled []bool
}

func newCellCache(c *Cache, child density.Ref) *cellCache {
	n := c.cfg.CellWidth * c.cfg.CellWidth * c.cfg.CellHeight
	return &cellCache{
		c:           c,
		child:       child,
		values:      make([]float64, n),
		queryValues: make([]float64, n),
		queryFilled: make([]bool, n),
	}
}

func (cc *cellCache) computations() int { return cc.computed }

func (cc *cellCache) index(dx, dy, dz int) int {
	w, h := cc.c.cfg.CellWidth, cc.c.cfg.CellHeight
	return ((h-1-dy)*w+dx)*w + dz
}

// fill evaluates the child at every block of the selected cell, top layer
// first. The caller restores the in-cell offsets.
func (cc *cellCache) fill() {
	c := cc.c
	w, h := c.cfg.CellWidth, c.cfg.CellHeight
	i := 0
	for y := h - 1; y >= 0; y-- {
		c.inY = y
		for x := 0; x < w; x++ {
			c.inX = x
			for z := 0; z < w; z++ {
				c.inZ = z
				c.counter++
				cc.values[i] = c.scan.Eval(cc.child, c)
				i++
			}
		}
	}
	cc.computed += i
}

func (cc *cellCache) sample(e *evaluator, ctx density.Context) float64 {
	c := cc.c
	switch e.mode {
	case Scan:
		if !c.interpolating {
			panic("region: sampling a cell cache outside the interpolation loop")
		}
		w, h := c.cfg.CellWidth, c.cfg.CellHeight
		if !c.fillingSlice && c.inX >= 0 && c.inY >= 0 && c.inZ >= 0 && c.inX < w && c.inY < h && c.inZ < w {
			return cc.values[cc.index(c.inX, c.inY, c.inZ)]
		}
	case Query:
		return cc.queryAt(e, ctx)
	}
	cc.computed++
	return e.Eval(cc.child, ctx)
}

func (cc *cellCache) queryAt(e *evaluator, ctx density.Context) float64 {
	c := cc.c
	cx, cy, cz, dx, dy, dz := c.cellOf(ctx.BlockX(), ctx.BlockY(), ctx.BlockZ())
	if key := packCell(cx, cy, cz); !cc.queryValid || cc.queryCell != key {
		cc.queryCell = key
		cc.queryValid = true
		clear(cc.queryFilled)
	}
	i := cc.index(dx, dy, dz)
	if !cc.queryFilled[i] {
		filling := c.queryFilling
		c.queryFilling = true
		cc.queryValues[i] = e.Eval(cc.child, ctx)
		c.queryFilling = filling
		cc.queryFilled[i] = true
		cc.computed++
	}
	return cc.queryValues[i]
}

// cacheOnce remembers the last value. In a scan the interpolation counter
// tells positions apart; queries compare the position itself.
type cacheOnce struct {
	child    density.Ref
	computed int

	lastCounter int64
	lastValue   float64

	lastPos      density.Point
	posValid     bool
	lastPosValue float64
}

func (co *cacheOnce) computations() int { return co.computed }

func (co *cacheOnce) sample(e *evaluator, ctx density.Context) float64 {
	switch e.mode {
	case Scan:
		if co.lastCounter == e.c.counter {
			return co.lastValue
		}
		co.lastValue = e.Eval(co.child, ctx)
		co.lastCounter = e.c.counter
		co.computed++
		return co.lastValue
	case Query:
		p := density.Point{X: ctx.BlockX(), Y: ctx.BlockY(), Z: ctx.BlockZ()}
		if co.posValid && co.lastPos == p {
			return co.lastPosValue
		}
		co.lastPosValue = e.Eval(co.child, ctx)
		co.lastPos = p
		co.posValid = true
		co.computed++
		return co.lastPosValue
	}
	co.computed++
	return e.Eval(co.child, ctx)
}

// cache2D remembers the value of the last X/Z column in every mode.
type cache2D struct {
	child    density.Ref
	computed int

	valid bool
	x, z  int
	value float64
}

func (c2 *cache2D) computations() int { return c2.computed }

func (c2 *cache2D) sample(e *evaluator, ctx density.Context) float64 {
	x, z := ctx.BlockX(), ctx.BlockZ()
	if c2.valid && c2.x == x && c2.z == z {
		return c2.value
	}
	c2.value = e.Eval(c2.child, ctx)
	c2.x, c2.z, c2.valid = x, z, true
	c2.computed++
	return c2.value
}

// flatCache holds its child at y=0 on the quart grid of the window, padded
// by one quart on the positive side.
type flatCache struct {
	c        *Cache
	child    density.Ref
	computed int
	values   [][]float64 // [x][z]
}

func newFlatCache(c *Cache, child density.Ref) *flatCache {
	n := c.noiseSizeXZ + 1
	fc := &flatCache{c: c, child: child, values: make([][]float64, n)}
	for i := range fc.values {
		x := mathx.QuartToBlock(c.firstNoiseX + i)
		row := make([]float64, n)
		for j := range row {
			z := mathx.QuartToBlock(c.firstNoiseZ + j)
			row[j] = c.direct.Eval(child, density.Point{X: x, Y: 0, Z: z})
		}
		fc.values[i] = row
	}
	fc.computed = n * n
	return fc
}

func (fc *flatCache) computations() int { return fc.computed }

func (fc *flatCache) sample(e *evaluator, ctx density.Context) float64 {
	i := mathx.QuartFromBlock(ctx.BlockX()) - fc.c.firstNoiseX
	j := mathx.QuartFromBlock(ctx.BlockZ()) - fc.c.firstNoiseZ
	if n := len(fc.values); i >= 0 && j >= 0 && i < n && j < n {
		return fc.values[i][j]
	}
	fc.computed++
	return e.Eval(fc.child, ctx)
}
