// Package region wraps a density graph for one bounded window of the world
// and applies the caching and interpolation its markers ask for.
//
// A Cache is owned by one goroutine. It is created for a single chunk column
// or ad hoc lookup and dropped once that window has been sampled.
package region

import (
	"errors"
	"fmt"

	"mini-worldgen/internal/density"
	"mini-worldgen/internal/mathx"
)

// Mode selects how markers behave for one evaluation.
type Mode uint8

const (
	// Scan samples at the position driven by the bulk scan protocol.
	Scan Mode = iota
	// Query samples an arbitrary position and keeps interpolation corners
	// per cell.
	Query
	// Direct lets interpolators, cell caches and cache-once markers pass
	// straight through to their child.
	Direct
)

var modeNames = [...]string{Scan: "scan", Query: "query", Direct: "direct"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

var ErrConfig = errors.New("invalid region config")

// Config describes the window a Cache covers. Start coordinates and MinY
// must sit on cell boundaries.
type Config struct {
	CellWidth   int // blocks per cell along X and Z
	CellHeight  int // blocks per cell along Y
	CellCountXZ int // cells per axis along X and Z
	MinY        int
	Height      int
	StartX      int
	StartZ      int
}

// ChunkConfig covers the 16x16 column whose first block is (x, z).
func ChunkConfig(cellWidth, cellHeight, minY, height, x, z int) Config {
	return Config{
		CellWidth:   cellWidth,
		CellHeight:  cellHeight,
		CellCountXZ: 16 / cellWidth,
		MinY:        minY,
		Height:      height,
		StartX:      x,
		StartZ:      z,
	}
}

func (c Config) Validate() error {
	switch {
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return fmt.Errorf("%w: cell size %dx%d", ErrConfig, c.CellWidth, c.CellHeight)
	case c.CellCountXZ <= 0:
		return fmt.Errorf("%w: %d cells per axis", ErrConfig, c.CellCountXZ)
	case c.Height <= 0 || c.Height%c.CellHeight != 0:
		return fmt.Errorf("%w: height %d is not a positive multiple of %d", ErrConfig, c.Height, c.CellHeight)
	case mathx.FloorMod(c.MinY, c.CellHeight) != 0:
		return fmt.Errorf("%w: min y %d is not a multiple of %d", ErrConfig, c.MinY, c.CellHeight)
	case mathx.FloorMod(c.StartX, c.CellWidth) != 0 || mathx.FloorMod(c.StartZ, c.CellWidth) != 0:
		return fmt.Errorf("%w: start (%d, %d) is not cell aligned", ErrConfig, c.StartX, c.StartZ)
	}
	return nil
}

// Cache is a density graph wrapped for one window. Markers reachable from the
// roots given to New are replaced by stateful caches keyed by node Ref, so a
// node shared by several parents is cached once.
type Cache struct {
	g   *density.Graph
	cfg Config

	cellCountY    int
	cellNoiseMinY int
	firstCellX    int
	firstCellZ    int
	firstNoiseX   int
	firstNoiseZ   int
	noiseSizeXZ   int

	markers []marker // indexed by Ref, nil for plain nodes
	interps []*interpolator
	cells   []*cellCache

	// scan state
	interpolating bool
	fillingSlice  bool
	fillingCell   bool
	cellStartX    int
	cellStartY    int
	cellStartZ    int
	inX, inY, inZ int
	counter       int64

	// set while a query fills a cell cache entry
	queryFilling bool

	scan, query, direct evaluator
}

// New wraps every marker reachable from roots, children first. With no roots
// every marker in g is wrapped. Flat caches are filled here.
func New(g *density.Graph, cfg Config, roots ...density.Ref) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cache{
		g:             g,
		cfg:           cfg,
		cellCountY:    cfg.Height / cfg.CellHeight,
		cellNoiseMinY: mathx.FloorDiv(cfg.MinY, cfg.CellHeight),
		firstCellX:    mathx.FloorDiv(cfg.StartX, cfg.CellWidth),
		firstCellZ:    mathx.FloorDiv(cfg.StartZ, cfg.CellWidth),
		firstNoiseX:   mathx.QuartFromBlock(cfg.StartX),
		firstNoiseZ:   mathx.QuartFromBlock(cfg.StartZ),
		noiseSizeXZ:   mathx.QuartFromBlock(cfg.CellCountXZ * cfg.CellWidth),
		markers:       make([]marker, g.Len()),
	}
	c.scan = evaluator{c: c, mode: Scan}
	c.query = evaluator{c: c, mode: Query}
	c.direct = evaluator{c: c, mode: Direct}

	if len(roots) == 0 {
		roots = make([]density.Ref, g.Len())
		for i := range roots {
			roots[i] = density.Ref(i)
		}
	}
	seen := make([]bool, g.Len())
	for _, r := range roots {
		c.wrap(r, seen)
	}
	return c, nil
}

func (c *Cache) wrap(r density.Ref, seen []bool) {
	if r == density.NoRef || seen[r] {
		return
	}
	seen[r] = true
	n := c.g.Node(r)
	for _, child := range n.Children() {
		c.wrap(child, seen)
	}
	if n.Spline != nil {
		for _, child := range n.Spline.Coordinates() {
			c.wrap(child, seen)
		}
	}

	switch n.Kind {
	case density.KindInterpolated:
		it := newInterpolator(c, n.In[0])
		c.interps = append(c.interps, it)
		c.markers[r] = it
	case density.KindCacheAllInCell:
		cc := newCellCache(c, n.In[0])
		c.cells = append(c.cells, cc)
		c.markers[r] = cc
	case density.KindFlatCache:
		c.markers[r] = newFlatCache(c, n.In[0])
	case density.KindCache2D:
		c.markers[r] = &cache2D{child: n.In[0]}
	case density.KindCacheOnce:
		c.markers[r] = &cacheOnce{child: n.In[0], lastCounter: -1}
	}
}

func (c *Cache) Graph() *density.Graph { return c.g }

func (c *Cache) Config() Config { return c.cfg }

// CellCountY is the number of cells between MinY and MinY+Height.
func (c *Cache) CellCountY() int { return c.cellCountY }

// BlockX, BlockY and BlockZ report the current scan position.
func (c *Cache) BlockX() int { return c.cellStartX + c.inX }
func (c *Cache) BlockY() int { return c.cellStartY + c.inY }
func (c *Cache) BlockZ() int { return c.cellStartZ + c.inZ }

// Sample evaluates r at the current scan position.
func (c *Cache) Sample(r density.Ref) float64 { return c.scan.Eval(r, c) }

// Query evaluates r at an arbitrary position.
func (c *Cache) Query(r density.Ref, x, y, z int) float64 {
	return c.query.Eval(r, density.Point{X: x, Y: y, Z: z})
}

// Evaluator returns the evaluator for mode. A Scan evaluator must be given
// the Cache itself as context.
func (c *Cache) Evaluator(mode Mode) density.Evaluator {
	switch mode {
	case Scan:
		return &c.scan
	case Query:
		return &c.query
	}
	return &c.direct
}

// Computations reports how many times the marker at r evaluated its child,
// fills included. Plain nodes report 0.
func (c *Cache) Computations(r density.Ref) int {
	if m := c.markers[r]; m != nil {
		return m.computations()
	}
	return 0
}

type evaluator struct {
	c    *Cache
	mode Mode
}

func (e *evaluator) Eval(r density.Ref, ctx density.Context) float64 {
	if m := e.c.markers[r]; m != nil {
		return m.sample(e, ctx)
	}
	return e.c.g.Compute(r, ctx, e)
}

// cellOf returns the cell containing a block position and the block's offset
// inside it.
func (c *Cache) cellOf(x, y, z int) (cx, cy, cz, dx, dy, dz int) {
	w, h := c.cfg.CellWidth, c.cfg.CellHeight
	cx, cy, cz = mathx.FloorDiv(x, w), mathx.FloorDiv(y, h), mathx.FloorDiv(z, w)
	return cx, cy, cz, x - cx*w, y - cy*h, z - cz*w
}

// packCell packs a cell position the way block positions are packed: 26 bits
// of X and Z and 12 bits of Y.
func packCell(x, y, z int) uint64 {
	return uint64(x&0x3FFFFFF)<<38 | uint64(z&0x3FFFFFF)<<12 | uint64(y&0xFFF)
}
