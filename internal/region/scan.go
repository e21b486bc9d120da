package region

import (
	"mini-worldgen/internal/profiling"
)

// The scan protocol walks a window cell by cell: Start, then for every X
// cell AdvanceCellX, for every Z cell and Y cell (top down) SelectCell, then
// UpdateY, UpdateX and UpdateZ for every block of the cell, SwapSlices after
// each X cell and Stop at the end. The cache trusts the caller to keep that
// order; Scan drives it.

// Start fills the first slice of every interpolator.
func (c *Cache) Start() {
	if c.interpolating {
		panic("region: starting interpolation twice")
	}
	c.interpolating = true
	c.fillSlice(true, c.firstCellX)
}

func (c *Cache) fillSlice(first bool, cellX int) {
	w, h := c.cfg.CellWidth, c.cfg.CellHeight
	c.fillingSlice = true
	c.cellStartX = cellX * w
	c.inX = 0
	for j := 0; j <= c.cfg.CellCountXZ; j++ {
		c.cellStartZ = (c.firstCellZ + j) * w
		c.inZ = 0
		for _, it := range c.interps {
			col := it.slice1[j]
			if first {
				col = it.slice0[j]
			}
			for i := range col {
				c.cellStartY = (i + c.cellNoiseMinY) * h
				c.inY = 0
				c.counter++
				col[i] = c.scan.Eval(it.child, c)
			}
			it.computed += len(col)
		}
	}
	c.fillingSlice = false
}

// AdvanceCellX fills the slice on the far side of X cell i.
func (c *Cache) AdvanceCellX(i int) {
	c.fillSlice(false, c.firstCellX+i+1)
	c.cellStartX = (c.firstCellX + i) * c.cfg.CellWidth
}

// SelectCell loads the corners of cell (cellY, cellZ), both relative to the
// window, and fills every cell cache for it.
func (c *Cache) SelectCell(cellY, cellZ int) {
	for _, it := range c.interps {
		it.selectCell(cellY, cellZ)
	}
	c.cellStartY = (cellY + c.cellNoiseMinY) * c.cfg.CellHeight
	c.cellStartZ = (c.firstCellZ + cellZ) * c.cfg.CellWidth
	if len(c.cells) == 0 {
		return
	}
	x, y, z := c.inX, c.inY, c.inZ
	c.fillingCell = true
	for _, cc := range c.cells {
		cc.fill()
	}
	c.fillingCell = false
	c.inX, c.inY, c.inZ = x, y, z
}

func (c *Cache) UpdateY(blockY int, t float64) {
	c.inY = blockY - c.cellStartY
	for _, it := range c.interps {
		it.updateY(t)
	}
}

func (c *Cache) UpdateX(blockX int, t float64) {
	c.inX = blockX - c.cellStartX
	for _, it := range c.interps {
		it.updateX(t)
	}
}

// UpdateZ completes the move to a new block and invalidates cache-once
// markers.
func (c *Cache) UpdateZ(blockZ int, t float64) {
	c.inZ = blockZ - c.cellStartZ
	c.counter++
	for _, it := range c.interps {
		it.updateZ(t)
	}
}

func (c *Cache) SwapSlices() {
	for _, it := range c.interps {
		it.swapSlices()
	}
}

func (c *Cache) Stop() {
	if !c.interpolating {
		panic("region: stopping interpolation that was not started")
	}
	c.interpolating = false
}

// Scan runs the whole protocol over the window and calls fn at every block,
// with the cache positioned there. fn samples through Sample.
func (c *Cache) Scan(fn func(x, y, z int)) {
	defer profiling.Track("region.Scan")()
	w, h := c.cfg.CellWidth, c.cfg.CellHeight
	c.Start()
	for cx := 0; cx < c.cfg.CellCountXZ; cx++ {
		c.AdvanceCellX(cx)
		for cz := 0; cz < c.cfg.CellCountXZ; cz++ {
			for cy := c.cellCountY - 1; cy >= 0; cy-- {
				c.SelectCell(cy, cz)
				for dy := h - 1; dy >= 0; dy-- {
					y := (c.cellNoiseMinY+cy)*h + dy
					c.UpdateY(y, float64(dy)/float64(h))
					for dx := 0; dx < w; dx++ {
						x := c.cfg.StartX + cx*w + dx
						c.UpdateX(x, float64(dx)/float64(w))
						for dz := 0; dz < w; dz++ {
							z := c.cfg.StartZ + cz*w + dz
							c.UpdateZ(z, float64(dz)/float64(w))
							fn(x, y, z)
						}
					}
				}
			}
		}
		c.SwapSlices()
	}
	c.Stop()
}
