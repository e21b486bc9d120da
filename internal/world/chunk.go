package world

import (
	"mini-worldgen/internal/mathx"
)

const (
	// Chunk dimensions
	ChunkSizeX = 16
	ChunkSizeZ = 16

	// Section dimensions
	SectionHeight = 16
	SectionVolume = ChunkSizeX * SectionHeight * ChunkSizeZ

	quartsXZ = ChunkSizeX / 4
)

// ChunkCoord addresses a column of blocks 16 wide on X and Z.
type ChunkCoord struct {
	X, Z int
}

// ChunkOf returns the chunk holding block (x, z).
func ChunkOf(x, z int) ChunkCoord {
	return ChunkCoord{X: mathx.FloorDiv(x, ChunkSizeX), Z: mathx.FloorDiv(z, ChunkSizeZ)}
}

func (c ChunkCoord) BlockX() int { return c.X * ChunkSizeX }
func (c ChunkCoord) BlockZ() int { return c.Z * ChunkSizeZ }

// Section is a 16x16x16 slab. All-air sections are never allocated.
type Section struct {
	blocks []BlockType
}

func indexInSection(x, localY, z int) int {
	return x*SectionHeight*ChunkSizeZ + localY*ChunkSizeZ + z
}

// Column is one generated chunk: blocks over the full world height plus a
// biome per quart.
type Column struct {
	Coord  ChunkCoord
	MinY   int
	Height int

	sections []*Section
	// heights holds the highest non-air block per (x, z), MinY-1 when empty.
	heights [ChunkSizeX * ChunkSizeZ]int32
	// biomes is indexed [quartY][quartZ][quartX] relative to the column.
	biomes []BiomeID
}

// NewColumn returns an all-air column.
func NewColumn(coord ChunkCoord, minY, height int) *Column {
	c := &Column{
		Coord:    coord,
		MinY:     minY,
		Height:   height,
		sections: make([]*Section, (height+SectionHeight-1)/SectionHeight),
		biomes:   make([]BiomeID, quartsXZ*quartsXZ*mathx.QuartFromBlock(height)),
	}
	for i := range c.heights {
		c.heights[i] = int32(minY - 1)
	}
	return c
}

func (c *Column) inside(x, y, z int) bool {
	return x >= 0 && x < ChunkSizeX && z >= 0 && z < ChunkSizeZ && y >= c.MinY && y < c.MinY+c.Height
}

// GetBlock takes local x and z and an absolute y.
func (c *Column) GetBlock(x, y, z int) BlockType {
	if !c.inside(x, y, z) {
		return BlockTypeAir
	}
	ly := y - c.MinY
	sec := c.sections[ly/SectionHeight]
	if sec == nil {
		return BlockTypeAir
	}
	return sec.blocks[indexInSection(x, ly%SectionHeight, z)]
}

// SetBlock takes local x and z and an absolute y. The recorded surface
// height only grows.
func (c *Column) SetBlock(x, y, z int, t BlockType) {
	if !c.inside(x, y, z) {
		return
	}
	ly := y - c.MinY
	sec := c.sections[ly/SectionHeight]
	if sec == nil {
		if t == BlockTypeAir {
			return
		}
		sec = &Section{blocks: make([]BlockType, SectionVolume)}
		c.sections[ly/SectionHeight] = sec
	}
	sec.blocks[indexInSection(x, ly%SectionHeight, z)] = t
	if t != BlockTypeAir {
		h := &c.heights[x*ChunkSizeZ+z]
		*h = max(*h, int32(y))
	}
}

// SurfaceHeight is the highest non-air block at local (x, z).
func (c *Column) SurfaceHeight(x, z int) int {
	return int(c.heights[x*ChunkSizeZ+z])
}

func (c *Column) biomeIndex(qx, qy, qz int) int {
	return (qy*quartsXZ+qz)*quartsXZ + qx
}

// Biome takes local quart x and z and a quart y relative to MinY.
func (c *Column) Biome(qx, qy, qz int) BiomeID {
	return c.biomes[c.biomeIndex(qx, qy, qz)]
}

func (c *Column) setBiome(qx, qy, qz int, id BiomeID) {
	c.biomes[c.biomeIndex(qx, qy, qz)] = id
}

// BiomeAt returns the biome of the quart holding local block (x, y, z).
func (c *Column) BiomeAt(x, y, z int) BiomeID {
	if !c.inside(x, y, z) {
		return BiomeVoid
	}
	return c.Biome(mathx.QuartFromBlock(x), mathx.QuartFromBlock(y-c.MinY), mathx.QuartFromBlock(z))
}

// Count returns how many blocks of type t the column holds.
func (c *Column) Count(t BlockType) int {
	n := 0
	for _, sec := range c.sections {
		if sec == nil {
			if t == BlockTypeAir {
				n += SectionVolume
			}
			continue
		}
		for _, b := range sec.blocks {
			if b == t {
				n++
			}
		}
	}
	return n
}

// Sections reports how many sections hold at least one non-air block
// written to them.
func (c *Column) Sections() int {
	n := 0
	for _, sec := range c.sections {
		if sec != nil {
			n++
		}
	}
	return n
}
