package world

import (
	"slices"
	"sync"

	"mini-worldgen/internal/profiling"
)

// ChunkStore holds generated columns. It is safe for concurrent use.
type ChunkStore struct {
	columns  map[ChunkCoord]*Column
	mu       sync.RWMutex
	modCount uint64 // Increases on any column add/remove
}

// NewChunkStore creates an empty store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{columns: make(map[ChunkCoord]*Column)}
}

// GetColumn returns the column at coord or nil.
func (cs *ChunkStore) GetColumn(coord ChunkCoord) *Column {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.columns[coord]
}

// HasColumn checks if a column exists.
func (cs *ChunkStore) HasColumn(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.columns[coord]
	cs.mu.RUnlock()
	return exists
}

// AddColumn installs a generated column. An existing column wins; the
// return value reports whether col was stored.
func (cs *ChunkStore) AddColumn(col *Column) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.columns[col.Coord]; ok {
		return false
	}
	cs.columns[col.Coord] = col
	cs.modCount++
	return true
}

// Get returns the block at world coordinates, air when the column is absent.
func (cs *ChunkStore) Get(x, y, z int) BlockType {
	col := cs.GetColumn(ChunkOf(x, z))
	if col == nil {
		return BlockTypeAir
	}
	return col.GetBlock(x-col.Coord.BlockX(), y, z-col.Coord.BlockZ())
}

// BiomeAt returns the biome at world coordinates, the void when the column
// is absent.
func (cs *ChunkStore) BiomeAt(x, y, z int) BiomeID {
	col := cs.GetColumn(ChunkOf(x, z))
	if col == nil {
		return BiomeVoid
	}
	return col.BiomeAt(x-col.Coord.BlockX(), y, z-col.Coord.BlockZ())
}

// Len returns the number of stored columns.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.columns)
}

// Columns returns every stored column ordered by X, then Z.
func (cs *ChunkStore) Columns() []*Column {
	cs.mu.RLock()
	out := make([]*Column, 0, len(cs.columns))
	for _, col := range cs.columns {
		out = append(out, col)
	}
	cs.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Column) int { return compareCoords(a.Coord, b.Coord) })
	return out
}

func compareCoords(a, b ChunkCoord) int {
	if a.X != b.X {
		return a.X - b.X
	}
	return a.Z - b.Z
}

// AppendColumnsInRadius appends the stored columns within radius (in chunks)
// of (cx, cz) to dst.
func (cs *ChunkStore) AppendColumnsInRadius(cx, cz, radius int, dst []*Column) []*Column {
	defer profiling.Track("world.AppendColumnsInRadius")()
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			if col, ok := cs.columns[ChunkCoord{X: cx + dx, Z: cz + dz}]; ok {
				dst = append(dst, col)
			}
		}
	}
	return dst
}

// GetModCount returns the current modification count of the store.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarColumns removes columns outside radius of (cx, cz) and returns
// how many were removed.
func (cs *ChunkStore) EvictFarColumns(cx, cz, radius int) int {
	defer profiling.Track("world.EvictFarColumns")()
	removed := 0
	cs.mu.Lock()
	for coord := range cs.columns {
		dx := coord.X - cx
		dz := coord.Z - cz
		if dx*dx+dz*dz > radius*radius {
			delete(cs.columns, coord)
			cs.modCount++
			removed++
		}
	}
	cs.mu.Unlock()
	return removed
}
