package world

import (
	"context"

	"mini-worldgen/internal/config"
)

// World ties a generator to a column store and the streamer that fills it.
type World struct {
	gen      *Generator
	store    *ChunkStore
	streamer *ChunkStreamer
}

// New builds a world for wg. Configuration problems surface here.
func New(wg config.WorldGen) (*World, error) {
	gen, err := NewGenerator(wg)
	if err != nil {
		return nil, err
	}
	store := NewChunkStore()
	return &World{gen: gen, store: store, streamer: NewChunkStreamer(store, gen)}, nil
}

// NewDefault builds the world of the embedded settings with a custom seed.
func NewDefault(seed int64) (*World, error) {
	wg := config.Default()
	wg.Seed = seed
	return New(wg)
}

func (w *World) Generator() *Generator { return w.gen }

func (w *World) Store() *ChunkStore { return w.store }

func (w *World) Streamer() *ChunkStreamer { return w.streamer }

// StreamAround generates the columns within radius chunks of the chunk
// holding block (x, z) and drops stored columns beyond it.
func (w *World) StreamAround(ctx context.Context, x, z, radius int) (int, error) {
	c := ChunkOf(x, z)
	n, err := w.streamer.StreamAround(ctx, c.X, c.Z, radius)
	if err != nil {
		return n, err
	}
	// The square's corners lie sqrt(2) radii out.
	w.streamer.EvictFarColumns(c.X, c.Z, 2*radius)
	return n, nil
}

// Get returns a generated block, air outside the streamed area.
func (w *World) Get(x, y, z int) BlockType { return w.store.Get(x, y, z) }

// BiomeAt returns the biome at a block. Streamed columns answer from their
// stored biomes; elsewhere the climate is sampled directly.
func (w *World) BiomeAt(x, y, z int) *Biome {
	if col := w.store.GetColumn(ChunkOf(x, z)); col != nil {
		return BiomeOf(col.BiomeAt(x-col.Coord.BlockX(), y, z-col.Coord.BlockZ()))
	}
	return BiomeOf(w.gen.BiomeAt(x, y, z))
}

// SurfaceHeightAt returns the generated surface height when the column is
// stored and the estimate from the initial density otherwise.
func (w *World) SurfaceHeightAt(x, z int) int {
	if col := w.store.GetColumn(ChunkOf(x, z)); col != nil {
		return col.SurfaceHeight(x-col.Coord.BlockX(), z-col.Coord.BlockZ())
	}
	return w.gen.HeightAt(x, z)
}
