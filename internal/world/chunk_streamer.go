package world

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"mini-worldgen/internal/config"
	"mini-worldgen/internal/profiling"
)

// ChunkStreamer generates missing columns around a centre on a pool of
// workers and installs them in the store.
type ChunkStreamer struct {
	pending   map[ChunkCoord]struct{}
	pendingMu sync.Mutex

	workers int

	// Dependencies
	store *ChunkStore
	gen   TerrainGenerator
}

// NewChunkStreamer creates a streamer sized from the runtime settings.
func NewChunkStreamer(store *ChunkStore, gen TerrainGenerator) *ChunkStreamer {
	return &ChunkStreamer{
		pending: make(map[ChunkCoord]struct{}),
		workers: config.GetWorkers(),
		store:   store,
		gen:     gen,
	}
}

// SetWorkers overrides the worker count for later calls.
func (cs *ChunkStreamer) SetWorkers(n int) {
	cs.workers = max(n, 1)
}

func (cs *ChunkStreamer) Workers() int { return cs.workers }

// claim marks coord as in flight. It fails when the column is stored or
// another call is already generating it.
func (cs *ChunkStreamer) claim(coord ChunkCoord) bool {
	if cs.store.HasColumn(coord) {
		return false
	}
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	if _, ok := cs.pending[coord]; ok {
		return false
	}
	cs.pending[coord] = struct{}{}
	return true
}

func (cs *ChunkStreamer) release(coord ChunkCoord) {
	cs.pendingMu.Lock()
	delete(cs.pending, coord)
	cs.pendingMu.Unlock()
}

// StreamAround generates every missing column in the square of radius
// chunks around (cx, cz), nearest rings first. It blocks until the square
// is done, a column fails or ctx is cancelled, and returns how many columns
// it installed.
func (cs *ChunkStreamer) StreamAround(ctx context.Context, cx, cz, radius int) (int, error) {
	defer profiling.Track("world.StreamAround")()
	jobs := make(chan ChunkCoord)
	var generated atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cs.workers; i++ {
		g.Go(func() error {
			for coord := range jobs {
				if err := gctx.Err(); err != nil {
					cs.release(coord)
					return err
				}
				col, err := cs.gen.Generate(coord)
				if err != nil {
					cs.release(coord)
					return err
				}
				if cs.store.AddColumn(col) {
					generated.Add(1)
				}
				cs.release(coord)
			}
			return nil
		})
	}

	interrupted := false
produce:
	for _, coord := range RingOrder(cx, cz, radius) {
		if !cs.claim(coord) {
			continue
		}
		select {
		case jobs <- coord:
		case <-gctx.Done():
			cs.release(coord)
			interrupted = true
			break produce
		}
	}
	close(jobs)
	err := g.Wait()
	if err == nil && interrupted {
		err = ctx.Err()
	}
	return int(generated.Load()), err
}

// EvictFarColumns removes columns outside radius of (cx, cz).
func (cs *ChunkStreamer) EvictFarColumns(cx, cz, radius int) int {
	return cs.store.EvictFarColumns(cx, cz, radius)
}

// RingOrder lists the square of radius chunks around (cx, cz) ring by ring,
// each ring walked clockwise from its north-west corner.
func RingOrder(cx, cz, radius int) []ChunkCoord {
	side := 2*max(radius, 0) + 1
	out := make([]ChunkCoord, 0, side*side)
	out = append(out, ChunkCoord{X: cx, Z: cz})
	for r := 1; r <= radius; r++ {
		x0, x1 := cx-r, cx+r
		z0, z1 := cz-r, cz+r
		for xk := x0; xk <= x1; xk++ {
			out = append(out, ChunkCoord{X: xk, Z: z0})
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			out = append(out, ChunkCoord{X: x1, Z: zk})
		}
		for xk := x1; xk >= x0; xk-- {
			out = append(out, ChunkCoord{X: xk, Z: z1})
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			out = append(out, ChunkCoord{X: x0, Z: zk})
		}
	}
	return out
}
