package world

import (
	"context"
	"errors"
	"testing"
)

func TestRingOrder(t *testing.T) {
	if got := RingOrder(4, -4, 0); len(got) != 1 || got[0] != (ChunkCoord{X: 4, Z: -4}) {
		t.Fatalf("radius 0 = %v", got)
	}
	order := RingOrder(1, 2, 2)
	if len(order) != 25 {
		t.Fatalf("radius 2 has %d coords, want 25", len(order))
	}
	seen := make(map[ChunkCoord]bool)
	for i, c := range order {
		if seen[c] {
			t.Fatalf("duplicate %v", c)
		}
		seen[c] = true
		ring := max(abs(c.X-1), abs(c.Z-2))
		wantRing := 0
		switch {
		case i >= 9:
			wantRing = 2
		case i >= 1:
			wantRing = 1
		}
		if ring != wantRing {
			t.Errorf("coord %d %v is on ring %d, want %d", i, c, ring, wantRing)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func streamHashes(t *testing.T, workers int) map[ChunkCoord][32]byte {
	t.Helper()
	store := NewChunkStore()
	cs := NewChunkStreamer(store, newTestGenerator(t, 31337))
	cs.SetWorkers(workers)
	n, err := cs.StreamAround(context.Background(), 0, 0, 1)
	if err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if n != 9 || store.Len() != 9 {
		t.Fatalf("generated %d, stored %d, want 9", n, store.Len())
	}
	out := make(map[ChunkCoord][32]byte)
	for _, col := range store.Columns() {
		out[col.Coord] = hashColumn(col)
	}
	return out
}

func TestChunkStreamer_IndependentOfWorkerCount(t *testing.T) {
	serial := streamHashes(t, 1)
	parallel := streamHashes(t, 4)
	for coord, h := range serial {
		if parallel[coord] != h {
			t.Errorf("column %v differs between 1 and 4 workers", coord)
		}
	}
}

func TestChunkStreamer_SkipsStoredColumns(t *testing.T) {
	store := NewChunkStore()
	cs := NewChunkStreamer(store, newTestGenerator(t, 1))
	cs.SetWorkers(2)
	if _, err := cs.StreamAround(context.Background(), 0, 0, 0); err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	before := store.GetModCount()
	n, err := cs.StreamAround(context.Background(), 0, 0, 0)
	if err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if n != 0 || store.GetModCount() != before {
		t.Errorf("second pass generated %d columns", n)
	}
}

func TestChunkStreamer_Cancelled(t *testing.T) {
	store := NewChunkStore()
	cs := NewChunkStreamer(store, newTestGenerator(t, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := cs.StreamAround(ctx, 0, 0, 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if n != 0 || store.Len() != 0 {
		t.Errorf("cancelled stream generated %d columns", n)
	}
	if len(cs.pending) != 0 {
		t.Errorf("%d coords left pending", len(cs.pending))
	}
}

type failingGenerator struct{ err error }

func (f failingGenerator) HeightAt(int, int) int { return 0 }

func (f failingGenerator) Generate(ChunkCoord) (*Column, error) { return nil, f.err }

func TestChunkStreamer_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	cs := NewChunkStreamer(NewChunkStore(), failingGenerator{boom})
	cs.SetWorkers(3)
	if _, err := cs.StreamAround(context.Background(), 0, 0, 2); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
