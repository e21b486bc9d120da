package world

import (
	"context"
	"testing"
)

func TestWorld_StreamAroundAnswersFromStore(t *testing.T) {
	w, err := NewDefault(8)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	n, err := w.StreamAround(context.Background(), 40, -8, 0)
	if err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if n != 1 || !w.Store().HasColumn(ChunkCoord{X: 2, Z: -1}) {
		t.Fatalf("generated %d columns, want the one holding 40,-8", n)
	}
	col := w.Store().GetColumn(ChunkCoord{X: 2, Z: -1})
	h := w.SurfaceHeightAt(40, -8)
	if h != col.SurfaceHeight(8, 8) {
		t.Errorf("SurfaceHeightAt = %d, column says %d", h, col.SurfaceHeight(8, 8))
	}
	if b := w.Get(40, h, -8); b == BlockTypeAir {
		t.Errorf("surface block is air")
	}
	if b := w.Get(40, h+1, -8); b != BlockTypeAir {
		t.Errorf("block above the surface is %v", b)
	}
	if got, want := w.BiomeAt(40, h, -8), BiomeOf(col.BiomeAt(8, h, 8)); got != want {
		t.Errorf("BiomeAt = %s, column says %s", got.Name, want.Name)
	}
	// Outside the streamed square the generator answers directly.
	if b := w.BiomeAt(4000, 64, 4000); b == nil {
		t.Error("BiomeAt outside the store returned nil")
	}
	if w.Get(4000, 0, 4000) != BlockTypeAir {
		t.Error("ungenerated block is not air")
	}
}

func TestWorld_StreamAroundEvicts(t *testing.T) {
	w, err := NewDefault(8)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	w.Streamer().SetWorkers(2)
	if _, err := w.StreamAround(context.Background(), 0, 0, 0); err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if _, err := w.StreamAround(context.Background(), 16*10, 0, 0); err != nil {
		t.Fatalf("StreamAround: %v", err)
	}
	if w.Store().HasColumn(ChunkCoord{}) {
		t.Error("column 0,0 kept after moving ten chunks away")
	}
	if w.Store().Len() != 1 {
		t.Errorf("store holds %d columns, want 1", w.Store().Len())
	}
}
