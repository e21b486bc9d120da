package main

import (
	"os"
	"path/filepath"
	"testing"

	"mini-worldgen/internal/world"
)

func TestWriteDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.jsonl.zst")
	cols := []*world.Column{
		world.NewColumn(world.ChunkCoord{X: 0, Z: 0}, 0, 16),
		world.NewColumn(world.ChunkCoord{X: 1, Z: -1}, 0, 16),
	}
	n, err := writeDump(path, cols)
	if err != nil {
		t.Fatalf("writeDump: %v", err)
	}
	if n != 2 {
		t.Errorf("records = %d, want 2", n)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	recs, err := world.ReadDump(f)
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if len(recs) != 2 || recs[1].X != 1 || recs[1].Z != -1 {
		t.Errorf("records = %+v", recs)
	}
}

func TestWriteDump_CreateFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "samples.jsonl.zst")
	if _, err := writeDump(path, nil); err == nil {
		t.Error("writeDump into a missing directory succeeded")
	}
}
