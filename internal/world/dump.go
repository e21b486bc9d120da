package world

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"mini-worldgen/internal/mathx"
)

// ColumnRecord is one line of a sample dump.
type ColumnRecord struct {
	X int `json:"x"`
	Z int `json:"z"`
	// Heights holds the surface height of every block column, x-major.
	Heights []int `json:"heights"`
	// Biomes holds the surface biome name of every quart column, x-major.
	Biomes []string       `json:"biomes"`
	Blocks map[string]int `json:"blocks"`
}

// Record summarises col.
func Record(col *Column) ColumnRecord {
	rec := ColumnRecord{
		X:       col.Coord.X,
		Z:       col.Coord.Z,
		Heights: make([]int, 0, ChunkSizeX*ChunkSizeZ),
		Biomes:  make([]string, 0, quartsXZ*quartsXZ),
		Blocks:  make(map[string]int, len(blockNames)),
	}
	for x := 0; x < ChunkSizeX; x++ {
		for z := 0; z < ChunkSizeZ; z++ {
			rec.Heights = append(rec.Heights, col.SurfaceHeight(x, z))
		}
	}
	for qx := 0; qx < quartsXZ; qx++ {
		for qz := 0; qz < quartsXZ; qz++ {
			x, z := mathx.QuartToBlock(qx), mathx.QuartToBlock(qz)
			y := max(col.SurfaceHeight(x, z), col.MinY)
			rec.Biomes = append(rec.Biomes, BiomeOf(col.BiomeAt(x, y, z)).Name)
		}
	}
	for t := range blockNames {
		rec.Blocks[BlockType(t).String()] = col.Count(BlockType(t))
	}
	return rec
}

// DumpWriter writes column records as zstd compressed JSON lines. It is safe
// for concurrent use.
type DumpWriter struct {
	mu      sync.Mutex
	enc     *zstd.Encoder
	w       *bufio.Writer
	records int
}

// NewDumpWriter compresses onto w at level, one of the zstd encoder levels
// 1 (fastest) to 4 (best).
func NewDumpWriter(w io.Writer, level int) (*DumpWriter, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevel(level)))
	if err != nil {
		return nil, err
	}
	return &DumpWriter{enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

var ErrDumpClosed = errors.New("dump writer closed")

func (d *DumpWriter) Write(v any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enc == nil {
		return ErrDumpClosed
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := d.w.Write(b); err != nil {
		return err
	}
	if err := d.w.WriteByte('\n'); err != nil {
		return err
	}
	d.records++
	return nil
}

func (d *DumpWriter) WriteColumn(col *Column) error { return d.Write(Record(col)) }

func (d *DumpWriter) Records() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.records
}

// Close flushes the stream. The underlying writer is left open.
func (d *DumpWriter) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.enc == nil {
		return nil
	}
	err := d.w.Flush()
	if cerr := d.enc.Close(); err == nil {
		err = cerr
	}
	d.enc, d.w = nil, nil
	return err
}

// ReadDump decodes every record of a dump.
func ReadDump(r io.Reader) ([]ColumnRecord, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	var out []ColumnRecord
	jd := json.NewDecoder(dec)
	for {
		var rec ColumnRecord
		if err := jd.Decode(&rec); err == io.EOF {
			return out, nil
		} else if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
