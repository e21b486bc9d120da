package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-worldgen/internal/config"
	"mini-worldgen/internal/profiling"
	"mini-worldgen/internal/world"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "worldgen YAML file (defaults when empty)")
		seed    = flag.Int64("seed", 0, "override the configured seed when non-zero")
		centerX = flag.Int("x", 0, "centre block X")
		centerZ = flag.Int("z", 0, "centre block Z")
		radius  = flag.Int("radius", config.GetRadius(), "radius in chunks")
		workers = flag.Int("workers", config.GetWorkers(), "generation workers")
		level   = flag.Int("level", config.GetDumpLevel(), "zstd level, 1 (fastest) to 4 (best)")
		out     = flag.String("out", "samples.jsonl.zst", "output file")
	)
	flag.Parse()

	config.SetRadius(*radius)
	config.SetWorkers(*workers)
	config.SetDumpLevel(*level)

	wg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *seed != 0 {
		wg.Seed = *seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, wg, *centerX, *centerZ, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, wg config.WorldGen, x, z int, out string) error {
	w, err := world.New(wg)
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}

	start := time.Now()
	n, err := w.StreamAround(ctx, x, z, config.GetRadius())
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	log.Printf("generated %d columns with %d workers in %v (seed %d)", n, w.Streamer().Workers(), time.Since(start), wg.Seed)

	records, err := writeDump(out, w.Store().Columns())
	if err != nil {
		return err
	}
	log.Printf("wrote %d records to %s", records, out)
	log.Printf("top tasks: %s", profiling.TopN(5))
	return nil
}

// writeDump compresses cols into path. The file is closed on every path and
// a failed close is reported, since it can lose buffered data.
func writeDump(path string, cols []*world.Column) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	d, err := world.NewDumpWriter(f, config.GetDumpLevel())
	if err != nil {
		f.Close()
		return 0, err
	}
	for _, col := range cols {
		if err := d.WriteColumn(col); err != nil {
			d.Close()
			f.Close()
			return 0, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := d.Close(); err != nil {
		f.Close()
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return d.Records(), nil
}
