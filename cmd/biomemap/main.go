package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"mini-worldgen/internal/config"
	"mini-worldgen/internal/world"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "worldgen YAML file (defaults when empty)")
		seed    = flag.Int64("seed", 0, "override the configured seed when non-zero")
		centerX = flag.Int("x", 0, "centre block X")
		centerZ = flag.Int("z", 0, "centre block Z")
		y       = flag.Int("y", 64, "sample height; -surface overrides it")
		surface = flag.Bool("surface", false, "sample at the estimated surface of every pixel")
		size    = flag.Int("size", 256, "map width and height in samples")
		step    = flag.Int("step", 4, "blocks between samples")
		scale   = flag.Int("scale", 2, "output pixels per sample")
		workers = flag.Int("workers", config.GetWorkers(), "sampling workers")
		out     = flag.String("out", "biomes.png", "output PNG")
	)
	flag.Parse()
	config.SetWorkers(*workers)

	wg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *seed != 0 {
		wg.Seed = *seed
	}
	gen, err := world.NewGenerator(wg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generator:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	m, err := render(ctx, gen, *centerX, *centerZ, *y, *surface, max(*size, 1), max(*step, 1))
	if err != nil {
		fmt.Fprintln(os.Stderr, "render:", err)
		os.Exit(1)
	}
	log.Printf("sampled %dx%d biomes in %v", *size, *size, time.Since(start))

	dst := image.NewRGBA(image.Rect(0, 0, m.Bounds().Dx()*max(*scale, 1), m.Bounds().Dy()*max(*scale, 1)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)

	if err := writePNG(*out, dst); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Printf("wrote %s", *out)
}

// render samples one biome per pixel, one row per job. Rows not yet started
// when ctx is cancelled are skipped and the cancellation is returned.
func render(ctx context.Context, gen *world.Generator, cx, cz, y int, surface bool, size, step int) (*image.RGBA, error) {
	m := image.NewRGBA(image.Rect(0, 0, size, size))
	x0 := cx - size/2*step
	z0 := cz - size/2*step

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.GetWorkers())
	for row := 0; row < size; row++ {
		row := row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			z := z0 + row*step
			for col := 0; col < size; col++ {
				x := x0 + col*step
				sy := y
				if surface {
					sy = gen.HeightAt(x, z)
				}
				m.SetRGBA(col, row, world.BiomeOf(gen.BiomeAt(x, sy, z)).Color())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

func writePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
