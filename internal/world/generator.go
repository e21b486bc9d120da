package world

import (
	"fmt"

	"mini-worldgen/internal/climate"
	"mini-worldgen/internal/config"
	"mini-worldgen/internal/density"
	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/profiling"
	"mini-worldgen/internal/randomstate"
	"mini-worldgen/internal/region"
)

// TerrainGenerator produces columns for the streamer.
type TerrainGenerator interface {
	// HeightAt estimates the surface height at world X,Z.
	HeightAt(worldX, worldZ int) int
	Generate(coord ChunkCoord) (*Column, error)
}

// Generator turns the router into columns for one seed. It is safe for
// concurrent use; every Generate call owns its region cache and cursor.
type Generator struct {
	wg      config.WorldGen
	state   *randomstate.State
	router  *Router
	graph   *density.Graph
	climate climate.Sampler
	biomes  *climate.Index[BiomeID]
	roots   []density.Ref
}

// NewGenerator validates wg, builds the router, binds it to the seed and
// indexes the biome table.
func NewGenerator(wg config.WorldGen) (*Generator, error) {
	if err := wg.Validate(); err != nil {
		return nil, err
	}
	router, err := NewRouter(wg)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	g := &Generator{wg: wg, router: router}
	g.state = randomstate.New(wg.Seed, wg.LegacyRandomSource, &g.wg)
	if g.graph, err = g.state.Wire(router.Graph); err != nil {
		return nil, err
	}
	g.climate = climate.Sampler{
		Temperature:     router.Temperature,
		Humidity:        router.Vegetation,
		Continentalness: router.Continents,
		Erosion:         router.Erosion,
		Depth:           router.Depth,
		Weirdness:       router.Ridges,
	}
	g.roots = []density.Ref{
		router.FinalDensity, router.Temperature, router.Vegetation,
		router.Continents, router.Erosion, router.Depth, router.Ridges,
	}

	pairs, err := wg.BiomePairs()
	if err != nil {
		return nil, err
	}
	byID := make([]climate.Pair[BiomeID], len(pairs))
	for i, p := range pairs {
		b, err := BiomeByName(p.Value)
		if err != nil {
			return nil, fmt.Errorf("biome table: %w", err)
		}
		byID[i] = climate.Pair[BiomeID]{Point: p.Point, Value: b.ID}
	}
	if g.biomes, err = climate.NewIndex(byID); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) Settings() config.WorldGen { return g.wg }

func (g *Generator) Router() *Router { return g.router }

// Graph is the router bound to the seed.
func (g *Generator) Graph() *density.Graph { return g.graph }

func (g *Generator) BiomeIndex() *climate.Index[BiomeID] { return g.biomes }

// HeightAt walks down cell by cell until the initial density says ground.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	n := g.wg.Noise
	step := n.CellHeight()
	ev := density.PureEvaluator(g.graph)
	for y := n.MinY + n.Height - step; y >= n.MinY; y -= step {
		if ev.Eval(g.router.InitialDensity, density.Point{X: worldX, Y: y, Z: worldZ}) > surfaceThreshold {
			return y
		}
	}
	return n.MinY
}

// ClimateAt samples the climate at the quart holding block (x, y, z)
// without any region caching.
func (g *Generator) ClimateAt(x, y, z int) climate.TargetPoint {
	return g.climate.Sample(density.PureEvaluator(g.graph), mathx.QuartFromBlock(x), mathx.QuartFromBlock(y), mathx.QuartFromBlock(z))
}

// BiomeAt classifies the quart holding block (x, y, z).
func (g *Generator) BiomeAt(x, y, z int) BiomeID {
	return g.biomes.Find(g.ClimateAt(x, y, z))
}

func (g *Generator) regionConfig(coord ChunkCoord) region.Config {
	n := g.wg.Noise
	return region.ChunkConfig(n.CellWidth(), n.CellHeight(), n.MinY, n.Height, coord.BlockX(), coord.BlockZ())
}

// Generate fills a column: every block from the interpolated final density,
// then one biome per quart.
func (g *Generator) Generate(coord ChunkCoord) (*Column, error) {
	defer profiling.Track("world.Generate")()
	cache, err := region.New(g.graph, g.regionConfig(coord), g.roots...)
	if err != nil {
		return nil, fmt.Errorf("chunk %d,%d: %w", coord.X, coord.Z, err)
	}
	col := NewColumn(coord, g.wg.Noise.MinY, g.wg.Noise.Height)
	x0, z0 := coord.BlockX(), coord.BlockZ()
	final, sea := g.router.FinalDensity, g.wg.SeaLevel
	cache.Scan(func(x, y, z int) {
		col.SetBlock(x-x0, y, z-z0, blockFor(cache.Sample(final), y, sea))
	})
	g.fillBiomes(cache, col)
	return col, nil
}

func (g *Generator) fillBiomes(cache *region.Cache, col *Column) {
	defer profiling.Track("world.fillBiomes")()
	ev := cache.Evaluator(region.Query)
	cur := g.biomes.NewCursor()
	qx0 := mathx.QuartFromBlock(col.Coord.BlockX())
	qz0 := mathx.QuartFromBlock(col.Coord.BlockZ())
	qy0 := mathx.QuartFromBlock(col.MinY)
	for qy := 0; qy < mathx.QuartFromBlock(col.Height); qy++ {
		for qz := 0; qz < quartsXZ; qz++ {
			for qx := 0; qx < quartsXZ; qx++ {
				t := g.climate.Sample(ev, qx0+qx, qy0+qy, qz0+qz)
				col.setBiome(qx, qy, qz, cur.Find(t))
			}
		}
	}
}
