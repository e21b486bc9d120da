package world

import (
	"mini-worldgen/internal/config"
	"mini-worldgen/internal/density"
)

// Keys under which the router defines its outputs.
const (
	KeyTemperature    = "temperature"
	KeyVegetation     = "vegetation"
	KeyContinents     = "continents"
	KeyErosion        = "erosion"
	KeyDepth          = "depth"
	KeyRidges         = "ridges"
	KeyInitialDensity = "initial_density"
	KeyFinalDensity   = "final_density"
	KeyOffset         = "offset"
	KeyFactor         = "factor"
	KeyJaggedness     = "jaggedness"
	KeySlopedCheese   = "sloped_cheese"
	KeyCaves          = "caves"
	KeyEndIslands     = "end_islands"
)

// surfaceThreshold is the initial density above which a block counts as
// ground when estimating the surface height.
const surfaceThreshold = 0.390625

// Router is the unbound overworld graph with the refs the generator samples.
type Router struct {
	Graph *density.Graph

	Temperature    density.Ref
	Vegetation     density.Ref
	Continents     density.Ref
	Erosion        density.Ref
	Depth          density.Ref
	Ridges         density.Ref
	InitialDensity density.Ref
	FinalDensity   density.Ref
}

// peaksAndValleys folds the ridge noise so ridges and valleys both map to 1
// and their flanks to -1.
func peaksAndValleys(b *density.Builder, ridges density.Ref) density.Ref {
	folded := b.Add(b.Abs(b.Add(b.Abs(ridges), b.Constant(-2.0/3.0))), b.Constant(-1.0/3.0))
	return b.Mul(b.Constant(-3), folded)
}

func offsetSpline(continents, erosion, pv density.Ref) *density.Spline {
	ridge := density.NewSplineBuilder(pv).
		AddConst(-1, -0.05, 0).
		AddConst(0, 0.05, 0.1).
		AddConst(1, 0.3, 0).
		Build()
	inland := density.NewSplineBuilder(erosion).
		AddConst(-0.85, 0.2, 0).
		AddConst(-0.7, 0.05, 0).
		AddConst(-0.4, 0, 0).
		Add(0, ridge, 0).
		AddConst(0.45, 0, 0).
		AddConst(0.7, -0.05, 0).
		AddConst(1, -0.1, 0).
		Build()
	return density.NewSplineBuilder(continents).
		AddConst(-1.1, 0.044, 0).
		AddConst(-1.02, -0.2222, 0).
		AddConst(-0.51, -0.2222, 0).
		AddConst(-0.44, -0.12, 0).
		AddConst(-0.18, -0.12, 0).
		Add(-0.16, inland, 0).
		Add(1, inland, 0).
		Build()
}

func factorSpline(continents, erosion density.Ref) *density.Spline {
	byErosion := density.NewSplineBuilder(erosion).
		AddConst(-1, 7, 0).
		AddConst(-0.2, 5.5, 0).
		AddConst(0.4, 4, 0).
		AddConst(1, 3, 0).
		Build()
	return density.NewSplineBuilder(continents).
		AddConst(-0.19, 3.95, 0).
		Add(-0.15, byErosion, 0).
		Add(1, byErosion, 0).
		Build()
}

func jaggednessSpline(continents, pv density.Ref) *density.Spline {
	peaks := density.NewSplineBuilder(pv).
		AddConst(-1, 0, 0).
		AddConst(0.5, 0, 0).
		AddConst(1, 0.63, 0).
		Build()
	return density.NewSplineBuilder(continents).
		AddConst(-0.11, 0, 0).
		Add(0.03, peaks, 0).
		Add(1, peaks, 0).
		Build()
}

// NewRouter builds the overworld density graph for wg's vertical extent and
// blended noise settings. The graph samples the noises named in wg by their
// short ids; it is not bound to a seed.
func NewRouter(wg config.WorldGen) (*Router, error) {
	b := density.NewBuilder()
	minY, maxY := wg.Noise.MinY, wg.Noise.MinY+wg.Noise.Height

	shiftX := b.FlatCache(b.Cache2D(b.ShiftA("offset")))
	shiftZ := b.FlatCache(b.Cache2D(b.ShiftB("offset")))
	zero := b.Constant(0)
	climate := func(id string) density.Ref {
		return b.ShiftedNoise(shiftX, zero, shiftZ, 0.25, 0, id)
	}

	b.Define(KeyTemperature, climate("temperature"))
	b.Define(KeyVegetation, climate("vegetation"))
	continents := b.Define(KeyContinents, b.FlatCache(climate("continentalness")))
	erosion := b.Define(KeyErosion, b.FlatCache(climate("erosion")))
	ridges := b.Define(KeyRidges, b.FlatCache(climate("ridge")))
	pv := peaksAndValleys(b, ridges)

	offset := b.Define(KeyOffset, b.Cache2D(b.Add(b.Spline(offsetSpline(continents, erosion, pv)), b.Constant(-0.50375))))
	factor := b.Define(KeyFactor, b.Cache2D(b.Spline(factorSpline(continents, erosion))))
	jaggedness := b.Define(KeyJaggedness, b.Cache2D(b.Spline(jaggednessSpline(continents, pv))))

	depth := b.Define(KeyDepth, b.Add(b.YClampedGradient(minY, maxY, 1.5, -1.5), offset))
	jagged := b.Mul(jaggedness, b.HalfNegative(b.Noise("jagged", 1500, 0)))
	sloped := b.Mul(b.Constant(4), b.QuarterNegative(b.Mul(b.Add(b.Reference(KeyDepth), jagged), factor)))
	b.Define(KeyInitialDensity, b.Clamp(b.Mul(b.Constant(4), b.QuarterNegative(b.Mul(depth, factor))), -64, 64))
	slopedCheese := b.Define(KeySlopedCheese, b.CacheOnce(b.Add(sloped, b.OldBlendedNoise(wg.Blended))))

	cheese := b.Clamp(b.Add(b.Constant(0.27), b.Noise("cave_cheese", 1, 0.6666666666666666)), -1, 1)
	rarity := b.CacheOnce(b.Noise("spaghetti_3d_rarity", 2, 1))
	spaghetti := b.Clamp(b.Add(b.WeirdScaledSampler(rarity, "spaghetti_3d_1", "type_1"), b.Constant(-0.083)), -1, 1)
	caves := b.Define(KeyCaves, b.Min(cheese, spaghetti))

	underground := b.Min(b.Reference(KeySlopedCheese), b.Mul(b.Constant(4), caves))
	terrain := b.RangeChoice(slopedCheese, -1000000, 1.5625, slopedCheese, underground)
	topSlide := b.YClampedGradient(maxY-80, maxY-8, 1, -1)
	bottomSlide := b.YClampedGradient(minY, minY+24, 1, -1)
	slid := b.Max(bottomSlide, b.Min(terrain, b.Add(topSlide, b.Constant(0.5))))
	b.Define(KeyFinalDensity, b.Squeeze(b.Mul(b.Constant(0.64), b.Interpolated(slid))))

	b.Define(KeyEndIslands, b.Cache2D(b.EndIslands()))

	g, err := b.Build()
	if err != nil {
		return nil, err
	}
	r := &Router{Graph: g}
	for _, f := range []struct {
		key string
		dst *density.Ref
	}{
		{KeyTemperature, &r.Temperature},
		{KeyVegetation, &r.Vegetation},
		{KeyContinents, &r.Continents},
		{KeyErosion, &r.Erosion},
		{KeyDepth, &r.Depth},
		{KeyRidges, &r.Ridges},
		{KeyInitialDensity, &r.InitialDensity},
		{KeyFinalDensity, &r.FinalDensity},
	} {
		ref, ok := g.Lookup(f.key)
		if !ok {
			return nil, &density.ConfigError{Key: f.key, Err: density.ErrUndefined}
		}
		*f.dst = ref
	}
	return r, nil
}
