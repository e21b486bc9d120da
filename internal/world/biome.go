package world

import (
	"errors"
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"
)

var ErrUnknownBiome = errors.New("unknown biome")

// BiomeID indexes Biomes.
type BiomeID uint8

// Biome is a named climate classification with a preview colour.
type Biome struct {
	ID   BiomeID
	Name string
	// ColorName is an SVG colour keyword.
	ColorName string
}

// Color returns the preview colour of the biome.
func (b *Biome) Color() color.RGBA {
	if c, ok := colornames.Map[b.ColorName]; ok {
		return c
	}
	return colornames.Black
}

const BiomeVoid BiomeID = 0

var Biomes = []*Biome{
	{ID: 0, Name: "the_void", ColorName: "black"},
	{ID: 1, Name: "mushroom_fields", ColorName: "magenta"},
	{ID: 2, Name: "deep_ocean", ColorName: "navy"},
	{ID: 3, Name: "frozen_ocean", ColorName: "lightsteelblue"},
	{ID: 4, Name: "warm_ocean", ColorName: "deepskyblue"},
	{ID: 5, Name: "ocean", ColorName: "mediumblue"},
	{ID: 6, Name: "beach", ColorName: "khaki"},
	{ID: 7, Name: "river", ColorName: "dodgerblue"},
	{ID: 8, Name: "snowy_plains", ColorName: "snow"},
	{ID: 9, Name: "taiga", ColorName: "darkolivegreen"},
	{ID: 10, Name: "plains", ColorName: "yellowgreen"},
	{ID: 11, Name: "forest", ColorName: "forestgreen"},
	{ID: 12, Name: "savanna", ColorName: "olive"},
	{ID: 13, Name: "jungle", ColorName: "green"},
	{ID: 14, Name: "desert", ColorName: "sandybrown"},
	{ID: 15, Name: "badlands", ColorName: "chocolate"},
	{ID: 16, Name: "stony_peaks", ColorName: "gray"},
	{ID: 17, Name: "lush_caves", ColorName: "limegreen"},
	{ID: 18, Name: "dripstone_caves", ColorName: "sienna"},
	{ID: 19, Name: "swamp", ColorName: "darkseagreen"},
	{ID: 20, Name: "meadow", ColorName: "lawngreen"},
	{ID: 21, Name: "jagged_peaks", ColorName: "lightgray"},
	{ID: 22, Name: "deep_dark", ColorName: "darkslategray"},
}

var biomesByName = func() map[string]*Biome {
	m := make(map[string]*Biome, len(Biomes))
	for _, b := range Biomes {
		m[b.Name] = b
	}
	return m
}()

// BiomeByName finds a registered biome.
func BiomeByName(name string) (*Biome, error) {
	if b, ok := biomesByName[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBiome, name)
}

// BiomeOf returns the biome with id, or the void biome for ids outside the
// registry.
func BiomeOf(id BiomeID) *Biome {
	if int(id) < len(Biomes) {
		return Biomes[id]
	}
	return Biomes[BiomeVoid]
}
