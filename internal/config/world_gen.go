package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"mini-worldgen/internal/climate"
	"mini-worldgen/internal/mathx"
	"mini-worldgen/internal/noise"
	"mini-worldgen/internal/randomstate"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed worldgen.schema.json
var schemaSource string

const schemaURL = "mem://worldgen/worldgen.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// WorldGen is the data a world is generated from
type WorldGen struct {
	Seed               int64                       `yaml:"seed"`
	LegacyRandomSource bool                        `yaml:"legacy_random_source"`
	SeaLevel           int                         `yaml:"sea_level"`
	Noise              NoiseSettings               `yaml:"noise"`
	Blended            noise.BlendedSettings       `yaml:"old_blended_noise"`
	Noises             map[string]noise.Parameters `yaml:"noises"`
	Biomes             []BiomeEntry                `yaml:"biomes"`
}

// NoiseSettings describe the vertical extent and the interpolation cell size.
// Cell sizes are given in quarts.
type NoiseSettings struct {
	MinY           int `yaml:"min_y"`
	Height         int `yaml:"height"`
	SizeHorizontal int `yaml:"size_horizontal"`
	SizeVertical   int `yaml:"size_vertical"`
}

func (n NoiseSettings) CellWidth() int  { return mathx.QuartToBlock(n.SizeHorizontal) }
func (n NoiseSettings) CellHeight() int { return mathx.QuartToBlock(n.SizeVertical) }

// Range is one climate axis of a biome entry. YAML accepts a single number
// or a [min, max] pair.
type Range struct {
	Min, Max float32
}

func (r *Range) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var v float32
		if err := n.Decode(&v); err != nil {
			return err
		}
		*r = Range{Min: v, Max: v}
	case yaml.SequenceNode:
		var v []float32
		if err := n.Decode(&v); err != nil {
			return err
		}
		if len(v) != 2 {
			return fmt.Errorf("line %d: range needs two values, got %d", n.Line, len(v))
		}
		*r = Range{Min: v[0], Max: v[1]}
	default:
		return fmt.Errorf("line %d: range must be a number or a pair", n.Line)
	}
	return nil
}

var fullRange = &Range{Min: -1, Max: 1}

// BiomeEntry claims a climate box for a biome. Missing axes span [-1, 1],
// except depth which defaults to the surface (0).
type BiomeEntry struct {
	Biome           string  `yaml:"biome"`
	Temperature     *Range  `yaml:"temperature"`
	Humidity        *Range  `yaml:"humidity"`
	Continentalness *Range  `yaml:"continentalness"`
	Erosion         *Range  `yaml:"erosion"`
	Depth           *Range  `yaml:"depth"`
	Weirdness       *Range  `yaml:"weirdness"`
	Offset          float32 `yaml:"offset"`
}

func orDefault(r, def *Range) *Range {
	if r == nil {
		return def
	}
	return r
}

// Point converts the entry to its quantized box.
func (e BiomeEntry) Point() (climate.ParameterPoint, error) {
	var p climate.ParameterPoint
	axes := []struct {
		name string
		r    *Range
		dst  *climate.Parameter
	}{
		{"temperature", orDefault(e.Temperature, fullRange), &p.Temperature},
		{"humidity", orDefault(e.Humidity, fullRange), &p.Humidity},
		{"continentalness", orDefault(e.Continentalness, fullRange), &p.Continentalness},
		{"erosion", orDefault(e.Erosion, fullRange), &p.Erosion},
		{"depth", orDefault(e.Depth, &Range{}), &p.Depth},
		{"weirdness", orDefault(e.Weirdness, fullRange), &p.Weirdness},
	}
	for _, a := range axes {
		v, err := climate.Span(a.r.Min, a.r.Max)
		if err != nil {
			return p, fmt.Errorf("biome %s %s: %w", e.Biome, a.name, err)
		}
		*a.dst = v
	}
	p.Offset = climate.Quantize(e.Offset)
	return p, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// validateSchema checks raw YAML against the embedded schema. The document
// goes through JSON first so numbers reach the validator as float64.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return s.Validate(v)
}

func decode(raw []byte, wg *WorldGen) error {
	if err := validateSchema(raw); err != nil {
		return err
	}
	return yaml.Unmarshal(raw, wg)
}

// Default returns the embedded overworld settings.
func Default() WorldGen {
	var wg WorldGen
	if err := decode(defaultYAML, &wg); err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	wg.Normalize()
	return wg
}

// Parse overlays raw on the defaults: scalars and sections present in raw
// replace the default, noise entries are merged by id and a biomes list
// replaces the default list.
func Parse(raw []byte) (WorldGen, error) {
	var wg WorldGen
	if err := decode(defaultYAML, &wg); err != nil {
		return WorldGen{}, fmt.Errorf("defaults: %w", err)
	}
	if err := decode(raw, &wg); err != nil {
		return WorldGen{}, err
	}
	wg.Normalize()
	if err := wg.Validate(); err != nil {
		return WorldGen{}, err
	}
	return wg, nil
}

// Load reads a worldgen file. An empty path yields the defaults.
func Load(path string) (WorldGen, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return WorldGen{}, err
	}
	wg, err := Parse(raw)
	if err != nil {
		return WorldGen{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return wg, nil
}

// Normalize puts every noise id in the default namespace and strips it from
// biome names. An explicitly namespaced noise id wins over its short form.
func (wg *WorldGen) Normalize() {
	keys := make([]string, 0, len(wg.Noises))
	for k := range wg.Noises {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return !strings.Contains(keys[i], ":") && strings.Contains(keys[j], ":")
	})
	noises := make(map[string]noise.Parameters, len(wg.Noises))
	for _, k := range keys {
		noises[randomstate.Namespaced(k)] = wg.Noises[k]
	}
	wg.Noises = noises

	for i := range wg.Biomes {
		wg.Biomes[i].Biome = strings.TrimPrefix(wg.Biomes[i].Biome, randomstate.DefaultNamespace+":")
	}
}

var (
	ErrNoiseSettings = errors.New("invalid noise settings")
	ErrNoBiomes      = errors.New("no biomes")
)

// Validate reports every problem it finds.
func (wg *WorldGen) Validate() error {
	var errs []error
	n := wg.Noise
	if n.SizeHorizontal <= 0 || n.SizeVertical <= 0 {
		errs = append(errs, fmt.Errorf("%w: cell size %dx%d", ErrNoiseSettings, n.SizeHorizontal, n.SizeVertical))
	} else {
		h := n.CellHeight()
		if n.Height <= 0 || n.Height%h != 0 {
			errs = append(errs, fmt.Errorf("%w: height %d is not a positive multiple of %d", ErrNoiseSettings, n.Height, h))
		}
		if mathx.FloorMod(n.MinY, h) != 0 {
			errs = append(errs, fmt.Errorf("%w: min_y %d is not a multiple of %d", ErrNoiseSettings, n.MinY, h))
		}
		if 16%n.CellWidth() != 0 {
			errs = append(errs, fmt.Errorf("%w: cell width %d does not divide a chunk", ErrNoiseSettings, n.CellWidth()))
		}
	}
	// Configured noises are built positionally, which accepts any first
	// octave. Legacy worlds only override climate noises with fixed values.
	for id, p := range wg.Noises {
		if len(p.Amplitudes) == 0 {
			errs = append(errs, fmt.Errorf("noise %s: %w", id, noise.ErrLevelCount))
		}
	}
	if len(wg.Biomes) == 0 {
		errs = append(errs, ErrNoBiomes)
	}
	for _, b := range wg.Biomes {
		if _, err := b.Point(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NoiseParameters implements noise.ParameterSource.
func (wg *WorldGen) NoiseParameters(id string) (noise.Parameters, bool) {
	p, ok := wg.Noises[randomstate.Namespaced(id)]
	return p, ok
}

// BiomePairs returns the biome boxes in file order.
func (wg *WorldGen) BiomePairs() ([]climate.Pair[string], error) {
	pairs := make([]climate.Pair[string], 0, len(wg.Biomes))
	for _, b := range wg.Biomes {
		p, err := b.Point()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, climate.Pair[string]{Point: p, Value: b.Biome})
	}
	return pairs, nil
}
