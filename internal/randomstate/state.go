// Package randomstate is the seed authority of a world: it derives, caches
// and hands out noise instances and positional random factories from one
// world seed, and wires density graphs to them.
package randomstate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"mini-worldgen/internal/density"
	"mini-worldgen/internal/noise"
	"mini-worldgen/internal/rng"
)

// DefaultNamespace is prepended to identifiers that have none.
const DefaultNamespace = "minecraft"

// Identifiers with fixed meaning.
const (
	Temperature = "minecraft:temperature"
	Vegetation  = "minecraft:vegetation"
	Shift       = "minecraft:offset"
	Terrain     = "minecraft:terrain"
	Ore         = "minecraft:ore"
	Aquifer     = "minecraft:aquifer"
)

var ErrUnknownNoise = errors.New("unknown noise")

// legacyClimate are the parameters of the legacy temperature and vegetation
// noises.
var legacyClimate = noise.NewParameters(-7, 1, 1)

// Namespaced returns id with the default namespace when it has none.
func Namespaced(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return DefaultNamespace + ":" + id
}

// State is safe for concurrent use. Every cache tolerates concurrent first
// access and builds each entry once.
type State struct {
	seed      int64
	legacy    bool
	algorithm rng.Algorithm
	params    noise.ParameterSource

	random  rng.Positional
	ore     rng.Positional
	aquifer rng.Positional

	noises  sync.Map // id -> *noise.Normal
	wired   sync.Map // id -> *noise.Normal
	randoms sync.Map // id -> rng.Positional
	group   singleflight.Group
}

// New derives the root positional factory from seed. legacy selects the
// 48-bit LCG family and enables the legacy noise overrides.
func New(seed int64, legacy bool, params noise.ParameterSource) *State {
	alg := rng.AlgorithmXoroshiro
	if legacy {
		alg = rng.AlgorithmLegacy
	}
	s := &State{
		seed:      seed,
		legacy:    legacy,
		algorithm: alg,
		params:    params,
		random:    alg.New(seed).ForkPositional(),
	}
	s.ore = s.random.FromHashOf(Ore).ForkPositional()
	s.aquifer = s.random.FromHashOf(Aquifer).ForkPositional()
	return s
}

func (s *State) Seed() int64 { return s.seed }

func (s *State) Legacy() bool { return s.legacy }

func (s *State) Algorithm() rng.Algorithm { return s.algorithm }

// Random is the root positional factory.
func (s *State) Random() rng.Positional { return s.random }

func (s *State) Ore() rng.Positional { return s.ore }

func (s *State) Aquifer() rng.Positional { return s.aquifer }

// once returns the cached value for key, building it at most once even when
// called concurrently.
func (s *State) once(cache *sync.Map, key string, build func() (any, error)) (any, error) {
	if v, ok := cache.Load(key); ok {
		return v, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		if v, ok := cache.Load(key); ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return nil, err
		}
		cache.Store(key, v)
		return v, nil
	})
	return v, err
}

// Noise returns the positional normal noise for id, built from the hash of
// id and the parameters the source supplies for it.
func (s *State) Noise(id string) (*noise.Normal, error) {
	id = Namespaced(id)
	v, err := s.once(&s.noises, "noise/"+id, func() (any, error) {
		p, ok := s.params.NoiseParameters(id)
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, ErrUnknownNoise)
		}
		return noise.NewNormal(s.random.FromHashOf(id), p), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*noise.Normal), nil
}

// WiredNoise is the noise a density graph samples for id. Legacy worlds
// replace temperature, vegetation and the shift noise with fixed instances.
func (s *State) WiredNoise(id string) (*noise.Normal, error) {
	id = Namespaced(id)
	if !s.legacy {
		return s.Noise(id)
	}
	switch id {
	case Temperature, Vegetation, Shift:
	default:
		return s.Noise(id)
	}
	v, err := s.once(&s.wired, "wired/"+id, func() (any, error) {
		switch id {
		case Temperature:
			return noise.NewNormalLegacy(rng.NewLegacy(s.seed), legacyClimate)
		case Vegetation:
			return noise.NewNormalLegacy(rng.NewLegacy(s.seed+1), legacyClimate)
		}
		return noise.NewNormal(s.random.FromHashOf(Shift), noise.NewParameters(0, 0)), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*noise.Normal), nil
}

// PositionalRandom returns the factory forked from the hash of id.
func (s *State) PositionalRandom(id string) rng.Positional {
	id = Namespaced(id)
	v, _ := s.once(&s.randoms, "random/"+id, func() (any, error) {
		return s.random.FromHashOf(id).ForkPositional(), nil
	})
	return v.(rng.Positional)
}

// TerrainRandom is the stream the legacy blended noise is built on. Legacy
// worlds use the raw seed, bypassing the positional factory.
func (s *State) TerrainRandom() rng.Source {
	if s.legacy {
		return rng.NewLegacy(s.seed)
	}
	return s.random.FromHashOf(Terrain)
}

// Wire returns a copy of g with every noise leaf bound to this seed. Unknown
// noise identifiers are reported here, before any sampling.
func (s *State) Wire(g *density.Graph) (*density.Graph, error) {
	out, err := g.Bind(wiring{s})
	if err != nil {
		return nil, fmt.Errorf("wire seed %d: %w", s.seed, err)
	}
	return out, nil
}

type wiring struct{ s *State }

func (w wiring) Noise(id string) (*noise.Normal, error) { return w.s.WiredNoise(id) }

func (w wiring) Blended(settings noise.BlendedSettings) *noise.Blended {
	return noise.NewBlended(w.s.TerrainRandom(), settings)
}

func (w wiring) EndIslands() *noise.EndIslands { return noise.NewEndIslands(w.s.seed) }
