// Terrain generation: three scalar fields, biome classification, depression
// filling and rivers.
package world

import (
	"github.com/talgya/caravan-world/internal/entropy"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Size          int       `yaml:"size"`           // Grid is Size x Size tiles
	Seed          int64     `yaml:"seed"`           // Random seed (0 = random)
	SeaLevel      int       `yaml:"sea_level"`      // Altitude below which tiles are sea (0..255)
	MountainLevel int       `yaml:"mountain_level"` // Altitude above which tiles are mountains (0..255)
	Rivers        int       `yaml:"rivers"`         // Number of rivers (0 = scaled from size)
	Algorithm     Algorithm `yaml:"algorithm"`      // Field synthesis algorithm
	Roughness     float64   `yaml:"roughness"`      // Diamond-square displacement decay
	EdgeFalloff   bool      `yaml:"edge_falloff"`   // Sink the border into the sea
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Size:          128,
		Seed:          0,
		SeaLevel:      90,
		MountainLevel: 200,
		Algorithm:     AlgorithmDiamondSquare,
		Roughness:     0.55,
		EdgeFalloff:   true,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Size = 64
	cfg.Seed = 42
	return cfg
}

// RiverCount returns the configured number of rivers, scaled from size when unset.
func (c GenConfig) RiverCount() int {
	if c.Rivers > 0 {
		return c.Rivers
	}
	return RiverCount(c.Size)
}

// Fields synthesises the elevation, temperature and humidity fields.
func Fields(cfg GenConfig) (elevation, temperature, humidity Field) {
	switch cfg.Algorithm {
	case AlgorithmSimplex:
		elevation = SimplexField(cfg.Size, cfg.Seed+entropy.OffsetElevation)
		temperature = SimplexField(cfg.Size, cfg.Seed+entropy.OffsetTemperature)
		humidity = SimplexField(cfg.Size, cfg.Seed+entropy.OffsetHumidity)
	default:
		roughness := cfg.Roughness
		if roughness <= 0 {
			roughness = 0.55
		}
		elevation = DiamondSquare(cfg.Size, roughness, entropy.Derive(cfg.Seed, entropy.OffsetElevation).Rand)
		temperature = DiamondSquare(cfg.Size, roughness, entropy.Derive(cfg.Seed, entropy.OffsetTemperature).Rand)
		humidity = DiamondSquare(cfg.Size, roughness, entropy.Derive(cfg.Seed, entropy.OffsetHumidity).Rand)
	}
	if cfg.EdgeFalloff {
		ApplyEdgeFalloff(elevation)
	}
	return elevation, temperature, humidity
}

// Generate creates the terrain: classified tiles, filled depressions and
// traced rivers. cfg.Seed must already be resolved (non-zero means fixed).
func Generate(cfg GenConfig) *Map {
	elev, temp, humid := Fields(cfg)

	m := NewMap(cfg.Size)
	for y := 0; y < cfg.Size; y++ {
		for x := 0; x < cfg.Size; x++ {
			t := m.Get(Position{X: x, Y: y})
			t.Altitude = AltitudeFromElevation(elev.At(x, y))
			t.Type = Classify(t.Altitude, temp.At(x, y), humid.At(x, y), cfg.SeaLevel, cfg.MountainLevel)
		}
	}

	FillDepressions(m, cfg.SeaLevel)
	PlaceRivers(m, cfg.RiverCount(), cfg.MountainLevel, entropy.Derive(cfg.Seed, entropy.OffsetRivers))

	return m
}
