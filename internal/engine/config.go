package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/caravan-world/internal/world"
)

// Sentinel errors returned by generation and the task dispatcher.
var (
	ErrInvariant = errors.New("world invariant violated")
	ErrNoCities  = errors.New("no city could be placed")
	ErrConfig    = errors.New("invalid configuration")
)

// MaxWorldSize caps the grid edge; larger grids exhaust memory.
const MaxWorldSize = 1024

// Config holds world generation and simulation parameters.
type Config struct {
	World        world.GenConfig `yaml:"world"`
	Nations      int             `yaml:"nations"`       // Number of nations
	Cities       int             `yaml:"cities"`        // 0 = scaled from size
	RoadDistance float64         `yaml:"road_distance"` // Max city distance for a road attempt
	TickTime     float64         `yaml:"tick_time"`     // Caravan movement per tick, in nodes at speed 1
	DaysPerWeek  int             `yaml:"days_per_week"` // Ticks between economy passes
	MaxEvents    int             `yaml:"max_events"`    // Event log capacity
}

// DefaultConfig returns the standard world setup.
func DefaultConfig() Config {
	return Config{
		World:        world.DefaultGenConfig(),
		Nations:      5,
		RoadDistance: 75,
		TickTime:     0.1,
		DaysPerWeek:  7,
		MaxEvents:    1000,
	}
}

// SmallTestConfig returns a 64x64 world with a fixed seed.
func SmallTestConfig() Config {
	cfg := DefaultConfig()
	cfg.World = world.SmallTestConfig()
	return cfg
}

// CityCount returns the configured number of cities, scaled from size when unset.
func (c Config) CityCount() int {
	if c.Cities > 0 {
		return c.Cities
	}
	return world.CityCount(c.World.Size)
}

// Validate checks the configuration for values generation cannot work with.
func (c Config) Validate() error {
	switch {
	case c.World.Size < 8:
		return fmt.Errorf("%w: world size %d below 8", ErrConfig, c.World.Size)
	case c.World.Size > MaxWorldSize:
		return fmt.Errorf("%w: world size %d above %d", ErrConfig, c.World.Size, MaxWorldSize)
	case c.World.SeaLevel < 0 || c.World.SeaLevel > 255:
		return fmt.Errorf("%w: sea level %d outside 0..255", ErrConfig, c.World.SeaLevel)
	case c.World.MountainLevel < 0 || c.World.MountainLevel > 255:
		return fmt.Errorf("%w: mountain level %d outside 0..255", ErrConfig, c.World.MountainLevel)
	case c.Nations < 1:
		return fmt.Errorf("%w: need at least one nation, got %d", ErrConfig, c.Nations)
	case c.TickTime <= 0:
		return fmt.Errorf("%w: tick time must be positive", ErrConfig)
	case c.DaysPerWeek < 1:
		return fmt.Errorf("%w: days per week must be at least 1", ErrConfig)
	}
	return nil
}
