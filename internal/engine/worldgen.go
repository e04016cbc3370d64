package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/caravan-world/internal/entropy"
	"github.com/talgya/caravan-world/internal/world"
)

// Generation phases, reported with their completion percentage.
const (
	PhaseTerrain = "Generating terrain"
	PhaseCities  = "Generating cities"
	PhaseRoads   = "Generating roads"
	PhaseRegions = "Generating regions"
	PhaseDone    = "Done"
)

// ProgressFunc receives a phase name and a completion percentage.
type ProgressFunc func(phase string, percent int)

// worldNamespace scopes world IDs derived from generation parameters.
var worldNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("caravan-world"))

// WorldID derives a stable identifier from the parameters that determine a
// world, so regenerating with the same seed yields the same ID.
func WorldID(seed int64, cfg Config) string {
	key := fmt.Sprintf("%d/%d/%d/%d/%d/%d/%s",
		seed, cfg.World.Size, cfg.World.SeaLevel, cfg.World.MountainLevel,
		cfg.Nations, cfg.CityCount(), cfg.World.Algorithm)
	return uuid.NewSHA1(worldNamespace, []byte(key)).String()
}

// GenerateWorld runs the full pipeline: terrain and hydrology, cities, roads,
// regions and nations, then resolves the economy once. ctx is checked between
// phases. A zero seed is replaced by a random one, recorded in World.Seed.
func GenerateWorld(ctx context.Context, cfg Config, progress ProgressFunc) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.World.Seed == 0 {
		cfg.World.Seed = entropy.RandomSeed()
	}
	if cfg.RoadDistance <= 0 {
		cfg.RoadDistance = DefaultConfig().RoadDistance
	}
	seed := cfg.World.Seed
	start := time.Now()

	report := func(phase string, percent int) {
		slog.Info("generation", "phase", phase, "progress", percent, "elapsed", time.Since(start).Round(time.Millisecond))
		if progress != nil {
			progress(phase, percent)
		}
	}

	report(PhaseTerrain, 5)
	m := world.Generate(cfg.World)
	w := NewWorld(cfg, seed, m)
	w.ID = WorldID(seed, cfg)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation cancelled after terrain: %w", err)
	}

	report(PhaseCities, 25)
	w.spawnCities(cfg.CityCount())
	if len(w.Cities) == 0 {
		return nil, fmt.Errorf("placing cities on %dx%d map (seed %d): %w", cfg.World.Size, cfg.World.Size, seed, ErrNoCities)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation cancelled after cities: %w", err)
	}

	report(PhaseRoads, 50)
	w.buildRoads()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation cancelled after roads: %w", err)
	}

	report(PhaseRegions, 75)
	if err := w.buildPolitics(); err != nil {
		slog.Error("region building failed", "seed", seed, "error", err)
		return nil, err
	}

	w.UpdateCities()
	w.updateStats()
	w.EmitEvent("generation", "World %s generated: %d cities, %d nations, %d roads, %d sea routes",
		w.ID, len(w.Cities), len(w.Nations), w.Stats.Roads, w.Stats.SeaRoutes)
	report(PhaseDone, 100)

	slog.Info("world generated",
		"id", w.ID,
		"seed", seed,
		"size", cfg.World.Size,
		"cities", len(w.Cities),
		"nations", len(w.Nations),
		"roads", w.Stats.Roads,
		"sea_routes", w.Stats.SeaRoutes,
		"population", w.Stats.TotalPopulation,
	)
	return w, nil
}

// buildPolitics partitions the map into regions, hands the cities to nations
// and names everything.
func (w *World) buildPolitics() error {
	rng := entropy.Derive(w.Seed, entropy.OffsetNations)
	w.createNations(rng)
	w.buildRegions()
	if err := w.checkRegions(); err != nil {
		return err
	}
	if err := w.assignNations(rng); err != nil {
		return err
	}
	w.nameWorld()
	return nil
}
