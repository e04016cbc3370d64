package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talgya/caravan-world/internal/world"
)

func generateSmall(t *testing.T) *World {
	t.Helper()
	cfg := SmallTestConfig()
	cfg.World.SeaLevel = 90
	cfg.World.MountainLevel = 200
	cfg.Nations = 5
	w, err := GenerateWorld(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("GenerateWorld: %v", err)
	}
	return w
}

func TestGenerateWorldEndToEnd(t *testing.T) {
	var phases []int
	cfg := SmallTestConfig()
	cfg.Nations = 5
	w, err := GenerateWorld(context.Background(), cfg, func(phase string, percent int) {
		phases = append(phases, percent)
	})
	if err != nil {
		t.Fatalf("GenerateWorld: %v", err)
	}

	if len(w.Nations) != 5 {
		t.Errorf("nations = %d, want 5", len(w.Nations))
	}
	if len(w.Cities) == 0 {
		t.Fatal("no cities placed")
	}
	if len(w.Neighbours) != len(w.Cities) {
		t.Errorf("neighbours has %d keys for %d cities", len(w.Neighbours), len(w.Cities))
	}
	for _, c := range w.Cities {
		if _, ok := w.Neighbours[c.ID]; !ok {
			t.Errorf("city %d missing from neighbours", c.ID)
		}
		if w.Nation(c.Nation) == nil {
			t.Errorf("city %d has no nation", c.ID)
		}
		if w.Map.Get(c.Position).Type != world.TileCity {
			t.Errorf("city %d tile is %s", c.ID, w.Map.Get(c.Position).Type)
		}
		if len(c.Industries) == 0 || len(c.Industries) > c.Magnitude()+1 {
			t.Errorf("city %d industries = %v", c.ID, c.Industries)
		}
		if c.Access == 0 && len(c.Needs) == 0 {
			t.Errorf("city %d economy never resolved", c.ID)
		}
	}

	want := []int{5, 25, 50, 75, 100}
	if len(phases) != len(want) {
		t.Fatalf("progress = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("progress = %v, want %v", phases, want)
		}
	}

	for i := range w.Map.Tiles {
		tile := &w.Map.Tiles[i]
		if w.City(tile.Region) == nil {
			t.Fatalf("tile %v has region %d", tile.Position, tile.Region)
		}
		if tile.Type == world.TileRiver && (tile.RiverName == "" || world.IsRiverID(tile.RiverName)) {
			t.Fatalf("river tile %v named %q", tile.Position, tile.RiverName)
		}
	}
	for a, list := range w.Neighbours {
		for _, b := range list {
			if !containsCity(w.Neighbours[b], a) {
				t.Errorf("neighbours not symmetric: %d -> %d", a, b)
			}
		}
	}
}

func TestGenerateWorldDeterministic(t *testing.T) {
	a, b := generateSmall(t), generateSmall(t)
	if a.ID != b.ID {
		t.Errorf("IDs differ: %s vs %s", a.ID, b.ID)
	}
	if len(a.Cities) != len(b.Cities) {
		t.Fatalf("city counts differ: %d vs %d", len(a.Cities), len(b.Cities))
	}
	for i := range a.Cities {
		ca, cb := a.Cities[i], b.Cities[i]
		if ca.Position != cb.Position || ca.Population != cb.Population || ca.Name != cb.Name || ca.Nation != cb.Nation {
			t.Errorf("city %d differs: %+v vs %+v", i, ca, cb)
		}
	}
}

func TestGenerateWorldErrors(t *testing.T) {
	cfg := SmallTestConfig()
	cfg.Nations = 0
	if _, err := GenerateWorld(context.Background(), cfg, nil); !errors.Is(err, ErrConfig) {
		t.Errorf("zero nations: err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GenerateWorld(ctx, SmallTestConfig(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

func TestSpawnCitiesOnSea(t *testing.T) {
	w := flatWorld(t, 16)
	for i := range w.Map.Tiles {
		w.Map.Tiles[i].Type = world.TileSea
	}
	w.spawnCities(3)
	if len(w.Cities) != 0 {
		t.Errorf("placed %d cities at sea", len(w.Cities))
	}
}

func TestWorldRunsWeeks(t *testing.T) {
	w := generateSmall(t)
	for i := 0; i < 3*w.Config.DaysPerWeek; i++ {
		w.Step()
	}
	if w.Week != 3 {
		t.Errorf("week = %d", w.Week)
	}
	for _, cv := range w.Caravans() {
		if cv.Progress >= float64(len(cv.Route.Path)) {
			t.Errorf("caravan %d finished its road but was not retired", cv.ID)
		}
	}
	if w.Stats.TotalPopulation <= 0 {
		t.Errorf("population = %d", w.Stats.TotalPopulation)
	}
}

func TestEngineRun(t *testing.T) {
	w := generateSmall(t)
	e := NewEngine(w)
	e.Interval = time.Millisecond
	weeks := 0
	e.OnWeek = func(*World) { weeks++ }
	if err := e.Run(context.Background(), 14); err != nil {
		t.Fatal(err)
	}
	if w.Tick != 14 || weeks != 2 {
		t.Errorf("tick %d, weeks %d", w.Tick, weeks)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled run: err = %v", err)
	}
}

func TestCityIndustriesSampled(t *testing.T) {
	w := generateSmall(t)
	for _, c := range w.Cities {
		seen := make(map[string]bool)
		for _, ind := range c.Industries {
			if seen[string(ind)] {
				t.Errorf("city %d runs %s twice", c.ID, ind)
			}
			seen[string(ind)] = true
		}
		if c.Port != nil && w.Map.Get(*c.Port).Type != world.TileSea {
			t.Errorf("city %d port on %s", c.ID, w.Map.Get(*c.Port).Type)
		}
	}
}
