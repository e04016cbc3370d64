package engine

import (
	"testing"

	"github.com/talgya/caravan-world/internal/world"
)

func TestBuildRoadsLand(t *testing.T) {
	a, b := world.Position{X: 3, Y: 10}, world.Position{X: 12, Y: 10}
	w := flatWorld(t, 20, a, b)
	w.buildRoads()

	ca, cb := w.Cities[0], w.Cities[1]
	if len(ca.Roads) != 1 || len(cb.Roads) != 1 {
		t.Fatalf("roads: %d and %d, want 1 each", len(ca.Roads), len(cb.Roads))
	}
	fwd, back := ca.Roads[0], cb.Roads[0]
	if fwd.From != 0 || fwd.To != 1 || fwd.Sea {
		t.Fatalf("forward road = %+v", fwd)
	}
	if fwd.Path[0] != a || fwd.Path[len(fwd.Path)-1] != b {
		t.Errorf("forward path runs %v to %v", fwd.Path[0], fwd.Path[len(fwd.Path)-1])
	}
	if back.Path[0] != b || back.Path[len(back.Path)-1] != a {
		t.Errorf("reverse path runs %v to %v", back.Path[0], back.Path[len(back.Path)-1])
	}
	if len(fwd.Path) != 10 {
		t.Errorf("path has %d nodes, want 10", len(fwd.Path))
	}
	prev := fwd.Path[0]
	for _, p := range fwd.Path[1:] {
		if world.Chebyshev(prev, p) != 1 {
			t.Fatalf("road jumps from %v to %v", prev, p)
		}
		if !w.Map.Get(p).IsRoad {
			t.Errorf("tile %v on road not marked", p)
		}
		prev = p
	}
}

func TestBuildRoadsDistanceThreshold(t *testing.T) {
	w := flatWorld(t, 20, world.Position{X: 3, Y: 10}, world.Position{X: 12, Y: 10})
	w.Config.RoadDistance = 5
	w.buildRoads()
	for _, c := range w.Cities {
		if len(c.Roads) != 0 {
			t.Errorf("city %d has roads beyond the distance threshold", c.ID)
		}
	}
}

func TestBuildRoadsSea(t *testing.T) {
	// Land on x < 10, sea on x >= 10. Both cities sit on the coast.
	a, b := world.Position{X: 8, Y: 3}, world.Position{X: 8, Y: 16}
	w := flatWorld(t, 20, a, b)
	for i := range w.Map.Tiles {
		tile := &w.Map.Tiles[i]
		if tile.Position.X >= 10 {
			tile.Type = world.TileSea
			tile.Altitude = 40
		}
	}
	pa, pb := world.Position{X: 10, Y: 3}, world.Position{X: 10, Y: 16}
	w.Cities[0].Port = &pa
	w.Cities[1].Port = &pb
	w.buildRoads()

	sea := w.Cities[0].RoadTo(1)
	var seaRoad, landRoad bool
	for _, r := range w.Cities[0].Roads {
		if r.Sea {
			seaRoad = true
			if r.Path[0] != pa || r.Path[len(r.Path)-1] != pb {
				t.Errorf("sea route runs %v to %v", r.Path[0], r.Path[len(r.Path)-1])
			}
			for _, p := range r.Path {
				tile := w.Map.Get(p)
				if tile.Type != world.TileSea {
					t.Errorf("sea route crosses land at %v", p)
				}
			}
			for _, p := range r.Path[1:] {
				if !w.Map.Get(p).IsSeaRoad {
					t.Errorf("sea tile %v not marked", p)
				}
			}
		} else {
			landRoad = true
		}
	}
	if !seaRoad || !landRoad {
		t.Fatalf("sea road %v, land road %v; want both", seaRoad, landRoad)
	}
	if sea == nil || !sea.Sea {
		t.Errorf("cheapest road = %+v, want the sea route", sea)
	}
	if len(w.Cities[1].Roads) != 2 {
		t.Errorf("destination has %d roads, want 2", len(w.Cities[1].Roads))
	}
}
