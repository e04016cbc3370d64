package engine

import (
	"log/slog"

	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// buildRoads links nearby cities by land, then port cities by sea. Sea routes
// are searched after every land road is marked.
func (w *World) buildRoads() {
	w.buildNetwork(w.Cities, false)

	var ports []*social.City
	for _, c := range w.Cities {
		if c.HasPort() {
			ports = append(ports, c)
		}
	}
	w.buildNetwork(ports, true)
}

// buildNetwork tries a route between every pair (i, j>i) closer than the road
// distance. Each city is only paired with the ones after it in list order.
func (w *World) buildNetwork(cities []*social.City, sea bool) {
	built := 0
	for i, a := range cities {
		for _, b := range cities[i+1:] {
			if world.Dist(a.Position, b.Position) >= w.Config.RoadDistance {
				continue
			}
			start, end := a.Position, b.Position
			if sea {
				start, end = *a.Port, *b.Port
			}
			route, ok := world.FindPath(w.Map, start, end, sea)
			if !ok || len(route.Path) == 0 {
				continue
			}
			for _, p := range route.Path {
				t := w.Map.Get(p)
				if sea {
					t.IsSeaRoad = true
				} else {
					t.IsRoad = true
				}
			}
			path := make([]world.Position, 0, len(route.Path)+1)
			path = append(path, start)
			path = append(path, route.Path...)
			road := social.Road{From: a.ID, To: b.ID, Path: path, Cost: route.Cost, Sea: sea}
			a.AddRoad(road)
			b.AddRoad(road.Reversed())
			built++
		}
	}
	slog.Debug("road network built", "sea", sea, "cities", len(cities), "links", built)
}
