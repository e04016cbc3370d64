package world

import "testing"

func uniformMap(size int, tt TileType) *Map {
	m := NewMap(size)
	for i := range m.Tiles {
		m.Tiles[i].Type = tt
		m.Tiles[i].Altitude = 120
	}
	return m
}

func checkContiguous(t *testing.T, m *Map, start Position, path []Position) {
	t.Helper()
	prev := start
	for _, p := range path {
		if !m.InBounds(p) {
			t.Fatalf("path leaves the map at %v", p)
		}
		if Chebyshev(prev, p) != 1 {
			t.Fatalf("path jumps from %v to %v", prev, p)
		}
		prev = p
	}
}

func TestFindPathChebyshev(t *testing.T) {
	m := uniformMap(3, TilePlain)
	start, end := Position{X: 0, Y: 0}, Position{X: 2, Y: 2}

	route, ok := FindPath(m, start, end, false)
	if !ok {
		t.Fatal("no path on an open grid")
	}
	if len(route.Path) != Chebyshev(start, end) {
		t.Fatalf("path length = %d, want %d: %v", len(route.Path), Chebyshev(start, end), route.Path)
	}
	if route.Path[len(route.Path)-1] != end {
		t.Errorf("path ends at %v", route.Path[len(route.Path)-1])
	}
	// Two diagonal plain steps: (30 + 2) each.
	if route.Cost != 64 {
		t.Errorf("cost = %f, want 64", route.Cost)
	}
	checkContiguous(t, m, start, route.Path)
}

func TestFindPathBarrier(t *testing.T) {
	m := uniformMap(7, TilePlain)
	for y := 0; y < 7; y++ {
		m.Get(Position{X: 3, Y: y}).Type = TileSea
	}
	if _, ok := FindPath(m, Position{X: 0, Y: 3}, Position{X: 6, Y: 3}, false); ok {
		t.Fatal("land route crossed a sea barrier")
	}
}

func TestFindPathSameCell(t *testing.T) {
	m := uniformMap(3, TilePlain)
	route, ok := FindPath(m, Position{X: 1, Y: 1}, Position{X: 1, Y: 1}, false)
	if !ok || len(route.Path) != 0 {
		t.Fatalf("same-cell search = %v, %v", route, ok)
	}
}

func TestFindPathOutOfBounds(t *testing.T) {
	m := uniformMap(3, TilePlain)
	if _, ok := FindPath(m, Position{X: 0, Y: 0}, Position{X: 5, Y: 5}, false); ok {
		t.Fatal("search to an off-map goal succeeded")
	}
}

func TestFindPathPrefersRoads(t *testing.T) {
	// A forest field with a road along y=0 that detours around nothing: the
	// road is cheaper than cutting through the forest diagonal.
	m := uniformMap(6, TileForest)
	for x := 0; x < 6; x++ {
		m.Get(Position{X: x, Y: 0}).IsRoad = true
	}
	route, ok := FindPath(m, Position{X: 0, Y: 0}, Position{X: 5, Y: 0}, false)
	if !ok {
		t.Fatal("no path")
	}
	for _, p := range route.Path {
		if p.Y != 0 {
			t.Fatalf("path left the road at %v", p)
		}
	}
	if route.Cost != 10 {
		t.Errorf("cost = %f, want 10 (five road steps of 1+1)", route.Cost)
	}
}

func TestFindPathAvoidsClimbing(t *testing.T) {
	// A ridge in the middle column costs 100 per altitude unit; the route
	// goes around through the gap at y=4.
	m := uniformMap(5, TilePlain)
	for y := 0; y < 4; y++ {
		m.Get(Position{X: 2, Y: y}).Altitude = 160
	}
	route, ok := FindPath(m, Position{X: 0, Y: 0}, Position{X: 4, Y: 0}, false)
	if !ok {
		t.Fatal("no path")
	}
	for _, p := range route.Path {
		if p.X == 2 && p.Y < 4 {
			t.Fatalf("path climbed the ridge at %v", p)
		}
	}
	checkContiguous(t, m, Position{X: 0, Y: 0}, route.Path)
}

func TestFindPathSeaRoute(t *testing.T) {
	m := uniformMap(5, TileSea)
	// An island in the middle.
	m.Get(Position{X: 2, Y: 2}).Type = TilePlain
	route, ok := FindPath(m, Position{X: 1, Y: 2}, Position{X: 3, Y: 2}, true)
	if !ok {
		t.Fatal("no sea route around the island")
	}
	for _, p := range route.Path {
		if m.Get(p).Type != TileSea {
			t.Fatalf("sea route crossed land at %v", p)
		}
	}
	if len(route.Path) != 2 {
		t.Errorf("sea path length = %d, want 2", len(route.Path))
	}
}

func TestFindPathSeaRouteBlockedByLand(t *testing.T) {
	m := uniformMap(5, TileSea)
	for y := 0; y < 5; y++ {
		m.Get(Position{X: 2, Y: y}).Type = TilePlain
	}
	if _, ok := FindPath(m, Position{X: 0, Y: 2}, Position{X: 4, Y: 2}, true); ok {
		t.Fatal("sea route crossed an isthmus")
	}
}

func TestTileCost(t *testing.T) {
	sea := &Tile{Type: TileSea}
	if TileCost(sea, true) != 3 {
		t.Error("open sea cost")
	}
	sea.IsSeaRoad = true
	if TileCost(sea, true) != 1 {
		t.Error("sea road cost")
	}
	if TileCost(&Tile{Type: TilePlain}, true) != 10000 {
		t.Error("land cost for sea route")
	}
	if TileCost(&Tile{Type: TileRiver, IsRoad: true}, false) != 1 {
		t.Error("road overrides biome cost")
	}
	if TileCost(&Tile{Type: TileRiver}, false) != 300 {
		t.Error("river cost")
	}
}
