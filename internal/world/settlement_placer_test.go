package world

import "testing"

func TestCityScoreExclusions(t *testing.T) {
	m := uniformMap(20, TilePlain)
	m.Get(Position{X: 10, Y: 10}).Type = TileSea
	m.Get(Position{X: 9, Y: 9}).Type = TileCity

	tests := []struct {
		name string
		p    Position
		ok   bool
	}{
		{"border band low", Position{X: 3, Y: 10}, false},
		{"border band high", Position{X: 10, Y: 17}, false},
		{"sea", Position{X: 10, Y: 10}, false},
		{"existing city", Position{X: 9, Y: 9}, false},
		{"interior plain", Position{X: 12, Y: 12}, true},
		{"band edge is allowed", Position{X: 4, Y: 16}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := CityScore(m, tt.p, nil)
			if ok != tt.ok {
				t.Fatalf("CityScore(%v) ok = %v, want %v", tt.p, ok, tt.ok)
			}
			if !ok && score != 0 {
				t.Errorf("excluded tile scored %f", score)
			}
		})
	}
}

func TestCityScoreComponents(t *testing.T) {
	m := uniformMap(20, TilePlain)
	m.Get(Position{X: 11, Y: 10}).Type = TileForest
	m.Get(Position{X: 12, Y: 10}).RiverName = "0"
	m.Get(Position{X: 12, Y: 10}).Type = TileRiver
	m.Get(Position{X: 8, Y: 10}).RiverName = "1"

	p := Position{X: 10, Y: 10}
	other := Position{X: 10, Y: 15}
	score, ok := CityScore(m, p, []Position{other})
	if !ok {
		t.Fatal("tile excluded")
	}
	// 2*5 (distance) + 10*2 rivers + 10*3 biomes (plain, forest, river).
	if score != 60 {
		t.Errorf("score = %f, want 60", score)
	}
}

func TestPickCitySiteSpreadsOut(t *testing.T) {
	m := uniformMap(30, TilePlain)
	first, ok := PickCitySite(m, nil)
	if !ok {
		t.Fatal("no site on an open map")
	}
	m.Get(first).Type = TileCity
	second, ok := PickCitySite(m, []Position{first})
	if !ok {
		t.Fatal("no second site")
	}
	if Dist(first, second) < 10 {
		t.Errorf("second city at %v too close to first at %v", second, first)
	}
}

func TestPickCitySiteAllSea(t *testing.T) {
	m := uniformMap(20, TileSea)
	if p, ok := PickCitySite(m, nil); ok {
		t.Fatalf("picked %v on an all-sea map", p)
	}
}

func TestClosestOfType(t *testing.T) {
	m := uniformMap(10, TilePlain)
	m.Get(Position{X: 7, Y: 5}).Type = TileSea
	m.Get(Position{X: 5, Y: 3}).Type = TileSea
	p := Position{X: 5, Y: 5}
	if got := ClosestOfType(m, p, TileSea, 3); got == nil || got.Position != (Position{X: 5, Y: 3}) && got.Position != (Position{X: 7, Y: 5}) {
		t.Fatalf("ClosestOfType = %v", got)
	}
	if got := ClosestOfType(m, p, TileSea, 1); got != nil {
		t.Errorf("found sea at %v outside radius", got.Position)
	}
}

func TestScanAround(t *testing.T) {
	m := uniformMap(10, TilePlain)
	m.Get(Position{X: 6, Y: 6}).Type = TileSwamp
	m.Get(Position{X: 9, Y: 9}).Type = TileIce
	scan := ScanAround(m, Position{X: 5, Y: 5}, 2)
	if !scan.HasBiome(TileSwamp) || !scan.HasBiome(TilePlain) {
		t.Errorf("biomes = %v", scan.Biomes)
	}
	if scan.HasBiome(TileIce) {
		t.Error("ice outside the radius was scanned")
	}
	if len(scan.Rivers) != 0 {
		t.Errorf("rivers = %v", scan.Rivers)
	}
}

func TestQueueOrder(t *testing.T) {
	q := NewPriorityQueue(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 4, 1, 3} {
		q.Push(v)
	}
	var got []int
	for !q.Empty() {
		got = append(got, q.Pop())
	}
	want := []int{1, 1, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestQueueStableTies(t *testing.T) {
	type item struct{ key, id int }
	q := NewPriorityQueue(func(a, b item) bool { return a.key < b.key })
	for i := 0; i < 10; i++ {
		q.Push(item{key: 0, id: i})
	}
	for i := 0; i < 10; i++ {
		if got := q.Pop(); got.id != i {
			t.Fatalf("tie %d popped id %d", i, got.id)
		}
	}
}
