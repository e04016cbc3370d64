package engine

import (
	"testing"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// flatWorld builds a world on a flat plain with cities at the given sites.
func flatWorld(t *testing.T, size int, sites ...world.Position) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.World.Size = size
	cfg.World.Seed = 1
	cfg.Nations = 2
	m := world.NewMap(size)
	for i := range m.Tiles {
		m.Tiles[i].Altitude = 120
	}
	w := NewWorld(cfg, 1, m)
	for i, p := range sites {
		m.Get(p).Type = world.TileCity
		c := social.NewCity(i, p, 1000)
		c.Industries = []economy.IndustryName{economy.Farm}
		w.Cities = append(w.Cities, c)
	}
	return w
}

func sameIDs(a, b []social.CityID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[social.CityID]int)
	for _, x := range a {
		seen[x]++
	}
	for _, x := range b {
		seen[x]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
