package engine

import (
	"log/slog"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/entropy"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// City attribute scan radii.
const (
	IndustryScanRadius = 5
	PortRadius         = 3
	MinCityMagnitude   = 2
	MaxCityMagnitude   = 5
)

var cityColors = []social.Color{
	{30, 255, 30},
	{255, 255, 30},
	{30, 255, 255},
	{255, 30, 255},
	{255, 30, 30},
	{30, 30, 255},
	{30, 30, 30},
	{200, 200, 200},
}

// spawnCities places up to n cities one at a time on the best remaining site.
func (w *World) spawnCities(n int) {
	rng := entropy.Derive(w.Seed, entropy.OffsetCities)
	placed := make([]world.Position, 0, n)
	for i := 0; i < n; i++ {
		pos, ok := world.PickCitySite(w.Map, placed)
		if !ok {
			slog.Debug("no city site left", "placed", len(placed), "wanted", n)
			break
		}
		w.Map.Get(pos).Type = world.TileCity
		placed = append(placed, pos)
		w.Cities = append(w.Cities, newCityAt(w.Map, len(w.Cities), pos, rng))
	}
}

// newCityAt builds a city on a site: population, industries from the
// surrounding biomes, port and rivers.
func newCityAt(m *world.Map, id social.CityID, pos world.Position, rng *entropy.Rand) *social.City {
	scan := world.ScanAround(m, pos, IndustryScanRadius)

	base := pow10(rng.IntBetween(MinCityMagnitude, MaxCityMagnitude))
	pop := base + int(float64(base)*rng.Float64())

	c := social.NewCity(id, pos, pop)
	c.Industries = pickIndustries(rng, economy.AvailableIndustries(scan.Biomes), c.Magnitude())
	c.Biomes = scan.Biomes
	c.Rivers = scan.Rivers
	if port := world.ClosestOfType(m, pos, world.TileSea, PortRadius); port != nil {
		p := port.Position
		c.Port = &p
	}
	c.Color, _ = entropy.Pick(rng, cityColors)
	return c
}

// pickIndustries samples up to n distinct industries from the available list.
// Duplicates in the list make an industry more likely to be picked.
func pickIndustries(rng *entropy.Rand, available []economy.IndustryName, n int) []economy.IndustryName {
	picked := make([]economy.IndustryName, 0, n)
	for len(picked) < n && len(available) > 0 {
		choice := available[rng.Intn(len(available))]
		picked = append(picked, choice)
		rest := available[:0:0]
		for _, ind := range available {
			if ind != choice {
				rest = append(rest, ind)
			}
		}
		available = rest
	}
	return picked
}

// biomeModifier is the growth bonus of the land around a city.
func (w *World) biomeModifier(c *social.City) int {
	scan := world.ScanAround(w.Map, c.Position, 2)
	mod := 0
	if scan.HasBiome(world.TileSwamp) {
		mod--
	}
	if scan.HasBiome(world.TileIce) {
		mod--
	}
	if scan.HasBiome(world.TileRiver) {
		mod++
	}
	return mod
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
