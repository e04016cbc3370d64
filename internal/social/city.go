// Package social provides cities, nations, roads and caravans: the actors
// and links of the simulated world.
package social

import (
	"fmt"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/world"
)

// CityID indexes World.Cities. Tiles refer to their region through it.
type CityID = int

// Color is an RGB triple.
type Color [3]uint8

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// NearRoadLength bounds the steps of the roads counted towards a city's access.
const NearRoadLength = 100

// City is a population centre on the grid.
type City struct {
	ID         CityID                 `json:"id"`
	Name       string                 `json:"name"`
	Position   world.Position         `json:"position"`
	Population int                    `json:"population"`
	Industries []economy.IndustryName `json:"industries"`

	// Geography
	Port   *world.Position  `json:"port,omitempty"` // Nearest sea tile, nil when landlocked
	Rivers []string         `json:"rivers"`         // Names of rivers nearby
	Biomes []world.TileType `json:"biomes"`         // Distinct biomes around the city

	// Links
	Roads  []Road   `json:"roads"`
	Nation NationID `json:"nation"`
	Color  Color    `json:"color"`

	// Weekly derived state
	Access     int            `json:"access"`
	Stability  int            `json:"stability"`
	Growth     int            `json:"growth"`
	Needs      economy.Ledger `json:"needs"`
	Deficits   economy.Ledger `json:"deficits"`
	Production economy.Ledger `json:"production"`
	Resources  economy.Ledger `json:"resources"` // Stock on hand

	Caravans []*Caravan `json:"caravans"`
}

// NewCity creates a city with empty ledgers and no nation.
func NewCity(id CityID, pos world.Position, population int) *City {
	return &City{
		ID:         id,
		Name:       fmt.Sprintf("%d", id),
		Position:   pos,
		Population: population,
		Nation:     NoNation,
		Needs:      make(economy.Ledger),
		Deficits:   make(economy.Ledger),
		Production: make(economy.Ledger),
		Resources:  make(economy.Ledger),
	}
}

// Magnitude is the order of magnitude of the population.
func (c *City) Magnitude() int {
	return economy.Magnitude(c.Population)
}

// HasPort reports whether the city can trade by sea.
func (c *City) HasPort() bool {
	return c.Port != nil
}

// NearRoads counts the roads short enough to feed the city's access.
func (c *City) NearRoads() int {
	n := 0
	for _, r := range c.Roads {
		if r.Len() < NearRoadLength {
			n++
		}
	}
	return n
}

// RoadTo returns the cheapest road to another city, or nil.
func (c *City) RoadTo(to CityID) *Road {
	var best *Road
	for i := range c.Roads {
		r := &c.Roads[i]
		if r.To != to {
			continue
		}
		if best == nil || r.Cost < best.Cost {
			best = r
		}
	}
	return best
}

// Destinations lists the distinct cities reachable by one road, in road order.
func (c *City) Destinations() []CityID {
	seen := make(map[CityID]bool)
	var out []CityID
	for _, r := range c.Roads {
		if !seen[r.To] {
			seen[r.To] = true
			out = append(out, r.To)
		}
	}
	return out
}

// AddRoad records an outgoing road.
func (c *City) AddRoad(r Road) {
	c.Roads = append(c.Roads, r)
}

// Offer summarises what the city can ship this week. Resources without a
// resolved production yet are offered at their nominal industry output.
func (c *City) Offer() economy.Offer {
	prod := make(economy.Ledger)
	mag := c.Magnitude()
	for _, name := range c.Industries {
		ind, ok := economy.LookupIndustry(name)
		if !ok {
			continue
		}
		for r, v := range ind.Output(mag) {
			if !c.Production.Has(r) {
				prod[r] = v
			}
		}
	}
	for r, v := range c.Production {
		prod[r] = v
	}
	return economy.Offer{
		Nation:     c.Nation,
		Access:     c.Access,
		Production: prod,
	}
}

// Produces reports whether the city has a positive output of r.
func (c *City) Produces(r economy.Resource) bool {
	return c.Production[r] > 0
}

// Wants reports whether the city consumes r this week.
func (c *City) Wants(r economy.Resource) bool {
	return c.Needs[r] > 0
}

// RemoveCaravan drops a caravan from the city's active list.
func (c *City) RemoveCaravan(cv *Caravan) {
	for i, x := range c.Caravans {
		if x == cv {
			c.Caravans = append(c.Caravans[:i], c.Caravans[i+1:]...)
			return
		}
	}
}
