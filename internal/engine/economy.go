package engine

import (
	"log/slog"

	"github.com/talgya/caravan-world/internal/economy"
)

// UpdateCities runs the weekly economy pass. Access is refreshed for every
// city, then a snapshot of every city's offer is taken before any city is
// resolved, so cities later in the list see the same market as earlier ones.
func (w *World) UpdateCities() {
	for _, c := range w.Cities {
		c.Access = economy.Access(c.Magnitude(), c.NearRoads())
	}

	offers := make([]economy.Offer, len(w.Cities))
	for i, c := range w.Cities {
		offers[i] = c.Offer()
	}

	for _, c := range w.Cities {
		mag := c.Magnitude()
		c.Needs = economy.Needs(mag, c.Industries)
		c.Deficits = economy.Deficits(c.Needs, c.Access, c.Nation, offers)
		c.Stability = economy.Stability(c.Deficits)
		c.Growth = economy.Growth(c.Deficits, c.Access, c.Stability, w.biomeModifier(c))

		before := c.Population
		c.Population = economy.GrowPopulation(c.Population, c.Growth)
		if economy.Magnitude(before) != economy.Magnitude(c.Population) {
			w.EmitEvent("economy", "%s went from %d to %d inhabitants", c.Name, before, c.Population)
		}

		c.Production = economy.Produce(economy.Magnitude(c.Population), c.Industries, c.Deficits)
		economy.Restock(c.Resources, c.Production)

		slog.Debug("city resolved",
			"city", c.Name,
			"population", c.Population,
			"access", c.Access,
			"stability", c.Stability,
			"growth", c.Growth,
			"deficits", c.Deficits.JSON(),
		)
	}
	w.updateStats()
}
