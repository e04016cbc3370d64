package engine

import (
	"log/slog"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/entropy"
	"github.com/talgya/caravan-world/internal/social"
)

// SpawnCaravan sends one caravan from a random city that still has spare
// capacity (fewer caravans than its access). It returns nil when no city,
// resource or destination is available this tick.
func (w *World) SpawnCaravan() *social.Caravan {
	var ready []*social.City
	for _, c := range w.Cities {
		if len(c.Caravans) < c.Access && len(c.Roads) > 0 {
			ready = append(ready, c)
		}
	}
	city, ok := entropy.Pick(w.rng, ready)
	if !ok {
		return nil
	}

	// A resource we make that a neighbour wants, else one we want ourselves.
	var tradable []economy.Resource
	for _, r := range city.Production.Positive() {
		for _, road := range city.Roads {
			if w.City(road.To).Wants(r) {
				tradable = append(tradable, r)
				break
			}
		}
	}
	res, ok := entropy.Pick(w.rng, tradable)
	if !ok {
		res, ok = entropy.Pick(w.rng, city.Needs.Positive())
		if !ok {
			return nil
		}
	}

	var buyers []social.CityID
	for _, id := range city.Destinations() {
		if w.City(id).Wants(res) {
			buyers = append(buyers, id)
		}
	}
	dest, ok := entropy.Pick(w.rng, buyers)
	if !ok {
		dest, ok = entropy.Pick(w.rng, city.Destinations())
		if !ok {
			return nil
		}
	}

	road := city.RoadTo(dest)
	target := w.City(dest)
	ret := economy.NoResource
	var back []economy.Resource
	for _, r := range city.Needs.Positive() {
		if target.Produces(r) {
			back = append(back, r)
		}
	}
	if r, ok := entropy.Pick(w.rng, back); ok {
		ret = r
	}

	w.nextCaravan++
	cv := social.NewCaravan(w.nextCaravan, *road, res, ret)
	city.Caravans = append(city.Caravans, cv)
	w.EmitEvent("caravan", "Caravan %d leaves %s for %s carrying %s", cv.ID, city.Name, target.Name, res)
	slog.Debug("caravan spawned", "id", cv.ID, "from", city.Name, "to", target.Name, "resource", res.String(), "sea", road.Sea)
	return cv
}

// MoveCaravans advances every caravan. Arriving caravans hand their stock to
// the destination and leave the road. It returns the caravans that arrived.
func (w *World) MoveCaravans() []*social.Caravan {
	var arrived []*social.Caravan
	for _, c := range w.Cities {
		for _, cv := range append([]*social.Caravan(nil), c.Caravans...) {
			dest := w.City(cv.Route.To)
			if !cv.Advance(w.Config.TickTime, dest.Position) {
				continue
			}
			dest.Resources[cv.Outbound] += cv.Stock
			c.RemoveCaravan(cv)
			arrived = append(arrived, cv)
			w.Stats.Deliveries++
			w.Stats.Delivered += cv.Stock
			w.EmitEvent("caravan", "Caravan %d from %s delivered %d %s to %s", cv.ID, c.Name, cv.Stock, cv.Outbound, dest.Name)
		}
	}
	return arrived
}
