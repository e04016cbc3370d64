// World ties together the map, cities and nations and runs the simulation.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/caravan-world/internal/entropy"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// World holds the complete generated state and the simulation clock.
type World struct {
	ID      string           `json:"id"`
	Seed    int64            `json:"seed"`
	Config  Config           `json:"config"`
	Map     *world.Map       `json:"-"`
	Cities  []*social.City   `json:"cities"`
	Nations []*social.Nation `json:"nations"`

	// Neighbours lists, for every city, the cities whose regions border its own.
	Neighbours map[social.CityID][]social.CityID `json:"neighbours"`

	Day    int     `json:"day"`  // 0..DaysPerWeek-1; the economy runs when it wraps to 0
	Tick   uint64  `json:"tick"` // Monotonic, never resets
	Week   int     `json:"week"`
	Events []Event `json:"-"` // Recent events, trimmed to Config.MaxEvents
	Stats  Stats   `json:"stats"`

	nextCaravan uint64
	rng         *entropy.Rand
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "generation", "economy", "caravan"
}

// Stats tracks aggregate world statistics.
type Stats struct {
	Cities          int     `json:"cities"`
	Roads           int     `json:"roads"`
	SeaRoutes       int     `json:"sea_routes"`
	TotalPopulation int     `json:"total_population"`
	TotalDeficit    int     `json:"total_deficit"`
	AvgStability    float64 `json:"avg_stability"`
	ActiveCaravans  int     `json:"active_caravans"`
	Deliveries      int     `json:"deliveries"`
	Delivered       int     `json:"delivered"` // Units of stock handed over
}

// NewWorld wraps a generated map. Cities and nations are added by the
// generation phases.
func NewWorld(cfg Config, seed int64, m *world.Map) *World {
	return &World{
		Seed:       seed,
		Config:     cfg,
		Map:        m,
		Neighbours: make(map[social.CityID][]social.CityID),
		rng:        entropy.Derive(seed, entropy.OffsetSimulation),
	}
}

// Resume prepares a world restored from storage for further ticks: caravan
// numbering continues after the highest stored ID and the simulation stream
// is reseeded from the current tick.
func (w *World) Resume() {
	w.nextCaravan = 0
	for _, cv := range w.Caravans() {
		w.nextCaravan = max(w.nextCaravan, cv.ID)
	}
	w.rng = entropy.Derive(w.Seed, entropy.OffsetSimulation+int64(w.Tick))
	if w.Neighbours == nil {
		w.Neighbours = make(map[social.CityID][]social.CityID)
	}
	w.updateStats()
}

// City returns a city by ID, or nil.
func (w *World) City(id social.CityID) *social.City {
	if id < 0 || id >= len(w.Cities) {
		return nil
	}
	return w.Cities[id]
}

// Nation returns a nation by ID, or nil.
func (w *World) Nation(id social.NationID) *social.Nation {
	if id < 0 || id >= len(w.Nations) {
		return nil
	}
	return w.Nations[id]
}

// CityAt returns the city on a tile, or nil.
func (w *World) CityAt(p world.Position) *social.City {
	for _, c := range w.Cities {
		if c.Position == p {
			return c
		}
	}
	return nil
}

// Caravans returns every caravan on the road, grouped by origin city.
func (w *World) Caravans() []*social.Caravan {
	var out []*social.Caravan
	for _, c := range w.Cities {
		out = append(out, c.Caravans...)
	}
	return out
}

// EmitEvent appends to the event log, dropping the oldest entries past capacity.
func (w *World) EmitEvent(category, format string, args ...any) {
	w.Events = append(w.Events, Event{
		Tick:        w.Tick,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
	limit := w.Config.MaxEvents
	if limit <= 0 {
		limit = 1000
	}
	if len(w.Events) > limit {
		w.Events = w.Events[len(w.Events)-limit:]
	}
}

// updateStats recomputes the aggregate statistics.
func (w *World) updateStats() {
	s := Stats{
		Cities:     len(w.Cities),
		Deliveries: w.Stats.Deliveries,
		Delivered:  w.Stats.Delivered,
	}
	stability := 0
	for _, c := range w.Cities {
		s.TotalPopulation += c.Population
		s.ActiveCaravans += len(c.Caravans)
		stability += c.Stability
		s.TotalDeficit += c.Deficits.Total()
		for _, r := range c.Roads {
			if r.Sea {
				s.SeaRoutes++
			} else {
				s.Roads++
			}
		}
	}
	// Roads are stored once per direction.
	s.Roads /= 2
	s.SeaRoutes /= 2
	if len(w.Cities) > 0 {
		s.AvgStability = float64(stability) / float64(len(w.Cities))
	}
	w.Stats = s
}

// logWeek reports the outcome of an economy pass.
func (w *World) logWeek() {
	slog.Info("weekly report",
		"week", w.Week,
		"tick", w.Tick,
		"population", w.Stats.TotalPopulation,
		"deficit", w.Stats.TotalDeficit,
		"avg_stability", fmt.Sprintf("%.2f", w.Stats.AvgStability),
		"caravans", w.Stats.ActiveCaravans,
		"deliveries", w.Stats.Deliveries,
	)
}
