package engine

import (
	"fmt"
	"strconv"

	"github.com/talgya/caravan-world/internal/entropy"
	"github.com/talgya/caravan-world/internal/names"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// Movement score terms.
const (
	riverCost = 2
	seaCost   = 5
)

// MovementScore is the flood-fill cost of stepping from one tile to the next:
// going downhill is cheap, rivers and sea slow the spread.
func MovementScore(from, to *world.Tile) int {
	s := 1 + from.Altitude - to.Altitude
	if to.RiverName != "" {
		s += riverCost
	}
	if to.Type == world.TileSea {
		s += seaCost
	}
	return s
}

type regionEntry struct {
	tile  *world.Tile
	score int
}

// buildRegions claims every tile for the city closest to it under the
// movement score, marks frontier tiles and records bordering regions.
func (w *World) buildRegions() {
	q := world.NewPriorityQueue(func(a, b regionEntry) bool { return a.score < b.score })

	for _, c := range w.Cities {
		w.Neighbours[c.ID] = []social.CityID{}
		w.Map.Get(c.Position).Region = c.ID
	}
	for _, c := range w.Cities {
		home := w.Map.Get(c.Position)
		for _, n := range w.Map.Neighbors(c.Position) {
			if n.Type == world.TileCity {
				continue
			}
			n.Region = c.ID
			q.Push(regionEntry{tile: n, score: MovementScore(home, n)})
		}
	}

	for !q.Empty() {
		next := q.Pop()
		region := next.tile.Region
		for _, n := range w.Map.Neighbors(next.tile.Position) {
			switch {
			case n.Region == world.NoRegion:
				n.Region = region
				q.Push(regionEntry{tile: n, score: next.score + MovementScore(next.tile, n)})
			case n.Region != region:
				next.tile.IsFrontier = true
				n.IsFrontier = true
				w.link(region, n.Region)
			}
		}
	}
}

// link records a symmetric neighbour relation between two regions.
func (w *World) link(a, b social.CityID) {
	if !containsCity(w.Neighbours[a], b) {
		w.Neighbours[a] = append(w.Neighbours[a], b)
	}
	if !containsCity(w.Neighbours[b], a) {
		w.Neighbours[b] = append(w.Neighbours[b], a)
	}
}

func containsCity(ids []social.CityID, id social.CityID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// checkRegions verifies that region growth claimed every tile.
func (w *World) checkRegions() error {
	for i := range w.Map.Tiles {
		t := &w.Map.Tiles[i]
		if t.Region == world.NoRegion {
			return fmt.Errorf("%w: tile %v was never claimed by a region", ErrInvariant, t.Position)
		}
	}
	return nil
}

// createNations sets up the requested nations, each with its own language.
func (w *World) createNations(rng *entropy.Rand) {
	w.Nations = make([]*social.Nation, 0, w.Config.Nations)
	for i := 0; i < w.Config.Nations; i++ {
		lang := names.NewLanguage(rng.Int63())
		w.Nations = append(w.Nations, &social.Nation{
			ID:       i,
			Name:     lang.Endonym(),
			Color:    social.NationColor(i),
			Capital:  -1,
			Language: lang,
		})
	}
}

// assignNations gives each nation one random free city, then spreads nations
// across neighbouring regions, most populous cities first.
func (w *World) assignNations(rng *entropy.Rand) error {
	for _, n := range w.Nations {
		var free []*social.City
		for _, c := range w.Cities {
			if c.Nation == social.NoNation {
				free = append(free, c)
			}
		}
		c, ok := entropy.Pick(rng, free)
		if !ok {
			break
		}
		c.Nation = n.ID
		n.Capital = c.ID
	}

	q := world.NewPriorityQueue(func(a, b *social.City) bool { return a.Population > b.Population })
	spread := func(from *social.City) {
		for _, id := range w.Neighbours[from.ID] {
			neigh := w.City(id)
			if neigh.Nation == social.NoNation {
				neigh.Nation = from.Nation
				q.Push(neigh)
			}
		}
	}
	for _, c := range w.Cities {
		if c.Nation != social.NoNation {
			spread(c)
		}
	}
	for !q.Empty() {
		spread(q.Pop())
	}

	for _, c := range w.Cities {
		if c.Nation == social.NoNation {
			return fmt.Errorf("%w: city %d at %v has no nation", ErrInvariant, c.ID, c.Position)
		}
		c.Color = w.Nations[c.Nation].Color
	}
	return nil
}

// nameWorld replaces numeric river ids with names from the nation owning the
// river tile, and names every city in its nation's language.
func (w *World) nameWorld() {
	renamed := make(map[string]string)
	for i := range w.Map.Tiles {
		t := &w.Map.Tiles[i]
		if !world.IsRiverID(t.RiverName) {
			continue
		}
		id := t.RiverName
		num, _ := strconv.Atoi(id)
		name := names.Generate(w.ownerNamer(t), names.River, num)
		world.RenameRiver(w.Map, id, name)
		renamed[id] = name
	}

	for _, c := range w.Cities {
		c.Name = names.Generate(w.Nation(c.Nation).Namer(), names.City, c.ID)
		for i, r := range c.Rivers {
			if name, ok := renamed[r]; ok {
				c.Rivers[i] = name
			}
		}
	}
}

// ownerNamer returns the language of the nation owning a tile, or nil.
func (w *World) ownerNamer(t *world.Tile) names.Namer {
	c := w.City(t.Region)
	if c == nil {
		return nil
	}
	return w.Nation(c.Nation).Namer()
}
