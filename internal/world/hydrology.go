// Hydrology: depression filling and river tracing.
package world

import (
	"strconv"

	"github.com/talgya/caravan-world/internal/entropy"
)

// MaxRiverSteps bounds a single river walk; plateaus can otherwise cycle forever.
const MaxRiverSteps = 10000

// FillDepressions removes enclosed pits above sea level with a priority flood
// seeded from the map border. Tiles reached from a higher land tile are raised
// to that tile's altitude, flagged WasHole, and drained breadth-first before
// the lowest open tile is taken again. Afterwards every tile above sea level
// has a non-increasing path to the border or to a tile at or below sea level.
func FillDepressions(m *Map, seaLevel int) {
	open := NewPriorityQueue(func(a, b *Tile) bool { return a.Altitude < b.Altitude })
	var pit []*Tile
	closed := make([]bool, len(m.Tiles))

	for i := range m.Tiles {
		t := &m.Tiles[i]
		if m.OnBorder(t.Position) {
			closed[i] = true
			open.Push(t)
		}
	}

	for !open.Empty() || len(pit) > 0 {
		var current *Tile
		if len(pit) > 0 {
			current = pit[0]
			pit = pit[1:]
		} else {
			current = open.Pop()
		}

		for _, n := range m.Neighbors(current.Position) {
			idx := n.Position.Y*m.Size + n.Position.X
			if closed[idx] {
				continue
			}
			closed[idx] = true
			if n.Altitude <= current.Altitude && current.Altitude > seaLevel {
				n.Altitude = current.Altitude
				n.WasHole = true
				pit = append(pit, n)
			} else {
				open.Push(n)
			}
		}
	}
}

// RiverCount returns how many rivers a map of the given size receives.
func RiverCount(size int) int {
	return size * 8 / 64
}

// PlaceRivers traces count rivers from random tiles at or above mountainLevel.
// Rivers are tagged with numeric ids "0", "1", ... until named.
func PlaceRivers(m *Map, count, mountainLevel int, rng *entropy.Rand) {
	var sources []*Tile
	for i := range m.Tiles {
		if m.Tiles[i].Altitude >= mountainLevel {
			sources = append(sources, &m.Tiles[i])
		}
	}

	for r := 0; r < count; r++ {
		start, ok := entropy.Pick(rng, sources)
		if !ok {
			return // No high ground: a flat world has no rivers.
		}
		TraceRiver(m, start, strconv.Itoa(r), rng)
	}
}

// TraceRiver walks downhill from start, marking tiles as river and
// accumulating flow, until it reaches the sea, gets stuck or hits
// MaxRiverSteps. It returns the number of steps taken.
func TraceRiver(m *Map, start *Tile, id string, rng *entropy.Rand) int {
	current := start
	flow := 1
	steps := 0
	for steps < MaxRiverSteps {
		steps++
		current.Type = TileRiver
		if current.RiverName == "" {
			current.RiverName = id
		}
		current.WaterFlow += flow
		flow++

		next := randomLowerNeighbor(m, current, rng)
		if next == nil {
			break
		}
		current = next
		if current.Type == TileSea {
			break
		}
	}
	return steps
}

// randomLowerNeighbor picks uniformly among strictly lower neighbours, or
// among neighbours of equal altitude when none is lower.
func randomLowerNeighbor(m *Map, t *Tile, rng *entropy.Rand) *Tile {
	neighbors := m.Neighbors(t.Position)
	var lower, same []*Tile
	for _, n := range neighbors {
		switch {
		case n.Altitude < t.Altitude:
			lower = append(lower, n)
		case n.Altitude == t.Altitude:
			same = append(same, n)
		}
	}
	if next, ok := entropy.Pick(rng, lower); ok {
		return next
	}
	next, _ := entropy.Pick(rng, same)
	return next
}

// IsRiverID reports whether a river name is still a numeric placeholder id.
func IsRiverID(name string) bool {
	if name == "" {
		return false
	}
	_, err := strconv.Atoi(name)
	return err == nil
}

// RenameRiver replaces every occurrence of a river id with a name.
func RenameRiver(m *Map, id, name string) {
	for i := range m.Tiles {
		if m.Tiles[i].RiverName == id {
			m.Tiles[i].RiverName = name
		}
	}
}
