// A* search over the tile grid for land roads and sea routes.
package world

// SeaRouteLimit is the cost at or above which a sea route counts as unreachable.
const SeaRouteLimit = 100000

// Route is the result of a successful search.
type Route struct {
	Path []Position // Start excluded, goal included
	Cost float64    // Accumulated cost at the goal
}

// Node is the per-search state of one grid cell.
type Node struct {
	Position Position
	G, H, F  float64
	Parent   int // Index of the parent node, -1 for the start
}

// TileCost returns the cost of entering a tile.
func TileCost(t *Tile, seaRoute bool) float64 {
	if seaRoute {
		switch {
		case t.IsSeaRoad:
			return 1
		case t.Type == TileSea:
			return 3
		default:
			return 10000
		}
	}
	if t.IsRoad {
		return 1
	}
	switch t.Type {
	case TileCity:
		return 10
	case TilePlain:
		return 30
	case TileForest:
		return 70
	case TileSand, TileIce:
		return 100
	case TileMountain, TileSwamp:
		return 150
	case TileRiver:
		return 300
	case TileSea:
		return 2000
	default:
		return 100
	}
}

// walkable reports whether a route of the given kind may enter t.
// Land routes never cross the sea and sea routes never leave it.
func walkable(t *Tile, seaRoute bool) bool {
	if seaRoute {
		return t.Type == TileSea
	}
	return t.Type != TileSea
}

// stepCost is the full cost of moving from one tile to an adjacent one.
func stepCost(from, to *Tile, seaRoute bool) float64 {
	c := TileCost(to, seaRoute) + float64(Manhattan(from.Position, to.Position))
	if !seaRoute {
		c += float64(abs(to.Altitude-from.Altitude)) * 100
	}
	return c
}

type openEntry struct {
	idx  int
	f, h float64
}

// FindPath searches for the cheapest route from start to end. Among open
// nodes the lowest F is expanded first, then the lowest H. The boolean is
// false when no route exists, including sea routes whose final cost reaches
// SeaRouteLimit. A search from a cell to itself succeeds with an empty path.
func FindPath(m *Map, start, end Position, seaRoute bool) (Route, bool) {
	if !m.InBounds(start) || !m.InBounds(end) {
		return Route{}, false
	}

	nodes := make([]Node, len(m.Tiles))
	for i := range nodes {
		nodes[i].Position = m.Tiles[i].Position
		nodes[i].Parent = -1
	}
	seen := make([]bool, len(m.Tiles))
	closed := make([]bool, len(m.Tiles))
	index := func(p Position) int { return p.Y*m.Size + p.X }

	open := NewPriorityQueue(func(a, b openEntry) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.h < b.h
	})

	si, ei := index(start), index(end)
	nodes[si].H = Dist(start, end)
	nodes[si].F = nodes[si].H
	seen[si] = true
	open.Push(openEntry{idx: si, f: nodes[si].F, h: nodes[si].H})

	for !open.Empty() {
		e := open.Pop()
		if closed[e.idx] {
			continue // Stale entry superseded by a cheaper one.
		}
		closed[e.idx] = true
		current := &nodes[e.idx]

		if e.idx == ei {
			if seaRoute && current.G >= SeaRouteLimit {
				return Route{}, false
			}
			return Route{Path: retrace(nodes, si, ei), Cost: current.G}, true
		}

		from := &m.Tiles[e.idx]
		for _, nt := range m.Neighbors(current.Position) {
			ni := index(nt.Position)
			if closed[ni] || !walkable(nt, seaRoute) {
				continue
			}
			g := current.G + stepCost(from, nt, seaRoute)
			n := &nodes[ni]
			if seen[ni] && g >= n.G {
				continue
			}
			seen[ni] = true
			n.G = g
			n.H = Dist(nt.Position, end)
			n.F = g + n.H
			n.Parent = e.idx
			open.Push(openEntry{idx: ni, f: n.F, h: n.H})
		}
	}

	return Route{}, false
}

// retrace walks parent links back from the goal, excluding the start.
func retrace(nodes []Node, start, end int) []Position {
	var reversed []Position
	for i := end; i != start; i = nodes[i].Parent {
		reversed = append(reversed, nodes[i].Position)
	}
	path := make([]Position, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path
}
