// Package world provides the square tile grid, terrain synthesis, hydrology,
// path finding and settlement scoring.
// The grid is 8-connected and indexed by (x, y) with x growing east.
package world

import "math"

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// neighborOffsets lists the eight surrounding cells, column by column.
// The order is fixed so random picks over neighbours stay reproducible.
var neighborOffsets = [8]Position{
	{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 0, Y: 1},
	{X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
}

// Neighbors returns the eight adjacent coordinates (not bounds checked).
func (p Position) Neighbors() [8]Position {
	var result [8]Position
	for i, off := range neighborOffsets {
		result[i] = Position{X: p.X + off.X, Y: p.Y + off.Y}
	}
	return result
}

// Dist returns the Euclidean distance between two coordinates.
func Dist(a, b Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Chebyshev returns the king-move distance between two coordinates.
func Chebyshev(a, b Position) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Manhattan returns the taxicab distance between two coordinates.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// TileType is the biome of a tile.
type TileType uint8

const (
	TilePlain    TileType = iota + 1 // Farmland, cattle and horses
	TileMountain                     // Stone and metal, costly to cross
	TileSea                          // Only sea routes pass here
	TileForest                       // Timber
	TileSwamp                        // Slows roads, hurts growth
	TileIce                          // Cold wastes
	TileSand                         // Shores and deserts
	TileCity                         // Settled tile
	TileRiver                        // Traced watercourse
)

// AllTileTypes lists every biome in declaration order.
var AllTileTypes = []TileType{
	TilePlain, TileMountain, TileSea, TileForest, TileSwamp,
	TileIce, TileSand, TileCity, TileRiver,
}

// String returns a human-readable name for a tile type.
func (t TileType) String() string {
	switch t {
	case TilePlain:
		return "Plain"
	case TileMountain:
		return "Mountain"
	case TileSea:
		return "Sea"
	case TileForest:
		return "Forest"
	case TileSwamp:
		return "Swamp"
	case TileIce:
		return "Ice"
	case TileSand:
		return "Sand"
	case TileCity:
		return "City"
	case TileRiver:
		return "River"
	default:
		return "Unknown"
	}
}

// NoRegion marks a tile not yet claimed by any city.
const NoRegion = -1

// Tile is one grid cell.
type Tile struct {
	Position Position `json:"position"`
	Type     TileType `json:"type"`
	Altitude int      `json:"altitude"` // 0..255

	// Hydrology.
	WaterFlow int    `json:"water_flow"`
	RiverName string `json:"river_name,omitempty"`
	WasHole   bool   `json:"was_hole"`

	// Transport network, set by the road builder.
	IsRoad    bool `json:"is_road"`
	IsSeaRoad bool `json:"is_sea_road"`

	// Political partition. Region indexes the world's city list.
	Region     int  `json:"region"`
	IsFrontier bool `json:"is_frontier"`
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
