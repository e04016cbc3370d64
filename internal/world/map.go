package world

import "fmt"

// Map holds the complete square tile grid.
type Map struct {
	Tiles []Tile `json:"tiles"` // Row-major: index = y*Size + x
	Size  int    `json:"size"`
}

// NewMap creates a size x size map of plain tiles at altitude 0 with no region.
func NewMap(size int) *Map {
	m := &Map{
		Tiles: make([]Tile, size*size),
		Size:  size,
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			t := &m.Tiles[y*size+x]
			t.Position = Position{X: x, Y: y}
			t.Type = TilePlain
			t.Region = NoRegion
		}
	}
	return m
}

// Get returns the tile at the given coordinate, or nil if out of bounds.
func (m *Map) Get(p Position) *Tile {
	if !m.InBounds(p) {
		return nil
	}
	return &m.Tiles[p.Y*m.Size+p.X]
}

// InBounds returns true if the coordinate lies on the grid.
func (m *Map) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Size && p.Y < m.Size
}

// OnBorder returns true for tiles in the outermost ring of the grid.
func (m *Map) OnBorder(p Position) bool {
	return p.X == 0 || p.Y == 0 || p.X == m.Size-1 || p.Y == m.Size-1
}

// Neighbors returns the in-bounds tiles around p, in fixed order.
func (m *Map) Neighbors(p Position) []*Tile {
	result := make([]*Tile, 0, 8)
	for _, n := range p.Neighbors() {
		if t := m.Get(n); t != nil {
			result = append(result, t)
		}
	}
	return result
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(size=%d, tiles=%d)", m.Size, m.TileCount())
}

// TypeCounts returns a summary of biome distribution.
func TypeCounts(m *Map) map[TileType]int {
	counts := make(map[TileType]int)
	for i := range m.Tiles {
		counts[m.Tiles[i].Type]++
	}
	return counts
}

// ScanResult lists what surrounds a position.
type ScanResult struct {
	Rivers []string   // Distinct river names, in discovery order
	Biomes []TileType // Distinct biomes, in discovery order
}

// HasBiome reports whether the scan found the given biome.
func (s ScanResult) HasBiome(t TileType) bool {
	for _, b := range s.Biomes {
		if b == t {
			return true
		}
	}
	return false
}

// ScanAround collects distinct biomes and named rivers in the square of the
// given radius centred on p (inclusive, clipped to the grid).
func ScanAround(m *Map, p Position, radius int) ScanResult {
	var res ScanResult
	seenRiver := make(map[string]bool)
	seenBiome := make(map[TileType]bool)
	for x := p.X - radius; x <= p.X+radius; x++ {
		for y := p.Y - radius; y <= p.Y+radius; y++ {
			t := m.Get(Position{X: x, Y: y})
			if t == nil {
				continue
			}
			if !seenBiome[t.Type] {
				seenBiome[t.Type] = true
				res.Biomes = append(res.Biomes, t.Type)
			}
			if t.RiverName != "" && !seenRiver[t.RiverName] {
				seenRiver[t.RiverName] = true
				res.Rivers = append(res.Rivers, t.RiverName)
			}
		}
	}
	return res
}

// ClosestOfType returns the nearest tile of the given type within radius of p
// (Euclidean, first found on ties), or nil.
func ClosestOfType(m *Map, p Position, t TileType, radius int) *Tile {
	var best *Tile
	bestDist := 0.0
	for x := p.X - radius; x <= p.X+radius; x++ {
		for y := p.Y - radius; y <= p.Y+radius; y++ {
			tile := m.Get(Position{X: x, Y: y})
			if tile == nil || tile.Type != t {
				continue
			}
			d := Dist(p, tile.Position)
			if best == nil || d < bestDist {
				best = tile
				bestDist = d
			}
		}
	}
	return best
}
