// Settlement placement: scores every tile and picks city sites one at a time.
package world

// Placement tuning.
const (
	CityScoreRadius = 3   // Scan radius for rivers and biome diversity
	EmptyBorder     = 0.2 // Fraction of the map on each side kept free of cities
	noCityDistance  = 100000.0
)

// CityCount returns how many cities a map of the given size receives.
func CityCount(size int) int {
	return size * 5 / 64
}

// CityScore evaluates how desirable a tile is for a new city given the
// positions of the cities already placed. Excluded tiles (existing city,
// sea, border band) score 0 and report false.
// Prefers: distance from other cities, rivers nearby, biome diversity.
func CityScore(m *Map, p Position, cities []Position) (float64, bool) {
	t := m.Get(p)
	if t == nil || t.Type == TileCity || t.Type == TileSea {
		return 0, false
	}
	lo := float64(m.Size) * EmptyBorder
	hi := float64(m.Size) * (1 - EmptyBorder)
	if float64(p.X) < lo || float64(p.X) > hi || float64(p.Y) < lo || float64(p.Y) > hi {
		return 0, false
	}

	minDist := noCityDistance
	for _, c := range cities {
		if d := Dist(p, c); d < minDist {
			minDist = d
		}
	}

	scan := ScanAround(m, p, CityScoreRadius)
	return minDist*2 + float64(len(scan.Rivers))*10 + float64(len(scan.Biomes))*10, true
}

// PickCitySite scans the whole grid (x outer, y inner) and returns the
// highest scoring tile; the first maximum wins. False when no tile is eligible.
func PickCitySite(m *Map, cities []Position) (Position, bool) {
	var best Position
	bestScore := 0.0
	found := false
	for x := 0; x < m.Size; x++ {
		for y := 0; y < m.Size; y++ {
			p := Position{X: x, Y: y}
			score, ok := CityScore(m, p, cities)
			if !ok {
				continue
			}
			if !found || score > bestScore {
				best = p
				bestScore = score
				found = true
			}
		}
	}
	return best, found
}
