package world

// ShoreBand is the altitude band above sea level that is always sand.
const ShoreBand = 6

// Classify derives the biome of a cell. The checks run in order and the
// first match wins; the later climate rules only apply to land that is
// neither mountain, sea nor shore.
func Classify(altitude int, temperature, humidity float64, seaLevel, mountainLevel int) TileType {
	switch {
	case altitude > mountainLevel:
		return TileMountain
	case altitude < seaLevel:
		return TileSea
	case altitude < seaLevel+ShoreBand:
		return TileSand
	case temperature > 0.7 && humidity > 0.5:
		return TileSwamp
	case temperature > 0.7 && humidity <= 0.5:
		return TileSand
	case temperature <= 0.7 && humidity > 0.5:
		return TileForest
	case temperature <= 0.3:
		return TileIce
	default:
		return TilePlain
	}
}

// AltitudeFromElevation maps a normalized elevation to the 0..255 altitude scale.
func AltitudeFromElevation(e float64) int {
	a := int(e * 255)
	if a < 0 {
		return 0
	}
	if a > 255 {
		return 255
	}
	return a
}
