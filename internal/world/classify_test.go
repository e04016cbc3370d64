package world

import "testing"

func TestClassifyOrder(t *testing.T) {
	const sea, mountain = 90, 200
	tests := []struct {
		name        string
		alt         int
		temp, humid float64
		want        TileType
	}{
		{"mountain beats climate", 201, 0.9, 0.9, TileMountain},
		{"at mountain level is not mountain", 200, 0.5, 0.2, TilePlain},
		{"sea", 89, 0.9, 0.9, TileSea},
		{"shore band", 95, 0.1, 0.9, TileSand},
		{"first land above shore", 96, 0.5, 0.2, TilePlain},
		{"hot and wet", 120, 0.8, 0.6, TileSwamp},
		{"hot and dry", 120, 0.8, 0.5, TileSand},
		{"temperate and wet", 120, 0.5, 0.51, TileForest},
		{"cold and wet is forest", 120, 0.1, 0.9, TileForest},
		{"cold and dry", 120, 0.3, 0.2, TileIce},
		{"temperate and dry", 120, 0.31, 0.5, TilePlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.alt, tt.temp, tt.humid, sea, mountain); got != tt.want {
				t.Errorf("Classify(%d, %.2f, %.2f) = %s, want %s", tt.alt, tt.temp, tt.humid, got, tt.want)
			}
		})
	}
}

func TestAltitudeFromElevation(t *testing.T) {
	if got := AltitudeFromElevation(1); got != 255 {
		t.Errorf("AltitudeFromElevation(1) = %d", got)
	}
	if got := AltitudeFromElevation(0); got != 0 {
		t.Errorf("AltitudeFromElevation(0) = %d", got)
	}
	if got := AltitudeFromElevation(0.5); got != 127 {
		t.Errorf("AltitudeFromElevation(0.5) = %d", got)
	}
}
