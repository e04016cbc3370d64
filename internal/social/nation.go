package social

import (
	"github.com/talgya/caravan-world/internal/names"
)

// NationID indexes World.Nations.
type NationID = int

// NoNation marks a city not yet assigned to a nation.
const NoNation NationID = -1

// NationColors is the palette nations are coloured from, in order.
var NationColors = []Color{
	{30, 255, 30},
	{255, 255, 30},
	{30, 255, 255},
	{255, 30, 255},
	{255, 30, 30},
	{30, 30, 255},
}

// Nation is a political entity owning a set of cities.
type Nation struct {
	ID      NationID `json:"id"`
	Name    string   `json:"name"`
	Color   Color    `json:"color"`
	Capital CityID   `json:"capital"`

	// Language names the nation's cities and rivers. Display only.
	Language names.Namer `json:"-"`
}

// NationColor returns the palette colour for the i-th nation, cycling.
func NationColor(i int) Color {
	return NationColors[i%len(NationColors)]
}

// Namer returns the nation's name generator, nil when it has none.
func (n *Nation) Namer() names.Namer {
	if n == nil {
		return nil
	}
	return n.Language
}
