package social

import "github.com/talgya/caravan-world/internal/world"

// Road is a directed link between two cities. Path runs from the origin
// (city or port) to the destination, both ends included.
type Road struct {
	From CityID           `json:"from"`
	To   CityID           `json:"to"`
	Path []world.Position `json:"path"`
	Cost float64          `json:"cost"`
	Sea  bool             `json:"sea"`
}

// Reversed returns the same road travelled the other way.
func (r Road) Reversed() Road {
	path := make([]world.Position, len(r.Path))
	for i, p := range r.Path {
		path[len(r.Path)-1-i] = p
	}
	return Road{From: r.To, To: r.From, Path: path, Cost: r.Cost, Sea: r.Sea}
}

// Len is the number of segments along the path.
func (r Road) Len() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}
