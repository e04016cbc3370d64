package social

import (
	"math"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/world"
)

// Caravan defaults.
const (
	CaravanStock   = 500
	CaravanSpeed   = 1.0
	CaravanGuard   = 1
	CaravanStealth = 1
)

// Point is a continuous map position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointAt converts a grid position to a point.
func PointAt(p world.Position) Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// Caravan carries goods along a road between two cities.
type Caravan struct {
	ID       uint64  `json:"id"`
	Route    Road    `json:"route"`
	Progress float64 `json:"progress"` // Nodes travelled along Route.Path
	Ticks    int     `json:"ticks"`
	Position Point   `json:"position"`
	Arrived  bool    `json:"arrived"`

	Outbound economy.Resource `json:"outbound"`
	Return   economy.Resource `json:"return"`
	Stock    int              `json:"stock"`

	Speed   float64 `json:"speed"`
	Guard   int     `json:"guard"`
	Stealth int     `json:"stealth"`
}

// NewCaravan starts a caravan at the head of route.
func NewCaravan(id uint64, route Road, outbound, ret economy.Resource) *Caravan {
	c := &Caravan{
		ID:       id,
		Route:    route,
		Outbound: outbound,
		Return:   ret,
		Stock:    CaravanStock,
		Speed:    CaravanSpeed,
		Guard:    CaravanGuard,
		Stealth:  CaravanStealth,
	}
	if len(route.Path) > 0 {
		c.Position = PointAt(route.Path[0])
	}
	return c
}

// Advance moves the caravan by speed*tickTime nodes. Once progress covers the
// whole path the caravan snaps to dest and reports true. Progress is derived
// from the tick count so it does not drift with repeated float additions.
func (c *Caravan) Advance(tickTime float64, dest world.Position) bool {
	c.Ticks++
	c.Progress = float64(c.Ticks) * c.Speed * tickTime

	last := c.Route.Len()
	if len(c.Route.Path) == 0 || c.Progress >= float64(last) {
		c.Position = PointAt(dest)
		c.Arrived = true
		return true
	}

	i := int(math.Floor(c.Progress))
	frac := c.Progress - float64(i)
	a, b := c.Route.Path[i], c.Route.Path[i+1]
	c.Position = Point{
		X: float64(a.X) + float64(b.X-a.X)*frac,
		Y: float64(a.Y) + float64(b.Y-a.Y)*frac,
	}
	return false
}
