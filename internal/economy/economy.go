package economy

// Base values of the weekly city pass.
const (
	BaseAccess       = 5
	BaseStability    = 5
	NationTradeBonus = 3
	StockPerUnit     = 100
	MaxNearRoadBonus = 5

	// MaxPopulation caps growth so repeated multiplication cannot overflow.
	MaxPopulation = 1 << 50
)

// stabilityResources each cost one point of stability when in deficit.
var stabilityResources = []Resource{Food, Metal, Wood, Tools, Machine}

// Access is a city's capacity to receive goods: a base, a bonus for large
// populations and a bonus (or penalty) for the roads leaving it.
func Access(mag, nearRoads int) int {
	return BaseAccess + max(0, mag-4) + min(MaxNearRoadBonus, nearRoads-3)
}

// Needs returns what a city of the given magnitude running industries wants:
// FOOD and GOODS from the population, raised by every industry input.
func Needs(mag int, industries []IndustryName) Ledger {
	needs := Ledger{
		Food:  mag,
		Goods: max(0, mag-3),
	}
	for _, name := range industries {
		ind, ok := LookupIndustry(name)
		if !ok {
			continue
		}
		for _, n := range ind.Needs {
			needs[n.Resource] = max(needs[n.Resource], n.Amount(mag))
		}
	}
	return needs
}

// Offer is one city's view on the market: what it can effectively supply.
type Offer struct {
	Nation     int
	Access     int
	Production Ledger
}

// Supply is the effective amount an offer ships of r: output limited by the
// supplier's access.
func (o Offer) Supply(r Resource) int {
	return min(o.Access, o.Production[r])
}

// BestAvailable is the best effective supply of r across offers, as seen by a
// city of the given nation. Same-nation suppliers get a trade bonus.
func BestAvailable(offers []Offer, nation int, r Resource) int {
	best := 0
	for _, o := range offers {
		v := o.Supply(r)
		if o.Nation == nation {
			v += NationTradeBonus
		}
		best = max(best, v)
	}
	return best
}

// Deficit is the part of need left unmet by access-limited supply.
func Deficit(need, access, best int) int {
	if need > access || need > best {
		return need - min(access, best)
	}
	return 0
}

// Deficits resolves every need of a city against the offers.
func Deficits(needs Ledger, access, nation int, offers []Offer) Ledger {
	deficits := make(Ledger, len(needs))
	for _, r := range needs.Keys() {
		deficits[r] = Deficit(needs[r], access, BestAvailable(offers, nation, r))
	}
	return deficits
}

// Stability rewards a satisfied demand for GOODS and punishes every missing
// staple.
func Stability(deficits Ledger) int {
	s := BaseStability
	if deficits[Goods] == 0 {
		s++
	}
	for _, r := range stabilityResources {
		if deficits[r] > 0 {
			s--
		}
	}
	return s
}

// Growth combines food security, access, stability and the surrounding
// biomes into a population change in tenths.
func Growth(deficits Ledger, access, stability, biomeModifier int) int {
	g := -1
	if deficits[Food] <= 0 {
		g = 1
	}
	g += max(0, access-2)
	g += floorDiv(stability-BaseStability, 2)
	return g + biomeModifier
}

// GrowPopulation applies growth multiplicatively: floor(pop * (1 + growth/10)),
// clamped to [0, MaxPopulation].
func GrowPopulation(population, growth int) int {
	factor := 10 + growth
	if population <= 0 || factor <= 0 {
		return 0
	}
	if population > MaxPopulation/factor*10 {
		return MaxPopulation
	}
	return min(population*factor/10, MaxPopulation)
}

// Produce computes what the industries of a city make this week. The largest
// deficit among an industry's inputs is subtracted from each of its outputs.
func Produce(mag int, industries []IndustryName, deficits Ledger) Ledger {
	production := make(Ledger)
	for _, name := range industries {
		ind, ok := LookupIndustry(name)
		if !ok {
			continue
		}
		shortage := 0
		for _, n := range ind.Needs {
			shortage = max(shortage, deficits[n.Resource])
		}
		for _, p := range ind.Produces {
			production[p.Resource] += max(0, p.Amount(mag)-shortage)
		}
	}
	return production
}

// Restock sets the stock of every produced resource to a full week's
// inventory. Resources not produced keep their current stock.
func Restock(stock, production Ledger) {
	for r, v := range production {
		stock[r] = v * StockPerUnit
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
