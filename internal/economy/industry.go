package economy

import (
	"github.com/talgya/caravan-world/internal/world"
)

// IndustryName identifies an industry in the registry.
type IndustryName string

const (
	Woodcutting IndustryName = "Woodcutting"
	Quarry      IndustryName = "Stone"
	Mine        IndustryName = "Metal"
	Farm        IndustryName = "Farm"
	Ranch       IndustryName = "Cattle"
	Stud        IndustryName = "Horse"
	Plantation  IndustryName = "Cotton"
	Blacksmith  IndustryName = "Blacksmith"
	Machinery   IndustryName = "Machinery"
	Workshop    IndustryName = "Goods"
)

// MagnitudeFunc maps a city's population magnitude to a quantity.
type MagnitudeFunc func(mag int) int

// Flow is one input or output of an industry.
type Flow struct {
	Resource Resource
	Amount   MagnitudeFunc
}

// Industry is a production rule: what it consumes and what it makes.
type Industry struct {
	Name     IndustryName
	Needs    []Flow
	Produces []Flow
}

func linear(offset int) MagnitudeFunc {
	return func(mag int) int {
		if v := mag + offset; v > 0 {
			return v
		}
		return 0
	}
}

func halved(mag int) int { return mag / 2 }

// registry holds the shared, immutable industry definitions.
var registry = map[IndustryName]Industry{
	Woodcutting: {Name: Woodcutting, Produces: []Flow{{Wood, linear(2)}}},
	Quarry: {
		Name:     Quarry,
		Needs:    []Flow{{Tools, halved}},
		Produces: []Flow{{Stone, linear(1)}},
	},
	Mine: {
		Name:     Mine,
		Needs:    []Flow{{Tools, halved}, {Wood, halved}},
		Produces: []Flow{{Metal, linear(1)}},
	},
	Farm: {Name: Farm, Produces: []Flow{{Food, linear(2)}}},
	Ranch: {
		Name:     Ranch,
		Needs:    []Flow{{Food, halved}},
		Produces: []Flow{{Cattle, linear(0)}},
	},
	Stud: {
		Name:     Stud,
		Needs:    []Flow{{Food, halved}},
		Produces: []Flow{{Horse, linear(0)}},
	},
	Plantation: {Name: Plantation, Produces: []Flow{{Cotton, linear(1)}}},
	Blacksmith: {
		Name:     Blacksmith,
		Needs:    []Flow{{Metal, linear(0)}, {Wood, halved}},
		Produces: []Flow{{Tools, linear(0)}},
	},
	Machinery: {
		Name:     Machinery,
		Needs:    []Flow{{Metal, linear(0)}, {Tools, halved}},
		Produces: []Flow{{Machine, linear(-1)}},
	},
	Workshop: {
		Name:     Workshop,
		Needs:    []Flow{{Cotton, linear(0)}, {Wood, halved}, {Cattle, halved}},
		Produces: []Flow{{Goods, linear(0)}},
	},
}

// LookupIndustry returns the definition of a named industry.
func LookupIndustry(name IndustryName) (Industry, bool) {
	ind, ok := registry[name]
	return ind, ok
}

// IndustryNames lists every registered industry.
func IndustryNames() []IndustryName {
	return []IndustryName{
		Woodcutting, Quarry, Mine, Farm, Ranch, Stud, Plantation,
		Blacksmith, Machinery, Workshop,
	}
}

// AvailableIndustries returns the industries a site can run given the biomes
// around it: one entry per biome-backed industry, followed by the crafts every
// city can take up.
func AvailableIndustries(biomes []world.TileType) []IndustryName {
	var available []IndustryName
	for _, b := range biomes {
		switch b {
		case world.TileForest:
			available = append(available, Woodcutting)
		case world.TileMountain:
			available = append(available, Quarry, Mine)
		case world.TilePlain:
			available = append(available, Farm, Ranch, Stud, Plantation)
		}
	}
	return append(available, Blacksmith, Machinery, Workshop)
}

// Output returns what an industry makes at a magnitude, ignoring shortages.
func (ind Industry) Output(mag int) Ledger {
	out := make(Ledger, len(ind.Produces))
	for _, p := range ind.Produces {
		out[p.Resource] = p.Amount(mag)
	}
	return out
}
