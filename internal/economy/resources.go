// Package economy provides commodities, industry rules and the per-city
// weekly economy formulas (access, needs, deficits, stability, growth,
// production).
package economy

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Resource is a commodity kind.
type Resource uint8

const (
	Wood    Resource = iota + 1 // From forests
	Stone                       // From mountains
	Metal                       // Smelted from mountain ore
	Food                        // Farms; every city eats
	Cattle                      // Herds on plains
	Horse                       // Draft and riding animals
	Cotton                      // Fibre for goods
	Tools                       // Blacksmith output
	Machine                     // Machinery output
	Goods                       // Finished consumer goods; larger cities want them
)

// AllResources lists every commodity in declaration order.
var AllResources = []Resource{Wood, Stone, Metal, Food, Cattle, Horse, Cotton, Tools, Machine, Goods}

var resourceNames = map[Resource]string{
	Wood:    "WOOD",
	Stone:   "STONE",
	Metal:   "METAL",
	Food:    "FOOD",
	Cattle:  "CATTLE",
	Horse:   "HORSE",
	Cotton:  "COTTON",
	Tools:   "TOOLS",
	Machine: "MACHINE",
	Goods:   "GOODS",
}

// NoResource is the zero Resource, used where a slot is empty.
const NoResource Resource = 0

// String returns the upper-case commodity name.
func (r Resource) String() string {
	if r == NoResource {
		return "NONE"
	}
	if name, ok := resourceNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Resource(%d)", uint8(r))
}

// ParseResource resolves a commodity name, case-insensitively.
func ParseResource(s string) (Resource, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if up == "NONE" || up == "" {
		return NoResource, nil
	}
	for r, name := range resourceNames {
		if name == up {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

// MarshalText encodes the resource by name, so ledgers serialise as JSON objects.
func (r Resource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a resource name.
func (r *Resource) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Ledger maps commodities to quantities. Missing entries read as zero.
type Ledger map[Resource]int

// Has reports whether r has an entry, even a zero one.
func (l Ledger) Has(r Resource) bool {
	_, ok := l[r]
	return ok
}

// Keys returns the resources with an entry, in declaration order.
func (l Ledger) Keys() []Resource {
	keys := make([]Resource, 0, len(l))
	for r := range l {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Positive returns the resources with a quantity above zero, in declaration order.
func (l Ledger) Positive() []Resource {
	var keys []Resource
	for _, r := range l.Keys() {
		if l[r] > 0 {
			keys = append(keys, r)
		}
	}
	return keys
}

// Total sums every quantity.
func (l Ledger) Total() int {
	total := 0
	for _, v := range l {
		total += v
	}
	return total
}

// JSON renders the ledger as a compact JSON object keyed by resource name.
func (l Ledger) JSON() string {
	b, err := json.Marshal(l)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Magnitude is the population order of magnitude: floor(log10(population)).
// Populations below 1 have magnitude 0.
func Magnitude(population int) int {
	if population < 1 {
		return 0
	}
	return int(math.Floor(math.Log10(float64(population))))
}
