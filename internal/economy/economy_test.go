package economy

import (
	"testing"

	"github.com/talgya/caravan-world/internal/world"
)

func TestMagnitude(t *testing.T) {
	tests := []struct {
		pop, want int
	}{
		{0, 0}, {1, 0}, {9, 0}, {10, 1}, {99, 1}, {100, 2}, {150000, 5}, {999999, 5},
	}
	for _, tt := range tests {
		if got := Magnitude(tt.pop); got != tt.want {
			t.Errorf("Magnitude(%d) = %d, want %d", tt.pop, got, tt.want)
		}
	}
}

func TestAccess(t *testing.T) {
	tests := []struct {
		mag, roads, want int
	}{
		{2, 3, 5},
		{5, 3, 6},
		{2, 0, 2},
		{6, 20, 12},
	}
	for _, tt := range tests {
		if got := Access(tt.mag, tt.roads); got != tt.want {
			t.Errorf("Access(%d, %d) = %d, want %d", tt.mag, tt.roads, got, tt.want)
		}
	}
}

func TestNeedsTakesMaximum(t *testing.T) {
	needs := Needs(4, []IndustryName{Blacksmith, Ranch})
	want := Ledger{Food: 4, Goods: 1, Metal: 4, Wood: 2}
	for r, v := range want {
		if needs[r] != v {
			t.Errorf("need %s = %d, want %d", r, needs[r], v)
		}
	}
	if len(needs) != len(want) {
		t.Errorf("needs = %v", needs)
	}
}

func TestDeficitMonotonic(t *testing.T) {
	for access := 0; access < 8; access++ {
		for best := 0; best < 8; best++ {
			prev := Deficit(0, access, best)
			for need := 1; need < 12; need++ {
				d := Deficit(need, access, best)
				if d < prev {
					t.Fatalf("deficit fell from %d to %d raising need to %d (access %d, best %d)", prev, d, need, access, best)
				}
				if d < 0 {
					t.Fatalf("negative deficit %d", d)
				}
				prev = d
			}
		}
	}
}

func TestDeficitsUseNationBonus(t *testing.T) {
	offers := []Offer{
		{Nation: 1, Access: 5, Production: Ledger{Metal: 3}},
		{Nation: 2, Access: 2, Production: Ledger{Metal: 9}},
	}
	needs := Ledger{Metal: 5}
	if d := Deficits(needs, 5, 1, offers)[Metal]; d != 0 {
		t.Errorf("same-nation deficit = %d, want 0", d)
	}
	// Foreign view: best is max(3, 2) = 3, deficit 5-3.
	if d := Deficits(needs, 5, 3, offers)[Metal]; d != 2 {
		t.Errorf("foreign deficit = %d, want 2", d)
	}
}

func TestStability(t *testing.T) {
	tests := []struct {
		name     string
		deficits Ledger
		want     int
	}{
		{"content", Ledger{}, 6},
		{"goods missing", Ledger{Goods: 1}, 5},
		{"staples missing", Ledger{Food: 1, Metal: 2, Goods: 1}, 3},
		{"everything missing", Ledger{Food: 1, Metal: 1, Wood: 1, Tools: 1, Machine: 1, Goods: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stability(tt.deficits); got != tt.want {
				t.Errorf("Stability = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrowth(t *testing.T) {
	// Fed, access 5, stability 6: 1 + 3 + 0.
	if g := Growth(Ledger{}, 5, 6, 0); g != 4 {
		t.Errorf("growth = %d, want 4", g)
	}
	// Starving, access 2, stability 2: -1 + 0 + floor(-3/2) - 1.
	if g := Growth(Ledger{Food: 3}, 2, 2, -1); g != -4 {
		t.Errorf("growth = %d, want -4", g)
	}
}

func TestGrowPopulation(t *testing.T) {
	tests := []struct {
		pop, growth, want int
	}{
		{1000, 0, 1000},
		{1000, 3, 1300},
		{999, 1, 1098},
		{1000, -5, 500},
		{1000, -10, 0},
		{1000, -14, 0},
		{MaxPopulation, 5, MaxPopulation},
	}
	for _, tt := range tests {
		if got := GrowPopulation(tt.pop, tt.growth); got != tt.want {
			t.Errorf("GrowPopulation(%d, %d) = %d, want %d", tt.pop, tt.growth, got, tt.want)
		}
	}
}

func TestZeroGrowthKeepsPopulation(t *testing.T) {
	// No deficits, access 2 and stability 4 give growth 1 + 0 - 1 = 0.
	g := Growth(Ledger{}, 2, 4, 0)
	if g != 0 {
		t.Fatalf("growth = %d, want 0", g)
	}
	for _, pop := range []int{100, 4321, 250000} {
		if got := GrowPopulation(pop, g); got != pop {
			t.Errorf("population %d changed to %d", pop, got)
		}
	}
}

func TestProduceShortage(t *testing.T) {
	industries := []IndustryName{Blacksmith, Farm}
	full := Produce(4, industries, Ledger{})
	if full[Tools] != 4 || full[Food] != 6 {
		t.Fatalf("unconstrained production = %v", full)
	}
	short := Produce(4, industries, Ledger{Metal: 1, Wood: 3})
	if short[Tools] != 1 {
		t.Errorf("tools with shortage 3 = %d, want 1", short[Tools])
	}
	if short[Food] != 6 {
		t.Errorf("farm without inputs affected: %d", short[Food])
	}
	starved := Produce(4, industries, Ledger{Metal: 10})
	if starved[Tools] != 0 {
		t.Errorf("production below zero not floored: %d", starved[Tools])
	}
}

func TestRestock(t *testing.T) {
	stock := Ledger{Wood: 7, Food: 900}
	Restock(stock, Ledger{Food: 3, Tools: 0})
	if stock[Food] != 300 || stock[Tools] != 0 || stock[Wood] != 7 {
		t.Errorf("stock = %v", stock)
	}
}

func TestAvailableIndustries(t *testing.T) {
	got := AvailableIndustries([]world.TileType{world.TileSea, world.TileMountain, world.TileForest})
	want := []IndustryName{Quarry, Mine, Woodcutting, Blacksmith, Machinery, Workshop}
	if len(got) != len(want) {
		t.Fatalf("industries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("industries = %v, want %v", got, want)
		}
	}
	for _, name := range IndustryNames() {
		if _, ok := LookupIndustry(name); !ok {
			t.Errorf("industry %s missing from registry", name)
		}
	}
}

func TestResourceText(t *testing.T) {
	for _, r := range AllResources {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Resource
		if err := back.UnmarshalText(b); err != nil || back != r {
			t.Errorf("%s round trip = %v, %v", r, back, err)
		}
	}
	if _, err := ParseResource("gold"); err == nil {
		t.Error("unknown resource parsed")
	}
	if got := (Ledger{Food: 2, Wood: 1}).JSON(); got != `{"FOOD":2,"WOOD":1}` {
		t.Errorf("JSON = %s", got)
	}
}

func TestLedgerTotal(t *testing.T) {
	l := Ledger{Food: 2, Metal: 1, Goods: 0}
	if got := l.Total(); got != 3 {
		t.Errorf("Total = %d, want 3", got)
	}
	if got := (Ledger{}).Total(); got != 0 {
		t.Errorf("empty Total = %d", got)
	}
}
