package engine

import (
	"testing"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// tradingPair returns two linked cities of different nations: a farm town and
// a smithy.
func tradingPair(t *testing.T) *World {
	t.Helper()
	w := flatWorld(t, 20, world.Position{X: 3, Y: 10}, world.Position{X: 12, Y: 10})
	w.Cities[0].Nation = 0
	w.Cities[1].Nation = 1
	w.Cities[1].Industries = []economy.IndustryName{economy.Blacksmith}
	w.Cities[1].Population = 10000
	w.buildRoads()
	return w
}

func TestUpdateCities(t *testing.T) {
	w := tradingPair(t)
	w.UpdateCities()

	farm, smith := w.Cities[0], w.Cities[1]
	// One road each: 5 + max(0, mag-4) + (1-3).
	if farm.Access != 3 || smith.Access != 3 {
		t.Fatalf("access = %d, %d; want 3", farm.Access, smith.Access)
	}
	if farm.Needs[economy.Food] != 3 || farm.Needs[economy.Goods] != 0 {
		t.Errorf("farm needs = %v", farm.Needs)
	}
	// The farm's own food, min(3, 5) plus the same-nation bonus, feeds it.
	if farm.Deficits[economy.Food] != 0 {
		t.Errorf("farm food deficit = %d", farm.Deficits[economy.Food])
	}
	// Fed, stability 6, growth 1 + 1 + 0.
	if farm.Population != 1200 || farm.Production[economy.Food] != 5 {
		t.Errorf("farm population %d, food %d; want 1200, 5", farm.Population, farm.Production[economy.Food])
	}

	// The smith needs 4 metal and 4 food but no supplier reaches past 3.
	if smith.Deficits[economy.Metal] != 1 || smith.Deficits[economy.Food] != 1 {
		t.Errorf("smith deficits = %v", smith.Deficits)
	}
	// Stability 4, growth -1 + 1 - 1: the smith shrinks to magnitude 3 and
	// its tools suffer the metal shortage.
	if smith.Stability != 4 || smith.Growth != -1 || smith.Population != 9000 {
		t.Errorf("smith stability %d growth %d population %d", smith.Stability, smith.Growth, smith.Population)
	}
	if smith.Production[economy.Tools] != 2 {
		t.Errorf("smith tools = %d, want 2", smith.Production[economy.Tools])
	}
	if got, want := farm.Resources[economy.Food], farm.Production[economy.Food]*economy.StockPerUnit; got != want {
		t.Errorf("farm stock = %d, want %d", got, want)
	}
	if w.Stats.TotalPopulation != farm.Population+smith.Population {
		t.Errorf("stats population = %d", w.Stats.TotalPopulation)
	}
}

func TestUpdateCitiesUsesSnapshot(t *testing.T) {
	// The same two cities resolved in either order reach the same result.
	forward := tradingPair(t)
	reversed := tradingPair(t)
	reversed.Cities[0], reversed.Cities[1] = reversed.Cities[1], reversed.Cities[0]

	forward.UpdateCities()
	reversed.UpdateCities()

	for _, c := range forward.Cities {
		var twin *social.City
		for _, r := range reversed.Cities {
			if r.ID == c.ID {
				twin = r
			}
		}
		if c.Population != twin.Population || c.Deficits.JSON() != twin.Deficits.JSON() || c.Production.JSON() != twin.Production.JSON() {
			t.Errorf("city %d depends on resolution order: %+v vs %+v", c.ID, c, twin)
		}
	}
}

func TestStepRunsWeekly(t *testing.T) {
	w := tradingPair(t)
	w.UpdateCities()
	pop := w.Cities[0].Population

	for i := 0; i < w.Config.DaysPerWeek-1; i++ {
		w.Step()
		if w.Cities[0].Population != pop {
			t.Fatalf("economy ran mid-week on day %d", w.Day)
		}
	}
	w.Step()
	if w.Day != 0 || w.Week != 1 {
		t.Fatalf("day %d week %d after a full week", w.Day, w.Week)
	}
	if w.Tick != uint64(w.Config.DaysPerWeek) {
		t.Errorf("tick = %d", w.Tick)
	}
}
