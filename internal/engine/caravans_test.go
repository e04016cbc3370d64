package engine

import (
	"testing"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/social"
)

func TestSpawnCaravanTradesSurplus(t *testing.T) {
	w := tradingPair(t)
	farm, smith := w.Cities[0], w.Cities[1]
	farm.Access, smith.Access = 1, 0
	farm.Production = economy.Ledger{economy.Food: 4}
	farm.Needs = economy.Ledger{economy.Tools: 1}
	smith.Needs = economy.Ledger{economy.Food: 2}
	smith.Production = economy.Ledger{economy.Tools: 3}

	cv := w.SpawnCaravan()
	if cv == nil {
		t.Fatal("no caravan spawned")
	}
	if cv.Outbound != economy.Food || cv.Return != economy.Tools {
		t.Errorf("caravan carries %s, returns %s", cv.Outbound, cv.Return)
	}
	if cv.Route.From != farm.ID || cv.Route.To != smith.ID {
		t.Errorf("route %d -> %d", cv.Route.From, cv.Route.To)
	}
	if cv.Stock != social.CaravanStock || cv.Speed != social.CaravanSpeed {
		t.Errorf("caravan = %+v", cv)
	}
	if len(farm.Caravans) != 1 {
		t.Fatalf("farm has %d caravans", len(farm.Caravans))
	}

	// At capacity: nothing else can leave.
	if again := w.SpawnCaravan(); again != nil {
		t.Errorf("spawned past capacity: %+v", again)
	}
}

func TestSpawnCaravanFallsBackToOwnNeeds(t *testing.T) {
	w := tradingPair(t)
	farm, smith := w.Cities[0], w.Cities[1]
	farm.Access, smith.Access = 1, 0
	farm.Production = economy.Ledger{}
	farm.Needs = economy.Ledger{economy.Stone: 2}
	smith.Needs = economy.Ledger{}

	cv := w.SpawnCaravan()
	if cv == nil {
		t.Fatal("no caravan spawned")
	}
	if cv.Outbound != economy.Stone || cv.Route.To != smith.ID {
		t.Errorf("fallback caravan = %s to %d", cv.Outbound, cv.Route.To)
	}
}

func TestSpawnCaravanNoCandidate(t *testing.T) {
	w := flatWorld(t, 10)
	if cv := w.SpawnCaravan(); cv != nil {
		t.Fatalf("spawned %+v in an empty world", cv)
	}
	w = tradingPair(t)
	for _, c := range w.Cities {
		c.Access = 0
	}
	if cv := w.SpawnCaravan(); cv != nil {
		t.Fatalf("spawned %+v with no capacity", cv)
	}
}

func TestMoveCaravansDelivers(t *testing.T) {
	w := tradingPair(t)
	farm, smith := w.Cities[0], w.Cities[1]
	farm.Access, smith.Access = 1, 0
	farm.Production = economy.Ledger{economy.Food: 4}
	smith.Needs = economy.Ledger{economy.Food: 2}
	cv := w.SpawnCaravan()
	if cv == nil {
		t.Fatal("no caravan spawned")
	}

	before := smith.Resources[economy.Food]
	var arrived []*social.Caravan
	for i := 0; i < 200 && len(arrived) == 0; i++ {
		arrived = w.MoveCaravans()
		if len(arrived) == 0 {
			// Position stays on the road between two consecutive nodes.
			k := int(cv.Progress)
			a, b := cv.Route.Path[k], cv.Route.Path[k+1]
			if cv.Position.X < float64(min(a.X, b.X)) || cv.Position.X > float64(max(a.X, b.X)) {
				t.Fatalf("caravan at %+v off segment %v-%v", cv.Position, a, b)
			}
		}
	}
	if len(arrived) != 1 || arrived[0] != cv {
		t.Fatalf("arrived = %v", arrived)
	}
	if cv.Position != social.PointAt(smith.Position) {
		t.Errorf("caravan stopped at %+v, want %v", cv.Position, smith.Position)
	}
	if got := smith.Resources[economy.Food]; got != before+social.CaravanStock {
		t.Errorf("smith food stock = %d, want %d", got, before+social.CaravanStock)
	}
	if len(farm.Caravans) != 0 {
		t.Errorf("delivered caravan still listed")
	}
	if w.Stats.Deliveries != 1 || w.Stats.Delivered != social.CaravanStock {
		t.Errorf("stats = %+v", w.Stats)
	}
}
