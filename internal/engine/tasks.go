package engine

import (
	"fmt"

	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// Task names accepted by Handle.
const (
	TaskInit          = "init"
	TaskUpdateCities  = "updateCities"
	TaskSpawnCaravans = "spawnCaravans"
	TaskMoveCaravans  = "moveCaravans"
	TaskTick          = "tick"
	TaskFindPath      = "findPath"
)

// Result types.
const (
	ResultEnd   = "end"
	ResultError = "error"
)

// Request is an instruction to the engine from a host.
type Request struct {
	ID    int             `json:"id"`
	Task  string          `json:"task"`
	Start *world.Position `json:"start,omitempty"` // findPath
	End   *world.Position `json:"end,omitempty"`   // findPath
	Sea   bool            `json:"sea,omitempty"`   // findPath
	Ticks int             `json:"ticks,omitempty"` // tick; default 1
}

// Result answers a Request. Type is "error" for unknown or malformed tasks.
type Result struct {
	ID       int               `json:"id"`
	Type     string            `json:"type"`
	Msg      string            `json:"msg,omitempty"`
	Progress int               `json:"progress"`
	Day      int               `json:"day"`
	Tick     uint64            `json:"tick"`
	Cities   []*social.City    `json:"cities,omitempty"`
	Caravan  *social.Caravan   `json:"caravan,omitempty"`
	Caravans []*social.Caravan `json:"caravans,omitempty"`
	Path     []world.Position  `json:"path,omitempty"`
	Cost     float64           `json:"cost,omitempty"`
}

// Handle runs one task against the world. It never panics on bad input:
// unknown tasks and missing arguments produce an error Result.
func (w *World) Handle(req Request) Result {
	res := Result{ID: req.ID, Type: ResultEnd, Progress: 100}

	switch req.Task {
	case TaskInit:
		w.UpdateCities()
		res.Cities = w.Cities
	case TaskUpdateCities:
		// The economy only runs at the start of a week.
		if w.Day == 0 {
			w.UpdateCities()
		}
		res.Cities = w.Cities
	case TaskSpawnCaravans:
		res.Caravan = w.SpawnCaravan()
	case TaskMoveCaravans:
		w.MoveCaravans()
		res.Caravans = w.Caravans()
	case TaskTick:
		n := req.Ticks
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			w.Step()
		}
		res.Cities = w.Cities
		res.Caravans = w.Caravans()
	case TaskFindPath:
		if req.Start == nil || req.End == nil {
			return errorResult(req, "findPath needs start and end")
		}
		route, ok := world.FindPath(w.Map, *req.Start, *req.End, req.Sea)
		if !ok {
			return errorResult(req, fmt.Sprintf("no path from %v to %v", *req.Start, *req.End))
		}
		res.Path = route.Path
		res.Cost = route.Cost
	default:
		return errorResult(req, fmt.Sprintf("Unknown task %s", req.Task))
	}

	res.Day = w.Day
	res.Tick = w.Tick
	return res
}

func errorResult(req Request, msg string) Result {
	return Result{ID: req.ID, Type: ResultError, Msg: msg, Progress: 100}
}
