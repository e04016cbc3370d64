// Package api provides the HTTP API for observing and driving a world.
// GET endpoints are public and read-only.
// POST endpoints require a bearer token when an admin key is configured.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/talgya/caravan-world/internal/engine"
	"github.com/talgya/caravan-world/internal/persistence"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// Server serves a running world over HTTP. Every handler takes Eng.Lock
// before touching the world, so requests interleave safely with ticks.
type Server struct {
	Eng      *engine.Engine
	DB       *persistence.DB // Optional; snapshots are disabled without it
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST open.

	// GenerateLimiter throttles world regeneration. Nil uses 5 per hour.
	GenerateLimiter *RateLimiter
	// TrustForwarded keys the default limiter by X-Forwarded-For.
	TrustForwarded bool

	srv *http.Server
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	limiter := s.GenerateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(5, time.Hour)
		limiter.TrustForwarded = s.TrustForwarded
	}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	v1.HandleFunc("/cities", s.handleCities).Methods(http.MethodGet)
	v1.HandleFunc("/cities/{id:[0-9]+}", s.handleCityDetail).Methods(http.MethodGet)
	v1.HandleFunc("/nations", s.handleNations).Methods(http.MethodGet)
	v1.HandleFunc("/caravans", s.handleCaravans).Methods(http.MethodGet)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/map", s.handleMap).Methods(http.MethodGet)
	v1.HandleFunc("/path", s.handlePath).Methods(http.MethodGet)

	admin := v1.NewRoute().Subrouter()
	admin.Use(s.adminOnly)
	admin.HandleFunc("/task", s.handleTask).Methods(http.MethodPost)
	admin.HandleFunc("/speed", s.handleSpeed).Methods(http.MethodPost)
	admin.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodPost)
	admin.Handle("/generate", limiter.Middleware(http.HandlerFunc(s.handleGenerate))).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// locked runs fn with the engine lock held.
func (s *Server) locked(fn func(w *engine.World)) {
	s.Eng.Lock.Lock()
	defer s.Eng.Lock.Unlock()
	fn(s.Eng.World)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.locked(func(wd *engine.World) {
		status = map[string]any{
			"id":         wd.ID,
			"seed":       wd.Seed,
			"size":       wd.Map.Size,
			"tick":       wd.Tick,
			"day":        wd.Day,
			"week":       wd.Week,
			"sim_time":   engine.SimTime(wd.Tick, wd.Config.DaysPerWeek),
			"speed":      s.Eng.Speed,
			"cities":     len(wd.Cities),
			"nations":    len(wd.Nations),
			"population": wd.Stats.TotalPopulation,
			"caravans":   wd.Stats.ActiveCaravans,
		}
	})
	writeJSON(w, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats engine.Stats
	s.locked(func(wd *engine.World) { stats = wd.Stats })
	writeJSON(w, stats)
}

type citySummary struct {
	ID         social.CityID   `json:"id"`
	Name       string          `json:"name"`
	X          int             `json:"x"`
	Y          int             `json:"y"`
	Population int             `json:"population"`
	Magnitude  int             `json:"magnitude"`
	Nation     social.NationID `json:"nation"`
	Port       bool            `json:"port"`
	Roads      int             `json:"roads"`
	Access     int             `json:"access"`
	Stability  int             `json:"stability"`
	Caravans   int             `json:"caravans"`
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	nation := -1
	if v := r.URL.Query().Get("nation"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "nation must be an integer")
			return
		}
		nation = n
	}

	var result []citySummary
	s.locked(func(wd *engine.World) {
		result = make([]citySummary, 0, len(wd.Cities))
		for _, c := range wd.Cities {
			if nation >= 0 && c.Nation != nation {
				continue
			}
			result = append(result, citySummary{
				ID:         c.ID,
				Name:       c.Name,
				X:          c.Position.X,
				Y:          c.Position.Y,
				Population: c.Population,
				Magnitude:  c.Magnitude(),
				Nation:     c.Nation,
				Port:       c.HasPort(),
				Roads:      len(c.Roads),
				Access:     c.Access,
				Stability:  c.Stability,
				Caravans:   len(c.Caravans),
			})
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleCityDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var body []byte
	var err error
	found := false
	s.locked(func(wd *engine.World) {
		c := wd.City(id)
		if c == nil {
			return
		}
		found = true
		// Encode under the lock; the city is mutated by ticks.
		body, err = json.MarshalIndent(map[string]any{
			"city":       c,
			"neighbours": wd.Neighbours[c.ID],
			"nation":     wd.Nation(c.Nation),
		}, "", "  ")
	})
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("city %d not found", id))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(body, '\n'))
}

func (s *Server) handleNations(w http.ResponseWriter, r *http.Request) {
	type nationSummary struct {
		*social.Nation
		Cities     int `json:"cities"`
		Population int `json:"population"`
	}
	var result []nationSummary
	s.locked(func(wd *engine.World) {
		result = make([]nationSummary, 0, len(wd.Nations))
		for _, n := range wd.Nations {
			ns := nationSummary{Nation: n}
			for _, c := range wd.Cities {
				if c.Nation == n.ID {
					ns.Cities++
					ns.Population += c.Population
				}
			}
			result = append(result, ns)
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleCaravans(w http.ResponseWriter, r *http.Request) {
	type caravanSummary struct {
		ID       uint64        `json:"id"`
		From     social.CityID `json:"from"`
		To       social.CityID `json:"to"`
		Sea      bool          `json:"sea"`
		Progress float64       `json:"progress"`
		Length   int           `json:"length"`
		Position social.Point  `json:"position"`
		Outbound string        `json:"outbound"`
		Return   string        `json:"return"`
		Stock    int           `json:"stock"`
	}
	var result []caravanSummary
	s.locked(func(wd *engine.World) {
		for _, cv := range wd.Caravans() {
			result = append(result, caravanSummary{
				ID:       cv.ID,
				From:     cv.Route.From,
				To:       cv.Route.To,
				Sea:      cv.Route.Sea,
				Progress: cv.Progress,
				Length:   cv.Route.Len(),
				Position: cv.Position,
				Outbound: cv.Outbound.String(),
				Return:   cv.Return.String(),
				Stock:    cv.Stock,
			})
		}
	})
	if result == nil {
		result = []caravanSummary{}
	}
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	category := r.URL.Query().Get("category")

	var events []engine.Event
	s.locked(func(wd *engine.World) {
		for _, e := range wd.Events {
			if category == "" || e.Category == category {
				events = append(events, e)
			}
		}
	})
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	if events == nil {
		events = []engine.Event{}
	}
	writeJSON(w, events)
}

// handleMap returns the grid as rows of tile type codes plus road flags.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	type mapView struct {
		Size   int            `json:"size"`
		Types  [][]uint8      `json:"types"`
		Roads  [][2]int       `json:"roads"`
		Sea    [][2]int       `json:"sea_roads"`
		Counts map[string]int `json:"counts"`
	}
	var view mapView
	s.locked(func(wd *engine.World) {
		m := wd.Map
		view = mapView{
			Size:   m.Size,
			Types:  make([][]uint8, m.Size),
			Roads:  [][2]int{},
			Sea:    [][2]int{},
			Counts: make(map[string]int),
		}
		for y := 0; y < m.Size; y++ {
			row := make([]uint8, m.Size)
			for x := 0; x < m.Size; x++ {
				t := m.Get(world.Position{X: x, Y: y})
				row[x] = uint8(t.Type)
				if t.IsRoad {
					view.Roads = append(view.Roads, [2]int{x, y})
				}
				if t.IsSeaRoad {
					view.Sea = append(view.Sea, [2]int{x, y})
				}
			}
			view.Types[y] = row
		}
		for t, n := range world.TypeCounts(m) {
			view.Counts[t.String()] = n
		}
	})
	writeJSON(w, view)
}

// handlePath runs A* between two tiles: /path?from=x,y&to=x,y[&sea=true].
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parsePosition(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parsePosition(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}
	req := engine.Request{Task: engine.TaskFindPath, Start: &from, End: &to, Sea: q.Get("sea") == "true"}

	var res engine.Result
	s.locked(func(wd *engine.World) { res = wd.Handle(req) })
	if res.Type == engine.ResultError {
		writeError(w, http.StatusNotFound, res.Msg)
		return
	}
	writeJSON(w, map[string]any{"path": res.Path, "cost": res.Cost})
}

func parsePosition(s string) (world.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return world.Position{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return world.Position{}, fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return world.Position{}, fmt.Errorf("bad y: %w", err)
	}
	return world.Position{X: x, Y: y}, nil
}

// handleTask dispatches a worker-protocol request. Unknown tasks come back
// as error results with status 400.
func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var body []byte
	var err error
	var res engine.Result
	s.locked(func(wd *engine.World) {
		res = wd.Handle(req)
		body, err = json.MarshalIndent(res, "", "  ")
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	slog.Info("task handled", "id", req.ID, "task", req.Task, "type", res.Type)

	w.Header().Set("Content-Type", "application/json")
	if res.Type == engine.ResultError {
		w.WriteHeader(http.StatusBadRequest)
	}
	w.Write(append(body, '\n'))
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Speed < 0 || req.Speed > 1000 {
		writeError(w, http.StatusBadRequest, "speed must be 0-1000")
		return
	}
	s.locked(func(*engine.World) { s.Eng.Speed = req.Speed })
	slog.Info("speed changed", "speed", req.Speed)

	writeJSON(w, map[string]float64{"speed": req.Speed})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	var tick uint64
	var id string
	var err error
	s.locked(func(wd *engine.World) {
		tick, id = wd.Tick, wd.ID
		err = s.DB.SaveWorld(wd)
	})
	if err != nil {
		slog.Error("snapshot save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "snapshot failed")
		return
	}

	writeJSON(w, map[string]any{
		"id":      id,
		"tick":    tick,
		"message": "snapshot saved",
	})
}

// handleGenerate replaces the running world with a freshly generated one.
// The body may override the seed, size and nation count of the current config.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed    int64 `json:"seed"`
		Size    int   `json:"size"`
		Nations int   `json:"nations"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	var cfg engine.Config
	s.locked(func(wd *engine.World) { cfg = wd.Config })
	cfg.World.Seed = req.Seed
	if req.Size > 0 {
		cfg.World.Size = req.Size
	}
	if req.Nations > 0 {
		cfg.Nations = req.Nations
	}

	// Generation runs without the lock; the old world keeps ticking meanwhile.
	next, err := engine.GenerateWorld(r.Context(), cfg, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	s.locked(func(*engine.World) { s.Eng.World = next })
	slog.Info("world replaced", "id", next.ID, "seed", next.Seed, "cities", len(next.Cities))

	writeJSON(w, map[string]any{
		"id":     next.ID,
		"seed":   next.Seed,
		"cities": len(next.Cities),
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
