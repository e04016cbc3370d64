// Package persistence provides SQLite-based world snapshot storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/caravan-world/internal/economy"
	"github.com/talgya/caravan-world/internal/engine"
	"github.com/talgya/caravan-world/internal/names"
	"github.com/talgya/caravan-world/internal/social"
	"github.com/talgya/caravan-world/internal/world"
)

// ErrNotFound is returned when a world ID is not stored.
var ErrNotFound = errors.New("world not found")

// DB wraps a SQLite connection for world persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite serialises writers; one connection keeps transactions simple.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		size INTEGER NOT NULL,
		day INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		week INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		stats_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		world_id TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		type INTEGER NOT NULL,
		altitude INTEGER NOT NULL,
		water_flow INTEGER NOT NULL,
		river_name TEXT NOT NULL,
		was_hole INTEGER NOT NULL,
		is_road INTEGER NOT NULL,
		is_sea_road INTEGER NOT NULL,
		region INTEGER NOT NULL,
		is_frontier INTEGER NOT NULL,
		PRIMARY KEY (world_id, x, y)
	);

	CREATE TABLE IF NOT EXISTS cities (
		world_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		population INTEGER NOT NULL,
		nation INTEGER NOT NULL,
		color TEXT NOT NULL,
		port_x INTEGER,
		port_y INTEGER,
		industries_json TEXT NOT NULL,
		rivers_json TEXT NOT NULL,
		biomes_json TEXT NOT NULL,
		access INTEGER NOT NULL,
		stability INTEGER NOT NULL,
		growth INTEGER NOT NULL,
		needs_json TEXT NOT NULL,
		deficits_json TEXT NOT NULL,
		production_json TEXT NOT NULL,
		resources_json TEXT NOT NULL,
		caravans_json TEXT NOT NULL,
		PRIMARY KEY (world_id, id)
	);

	CREATE TABLE IF NOT EXISTS roads (
		world_id TEXT NOT NULL,
		from_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		to_id INTEGER NOT NULL,
		sea INTEGER NOT NULL,
		cost REAL NOT NULL,
		path_json TEXT NOT NULL,
		PRIMARY KEY (world_id, from_id, seq)
	);

	CREATE TABLE IF NOT EXISTS nations (
		world_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		capital INTEGER NOT NULL,
		language_seed INTEGER,
		PRIMARY KEY (world_id, id)
	);

	CREATE TABLE IF NOT EXISTS neighbours (
		world_id TEXT NOT NULL,
		city_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		neighbour_id INTEGER NOT NULL,
		PRIMARY KEY (world_id, city_id, seq)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		world_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_world_tick ON events(world_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type worldRow struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	Size       int    `db:"size"`
	Day        int    `db:"day"`
	Tick       int64  `db:"tick"`
	Week       int    `db:"week"`
	ConfigJSON string `db:"config_json"`
	StatsJSON  string `db:"stats_json"`
	SavedAt    string `db:"saved_at"`
}

type tileRow struct {
	WorldID    string `db:"world_id"`
	X          int    `db:"x"`
	Y          int    `db:"y"`
	Type       int    `db:"type"`
	Altitude   int    `db:"altitude"`
	WaterFlow  int    `db:"water_flow"`
	RiverName  string `db:"river_name"`
	WasHole    bool   `db:"was_hole"`
	IsRoad     bool   `db:"is_road"`
	IsSeaRoad  bool   `db:"is_sea_road"`
	Region     int    `db:"region"`
	IsFrontier bool   `db:"is_frontier"`
}

type cityRow struct {
	WorldID        string        `db:"world_id"`
	ID             int           `db:"id"`
	Name           string        `db:"name"`
	X              int           `db:"x"`
	Y              int           `db:"y"`
	Population     int64         `db:"population"`
	Nation         int           `db:"nation"`
	Color          string        `db:"color"`
	PortX          sql.NullInt64 `db:"port_x"`
	PortY          sql.NullInt64 `db:"port_y"`
	IndustriesJSON string        `db:"industries_json"`
	RiversJSON     string        `db:"rivers_json"`
	BiomesJSON     string        `db:"biomes_json"`
	Access         int           `db:"access"`
	Stability      int           `db:"stability"`
	Growth         int           `db:"growth"`
	NeedsJSON      string        `db:"needs_json"`
	DeficitsJSON   string        `db:"deficits_json"`
	ProductionJSON string        `db:"production_json"`
	ResourcesJSON  string        `db:"resources_json"`
	CaravansJSON   string        `db:"caravans_json"`
}

type roadRow struct {
	WorldID  string  `db:"world_id"`
	FromID   int     `db:"from_id"`
	Seq      int     `db:"seq"`
	ToID     int     `db:"to_id"`
	Sea      bool    `db:"sea"`
	Cost     float64 `db:"cost"`
	PathJSON string  `db:"path_json"`
}

type nationRow struct {
	WorldID      string        `db:"world_id"`
	ID           int           `db:"id"`
	Name         string        `db:"name"`
	Color        string        `db:"color"`
	Capital      int           `db:"capital"`
	LanguageSeed sql.NullInt64 `db:"language_seed"`
}

type neighbourRow struct {
	WorldID     string `db:"world_id"`
	CityID      int    `db:"city_id"`
	Seq         int    `db:"seq"`
	NeighbourID int    `db:"neighbour_id"`
}

// Summary describes a stored world.
type Summary struct {
	ID      string `db:"id" json:"id"`
	Seed    int64  `db:"seed" json:"seed"`
	Size    int    `db:"size" json:"size"`
	Tick    int64  `db:"tick" json:"tick"`
	Week    int    `db:"week" json:"week"`
	Cities  int    `db:"cities" json:"cities"`
	SavedAt string `db:"saved_at" json:"saved_at"`
}

var worldTables = []string{"tiles", "cities", "roads", "nations", "neighbours", "events"}

// SaveWorld writes a full snapshot of w, replacing any earlier snapshot with
// the same ID, and records it as the latest world.
func (db *DB) SaveWorld(w *engine.World) error {
	slog.Info("saving world", "id", w.ID, "tick", w.Tick, "cities", len(w.Cities))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM worlds WHERE id = ?", w.ID); err != nil {
		return fmt.Errorf("clear world: %w", err)
	}
	for _, table := range worldTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE world_id = ?", w.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	row := worldRow{
		ID:         w.ID,
		Seed:       w.Seed,
		Size:       w.Map.Size,
		Day:        w.Day,
		Tick:       int64(w.Tick),
		Week:       w.Week,
		ConfigJSON: toJSON(w.Config),
		StatsJSON:  toJSON(w.Stats),
		SavedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := tx.NamedExec(`INSERT INTO worlds
		(id, seed, size, day, tick, week, config_json, stats_json, saved_at)
		VALUES (:id, :seed, :size, :day, :tick, :week, :config_json, :stats_json, :saved_at)`, row); err != nil {
		return fmt.Errorf("insert world: %w", err)
	}

	if err := saveTiles(tx, w); err != nil {
		return fmt.Errorf("save tiles: %w", err)
	}
	if err := saveCities(tx, w); err != nil {
		return fmt.Errorf("save cities: %w", err)
	}
	if err := saveNations(tx, w); err != nil {
		return fmt.Errorf("save nations: %w", err)
	}
	if err := saveEvents(tx, w.ID, w.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", "last_world", w.ID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("world saved", "id", w.ID)
	return nil
}

func saveTiles(tx *sqlx.Tx, w *engine.World) error {
	stmt, err := tx.PrepareNamed(`INSERT INTO tiles
		(world_id, x, y, type, altitude, water_flow, river_name, was_hole,
		 is_road, is_sea_road, region, is_frontier)
		VALUES (:world_id, :x, :y, :type, :altitude, :water_flow, :river_name, :was_hole,
		 :is_road, :is_sea_road, :region, :is_frontier)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range w.Map.Tiles {
		t := &w.Map.Tiles[i]
		_, err := stmt.Exec(tileRow{
			WorldID:    w.ID,
			X:          t.Position.X,
			Y:          t.Position.Y,
			Type:       int(t.Type),
			Altitude:   t.Altitude,
			WaterFlow:  t.WaterFlow,
			RiverName:  t.RiverName,
			WasHole:    t.WasHole,
			IsRoad:     t.IsRoad,
			IsSeaRoad:  t.IsSeaRoad,
			Region:     t.Region,
			IsFrontier: t.IsFrontier,
		})
		if err != nil {
			return fmt.Errorf("insert tile %v: %w", t.Position, err)
		}
	}
	return nil
}

func saveCities(tx *sqlx.Tx, w *engine.World) error {
	for _, c := range w.Cities {
		row := cityRow{
			WorldID:        w.ID,
			ID:             c.ID,
			Name:           c.Name,
			X:              c.Position.X,
			Y:              c.Position.Y,
			Population:     int64(c.Population),
			Nation:         c.Nation,
			Color:          toJSON(c.Color),
			IndustriesJSON: toJSON(c.Industries),
			RiversJSON:     toJSON(c.Rivers),
			BiomesJSON:     toJSON(c.Biomes),
			Access:         c.Access,
			Stability:      c.Stability,
			Growth:         c.Growth,
			NeedsJSON:      c.Needs.JSON(),
			DeficitsJSON:   c.Deficits.JSON(),
			ProductionJSON: c.Production.JSON(),
			ResourcesJSON:  c.Resources.JSON(),
			CaravansJSON:   toJSON(c.Caravans),
		}
		if c.Port != nil {
			row.PortX = sql.NullInt64{Int64: int64(c.Port.X), Valid: true}
			row.PortY = sql.NullInt64{Int64: int64(c.Port.Y), Valid: true}
		}
		if _, err := tx.NamedExec(`INSERT INTO cities
			(world_id, id, name, x, y, population, nation, color, port_x, port_y,
			 industries_json, rivers_json, biomes_json, access, stability, growth,
			 needs_json, deficits_json, production_json, resources_json, caravans_json)
			VALUES (:world_id, :id, :name, :x, :y, :population, :nation, :color, :port_x, :port_y,
			 :industries_json, :rivers_json, :biomes_json, :access, :stability, :growth,
			 :needs_json, :deficits_json, :production_json, :resources_json, :caravans_json)`, row); err != nil {
			return fmt.Errorf("insert city %d: %w", c.ID, err)
		}

		for seq, r := range c.Roads {
			if _, err := tx.NamedExec(`INSERT INTO roads
				(world_id, from_id, seq, to_id, sea, cost, path_json)
				VALUES (:world_id, :from_id, :seq, :to_id, :sea, :cost, :path_json)`, roadRow{
				WorldID:  w.ID,
				FromID:   c.ID,
				Seq:      seq,
				ToID:     r.To,
				Sea:      r.Sea,
				Cost:     r.Cost,
				PathJSON: toJSON(r.Path),
			}); err != nil {
				return fmt.Errorf("insert road %d->%d: %w", c.ID, r.To, err)
			}
		}

		for seq, n := range w.Neighbours[c.ID] {
			if _, err := tx.NamedExec(`INSERT INTO neighbours
				(world_id, city_id, seq, neighbour_id)
				VALUES (:world_id, :city_id, :seq, :neighbour_id)`, neighbourRow{
				WorldID:     w.ID,
				CityID:      c.ID,
				Seq:         seq,
				NeighbourID: n,
			}); err != nil {
				return fmt.Errorf("insert neighbour %d->%d: %w", c.ID, n, err)
			}
		}
	}
	return nil
}

func saveNations(tx *sqlx.Tx, w *engine.World) error {
	for _, n := range w.Nations {
		row := nationRow{
			WorldID: w.ID,
			ID:      n.ID,
			Name:    n.Name,
			Color:   toJSON(n.Color),
			Capital: n.Capital,
		}
		if lang, ok := n.Language.(*names.Language); ok {
			row.LanguageSeed = sql.NullInt64{Int64: lang.Seed(), Valid: true}
		}
		if _, err := tx.NamedExec(`INSERT INTO nations
			(world_id, id, name, color, capital, language_seed)
			VALUES (:world_id, :id, :name, :color, :capital, :language_seed)`, row); err != nil {
			return fmt.Errorf("insert nation %d: %w", n.ID, err)
		}
	}
	return nil
}

func saveEvents(tx *sqlx.Tx, worldID string, events []engine.Event) error {
	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (world_id, tick, description, category) VALUES (?, ?, ?, ?)",
			worldID, int64(e.Tick), e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadWorld restores a stored world, ready to resume ticking.
func (db *DB) LoadWorld(id string) (*engine.World, error) {
	var row worldRow
	if err := db.conn.Get(&row, "SELECT * FROM worlds WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load world %s: %w", id, err)
	}

	var cfg engine.Config
	if err := fromJSON(row.ConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	m, err := db.loadMap(id, row.Size)
	if err != nil {
		return nil, fmt.Errorf("load tiles: %w", err)
	}

	w := engine.NewWorld(cfg, row.Seed, m)
	w.ID = row.ID
	w.Day = row.Day
	w.Tick = uint64(row.Tick)
	w.Week = row.Week
	if err := fromJSON(row.StatsJSON, &w.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}

	if w.Cities, err = db.loadCities(id); err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}
	if w.Nations, err = db.loadNations(id); err != nil {
		return nil, fmt.Errorf("load nations: %w", err)
	}
	if err := db.loadNeighbours(w); err != nil {
		return nil, fmt.Errorf("load neighbours: %w", err)
	}
	if err := db.conn.Select(&w.Events,
		"SELECT tick, description, category FROM events WHERE world_id = ? ORDER BY id", id); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	w.Resume()
	slog.Info("world loaded", "id", id, "tick", w.Tick, "cities", len(w.Cities))
	return w, nil
}

func (db *DB) loadMap(id string, size int) (*world.Map, error) {
	var rows []tileRow
	if err := db.conn.Select(&rows, "SELECT * FROM tiles WHERE world_id = ?", id); err != nil {
		return nil, err
	}
	if len(rows) != size*size {
		return nil, fmt.Errorf("found %d tiles for a %dx%d map", len(rows), size, size)
	}
	m := world.NewMap(size)
	for _, r := range rows {
		t := m.Get(world.Position{X: r.X, Y: r.Y})
		if t == nil {
			return nil, fmt.Errorf("tile (%d,%d) outside the map", r.X, r.Y)
		}
		t.Type = world.TileType(r.Type)
		t.Altitude = r.Altitude
		t.WaterFlow = r.WaterFlow
		t.RiverName = r.RiverName
		t.WasHole = r.WasHole
		t.IsRoad = r.IsRoad
		t.IsSeaRoad = r.IsSeaRoad
		t.Region = r.Region
		t.IsFrontier = r.IsFrontier
	}
	return m, nil
}

func (db *DB) loadCities(id string) ([]*social.City, error) {
	var rows []cityRow
	if err := db.conn.Select(&rows, "SELECT * FROM cities WHERE world_id = ? ORDER BY id", id); err != nil {
		return nil, err
	}
	cities := make([]*social.City, 0, len(rows))
	for _, r := range rows {
		c := social.NewCity(r.ID, world.Position{X: r.X, Y: r.Y}, int(r.Population))
		c.Name = r.Name
		c.Nation = r.Nation
		c.Access = r.Access
		c.Stability = r.Stability
		c.Growth = r.Growth
		if r.PortX.Valid && r.PortY.Valid {
			c.Port = &world.Position{X: int(r.PortX.Int64), Y: int(r.PortY.Int64)}
		}
		for _, field := range []struct {
			src string
			dst any
		}{
			{r.Color, &c.Color},
			{r.IndustriesJSON, &c.Industries},
			{r.RiversJSON, &c.Rivers},
			{r.BiomesJSON, &c.Biomes},
			{r.NeedsJSON, &c.Needs},
			{r.DeficitsJSON, &c.Deficits},
			{r.ProductionJSON, &c.Production},
			{r.ResourcesJSON, &c.Resources},
			{r.CaravansJSON, &c.Caravans},
		} {
			if err := fromJSON(field.src, field.dst); err != nil {
				return nil, fmt.Errorf("decode city %d: %w", r.ID, err)
			}
		}
		for _, l := range []*economy.Ledger{&c.Needs, &c.Deficits, &c.Production, &c.Resources} {
			if *l == nil {
				*l = make(economy.Ledger)
			}
		}
		cities = append(cities, c)
	}

	var roads []roadRow
	if err := db.conn.Select(&roads, "SELECT * FROM roads WHERE world_id = ? ORDER BY from_id, seq", id); err != nil {
		return nil, err
	}
	for _, r := range roads {
		if r.FromID < 0 || r.FromID >= len(cities) {
			return nil, fmt.Errorf("road from unknown city %d", r.FromID)
		}
		road := social.Road{From: r.FromID, To: r.ToID, Cost: r.Cost, Sea: r.Sea}
		if err := fromJSON(r.PathJSON, &road.Path); err != nil {
			return nil, fmt.Errorf("decode road %d->%d: %w", r.FromID, r.ToID, err)
		}
		cities[r.FromID].AddRoad(road)
	}
	return cities, nil
}

func (db *DB) loadNations(id string) ([]*social.Nation, error) {
	var rows []nationRow
	if err := db.conn.Select(&rows, "SELECT * FROM nations WHERE world_id = ? ORDER BY id", id); err != nil {
		return nil, err
	}
	nations := make([]*social.Nation, 0, len(rows))
	for _, r := range rows {
		n := &social.Nation{ID: r.ID, Name: r.Name, Capital: r.Capital}
		if err := fromJSON(r.Color, &n.Color); err != nil {
			return nil, fmt.Errorf("decode nation %d: %w", r.ID, err)
		}
		if r.LanguageSeed.Valid {
			n.Language = names.NewLanguage(r.LanguageSeed.Int64)
		}
		nations = append(nations, n)
	}
	return nations, nil
}

func (db *DB) loadNeighbours(w *engine.World) error {
	var rows []neighbourRow
	if err := db.conn.Select(&rows, "SELECT * FROM neighbours WHERE world_id = ? ORDER BY city_id, seq", w.ID); err != nil {
		return err
	}
	for _, c := range w.Cities {
		w.Neighbours[c.ID] = []social.CityID{}
	}
	for _, r := range rows {
		w.Neighbours[r.CityID] = append(w.Neighbours[r.CityID], r.NeighbourID)
	}
	return nil
}

// ListWorlds returns every stored world, most recently saved first.
func (db *DB) ListWorlds() ([]Summary, error) {
	var out []Summary
	err := db.conn.Select(&out, `SELECT w.id, w.seed, w.size, w.tick, w.week, w.saved_at,
		(SELECT COUNT(*) FROM cities c WHERE c.world_id = w.id) AS cities
		FROM worlds w ORDER BY w.saved_at DESC, w.id`)
	return out, err
}

// LatestWorldID returns the ID of the last saved world.
func (db *DB) LatestWorldID() (string, error) {
	var id string
	err := db.conn.Get(&id, "SELECT value FROM world_meta WHERE key = ?", "last_world")
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

// DeleteWorld removes a stored world.
func (db *DB) DeleteWorld(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM worlds WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	for _, table := range worldTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE world_id = ?", id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// RecentEvents returns the most recent N events of a world, newest first.
func (db *DB) RecentEvents(worldID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events WHERE world_id = ? ORDER BY id DESC LIMIT ?",
		worldID, limit,
	)
	return events, err
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func fromJSON(s string, v any) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
