// Command worldsim generates caravan worlds, runs their economy and serves
// them over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/caravan-world/internal/api"
	"github.com/talgya/caravan-world/internal/config"
	"github.com/talgya/caravan-world/internal/engine"
	"github.com/talgya/caravan-world/internal/persistence"
	"github.com/talgya/caravan-world/internal/world"
)

// worldFlags are shared by commands that build or load a world.
type worldFlags struct {
	configPath string
	dbPath     string
	worldID    string
	seed       int64
	size       int
	nations    int
	verbose    bool
}

func (f *worldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&f.dbPath, "db", "data/caravan.db", "SQLite database path (empty = no storage)")
	cmd.Flags().StringVar(&f.worldID, "world", "", "stored world ID to load (default: last saved)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "world seed (0 = config or random)")
	cmd.Flags().IntVar(&f.size, "size", 0, "grid size override")
	cmd.Flags().IntVar(&f.nations, "nations", 0, "nation count override")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

func (f *worldFlags) engineConfig() (engine.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	if f.seed != 0 {
		cfg.World.Seed = f.seed
	}
	if f.size > 0 {
		cfg.World.Size = f.size
	}
	if f.nations > 0 {
		cfg.Nations = f.nations
	}
	return cfg, cfg.Validate()
}

// overridden reports whether the flags ask for a specific new world.
func (f *worldFlags) overridden() bool {
	return f.configPath != "" || f.seed != 0 || f.size > 0 || f.nations > 0
}

func (f *worldFlags) openDB() (*persistence.DB, error) {
	if f.dbPath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(f.dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := persistence.Open(f.dbPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", f.dbPath)
	return db, nil
}

// loadOrGenerate restores the requested (or last) stored world, generating a
// fresh one when storage has none.
func (f *worldFlags) loadOrGenerate(ctx context.Context, db *persistence.DB) (*engine.World, bool, error) {
	if db != nil && (f.worldID != "" || !f.overridden()) {
		id := f.worldID
		if id == "" {
			latest, err := db.LatestWorldID()
			if err != nil && !errors.Is(err, persistence.ErrNotFound) {
				return nil, false, err
			}
			id = latest
		}
		if id != "" {
			w, err := db.LoadWorld(id)
			return w, true, err
		}
	} else if f.worldID != "" {
		return nil, false, errors.New("--world needs a database")
	}

	cfg, err := f.engineConfig()
	if err != nil {
		return nil, false, err
	}
	w, err := engine.GenerateWorld(ctx, cfg, logProgress)
	return w, false, err
}

func logProgress(phase string, percent int) {
	fmt.Printf("  [%3d%%] %s\n", percent, phase)
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "worldsim",
		Short:        "Procedural trading world: terrain, cities, nations and caravans",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(pathCmd())
	rootCmd.AddCommand(worldsCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var f worldFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a world, print a summary and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(f.verbose)
			cfg, err := f.engineConfig()
			if err != nil {
				return err
			}
			w, err := engine.GenerateWorld(cmd.Context(), cfg, logProgress)
			if err != nil {
				return err
			}
			printSummary(w)

			db, err := f.openDB()
			if err != nil {
				return err
			}
			if db == nil {
				return nil
			}
			defer db.Close()
			if err := db.SaveWorld(w); err != nil {
				return err
			}
			fmt.Printf("\nSaved as %s in %s\n", w.ID, f.dbPath)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func runCmd() *cobra.Command {
	var (
		f        worldFlags
		ticks    uint64
		port     int
		interval time.Duration
		speed    float64
		saveEach int
		trustXFF bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation, optionally serving the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(f.verbose)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := f.openDB()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			w, loaded, err := f.loadOrGenerate(ctx, db)
			if err != nil {
				return err
			}
			if loaded {
				fmt.Printf("Resuming %s at %s\n", w.ID, engine.SimTime(w.Tick, w.Config.DaysPerWeek))
			} else {
				printSummary(w)
			}

			eng := engine.NewEngine(w)
			eng.Interval = interval
			eng.Speed = speed
			eng.OnWeek = func(w *engine.World) {
				if db == nil || saveEach <= 0 || w.Week%saveEach != 0 {
					return
				}
				if err := db.SaveWorld(w); err != nil {
					slog.Error("weekly save failed", "error", err)
				}
			}

			if port > 0 {
				srv := &api.Server{
					Eng:      eng,
					DB:       db,
					Port:     port,
					AdminKey: os.Getenv("WORLDSIM_ADMIN_KEY"),

					TrustForwarded: trustXFF,
				}
				if srv.AdminKey == "" {
					slog.Warn("WORLDSIM_ADMIN_KEY not set, admin POST endpoints are open")
				}
				srv.Start()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				fmt.Printf("API: http://localhost:%d/api/v1/status\n", port)
			}

			fmt.Println("Starting simulation... (Ctrl+C to stop)")
			runErr := eng.Run(ctx, ticks)
			if errors.Is(runErr, context.Canceled) {
				runErr = nil
			}

			// The API may have swapped in a new world.
			eng.Lock.Lock()
			defer eng.Lock.Unlock()
			w = eng.World
			if db != nil {
				slog.Info("final save...")
				if err := db.SaveWorld(w); err != nil {
					return err
				}
			}
			fmt.Printf("Stopped at %s: %s people, %s deliveries\n",
				engine.SimTime(w.Tick, w.Config.DaysPerWeek),
				humanize.Comma(int64(w.Stats.TotalPopulation)),
				humanize.Comma(int64(w.Stats.Deliveries)),
			)
			return runErr
		},
	}
	f.register(cmd)
	cmd.Flags().Uint64Var(&ticks, "ticks", 0, "stop after this many ticks (0 = run until interrupted)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP API port (0 = no API)")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "wall-clock time per tick at speed 1")
	cmd.Flags().Float64Var(&speed, "speed", 1, "speed multiplier (0 = paused)")
	cmd.Flags().IntVar(&saveEach, "save-weeks", 1, "save every N weeks (0 = only on exit)")
	cmd.Flags().BoolVar(&trustXFF, "trust-proxy", false, "rate limit by X-Forwarded-For (only behind a proxy that sets it)")
	return cmd
}

func pathCmd() *cobra.Command {
	var (
		f   worldFlags
		sea bool
	)
	cmd := &cobra.Command{
		Use:   "path x1,y1 x2,y2",
		Short: "Find the cheapest route between two tiles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(f.verbose)
			start, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			end, err := parsePosition(args[1])
			if err != nil {
				return err
			}

			db, err := f.openDB()
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}
			w, _, err := f.loadOrGenerate(cmd.Context(), db)
			if err != nil {
				return err
			}

			res := w.Handle(engine.Request{Task: engine.TaskFindPath, Start: &start, End: &end, Sea: sea})
			if res.Type == engine.ResultError {
				return errors.New(res.Msg)
			}
			fmt.Printf("%d steps, cost %.1f\n", len(res.Path), res.Cost)
			for _, p := range res.Path {
				t := w.Map.Get(p)
				fmt.Printf("  (%d,%d) %-8s alt %d\n", p.X, p.Y, t.Type, t.Altitude)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&sea, "sea", false, "search a sea route")
	return cmd
}

func worldsCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "worlds",
		Short: "List stored worlds",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			setupLogging(false)
			db, err := persistence.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			list, err := db.ListWorlds()
			if err != nil {
				return err
			}
			for _, s := range list {
				saved := s.SavedAt
				if t, err := time.Parse(time.RFC3339, s.SavedAt); err == nil {
					saved = humanize.Time(t)
				}
				fmt.Printf("%s  seed %-12d %3dx%-3d %3d cities  week %-5d saved %s\n",
					s.ID, s.Seed, s.Size, s.Size, s.Cities, s.Week, saved)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "data/caravan.db", "SQLite database path")
	return cmd
}

func configCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "YAML config file")
	return cmd
}

func printSummary(w *engine.World) {
	fmt.Printf("\nWorld %s (seed %d, %dx%d)\n", w.ID, w.Seed, w.Map.Size, w.Map.Size)

	counts := world.TypeCounts(w.Map)
	types := make([]world.TileType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%s %s", t, humanize.Comma(int64(counts[t]))))
	}
	fmt.Printf("Terrain: %s\n", strings.Join(parts, ", "))
	fmt.Printf("%d cities, %d roads, %d sea routes, %s people\n\n",
		w.Stats.Cities, w.Stats.Roads, w.Stats.SeaRoutes, humanize.Comma(int64(w.Stats.TotalPopulation)))

	for _, n := range w.Nations {
		capital := "none"
		if c := w.City(n.Capital); c != nil {
			capital = c.Name
		}
		fmt.Printf("%-14s %s  capital %s\n", n.Name, n.Color.Hex(), capital)
		for _, c := range w.Cities {
			if c.Nation != n.ID {
				continue
			}
			port := ""
			if c.HasPort() {
				port = " port"
			}
			fmt.Printf("  %-16s %10s  %v%s\n", c.Name, humanize.Comma(int64(c.Population)), c.Industries, port)
		}
	}
}

func parsePosition(s string) (world.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return world.Position{}, fmt.Errorf("position %q: want x,y", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return world.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return world.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return world.Position{X: x, Y: y}, nil
}
