package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	itemsPath := flag.String("items", "", "Path to an item catalog YAML (empty = built-in catalog)")
	headless := flag.Bool("headless", false, "Run without graphics, driven by the autopilot script")
	autopilot := flag.Bool("autopilot", false, "Drive the selected robot from the autopilot script in windowed mode")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		ItemsPath:      *itemsPath,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		Autopilot:      *autopilot,
	}

	run := runWindowed
	if *headless {
		run = runHeadless
	}
	if err := run(cfg, opts, int32(*maxTicks)); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps the simulation without raylib until maxTicks.
// With maxTicks zero it runs until killed.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int32) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("headless run",
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"debit_mode", cfg.Energy.DebitMode,
	)
	for maxTicks <= 0 || g.Tick() < maxTicks {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick())
	return nil
}

// runWindowed opens a resizable window and runs until it is closed.
func runWindowed(cfg *config.Config, opts game.Options, maxTicks int32) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Inspection Idle")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
		if maxTicks > 0 && g.Tick() >= maxTicks {
			break
		}
	}
	return nil
}
