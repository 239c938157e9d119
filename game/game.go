// Package game wires the robot workspace: world, physics, assembly, commands,
// telemetry and, outside headless runs, the camera and UI.
package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/builder"
	"github.com/framefighter/inspection-idle/camera"
	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/physics"
	"github.com/framefighter/inspection-idle/renderer"
	"github.com/framefighter/inspection-idle/systems"
	"github.com/framefighter/inspection-idle/telemetry"
	"github.com/framefighter/inspection-idle/ui"
)

// Options configures a game instance.
type Options struct {
	ItemsPath      string // item catalog YAML, empty = embedded catalog
	LogStats       bool
	StatsWindowSec float64
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Autopilot      bool // drive the selected robot from the configured script in windowed runs
}

// menuState is the attachment point the menu is open for.
type menuState struct {
	open   bool
	parent ecs.Entity
	point  components.AttachmentPointId
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	phys  *physics.World
	cat   *catalog.Catalog

	// Assembly
	spawner       *builder.Spawner
	jointSpawner  *systems.JointSpawner
	despawner     *systems.Despawner
	sweeper       *systems.JointSweeper
	assemblyQueue *systems.AssemblyQueue
	assembly      *systems.AssemblyHandler

	// Commands and power
	bus          *systems.RobotCommands
	ledger       *systems.EnergyLedger
	executor     *systems.CommandExecutor
	inputs       *systems.InputProducers
	input        systems.InputState
	keys         systems.Action // actions held on the keyboard this frame
	autopilot    *Autopilot
	useAutopilot bool

	// Motion and gameplay
	motion     *systems.MotionSystem
	transforms *systems.TransformSync
	inspection *systems.InspectionSystem
	inspecting int

	// Component access
	infoMap      *ecs.Map[components.ItemInfo]
	transformMap *ecs.Map[components.Transform]
	visibleMap   *ecs.Map[components.Visible]
	attachMap    *ecs.Map[components.Attachments]
	resultMap    *ecs.Map[components.AttachResult]
	wantMap      *ecs.Map[components.WantToAttach]
	tagMap       *ecs.Map[components.CollisionFilter]
	bodyMap      *ecs.Map[components.RigidBody]
	batteryMap   *ecs.Map[components.Battery]
	zoomMap      *ecs.Map[components.CameraZoom]
	lensMap      *ecs.Map[components.CameraLensState]
	gaugeMap     *ecs.Map[components.Gauge]
	selectedMap  *ecs.Map[components.Selected]

	items    *ecs.Filter2[components.ItemInfo, components.Transform]
	links    *ecs.Filter1[components.JointLink]
	gauges   *ecs.Filter1[components.Gauge]
	requests *ecs.Filter1[components.WantToAttach]
	results  *ecs.Filter1[components.AttachResult]
	selected *ecs.Filter1[components.Selected]

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
	perf             *PerfStats
	registry         *systems.SystemRegistry
	rejectedTotal    int

	// Rendering and UI, nil when headless
	camera        *camera.Camera
	background    *renderer.BackgroundRenderer
	hud           *ui.HUD
	perfPanel     *ui.PerfPanel
	inspector     *ui.Inspector
	attachPanel   *ui.AttachmentPanel
	controlsPanel *ui.ControlsPanel
	quickStats    *ui.QuickStatsPanel
	overlays      *ui.OverlayRegistry
	uiEvents      ui.Events
	menu          menuState
	inspected     ecs.Entity
	showPerf      bool
	follow        bool

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	headless       bool
	screenWidth    float32
	screenHeight   float32
}

// NewGameWithOptions creates a game from the global config and builds the
// initial scene. config.Init must have been called.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	cat, err := loadCatalog(opts.ItemsPath)
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	phys := physics.NewWorld(physics.Config{
		Width:      cfg.World.Width,
		Height:     cfg.World.Height,
		CellSize:   cfg.World.CellSize,
		Scale:      cfg.Derived.Scale32,
		Iterations: cfg.Physics.SolverIterations,
	})
	phys.SetPairFilter(systems.NewCollisionHook(w))

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		world:          w,
		phys:           phys,
		cat:            cat,
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
		perf:           NewPerfStats(cfg.Telemetry.PerfCollectorWindow),
		registry:       systems.NewSystemRegistry(),
		follow:         true,

		infoMap:      ecs.NewMap[components.ItemInfo](w),
		transformMap: ecs.NewMap[components.Transform](w),
		visibleMap:   ecs.NewMap[components.Visible](w),
		attachMap:    ecs.NewMap[components.Attachments](w),
		resultMap:    ecs.NewMap[components.AttachResult](w),
		wantMap:      ecs.NewMap[components.WantToAttach](w),
		tagMap:       ecs.NewMap[components.CollisionFilter](w),
		bodyMap:      ecs.NewMap[components.RigidBody](w),
		batteryMap:   ecs.NewMap[components.Battery](w),
		zoomMap:      ecs.NewMap[components.CameraZoom](w),
		lensMap:      ecs.NewMap[components.CameraLensState](w),
		gaugeMap:     ecs.NewMap[components.Gauge](w),
		selectedMap:  ecs.NewMap[components.Selected](w),

		items:    ecs.NewFilter2[components.ItemInfo, components.Transform](w),
		links:    ecs.NewFilter1[components.JointLink](w),
		gauges:   ecs.NewFilter1[components.Gauge](w),
		requests: ecs.NewFilter1[components.WantToAttach](w),
		results:  ecs.NewFilter1[components.AttachResult](w),
		selected: ecs.NewFilter1[components.Selected](w),
	}

	// Assembly
	g.spawner = builder.NewSpawner(w, phys, cat, cfg, builder.DefaultGrants())
	g.jointSpawner = systems.NewJointSpawner(w, phys, float32(cfg.Joints.BallMotorDamping))
	g.despawner = systems.NewDespawner(w, phys)
	g.sweeper = systems.NewJointSweeper(w, phys)
	g.assemblyQueue = &systems.AssemblyQueue{}
	g.assembly = systems.NewAssemblyHandler(g.assemblyQueue, g.despawner, g.spawner)

	// Commands and power
	g.bus = systems.NewRobotCommands()
	g.ledger = systems.NewEnergyLedger(w)
	g.executor = systems.NewCommandExecutor(w, phys, g.bus, g.ledger, cfg.Energy.DebitMode)
	g.inputs = systems.NewInputProducers(w, phys, g.bus, cfg)
	g.jointSpawner.OnCommit(components.KindCameraLens, systems.LensCommitHook(w, g.bus))

	autopilot, err := NewAutopilot(cfg.Autopilot)
	if err != nil {
		return nil, fmt.Errorf("autopilot: %w", err)
	}
	g.autopilot = autopilot
	g.useAutopilot = opts.Headless || opts.Autopilot

	// Motion and gameplay
	g.motion = systems.NewMotionSystem(w, phys, float32(cfg.Motors.SidewaysGrip))
	g.transforms = systems.NewTransformSync(w, phys)
	g.inspection = systems.NewInspectionSystem(w, phys, cfg.Derived.InspectionTicks)

	// Telemetry
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	if !opts.Headless {
		g.initRendering()
	}

	g.spawnScene()

	slog.Info("game created",
		"items", cat.Len(),
		"debit_mode", cfg.Energy.DebitMode,
		"headless", opts.Headless,
		"stats_window", statsWindow,
	)
	return g, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// initRendering creates the camera and UI. Raylib textures are not touched
// here, so this is safe before the first frame.
func (g *Game) initRendering() {
	cfg := g.cfg
	g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	g.camera.SetZoom(2)
	g.background = renderer.NewBackgroundRenderer(int32(g.screenWidth), int32(g.screenHeight), 24, 28, 34)
	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(10, 130)
	g.inspector = ui.NewInspector(10, 130, 260)
	g.attachPanel = ui.NewAttachmentPanel(int32(g.screenWidth)-290, 10, 280)
	g.controlsPanel = ui.NewControlsPanel(int32(g.screenWidth)-290, 10, 280)
	g.quickStats = ui.NewQuickStatsPanel(10, int32(g.screenHeight)-150, 200)
	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayViews, true)
}

// SetStatsCallback registers a function called with every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Events returns the queue the attachment menu writes to.
func (g *Game) Events() *ui.Events {
	return &g.uiEvents
}

// World returns the ECS world.
func (g *Game) World() *ecs.World {
	return g.world
}

// Physics returns the physics world.
func (g *Game) Physics() *physics.World {
	return g.phys
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	if g.background != nil {
		g.background.Unload()
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
