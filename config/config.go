// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Motors     MotorsConfig     `yaml:"motors"`
	Joints     JointsConfig     `yaml:"joints"`
	Commands   CommandsConfig   `yaml:"commands"`
	Energy     EnergyConfig     `yaml:"energy"`
	Assembly   AssemblyConfig   `yaml:"assembly"`
	Inspection InspectionConfig `yaml:"inspection"`
	Scene      SceneConfig      `yaml:"scene"`
	Autopilot  []AutopilotStep  `yaml:"autopilot"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the extent of the collision space in pixels.
// The world is centered on the origin.
type WorldConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"` // broad phase cell size in pixels
}

// PhysicsConfig holds rigid body simulation parameters.
type PhysicsConfig struct {
	DT               float64 `yaml:"dt"`
	Scale            float64 `yaml:"scale"`             // pixels per physics unit
	SolverIterations int     `yaml:"solver_iterations"` // joint projection passes per step
	LinearDamping    float64 `yaml:"linear_damping"`    // default for freshly built items
	AngularDamping   float64 `yaml:"angular_damping"`
	Density          float64 `yaml:"density"` // mass per square physics unit
}

// MotorsConfig holds the drive parameters granted to ground propulsion items.
type MotorsConfig struct {
	LinearSpeed    float64 `yaml:"linear_speed"`
	AngularSpeed   float64 `yaml:"angular_speed"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	SidewaysGrip   float64 `yaml:"sideways_grip"` // 0 = slide freely, 1 = no lateral velocity
}

// JointsConfig holds joint defaults.
type JointsConfig struct {
	BallMotorDamping float64 `yaml:"ball_motor_damping"` // ball joints start with a zero-velocity motor
	JointSpeed       float64 `yaml:"joint_speed"`        // target velocity for manual joint moves
	JointDamping     float64 `yaml:"joint_damping"`
}

// CommandsConfig holds the power cost factors applied by command producers.
type CommandsConfig struct {
	DriveCost float64 `yaml:"drive_cost"` // per unit of force
	TurnCost  float64 `yaml:"turn_cost"`  // per unit of torque
	JointCost float64 `yaml:"joint_cost"` // per unit of joint velocity
	ZoomCost  float64 `yaml:"zoom_cost"`  // per unit of zoom change
}

// Debit modes for command power accounting.
const (
	DebitAtomic = "atomic" // all-or-nothing: batteries are untouched when the total charge is short
	DebitDrain  = "drain"  // best-effort: batteries are drained even when the command is dropped
)

// EnergyConfig holds battery parameters.
type EnergyConfig struct {
	DebitMode string `yaml:"debit_mode"`
	Recharge  bool   `yaml:"recharge"`
}

// AssemblyConfig holds joint spawner and sweep parameters.
type AssemblyConfig struct {
	SweepInterval int `yaml:"sweep_interval"` // ticks between dangling joint sweeps
}

// InspectionConfig holds gauge inspection parameters.
type InspectionConfig struct {
	Interval float64 `yaml:"interval"` // seconds between progress steps
	Goal     int     `yaml:"goal"`     // progress needed to complete an inspection
}

// GaugeConfig places an inspectable gauge in the scene.
type GaugeConfig struct {
	Item string  `yaml:"item"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// SceneConfig holds the initial scene.
type SceneConfig struct {
	RobotX float64       `yaml:"robot_x"`
	RobotY float64       `yaml:"robot_y"`
	Gauges []GaugeConfig `yaml:"gauges"`
}

// AutopilotStep holds a scripted input step for headless runs.
type AutopilotStep struct {
	Ticks   int      `yaml:"ticks"`
	Actions []string `yaml:"actions"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32            float32 // Physics.DT as float32
	Scale32         float32 // Physics.Scale as float32
	InvScale32      float32 // 1 / Physics.Scale
	ScreenW32       float32 // Screen.Width as float32
	ScreenH32       float32 // Screen.Height as float32
	WorldW32        float32 // World.Width as float32
	WorldH32        float32 // World.Height as float32
	InspectionTicks int     // Inspection.Interval in ticks
	AutopilotTicks  int     // total length of the autopilot script
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Physics.Scale <= 0 {
		return fmt.Errorf("physics.scale must be positive, got %v", c.Physics.Scale)
	}
	switch c.Energy.DebitMode {
	case DebitAtomic, DebitDrain:
	default:
		return fmt.Errorf("energy.debit_mode must be %q or %q, got %q", DebitAtomic, DebitDrain, c.Energy.DebitMode)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Scale32 = float32(c.Physics.Scale)
	c.Derived.InvScale32 = float32(1 / c.Physics.Scale)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	c.Derived.InspectionTicks = int(math.Round(c.Inspection.Interval / c.Physics.DT))
	if c.Derived.InspectionTicks < 1 {
		c.Derived.InspectionTicks = 1
	}

	c.Derived.AutopilotTicks = 0
	for _, step := range c.Autopilot {
		c.Derived.AutopilotTicks += step.Ticks
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
