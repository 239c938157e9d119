package systems

// System ids, as used for perf tracking.
const (
	SysAssemblyEvents = "assemblyEvents"
	SysJointSpawner   = "jointSpawner"
	SysSweep          = "sweep"
	SysInput          = "input"
	SysExecutor       = "executor"
	SysMotion         = "motion"
	SysPhysics        = "physics"
	SysTransformSync  = "transformSync"
	SysInspection     = "inspection"
	SysRecharge       = "recharge"
	SysTelemetry      = "telemetry"
)

// SystemInfo describes a tick system for display.
type SystemInfo struct {
	ID          string
	Name        string
	Description string
	Category    string // assembly, commands, physics, gameplay or internal
}

// defaultSystems lists every tick system in execution order.
var defaultSystems = []SystemInfo{
	{SysAssemblyEvents, "Assembly Events", "Applies detach and replace requests from the menu", "assembly"},
	{SysJointSpawner, "Joint Spawner", "Resolves attach requests into joints", "assembly"},
	{SysInput, "Input", "Turns held controls into robot commands", "commands"},
	{SysExecutor, "Executor", "Debits batteries and applies commands", "commands"},
	{SysMotion, "Motion", "Applies drive damping and track grip", "physics"},
	{SysPhysics, "Physics", "Integrates bodies and solves joints", "physics"},
	{SysTransformSync, "Transform Sync", "Copies body placements to items", "physics"},
	{SysInspection, "Inspection", "Advances gauges inside a camera view", "gameplay"},
	{SysRecharge, "Recharge", "Refills batteries", "gameplay"},
	{SysSweep, "Joint Sweep", "Removes joints with a missing endpoint", "assembly"},
	{SysTelemetry, "Telemetry", "Closes stats windows and writes output", "internal"},
}

// SystemRegistry keeps system metadata so the perf tracker and the UI use
// the same ids and names.
type SystemRegistry struct {
	systems []SystemInfo
	index   map[string]int
}

// NewSystemRegistry creates a registry holding the tick systems.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{index: make(map[string]int, len(defaultSystems))}
	for _, info := range defaultSystems {
		r.Register(info)
	}
	return r
}

// Register adds a system, replacing any earlier entry with the same id.
func (r *SystemRegistry) Register(info SystemInfo) {
	if i, ok := r.index[info.ID]; ok {
		r.systems[i] = info
		return
	}
	r.index[info.ID] = len(r.systems)
	r.systems = append(r.systems, info)
}

// Get returns system info by id.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	if i, ok := r.index[id]; ok {
		return r.systems[i], true
	}
	return SystemInfo{}, false
}

// Name returns the display name of a system, or the id if unknown.
func (r *SystemRegistry) Name(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// All returns the systems in execution order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}
