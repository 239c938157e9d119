// Package telemetry collects windowed run statistics, perf samples, bookmarks and scene snapshots.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	committed        int
	rejected         int
	commandsExecuted int
	commandsDropped  int
	commandsFailed   int
	powerSpent       float64
	jointsSwept      int
	inspections      int
	contacts         int
	suppressed       int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordAssembly records the outcome of a joint spawner pass.
func (c *Collector) RecordAssembly(committed, rejected int) {
	c.committed += committed
	c.rejected += rejected
}

// RecordCommands records the outcome of a command executor pass.
func (c *Collector) RecordCommands(executed, dropped, failed int, powerSpent float32) {
	c.commandsExecuted += executed
	c.commandsDropped += dropped
	c.commandsFailed += failed
	c.powerSpent += float64(powerSpent)
}

// RecordSweep records joints removed by the dangling joint sweep.
func (c *Collector) RecordSweep(removed int) {
	c.jointsSwept += removed
}

// RecordInspections records completed gauge inspections.
func (c *Collector) RecordInspections(completed int) {
	c.inspections += completed
}

// RecordPhysics records contact counts of a physics step.
func (c *Collector) RecordPhysics(contacts, suppressed int) {
	c.contacts += contacts
	c.suppressed += suppressed
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the world state sampled at the end of a window.
type Sample struct {
	Robots     int
	Items      int
	Joints     int
	Pending    int // unresolved attach requests
	Rejected   int // rejected requests not yet cleared
	Inspecting int // gauges inside a camera view

	ChargeFractions []float64 // per robot, charge over capacity
	GaugeProgress   []float64 // per gauge, progress over goal
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Sample) WindowStats {
	var dropRate float64
	if total := c.commandsExecuted + c.commandsDropped; total > 0 {
		dropRate = float64(c.commandsDropped) / float64(total)
	}

	charge := ComputeDistribution(snap.ChargeFractions)
	gauges := ComputeDistribution(snap.GaugeProgress)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Robots:     snap.Robots,
		Items:      snap.Items,
		Joints:     snap.Joints,
		Pending:    snap.Pending,
		Rejected:   snap.Rejected,
		Inspecting: snap.Inspecting,

		PoweredRobots: len(snap.ChargeFractions),

		Committed:        c.committed,
		NewlyRejected:    c.rejected,
		CommandsExecuted: c.commandsExecuted,
		CommandsDropped:  c.commandsDropped,
		CommandsFailed:   c.commandsFailed,
		DropRate:         dropRate,
		PowerSpent:       c.powerSpent,
		JointsSwept:      c.jointsSwept,
		Inspections:      c.inspections,
		Contacts:         c.contacts,
		Suppressed:       c.suppressed,

		ChargeMean: charge.Mean,
		ChargeStd:  charge.Std,
		ChargeMin:  charge.Min,
		ChargeP50:  charge.P50,
		ChargeMax:  charge.Max,

		GaugeProgressMean: gauges.Mean,
		GaugeProgressP90:  gauges.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.committed = 0
	c.rejected = 0
	c.commandsExecuted = 0
	c.commandsDropped = 0
	c.commandsFailed = 0
	c.powerSpent = 0
	c.jointsSwept = 0
	c.inspections = 0
	c.contacts = 0
	c.suppressed = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
