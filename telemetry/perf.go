package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is a stage of the simulation tick.
type Phase int

const (
	PhaseAssembly   Phase = iota // UI assembly events and joint spawner
	PhaseCommands                // input producers and executor
	PhaseMotion
	PhasePhysics
	PhaseInspection
	PhaseEnergy
	PhaseSweep
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"assembly", "commands", "motion", "physics",
	"inspection", "energy", "sweep", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [numPhases]time.Duration

// perfSample is the timing of one tick.
type perfSample struct {
	tick   time.Duration
	phases PhaseTimes
}

// PerfCollector times tick phases over a rolling window of ticks.
type PerfCollector struct {
	samples []perfSample
	next    int
	count   int

	current    PhaseTimes
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{samples: make([]perfSample, window)}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PhaseTimes{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.inPhase = phase, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false

	p.samples[p.next] = perfSample{tick: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordFrame measures the time since the previous frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the collector window.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	P95Tick time.Duration

	PhaseAvg PhaseTimes
	PhasePct [numPhases]float64 // share of the average tick

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats summarizes the ticks in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	var sum PhaseTimes
	for i, sample := range p.samples[:p.count] {
		ticks[i] = float64(sample.tick)
		for ph, d := range sample.phases {
			sum[ph] += d
		}
	}
	slices.Sort(ticks)

	s.AvgTick = time.Duration(stat.Mean(ticks, nil))
	s.MinTick = time.Duration(ticks[0])
	s.MaxTick = time.Duration(ticks[len(ticks)-1])
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	n := time.Duration(p.count)
	for ph := range sum {
		s.PhaseAvg[ph] = sum[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogStats logs the summary, listing phases above 0.1% of the tick.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"p95_tick_us", s.P95Tick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	AssemblyPct   float64 `csv:"assembly_pct"`
	CommandsPct   float64 `csv:"commands_pct"`
	MotionPct     float64 `csv:"motion_pct"`
	PhysicsPct    float64 `csv:"physics_pct"`
	InspectionPct float64 `csv:"inspection_pct"`
	EnergyPct     float64 `csv:"energy_pct"`
	SweepPct      float64 `csv:"sweep_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTick.Microseconds(),
		MinTickUS:     s.MinTick.Microseconds(),
		MaxTickUS:     s.MaxTick.Microseconds(),
		P95TickUS:     s.P95Tick.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		AssemblyPct:   s.PhasePct[PhaseAssembly],
		CommandsPct:   s.PhasePct[PhaseCommands],
		MotionPct:     s.PhasePct[PhaseMotion],
		PhysicsPct:    s.PhasePct[PhasePhysics],
		InspectionPct: s.PhasePct[PhaseInspection],
		EnergyPct:     s.PhasePct[PhaseEnergy],
		SweepPct:      s.PhasePct[PhaseSweep],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
