package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// World state at window end
	Robots     int `csv:"robots"`
	Items      int `csv:"items"`
	Joints     int `csv:"joints"`
	Pending    int `csv:"pending"`
	Rejected   int `csv:"rejected"`
	Inspecting int `csv:"inspecting"`

	PoweredRobots int `csv:"powered_robots"`

	// Events during window
	Committed        int     `csv:"committed"`
	NewlyRejected    int     `csv:"newly_rejected"`
	CommandsExecuted int     `csv:"commands_executed"`
	CommandsDropped  int     `csv:"commands_dropped"`
	CommandsFailed   int     `csv:"commands_failed"`
	DropRate         float64 `csv:"drop_rate"`
	PowerSpent       float64 `csv:"power_spent"`
	JointsSwept      int     `csv:"joints_swept"`
	Inspections      int     `csv:"inspections"`
	Contacts         int     `csv:"contacts"`
	Suppressed       int     `csv:"suppressed"`

	// Battery charge fraction across robots (sampled at window end)
	ChargeMean float64 `csv:"charge_mean"`
	ChargeStd  float64 `csv:"charge_std"`
	ChargeMin  float64 `csv:"charge_min"`
	ChargeP50  float64 `csv:"charge_p50"`
	ChargeMax  float64 `csv:"charge_max"`

	// Gauge progress fraction (sampled at window end)
	GaugeProgressMean float64 `csv:"gauge_progress_mean"`
	GaugeProgressP90  float64 `csv:"gauge_progress_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes a set of samples.
type Distribution struct {
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, population std, extremes and percentiles.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  std,
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("robots", s.Robots),
		slog.Int("items", s.Items),
		slog.Int("joints", s.Joints),
		slog.Int("pending", s.Pending),
		slog.Int("rejected", s.Rejected),
		slog.Int("inspecting", s.Inspecting),
		slog.Int("powered_robots", s.PoweredRobots),
		slog.Int("committed", s.Committed),
		slog.Int("newly_rejected", s.NewlyRejected),
		slog.Int("commands_executed", s.CommandsExecuted),
		slog.Int("commands_dropped", s.CommandsDropped),
		slog.Int("commands_failed", s.CommandsFailed),
		slog.Float64("drop_rate", s.DropRate),
		slog.Float64("power_spent", s.PowerSpent),
		slog.Int("joints_swept", s.JointsSwept),
		slog.Int("inspections", s.Inspections),
		slog.Int("contacts", s.Contacts),
		slog.Int("suppressed", s.Suppressed),
		slog.Float64("charge_mean", s.ChargeMean),
		slog.Float64("charge_std", s.ChargeStd),
		slog.Float64("charge_min", s.ChargeMin),
		slog.Float64("charge_p50", s.ChargeP50),
		slog.Float64("charge_max", s.ChargeMax),
		slog.Float64("gauge_progress_mean", s.GaugeProgressMean),
		slog.Float64("gauge_progress_p90", s.GaugeProgressP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"robots", s.Robots,
		"items", s.Items,
		"joints", s.Joints,
		"pending", s.Pending,
		"rejected", s.Rejected,
		"committed", s.Committed,
		"commands_executed", s.CommandsExecuted,
		"commands_dropped", s.CommandsDropped,
		"commands_failed", s.CommandsFailed,
		"drop_rate", s.DropRate,
		"power_spent", s.PowerSpent,
		"joints_swept", s.JointsSwept,
		"inspections", s.Inspections,
		"charge_mean", s.ChargeMean,
		"charge_min", s.ChargeMin,
		"gauge_progress_mean", s.GaugeProgressMean,
	)
}
