package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	// Unsorted on purpose
	values := []float64{1.0, 0.3, 0.1, 0.5, 0.9, 0.2, 0.7, 0.4, 0.8, 0.6}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", d.Mean)
	}
	// Population std of 0.1..1.0
	if math.Abs(d.Std-0.2872) > 0.001 {
		t.Errorf("std = %v, want ~0.2872", d.Std)
	}
	if d.Min != 0.1 || d.Max != 1.0 {
		t.Errorf("min/max = %v/%v, want 0.1/1.0", d.Min, d.Max)
	}
	if math.Abs(d.P10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", d.P10)
	}
	if math.Abs(d.P50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", d.P50)
	}
	if math.Abs(d.P90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", d.P90)
	}
	if values[0] != 1.0 {
		t.Error("input slice was reordered")
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty input = %+v, want zero", d)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("window = %d ticks, want 4", c.WindowDurationTicks())
	}

	c.RecordAssembly(3, 1)
	c.RecordCommands(6, 2, 1, 1.5)
	c.RecordCommands(0, 0, 0, 0.5)
	c.RecordSweep(2)
	c.RecordInspections(1)
	c.RecordPhysics(4, 9)

	if c.ShouldFlush(3) {
		t.Error("flush before the window ended")
	}
	if !c.ShouldFlush(4) {
		t.Fatal("no flush at the window end")
	}

	s := c.Flush(4, Sample{
		Robots:          1,
		Items:           5,
		Joints:          4,
		ChargeFractions: []float64{0.5},
		GaugeProgress:   []float64{0.2, 0.4},
	})

	if s.Committed != 3 || s.NewlyRejected != 1 {
		t.Errorf("assembly = %d/%d, want 3/1", s.Committed, s.NewlyRejected)
	}
	if s.CommandsExecuted != 6 || s.CommandsDropped != 2 || s.CommandsFailed != 1 {
		t.Errorf("commands = %d/%d/%d", s.CommandsExecuted, s.CommandsDropped, s.CommandsFailed)
	}
	if math.Abs(s.DropRate-0.25) > 1e-9 {
		t.Errorf("drop rate = %v, want 0.25", s.DropRate)
	}
	if math.Abs(s.PowerSpent-2.0) > 1e-6 {
		t.Errorf("power spent = %v, want 2", s.PowerSpent)
	}
	if s.JointsSwept != 2 || s.Inspections != 1 || s.Contacts != 4 || s.Suppressed != 9 {
		t.Errorf("counters = %+v", s)
	}
	if s.PoweredRobots != 1 || s.ChargeMean != 0.5 || math.Abs(s.GaugeProgressMean-0.3) > 1e-9 {
		t.Errorf("sampled values = %+v", s)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("sim time = %v, want 1", s.SimTimeSec)
	}

	// Counters reset for the next window
	next := c.Flush(8, Sample{})
	if next.Committed != 0 || next.CommandsExecuted != 0 || next.PowerSpent != 0 || next.WindowStartTick != 4 {
		t.Errorf("next window = %+v", next)
	}
}
