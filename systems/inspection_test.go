package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
)

func TestGaugeInCameraViewProgresses(t *testing.T) {
	tests := []struct {
		name         string
		gaugeY       float32
		wantProgress int
	}{
		// The line follower camera sits 22px ahead of the body and sees 60px further.
		{"in view", 70, 2},
		{"out of view", 400, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, config.DebitAtomic)
			f.spawner.Start("simple_body").
				Attach("camera_hd", components.LineFollowerCamera).
				Build()
			gauge := f.spawner.Start("simple_manometer").At(0, tc.gaugeY, 0).Static().Build()
			f.settle(5)

			inspection := NewInspectionSystem(f.world, f.phys, 3)
			for i := 0; i < 6; i++ {
				f.phys.Step(f.cfg.Derived.DT32)
				inspection.Update()
			}

			g := ecs.NewMap[components.Gauge](f.world).Get(gauge)
			if g.Progress != tc.wantProgress {
				t.Errorf("progress = %d, want %d", g.Progress, tc.wantProgress)
			}
			if g.Goal != f.cfg.Inspection.Goal {
				t.Errorf("goal = %d, want %d from config", g.Goal, f.cfg.Inspection.Goal)
			}
		})
	}
}

func TestInspectionCompletesAtGoal(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	f.spawner.Start("simple_body").
		Attach("camera_hd", components.LineFollowerCamera).
		Build()
	gauge := f.spawner.Start("simple_manometer").At(0, 70, 0).Static().Build()
	f.settle(5)

	g := ecs.NewMap[components.Gauge](f.world).Get(gauge)
	g.Goal = 2
	inspection := NewInspectionSystem(f.world, f.phys, 1)

	completed := 0
	for i := 0; i < 4; i++ {
		f.phys.Step(f.cfg.Derived.DT32)
		completed += inspection.Update().Completed
	}
	if completed != 2 || g.Inspections != 2 || g.Progress != 0 {
		t.Errorf("completed %d, inspections %d, progress %d; want 2, 2, 0", completed, g.Inspections, g.Progress)
	}
}
