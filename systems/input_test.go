package systems

import (
	"testing"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
)

func TestParseAction(t *testing.T) {
	a, err := ParseAction("mast_left")
	if err != nil || a != ActionMastLeft {
		t.Errorf("ParseAction = %v, %v", a, err)
	}
	if _, err := ParseAction("jump"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestInputStateRelease(t *testing.T) {
	var in InputState
	in.Set(ActionMastLeft | ActionForward)
	if !in.Held(ActionMastLeft) || in.Released(ActionMastLeft) {
		t.Fatal("held action reported released")
	}
	in.Set(ActionForward)
	if !in.Released(ActionMastLeft | ActionMastRight) {
		t.Error("release not detected")
	}
	in.Set(ActionForward)
	if in.Released(ActionMastLeft) {
		t.Error("release reported twice")
	}
}

func TestInputProducers(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root := f.spawner.Start("simple_body").Select().
		Attach("simple_track", components.GroundPropulsionLeft).
		Attach("simple_track", components.GroundPropulsionRight).
		Attach("sensor_mast_two", components.MainCamera).
		Attach("camera_hd", components.LineFollowerCamera).
		Build()
	f.settle(5)
	p := NewInputProducers(f.world, f.phys, f.bus, f.cfg)

	if got, ok := p.SelectedRoot(); !ok || got != root {
		t.Fatalf("selected = %v, %v", got, ok)
	}

	tests := []struct {
		name     string
		held     Action
		want     map[string]int
		wantFree bool
	}{
		{"drive", ActionForward | ActionRotateLeft, map[string]int{"move_motors": 2}, false},
		{"mast", ActionMastLeft, map[string]int{"move_joint": 1}, false},
		{"mast release", 0, map[string]int{"move_joint": 1}, true},
		{"zoom", ActionZoomIn, map[string]int{"zoom_camera": 1}, false},
		{"idle", 0, map[string]int{}, false},
	}

	var in InputState
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in.Set(tc.held)
			p.Update(&in)
			cmds := f.bus.Drain()

			got := map[string]int{}
			for _, c := range cmds {
				got[c.Payload.Name()]++
				if c.Root != root {
					t.Errorf("command for %v, want root", c.Root)
				}
				if free := c.PowerCost == 0; free != tc.wantFree {
					t.Errorf("%s cost = %v", c.Payload.Name(), c.PowerCost)
				}
			}
			if len(got) != len(tc.want) {
				t.Fatalf("commands = %v, want %v", got, tc.want)
			}
			for name, n := range tc.want {
				if got[name] != n {
					t.Errorf("%s count = %d, want %d", name, got[name], n)
				}
			}
		})
	}
}

func TestDriveForceFollowsHeading(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	f.spawner.Start("simple_body").At(0, 0, 90).Select().
		Attach("simple_track", components.GroundPropulsionLeft).
		Build()
	f.settle(5)
	p := NewInputProducers(f.world, f.phys, f.bus, f.cfg)

	var in InputState
	in.Set(ActionForward)
	p.Update(&in)
	cmds := f.bus.Drain()
	if len(cmds) != 1 {
		t.Fatalf("commands = %d, want 1", len(cmds))
	}
	mm := cmds[0].Payload.(MoveMotors)
	// Rotated a quarter turn counter-clockwise, forward points along -x.
	if mm.Force.X() >= 0 || !near(mm.Force.Y(), 0) {
		t.Errorf("force = %v, want along -x", mm.Force)
	}
	want := float32(f.cfg.Motors.LinearSpeed) * f.cfg.Derived.InvScale32
	if !near(mm.Force.Len(), want) {
		t.Errorf("force magnitude = %v, want %v", mm.Force.Len(), want)
	}
}
