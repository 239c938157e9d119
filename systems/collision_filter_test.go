package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
)

func TestFilterContactPair(t *testing.T) {
	w := ecs.NewWorld()
	m := ecs.NewMap[components.Selected](w)
	rootA := m.NewEntity(&components.Selected{})
	rootB := m.NewEntity(&components.Selected{})

	wait := components.WaitForAttach()
	none := components.NoFilter()
	robotA := components.RobotOf(rootA)
	robotA2 := components.RobotOf(rootA)
	robotB := components.RobotOf(rootB)

	tests := []struct {
		name string
		a, b *components.CollisionFilter
		want bool
	}{
		{"waiting vs waiting", &wait, &wait, false},
		{"waiting vs robot", &wait, &robotA, false},
		{"robot vs waiting", &robotA, &wait, false},
		{"waiting vs untagged", &wait, nil, false},
		{"untagged vs waiting", nil, &wait, false},
		{"same robot", &robotA, &robotA2, false},
		{"different robots", &robotA, &robotB, true},
		{"robot vs none", &robotA, &none, true},
		{"none vs none", &none, &none, true},
		{"untagged vs robot", nil, &robotB, true},
		{"untagged vs untagged", nil, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FilterContactPair(tc.a, tc.b); got != tc.want {
				t.Errorf("FilterContactPair = %v, want %v", got, tc.want)
			}
			if got := FilterContactPair(tc.b, tc.a); got != tc.want {
				t.Errorf("FilterContactPair reversed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAssembledRobotDoesNotSelfCollide(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root := f.spawner.Start("simple_body").
		Attach("simple_track", components.GroundPropulsionLeft).
		Attach("simple_track", components.GroundPropulsionRight).
		Attach("camera_hd", components.LineFollowerCamera).
		Build()
	f.settle(5)

	before := f.body(root).Position
	for i := 0; i < 10; i++ {
		f.phys.Step(f.cfg.Derived.DT32)
	}
	if stats := f.phys.Stats(); stats.Contacts != 0 {
		t.Errorf("contacts = %d, want none between parts of one robot", stats.Contacts)
	}
	if after := f.body(root).Position; !near(after.X(), before.X()) || !near(after.Y(), before.Y()) {
		t.Errorf("robot drifted from %v to %v", before, after)
	}
}

func TestSeparateRobotsCollide(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	a := f.spawner.Start("simple_body").Build()
	b := f.spawner.Start("simple_body").At(30, 0, 0).Build()
	f.settle(5)

	f.phys.Step(f.cfg.Derived.DT32)
	dist := f.body(b).Position.Sub(f.body(a).Position).Len()
	if want := 48 * f.cfg.Derived.InvScale32; dist < want-1e-3 {
		t.Errorf("bodies %v apart, want separated to %v", dist, want)
	}
}
