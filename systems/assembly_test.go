package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/builder"
	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/physics"
)

func TestSimpleAttachTakesTwoPasses(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root := f.spawner.Start("simple_body").
		Attach("simple_battery", components.MainBattery).
		Build()

	r := f.step()
	if r.Committed != 1 || r.Pending != 1 {
		t.Fatalf("first pass = %+v, want root committed and child pending", r)
	}
	if tag := f.tags.Get(root); tag.Kind != components.FilterRobot || tag.Root != root {
		t.Errorf("root tag = %+v, want Robot(root)", *tag)
	}

	var battery ecs.Entity
	query := ecs.NewFilter1[components.Battery](f.world).Query()
	for query.Next() {
		battery = query.Entity()
	}
	if res := f.result(battery); res.State != components.AttachPending || res.Reason != components.ReasonParentNotReady {
		t.Errorf("child after first pass = %+v, want pending/parent_not_ready", res)
	}

	r = f.step()
	if r.Committed != 1 || r.Pending != 0 {
		t.Fatalf("second pass = %+v, want child committed", r)
	}

	point := f.point(root, components.MainBattery)
	if !point.IsAttached() || point.Attached.Child != battery {
		t.Fatalf("point = %+v, want battery attached", point.Attached)
	}
	if tag := f.tags.Get(battery); tag.Kind != components.FilterRobot || tag.Root != root {
		t.Errorf("battery tag = %+v, want Robot(root)", *tag)
	}
	if f.phys.NumJoints() != 1 {
		t.Errorf("joints = %d, want 1", f.phys.NumJoints())
	}
	link := f.links.Get(point.Attached.Joint)
	if link.Parent != root || link.Child != battery || link.Point != components.MainBattery {
		t.Errorf("joint link = %+v", *link)
	}
	if !f.body(battery).Enabled {
		t.Error("battery body still disabled after commit")
	}
	if !ecs.NewMap[components.Visible](f.world).Get(battery).Visible {
		t.Error("battery still hidden after commit")
	}
	if f.world.Alive(battery) && ecs.NewMap[components.WantToAttach](f.world).Has(battery) {
		t.Error("committed request kept its marker")
	}
}

func TestNestedTreeSharesRootTag(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	var lens ecs.Entity
	root := f.spawner.Start("simple_body").
		Attach("camera_hd", components.LineFollowerCamera).
		Attach("simple_track", components.GroundPropulsionLeft).
		Attach("simple_track", components.GroundPropulsionRight).
		AttachNested("sensor_mast_two", components.MainCamera, func(mast *builder.ItemBuilder) {
			mast.AttachNested("camera_zoom", components.FirstCamera, func(cam *builder.ItemBuilder) {
				cam.Attach("camera_lens_telephoto", components.CameraLens)
			})
		}).
		Attach("simple_battery", components.MainBattery).
		Build()

	// Root, mast, zoom camera and lens each need their own pass.
	if passes := f.settle(10); passes != 4 {
		t.Errorf("settled after %d passes, want 4", passes)
	}

	count := 0
	query := ecs.NewFilter2[components.ItemInfo, components.CollisionFilter](f.world).Query()
	for query.Next() {
		info, tag := query.Get()
		count++
		if tag.Kind != components.FilterRobot || tag.Root != root {
			t.Errorf("%s tag = %+v, want Robot(root)", info.Handle, *tag)
		}
		if info.Handle == "camera_lens_telephoto" {
			lens = query.Entity()
		}
	}
	if count != 8 {
		t.Errorf("items = %d, want 8", count)
	}
	if f.phys.NumJoints() != 7 {
		t.Errorf("joints = %d, want 7", f.phys.NumJoints())
	}

	// The lens hook queues free limit and rest commands.
	if f.bus.Len() != 2 {
		t.Fatalf("bus holds %d commands, want 2 from the lens hook", f.bus.Len())
	}
	stats := f.exec.Update()
	if stats.Executed != 2 || stats.PowerSpent != 0 {
		t.Errorf("executor stats = %+v, want 2 free commands", stats)
	}

	var lensJoint *physics.Joint
	jq := ecs.NewFilter1[components.JointLink](f.world).Query()
	for jq.Next() {
		link := jq.Get()
		if link.Child == lens {
			lensJoint, _ = f.phys.Joint(link.Handle)
		}
	}
	if lensJoint == nil {
		t.Fatal("no joint holds the lens")
	}
	lensState := ecs.NewMap[components.CameraLensState](f.world).Get(lens)
	if !lensJoint.Limits.Enabled || lensJoint.Limits.Min != lensState.Min || lensJoint.Limits.Max != lensState.Max {
		t.Errorf("lens limits = %+v, want [%v, %v]", lensJoint.Limits, lensState.Min, lensState.Max)
	}
	if lensJoint.Motor.Mode != physics.MotorPosition || lensJoint.Motor.Position != lensState.Rest() {
		t.Errorf("lens motor = %+v, want position %v", lensJoint.Motor, lensState.Rest())
	}
}

func TestRejectedRequests(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		point  components.AttachmentPointId
		reason components.RejectReason
	}{
		{"wrong type", "simple_battery", components.MainCamera, components.ReasonIncompatible},
		{"too large", "large_battery", components.MainBattery, components.ReasonIncompatible},
		{"point not on parent", "simple_battery", components.CameraLens, components.ReasonUnknownPoint},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, config.DebitAtomic)
			root := f.spawner.Start("simple_body").Build()
			child := f.spawner.AttachTo(root, tc.point, catalog.Handle(tc.handle)).Build()

			f.settle(5)
			res := f.result(child)
			if res.State != components.AttachRejected || res.Reason != tc.reason {
				t.Fatalf("result = %+v, want rejected/%s", res, tc.reason)
			}
			if !res.Reason.Permanent() {
				t.Error("rejection reason reported as transient")
			}

			// Rejected requests are skipped, not retried.
			at := res.Tick
			for i := 0; i < 3; i++ {
				f.step()
			}
			if got := f.result(child).Tick; got != at {
				t.Errorf("rejected request re-evaluated at tick %d", got)
			}
			if !ecs.NewMap[components.WantToAttach](f.world).Has(child) {
				t.Error("rejected request lost its marker")
			}
			if tag := f.tags.Get(child); tag.Kind != components.FilterWaitForAttach {
				t.Errorf("rejected item tag = %+v, want WaitForAttach", *tag)
			}

			rejected := f.joints.TakeRejected()
			if len(rejected) != 1 || rejected[0].Entity != child || rejected[0].Reason != tc.reason {
				t.Errorf("TakeRejected = %+v", rejected)
			}
			if len(f.joints.TakeRejected()) != 0 {
				t.Error("TakeRejected did not clear")
			}
		})
	}
}

func TestOccupiedPointStaysPending(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root := f.spawner.Start("simple_body").Build()
	first := f.spawner.AttachTo(root, components.MainBattery, "simple_battery").Build()
	second := f.spawner.AttachTo(root, components.MainBattery, "simple_battery").Build()

	for i := 0; i < 5; i++ {
		f.step()
	}
	if res := f.result(first); res.State != components.AttachCommitted {
		t.Errorf("first = %+v, want committed", res)
	}
	res := f.result(second)
	if res.State != components.AttachPending || res.Reason != components.ReasonPointOccupied {
		t.Errorf("second = %+v, want pending/point_occupied", res)
	}
	if res.Reason.Permanent() {
		t.Error("occupied point reported as permanent")
	}
	if f.point(root, components.MainBattery).Attached.Child != first {
		t.Error("second request evicted the first child")
	}
}

func TestParentFailures(t *testing.T) {
	t.Run("parent despawned", func(t *testing.T) {
		f := newFixture(t, config.DebitAtomic)
		root := f.spawner.Start("simple_body").Build()
		child := f.spawner.AttachTo(root, components.MainBattery, "simple_battery").Build()
		f.world.RemoveEntity(root)

		f.step()
		if res := f.result(child); res.State != components.AttachRejected || res.Reason != components.ReasonParentMissing {
			t.Errorf("result = %+v, want rejected/parent_missing", res)
		}
	})

	t.Run("parent rejected", func(t *testing.T) {
		f := newFixture(t, config.DebitAtomic)
		root := f.spawner.Start("simple_body").
			AttachNested("sensor_mast_two", components.MainBattery, func(mast *builder.ItemBuilder) {
				mast.Attach("camera_hd", components.FirstCamera)
			}).
			Build()
		f.settle(5)

		mast, camera := f.byHandle("sensor_mast_two"), f.byHandle("camera_hd")
		if res := f.result(mast); res.Reason != components.ReasonIncompatible {
			t.Errorf("mast = %+v, want incompatible", res)
		}
		if res := f.result(camera); res.State != components.AttachRejected || res.Reason != components.ReasonParentRejected {
			t.Errorf("camera = %+v, want rejected/parent_rejected", res)
		}
		if f.point(root, components.MainBattery).IsAttached() {
			t.Error("rejected mast occupies the point")
		}
	})

	t.Run("catalog miss", func(t *testing.T) {
		f := newFixture(t, config.DebitAtomic)
		e := f.spawner.Start("no_such_item").Attach("simple_battery", components.MainBattery).Build()
		if res := f.result(e); res.State != components.AttachRejected || res.Reason != components.ReasonCatalogMiss {
			t.Errorf("result = %+v, want rejected/catalog_miss", res)
		}
		if !ecs.NewMap[components.Placeholder](f.world).Has(e) {
			t.Error("no placeholder spawned")
		}
		if f.phys.NumBodies() != 0 {
			t.Errorf("bodies = %d, want none for a missing item and its children", f.phys.NumBodies())
		}
	})
}

func TestAttachedItemMovesToPoint(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root := f.spawner.Start("simple_body").At(120, -60, 90).
		Attach("simple_battery", components.MainBattery).
		Build()
	f.settle(5)

	rb := f.body(root)
	battery := f.point(root, components.MainBattery)
	cb := f.body(battery.Attached.Child)
	want := rb.WorldPoint(battery.Transform.Position)
	if !near(cb.Position.X(), want.X()) || !near(cb.Position.Y(), want.Y()) {
		t.Errorf("battery at %v, want %v", cb.Position, want)
	}
	if !near(cb.Angle, rb.Angle) {
		t.Errorf("battery angle %v, want %v", cb.Angle, rb.Angle)
	}
}

func TestJointSweepRemovesDanglingJoints(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root, battery := f.batteryRobot()
	sweeper := NewJointSweeper(f.world, f.phys)

	if n := sweeper.Sweep(); n != 0 {
		t.Fatalf("swept %d joints from an intact robot", n)
	}

	// Despawn out of band, leaving the joint behind.
	f.phys.RemoveBody(f.bodies.Get(battery).Handle)
	f.world.RemoveEntity(battery)

	if n := sweeper.Sweep(); n != 1 {
		t.Fatalf("swept %d joints, want 1", n)
	}
	if f.phys.NumJoints() != 0 {
		t.Errorf("physics joints = %d, want 0", f.phys.NumJoints())
	}
	if f.point(root, components.MainBattery).IsAttached() {
		t.Error("point still occupied after sweep")
	}
}

func TestDetachRemovesSubtree(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root := f.spawner.Start("simple_body").
		AttachNested("sensor_mast_two", components.MainCamera, func(mast *builder.ItemBuilder) {
			mast.Attach("camera_hd", components.FirstCamera).
				Attach("camera_hd", components.SecondCamera)
		}).
		Attach("simple_battery", components.MainBattery).
		Build()
	f.settle(5)
	if f.phys.NumJoints() != 4 {
		t.Fatalf("joints = %d, want 4", f.phys.NumJoints())
	}

	d := NewDespawner(f.world, f.phys)
	if !d.Detach(root, components.MainCamera) {
		t.Fatal("detach reported an empty point")
	}
	if d.Detach(root, components.MainCamera) {
		t.Error("second detach reported an occupied point")
	}
	if f.phys.NumJoints() != 1 || f.phys.NumBodies() != 2 {
		t.Errorf("joints %d bodies %d, want 1 and 2", f.phys.NumJoints(), f.phys.NumBodies())
	}
	if f.point(root, components.MainCamera).IsAttached() {
		t.Error("point still occupied")
	}

	d.DespawnTree(root)
	if f.world.Alive(root) || f.phys.NumBodies() != 0 || f.phys.NumJoints() != 0 {
		t.Errorf("tree not fully removed: bodies %d joints %d", f.phys.NumBodies(), f.phys.NumJoints())
	}
}

func TestDespawnTreeKeepsReassignedPoint(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root, old := f.batteryRobot()
	spare := f.spawner.Start("simple_battery").Build()

	// The point moves on to another child while the old joint still links
	// the previous one.
	point := f.point(root, components.MainBattery)
	point.Detach()
	point.Attach(spare, ecs.Entity{})

	NewDespawner(f.world, f.phys).DespawnTree(old)

	if f.world.Alive(old) {
		t.Error("old battery still alive")
	}
	if f.phys.NumJoints() != 0 {
		t.Errorf("joints = %d, want the stale joint removed", f.phys.NumJoints())
	}
	if p := f.point(root, components.MainBattery); !p.IsAttached() || p.Attached.Child != spare {
		t.Errorf("point = %+v, want it still holding the spare battery", p.Attached)
	}
}

func TestReplaceAttachment(t *testing.T) {
	f := newFixture(t, config.DebitAtomic)
	root, old := f.batteryRobot()

	queue := &AssemblyQueue{}
	handler := NewAssemblyHandler(queue, NewDespawner(f.world, f.phys), f.spawner)
	queue.Push(AssemblyEvent{Kind: ReplaceAttachment, Parent: root, Point: components.MainBattery, Handle: "simple_battery"})

	spawned := handler.Update()
	if len(spawned) != 1 {
		t.Fatalf("spawned %d items, want 1", len(spawned))
	}
	if f.world.Alive(old) {
		t.Error("old battery still alive")
	}
	f.settle(5)
	point := f.point(root, components.MainBattery)
	if !point.IsAttached() || point.Attached.Child != spawned[0] {
		t.Errorf("point holds %+v, want the new battery", point.Attached)
	}

	queue.Push(AssemblyEvent{Kind: RemoveAttachment, Parent: root, Point: components.MainBattery})
	handler.Update()
	if point.IsAttached() || f.phys.NumJoints() != 0 {
		t.Error("remove left the battery attached")
	}
}
