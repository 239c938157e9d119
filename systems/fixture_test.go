package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/builder"
	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/physics"
)

// fixture wires the assembly and command systems around a fresh world.
type fixture struct {
	t       *testing.T
	cfg     *config.Config
	world   *ecs.World
	phys    *physics.World
	spawner *builder.Spawner
	joints  *JointSpawner
	bus     *RobotCommands
	ledger  *EnergyLedger
	exec    *CommandExecutor
	tick    int32

	tags    *ecs.Map[components.CollisionFilter]
	results *ecs.Map[components.AttachResult]
	attach  *ecs.Map[components.Attachments]
	bodies  *ecs.Map[components.RigidBody]
	links   *ecs.Map[components.JointLink]
	battery *ecs.Map[components.Battery]
}

func newFixture(t *testing.T, debitMode string) *fixture {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	cfg.Energy.DebitMode = debitMode
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	w := ecs.NewWorld()
	phys := physics.NewWorld(physics.Config{
		Width:      cfg.World.Width,
		Height:     cfg.World.Height,
		CellSize:   cfg.World.CellSize,
		Scale:      cfg.Derived.Scale32,
		Iterations: cfg.Physics.SolverIterations,
	})
	phys.SetPairFilter(NewCollisionHook(w))

	bus := NewRobotCommands()
	ledger := NewEnergyLedger(w)
	f := &fixture{
		t:       t,
		cfg:     cfg,
		world:   w,
		phys:    phys,
		spawner: builder.NewSpawner(w, phys, cat, cfg, nil),
		joints:  NewJointSpawner(w, phys, float32(cfg.Joints.BallMotorDamping)),
		bus:     bus,
		ledger:  ledger,
		exec:    NewCommandExecutor(w, phys, bus, ledger, debitMode),
		tags:    ecs.NewMap[components.CollisionFilter](w),
		results: ecs.NewMap[components.AttachResult](w),
		attach:  ecs.NewMap[components.Attachments](w),
		bodies:  ecs.NewMap[components.RigidBody](w),
		links:   ecs.NewMap[components.JointLink](w),
		battery: ecs.NewMap[components.Battery](w),
	}
	f.joints.OnCommit(components.KindCameraLens, LensCommitHook(w, bus))
	return f
}

// step runs one spawner pass.
func (f *fixture) step() SpawnReport {
	r := f.joints.Update(f.tick)
	f.tick++
	return r
}

// settle runs spawner passes until nothing is pending, failing after max passes.
func (f *fixture) settle(max int) int {
	f.t.Helper()
	for i := 1; i <= max; i++ {
		r := f.step()
		if r.Pending == 0 && r.Committed == 0 {
			return i - 1
		}
	}
	f.t.Fatalf("requests still pending after %d passes", max)
	return max
}

func (f *fixture) result(e ecs.Entity) components.AttachResult {
	f.t.Helper()
	if !f.results.Has(e) {
		f.t.Fatalf("entity %v has no attach result", e)
	}
	return *f.results.Get(e)
}

func (f *fixture) body(e ecs.Entity) *physics.Body {
	f.t.Helper()
	b, ok := f.phys.Body(f.bodies.Get(e).Handle)
	if !ok {
		f.t.Fatalf("entity %v has no body", e)
	}
	return b
}

func (f *fixture) point(parent ecs.Entity, id components.AttachmentPointId) *components.Attachment {
	f.t.Helper()
	p, ok := f.attach.Get(parent).Get(id)
	if !ok {
		f.t.Fatalf("parent has no point %s", id.Key())
	}
	return p
}

// batteryRobot builds a body with a simple battery and settles it.
func (f *fixture) batteryRobot() (root, battery ecs.Entity) {
	f.t.Helper()
	root = f.spawner.Start("simple_body").
		Attach("simple_battery", components.MainBattery).
		Build()
	f.settle(5)
	battery = f.point(root, components.MainBattery).Attached.Child
	return root, battery
}

// byHandle returns the first item spawned from a catalog handle.
func (f *fixture) byHandle(h string) ecs.Entity {
	f.t.Helper()
	query := ecs.NewFilter1[components.ItemInfo](f.world).Query()
	for query.Next() {
		if query.Get().Handle == h {
			e := query.Entity()
			query.Close()
			return e
		}
	}
	f.t.Fatalf("no item %q", h)
	return ecs.Entity{}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}
