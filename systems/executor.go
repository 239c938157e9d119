package systems

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// ExecutorStats counts command outcomes for one tick.
type ExecutorStats struct {
	Executed   int
	Dropped    int // not enough charge
	Failed     int // target missing or of the wrong kind
	PowerSpent float32
}

// CommandExecutor drains the bus, debits batteries and applies paid commands.
type CommandExecutor struct {
	world  *ecs.World
	phys   *physics.World
	bus    *RobotCommands
	ledger *EnergyLedger
	mode   string

	bodyMap  *ecs.Map[components.RigidBody]
	jointMap *ecs.Map[components.JointLink]
	zoomMap  *ecs.Map[components.CameraZoom]
}

// NewCommandExecutor creates the executor. mode is config.DebitAtomic or config.DebitDrain.
func NewCommandExecutor(w *ecs.World, phys *physics.World, bus *RobotCommands, ledger *EnergyLedger, mode string) *CommandExecutor {
	return &CommandExecutor{
		world:    w,
		phys:     phys,
		bus:      bus,
		ledger:   ledger,
		mode:     mode,
		bodyMap:  ecs.NewMap[components.RigidBody](w),
		jointMap: ecs.NewMap[components.JointLink](w),
		zoomMap:  ecs.NewMap[components.CameraZoom](w),
	}
}

// Update processes every queued command in FIFO order.
func (x *CommandExecutor) Update() ExecutorStats {
	var stats ExecutorStats
	cmds := x.bus.Drain()
	if len(cmds) == 0 {
		return stats
	}

	index := x.ledger.Index()
	for _, cmd := range cmds {
		apply, ok := x.resolve(cmd.Payload)
		if !ok {
			stats.Failed++
			slog.Debug("command target missing", "command", cmd.Payload.Name(), "root", cmd.Root.ID())
			continue
		}

		paid, spent := Debit(x.ledger.Batteries(index[cmd.Root]), cmd.PowerCost, x.mode)
		stats.PowerSpent += spent
		if !paid {
			stats.Dropped++
			continue
		}
		apply()
		stats.Executed++
	}
	return stats
}

// resolve validates a command's target and returns the action that applies it.
func (x *CommandExecutor) resolve(c Command) (func(), bool) {
	switch c := c.(type) {
	case MoveMotors:
		body, ok := x.body(c.Body)
		if !ok {
			return nil, false
		}
		return func() {
			body.AddForce(c.Force)
			body.AddTorque(c.Torque)
		}, true

	case MoveJoint:
		j, link, ok := x.joint(c.Joint)
		if !ok || link.Type == components.JointFixed {
			return nil, false
		}
		return func() { j.SetMotorVelocity(c.Velocity, c.Damping) }, true

	case SetJoint:
		j, link, ok := x.joint(c.Joint)
		if !ok || link.Type == components.JointFixed {
			return nil, false
		}
		return func() { j.SetMotorPosition(c.Position, 1) }, true

	case SetJointLimits:
		j, link, ok := x.joint(c.Joint)
		if !ok || link.Type == components.JointFixed {
			return nil, false
		}
		return func() { j.SetLimits(c.Min, c.Max) }, true

	case ZoomCamera:
		if !x.alive(c.Camera) || !x.zoomMap.Has(c.Camera) {
			return nil, false
		}
		zoom := x.zoomMap.Get(c.Camera)
		return func() {
			zoom.Adjust(c.Delta)
			x.phys.SetColliderShape(zoom.Sensor, FOVOffset(zoom), FOVHalfExtents(zoom))
		}, true
	}
	return nil, false
}

func (x *CommandExecutor) alive(e ecs.Entity) bool {
	return !e.IsZero() && x.world.Alive(e)
}

func (x *CommandExecutor) body(e ecs.Entity) (*physics.Body, bool) {
	if !x.alive(e) || !x.bodyMap.Has(e) {
		return nil, false
	}
	return x.phys.Body(x.bodyMap.Get(e).Handle)
}

func (x *CommandExecutor) joint(e ecs.Entity) (*physics.Joint, *components.JointLink, bool) {
	if !x.alive(e) || !x.jointMap.Has(e) {
		return nil, nil, false
	}
	link := x.jointMap.Get(e)
	j, ok := x.phys.Joint(link.Handle)
	return j, link, ok
}

// FOVOffset returns the camera-local center of the field-of-view sensor.
func FOVOffset(z *components.CameraZoom) mgl32.Vec2 {
	return mgl32.Vec2{0, z.Middle()}
}

// FOVHalfExtents returns the half size of the field-of-view sensor.
func FOVHalfExtents(z *components.CameraZoom) mgl32.Vec2 {
	return mgl32.Vec2{z.FOV / 2, z.Middle()}
}
