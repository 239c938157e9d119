package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// Command is a payload carried by a RobotCommand.
type Command interface {
	Name() string
}

// MoveMotors adds force and torque to a body's accumulator.
type MoveMotors struct {
	Body   ecs.Entity
	Force  mgl32.Vec2
	Torque float32
}

// MoveJoint sets the motor target velocity of a joint.
type MoveJoint struct {
	Joint    ecs.Entity
	Velocity float32
	Damping  float32
}

// SetJoint drives a joint to an absolute position.
type SetJoint struct {
	Joint    ecs.Entity
	Position float32
}

// SetJointLimits bounds the travel of a joint.
type SetJointLimits struct {
	Joint    ecs.Entity
	Min, Max float32
}

// ZoomCamera changes the sensor reach of a camera.
type ZoomCamera struct {
	Camera ecs.Entity
	Delta  float32
}

func (MoveMotors) Name() string     { return "move_motors" }
func (MoveJoint) Name() string      { return "move_joint" }
func (SetJoint) Name() string       { return "set_joint" }
func (SetJointLimits) Name() string { return "set_joint_limits" }
func (ZoomCamera) Name() string     { return "zoom_camera" }

// RobotCommand is a power-gated request addressed to a robot.
type RobotCommand struct {
	Root      ecs.Entity
	Payload   Command
	PowerCost float32
}

// RobotCommands is the FIFO command bus drained once per tick.
type RobotCommands struct {
	queue []RobotCommand
}

// NewRobotCommands creates an empty bus.
func NewRobotCommands() *RobotCommands {
	return &RobotCommands{}
}

// Send appends a command.
func (b *RobotCommands) Send(cmd RobotCommand) {
	b.queue = append(b.queue, cmd)
}

// Len returns the number of queued commands.
func (b *RobotCommands) Len() int {
	return len(b.queue)
}

// Drain returns all queued commands in send order and empties the bus.
func (b *RobotCommands) Drain() []RobotCommand {
	out := b.queue
	b.queue = nil
	return out
}
