package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// JointHandle identifies a joint. Zero is never a valid handle.
type JointHandle uint32

// JointKind selects the constraint a joint enforces.
type JointKind uint8

const (
	// JointFixed locks relative position and rotation.
	JointFixed JointKind = iota
	// JointBall pins the anchors together and leaves rotation free.
	JointBall
	// JointPrismatic locks rotation and lets the child slide along an axis.
	JointPrismatic
	// JointRevolute pins the anchors together with optional angle limits.
	JointRevolute
)

func (k JointKind) String() string {
	switch k {
	case JointFixed:
		return "fixed"
	case JointBall:
		return "ball"
	case JointPrismatic:
		return "prismatic"
	case JointRevolute:
		return "revolute"
	}
	return "unknown"
}

// MotorMode selects what a joint motor drives.
type MotorMode uint8

const (
	MotorOff MotorMode = iota
	MotorVelocity
	MotorPosition
)

// Motor drives the free axis of a joint. Damping and stiffness are the
// fraction of the error corrected per step, in [0, 1].
type Motor struct {
	Mode      MotorMode
	Velocity  float32
	Damping   float32
	Position  float32
	Stiffness float32
}

// Limits bounds the free axis of a joint.
type Limits struct {
	Enabled  bool
	Min, Max float32
}

// JointDesc describes a joint to create.
type JointDesc struct {
	Kind     JointKind
	Entity   ecs.Entity
	BodyA    BodyHandle // parent
	BodyB    BodyHandle // child
	AnchorA  mgl32.Vec2 // in BodyA's frame
	AnchorB  mgl32.Vec2 // in BodyB's frame
	Axis     mgl32.Vec2 // prismatic slide axis in BodyA's frame
	RefAngle float32    // rest angle of B relative to A
}

// Joint constrains two bodies.
type Joint struct {
	Handle JointHandle
	JointDesc
	Motor  Motor
	Limits Limits
}

// SetMotorVelocity drives the free axis toward a target velocity.
func (j *Joint) SetMotorVelocity(velocity, damping float32) {
	j.Motor.Mode = MotorVelocity
	j.Motor.Velocity = velocity
	j.Motor.Damping = clamp01(damping)
}

// SetMotorPosition drives the free axis toward an absolute position.
func (j *Joint) SetMotorPosition(position, stiffness float32) {
	j.Motor.Mode = MotorPosition
	j.Motor.Position = position
	j.Motor.Stiffness = clamp01(stiffness)
}

// SetLimits bounds the free axis. min > max is swapped.
func (j *Joint) SetLimits(min, max float32) {
	if min > max {
		min, max = max, min
	}
	j.Limits = Limits{Enabled: true, Min: min, Max: max}
}

// hasAngularFreedom reports whether relative rotation is free.
func (j *Joint) hasAngularFreedom() bool {
	return j.Kind == JointBall || j.Kind == JointRevolute
}

// Value returns the current coordinate of the joint's free axis: relative
// angle for ball/revolute joints, slide distance for prismatic joints.
func (j *Joint) Value(a, b *Body) float32 {
	switch j.Kind {
	case JointPrismatic:
		axis := rotate(j.Axis, a.Angle)
		d := b.WorldPoint(j.AnchorB).Sub(a.WorldPoint(j.AnchorA))
		return d.Dot(axis)
	case JointBall, JointRevolute:
		return b.Angle - a.Angle - j.RefAngle
	}
	return 0
}

// applyMotor adjusts relative velocity along the free axis.
func (j *Joint) applyMotor(a, b *Body) {
	if j.Motor.Mode != MotorVelocity {
		return
	}
	switch j.Kind {
	case JointBall, JointRevolute:
		sum := a.InvInertia + b.InvInertia
		if sum == 0 {
			return
		}
		rel := b.AngVel - a.AngVel
		dv := (j.Motor.Velocity - rel) * j.Motor.Damping
		a.AngVel -= dv * a.InvInertia / sum
		b.AngVel += dv * b.InvInertia / sum
	case JointPrismatic:
		sum := a.InvMass + b.InvMass
		if sum == 0 {
			return
		}
		axis := rotate(j.Axis, a.Angle)
		rel := b.LinVel.Sub(a.LinVel).Dot(axis)
		dv := (j.Motor.Velocity - rel) * j.Motor.Damping
		a.LinVel = a.LinVel.Sub(axis.Mul(dv * a.InvMass / sum))
		b.LinVel = b.LinVel.Add(axis.Mul(dv * b.InvMass / sum))
	}
}

// project moves both bodies to satisfy the constraint.
func (j *Joint) project(a, b *Body) {
	j.projectAngle(a, b)

	sum := a.InvMass + b.InvMass
	if sum == 0 {
		return
	}
	pa := a.WorldPoint(j.AnchorA)
	pb := b.WorldPoint(j.AnchorB)

	var target mgl32.Vec2
	if j.Kind == JointPrismatic {
		axis := rotate(j.Axis, a.Angle)
		t := pb.Sub(pa).Dot(axis)
		if j.Motor.Mode == MotorPosition {
			t += (j.Motor.Position - t) * j.Motor.Stiffness
		}
		if j.Limits.Enabled {
			t = clamp(t, j.Limits.Min, j.Limits.Max)
		}
		target = pa.Add(axis.Mul(t))
	} else {
		target = pa
	}

	err := target.Sub(pb)
	a.Position = a.Position.Sub(err.Mul(a.InvMass / sum))
	b.Position = b.Position.Add(err.Mul(b.InvMass / sum))
}

func (j *Joint) projectAngle(a, b *Body) {
	sum := a.InvInertia + b.InvInertia
	if sum == 0 {
		return
	}
	rel := b.Angle - a.Angle - j.RefAngle

	desired := rel
	if j.hasAngularFreedom() {
		if j.Motor.Mode == MotorPosition {
			desired += (j.Motor.Position - desired) * j.Motor.Stiffness
		}
		if j.Limits.Enabled {
			desired = clamp(desired, j.Limits.Min, j.Limits.Max)
		}
	} else {
		desired = 0
	}

	err := desired - rel
	if err == 0 {
		return
	}
	a.Angle -= err * a.InvInertia / sum
	b.Angle += err * b.InvInertia / sum
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float32) float32 {
	return clamp(v, 0, 1)
}
