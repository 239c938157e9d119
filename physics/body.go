package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"github.com/solarlune/resolv"
)

// BodyHandle identifies a rigid body. Zero is never a valid handle.
type BodyHandle uint32

// ColliderHandle identifies a collider. Zero is never a valid handle.
type ColliderHandle uint32

// BodyDesc describes a body to create.
type BodyDesc struct {
	Entity         ecs.Entity
	Position       mgl32.Vec2
	Angle          float32
	HalfExtents    mgl32.Vec2 // main collider half size
	Density        float32
	Static         bool
	LinearDamping  float32
	AngularDamping float32
	Enabled        bool
}

// Body is a rigid body with a force accumulator.
type Body struct {
	Handle BodyHandle
	Entity ecs.Entity

	Position mgl32.Vec2
	Angle    float32
	LinVel   mgl32.Vec2
	AngVel   float32

	// Accumulated for the next step, cleared after it.
	Force  mgl32.Vec2
	Torque float32

	InvMass        float32
	InvInertia     float32
	LinearDamping  float32
	AngularDamping float32

	Enabled bool

	colliders []ColliderHandle
	prevPos   mgl32.Vec2
	prevAngle float32
}

// AddForce adds to the force accumulator.
func (b *Body) AddForce(f mgl32.Vec2) {
	b.Force = b.Force.Add(f)
}

// AddTorque adds to the torque accumulator.
func (b *Body) AddTorque(t float32) {
	b.Torque += t
}

// ResetForces clears the accumulators.
func (b *Body) ResetForces() {
	b.Force = mgl32.Vec2{}
	b.Torque = 0
}

// Static reports whether the body has infinite mass.
func (b *Body) Static() bool {
	return b.InvMass == 0
}

// WorldPoint maps a body-local point to world space.
func (b *Body) WorldPoint(local mgl32.Vec2) mgl32.Vec2 {
	return b.Position.Add(rotate(local, b.Angle))
}

// Forward returns the body's local +y axis in world space.
func (b *Body) Forward() mgl32.Vec2 {
	return rotate(mgl32.Vec2{0, 1}, b.Angle)
}

// Colliders returns the handles of the colliders attached to the body.
func (b *Body) Colliders() []ColliderHandle {
	return b.colliders
}

// ColliderDesc describes a collider to attach to a body.
type ColliderDesc struct {
	Entity      ecs.Entity
	Offset      mgl32.Vec2 // body-local center
	HalfExtents mgl32.Vec2
	Sensor      bool
}

// Collider is a box shape fixed to a body. Sensors report intersections
// and never push bodies apart.
type Collider struct {
	Handle      ColliderHandle
	Body        BodyHandle
	Entity      ecs.Entity
	Offset      mgl32.Vec2
	HalfExtents mgl32.Vec2
	Sensor      bool

	obj      *resolv.Object
	shapeW   float64
	shapeH   float64
	center   mgl32.Vec2 // world center, refreshed each step
	aabbHalf mgl32.Vec2 // world-aligned half size, refreshed each step
	inSpace  bool
}

// Center returns the world center computed in the last step.
func (c *Collider) Center() mgl32.Vec2 {
	return c.center
}

// Bounds returns the world-aligned half size computed in the last step.
func (c *Collider) Bounds() mgl32.Vec2 {
	return c.aabbHalf
}

// massProperties returns inverse mass and inertia of a solid box.
func massProperties(half mgl32.Vec2, density float32, static bool) (invMass, invInertia float32) {
	if static {
		return 0, 0
	}
	w, h := 2*half.X(), 2*half.Y()
	m := density * w * h
	if m <= 0 {
		m = 1
	}
	inertia := m * (w*w + h*h) / 12
	if inertia <= 0 {
		inertia = m
	}
	return 1 / m, 1 / inertia
}

func rotate(v mgl32.Vec2, angle float32) mgl32.Vec2 {
	return mgl32.Rotate2D(angle).Mul2x1(v)
}

// rotatedHalf returns the half size of the world-aligned box around a rotated box.
func rotatedHalf(half mgl32.Vec2, angle float32) mgl32.Vec2 {
	c := float32(math.Abs(math.Cos(float64(angle))))
	s := float32(math.Abs(math.Sin(float64(angle))))
	return mgl32.Vec2{
		c*half.X() + s*half.Y(),
		s*half.X() + c*half.Y(),
	}
}
