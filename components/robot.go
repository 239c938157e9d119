package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/physics"
)

// RigidBody links an entity to its physics body.
type RigidBody struct {
	Handle physics.BodyHandle
}

// JointLink is the component of a joint entity connecting parent and child items.
type JointLink struct {
	Handle physics.JointHandle
	Parent ecs.Entity
	Child  ecs.Entity
	Point  AttachmentPointId
	Type   JointType
}

// Motors drives a ground propulsion item.
type Motors struct {
	LinearSpeed    float32
	AngularSpeed   float32
	LinearDamping  float32
	AngularDamping float32
}

// ImageQuality describes the picture a camera produces.
type ImageQuality struct {
	Sharpness float32
	Exposure  float32
	Noise     float32
}

// CameraZoom holds the reach of a camera's field-of-view sensor.
type CameraZoom struct {
	Min, Max float32 // reach range, physics units
	Speed    float32
	Zoom     float32 // current reach
	FOV      float32 // sensor width
	Sensor   physics.ColliderHandle
}

// Middle returns the sensor center distance from the camera.
func (c *CameraZoom) Middle() float32 {
	return c.Zoom / 2
}

// Adjust changes the reach by delta, clamped to the range, and returns the new reach.
func (c *CameraZoom) Adjust(delta float32) float32 {
	c.Zoom += delta
	if c.Zoom < c.Min {
		c.Zoom = c.Min
	}
	if c.Zoom > c.Max {
		c.Zoom = c.Max
	}
	return c.Zoom
}

// CameraLensState is the runtime state of a lens item.
type CameraLensState struct {
	Kind       LensKind
	Min, Max   float32 // focal travel, physics units
	FocusSpeed float32
}

// Rest returns the focal position the lens starts at.
func (l *CameraLensState) Rest() float32 {
	return l.Min
}

// Battery stores charge for the robot it belongs to. Charge stays within [0, Capacity].
type Battery struct {
	Capacity    float32
	Charge      float32
	ChargeSpeed float32
}

// Fraction returns charge over capacity.
func (b *Battery) Fraction() float32 {
	if b.Capacity <= 0 {
		return 0
	}
	return b.Charge / b.Capacity
}

// Gauge is an inspectable manometer.
type Gauge struct {
	Progress    int
	Goal        int
	Inspecting  bool
	Inspections int // completed inspections
	timer       int
}

// Step advances the inspection timer and reports whether progress was made.
func (g *Gauge) Step(interval int) bool {
	if !g.Inspecting {
		g.timer = 0
		return false
	}
	g.timer++
	if g.timer < interval {
		return false
	}
	g.timer = 0
	g.Progress++
	if g.Goal > 0 && g.Progress >= g.Goal {
		g.Progress = 0
		g.Inspections++
	}
	return true
}
