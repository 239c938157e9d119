// Package components defines ECS components for the robot simulation.
package components

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a 2D placement: position, rotation in radians, and draw order.
type Transform struct {
	Position mgl32.Vec2
	Rotation float32
	Z        float32
}

// Matrix returns the homogeneous 2D matrix of the transform.
func (t Transform) Matrix() mgl32.Mat3 {
	return mgl32.Translate2D(t.Position.X(), t.Position.Y()).Mul3(mgl32.HomogRotate2D(t.Rotation))
}

// Apply maps a point from local to parent space.
func (t Transform) Apply(p mgl32.Vec2) mgl32.Vec2 {
	return t.Matrix().Mul3x1(p.Vec3(1)).Vec2()
}

// Compose places a local transform inside t. Z is taken from the local transform.
func (t Transform) Compose(local Transform) Transform {
	m := t.Matrix().Mul3(local.Matrix())
	return Transform{
		Position: mgl32.Vec2{m[6], m[7]},
		Rotation: t.Rotation + local.Rotation,
		Z:        local.Z,
	}
}

// ItemInfo identifies the catalog item an entity was built from.
type ItemInfo struct {
	Handle      string
	Name        string
	Size        ItemSize
	Type        ItemType
	JointType   JointType
	HalfExtents mgl32.Vec2 // collider half size, physics units
	ZIndex      float32
}

// Visible toggles drawing. Items become visible once attached.
type Visible struct {
	Visible bool
}

// Selected marks the robot root that receives input.
type Selected struct{}

// Placeholder marks an entity spawned for a catalog handle that did not resolve.
type Placeholder struct {
	Handle string
}
