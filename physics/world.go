// Package physics is a small 2D rigid body engine: bodies with box colliders,
// a joint set with motors and limits, a position-based solver, and a
// spatial-hash broad phase with a user pair filter.
package physics

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/resolv"
)

// Config holds world parameters. Extents are in pixels; physics units are
// pixels divided by Scale.
type Config struct {
	Width      int
	Height     int
	CellSize   int
	Scale      float32
	Iterations int
}

// StepStats counts what happened during the last step.
type StepStats struct {
	Bodies     int
	Joints     int
	Contacts   int // resolved solid contacts
	Suppressed int // pairs rejected by the filter
}

// World owns all bodies, colliders and joints.
type World struct {
	cfg   Config
	space *resolv.Space

	bodies    map[BodyHandle]*Body
	colliders map[ColliderHandle]*Collider
	joints    map[JointHandle]*Joint

	// Handles only grow, so appending keeps these sorted.
	bodyOrder     []BodyHandle
	colliderOrder []ColliderHandle
	jointOrder    []JointHandle

	nextBody     BodyHandle
	nextCollider ColliderHandle
	nextJoint    JointHandle

	filter  PairFilter
	sensors map[pairKey]bool
	events  []Intersection
	stats   StepStats
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) *World {
	if cfg.CellSize < 1 {
		cfg.CellSize = 32
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	return &World{
		cfg:       cfg,
		space:     resolv.NewSpace(cfg.Width, cfg.Height, cfg.CellSize, cfg.CellSize),
		bodies:    make(map[BodyHandle]*Body),
		colliders: make(map[ColliderHandle]*Collider),
		joints:    make(map[JointHandle]*Joint),
		sensors:   make(map[pairKey]bool),
	}
}

// SetPairFilter installs the contact pair hook. A nil filter allows every pair.
func (w *World) SetPairFilter(f PairFilter) {
	w.filter = f
}

// CreateBody adds a body with one solid collider sized to HalfExtents.
func (w *World) CreateBody(d BodyDesc) BodyHandle {
	w.nextBody++
	invMass, invInertia := massProperties(d.HalfExtents, d.Density, d.Static)
	b := &Body{
		Handle:         w.nextBody,
		Entity:         d.Entity,
		Position:       d.Position,
		Angle:          d.Angle,
		InvMass:        invMass,
		InvInertia:     invInertia,
		LinearDamping:  d.LinearDamping,
		AngularDamping: d.AngularDamping,
		Enabled:        d.Enabled,
	}
	w.bodies[b.Handle] = b
	w.bodyOrder = append(w.bodyOrder, b.Handle)

	w.AddCollider(b.Handle, ColliderDesc{
		Entity:      d.Entity,
		HalfExtents: d.HalfExtents,
	})
	return b.Handle
}

// Body returns the body for a handle.
func (w *World) Body(h BodyHandle) (*Body, bool) {
	b, ok := w.bodies[h]
	return b, ok
}

// SetBodyEnabled toggles integration and collision of a body.
func (w *World) SetBodyEnabled(h BodyHandle, enabled bool) {
	b, ok := w.bodies[h]
	if !ok || b.Enabled == enabled {
		return
	}
	b.Enabled = enabled
	for _, ch := range b.colliders {
		c := w.colliders[ch]
		if enabled {
			w.place(c, b)
		} else {
			w.unplace(c)
		}
	}
}

// Teleport moves a body and clears its velocity.
func (w *World) Teleport(h BodyHandle, pos mgl32.Vec2, angle float32) {
	b, ok := w.bodies[h]
	if !ok {
		return
	}
	b.Position = pos
	b.Angle = angle
	b.LinVel = mgl32.Vec2{}
	b.AngVel = 0
	if b.Enabled {
		for _, ch := range b.colliders {
			w.place(w.colliders[ch], b)
		}
	}
}

// RemoveBody removes a body and its colliders. Joints referencing it stay in
// the set until removed and are skipped by the solver.
func (w *World) RemoveBody(h BodyHandle) {
	b, ok := w.bodies[h]
	if !ok {
		return
	}
	for _, ch := range slices.Clone(b.colliders) {
		w.RemoveCollider(ch)
	}
	delete(w.bodies, h)
	w.bodyOrder = slices.DeleteFunc(w.bodyOrder, func(x BodyHandle) bool { return x == h })
}

// AddCollider attaches a collider to a body.
func (w *World) AddCollider(bh BodyHandle, d ColliderDesc) ColliderHandle {
	b, ok := w.bodies[bh]
	if !ok {
		return 0
	}
	w.nextCollider++
	c := &Collider{
		Handle:      w.nextCollider,
		Body:        bh,
		Entity:      d.Entity,
		Offset:      d.Offset,
		HalfExtents: d.HalfExtents,
		Sensor:      d.Sensor,
	}
	c.obj = resolv.NewObject(0, 0, 1, 1)
	c.obj.Data = c
	w.colliders[c.Handle] = c
	w.colliderOrder = append(w.colliderOrder, c.Handle)
	b.colliders = append(b.colliders, c.Handle)
	if b.Enabled {
		w.place(c, b)
	}
	return c.Handle
}

// Collider returns the collider for a handle.
func (w *World) Collider(h ColliderHandle) (*Collider, bool) {
	c, ok := w.colliders[h]
	return c, ok
}

// SetColliderShape changes the local placement and size of a collider.
func (w *World) SetColliderShape(h ColliderHandle, offset, half mgl32.Vec2) {
	c, ok := w.colliders[h]
	if !ok {
		return
	}
	c.Offset = offset
	c.HalfExtents = half
	if b, ok := w.bodies[c.Body]; ok && b.Enabled {
		w.place(c, b)
	}
}

// RemoveCollider removes a collider from its body and the broad phase.
func (w *World) RemoveCollider(h ColliderHandle) {
	c, ok := w.colliders[h]
	if !ok {
		return
	}
	w.unplace(c)
	if b, ok := w.bodies[c.Body]; ok {
		b.colliders = slices.DeleteFunc(b.colliders, func(x ColliderHandle) bool { return x == h })
	}
	for k := range w.sensors {
		if k.a == h || k.b == h {
			delete(w.sensors, k)
		}
	}
	delete(w.colliders, h)
	w.colliderOrder = slices.DeleteFunc(w.colliderOrder, func(x ColliderHandle) bool { return x == h })
}

// CreateJoint adds a joint between two bodies.
func (w *World) CreateJoint(d JointDesc) JointHandle {
	w.nextJoint++
	j := &Joint{Handle: w.nextJoint, JointDesc: d}
	if d.Kind == JointPrismatic && d.Axis.Len() == 0 {
		j.Axis = mgl32.Vec2{0, 1}
	} else if d.Kind == JointPrismatic {
		j.Axis = d.Axis.Normalize()
	}
	w.joints[j.Handle] = j
	w.jointOrder = append(w.jointOrder, j.Handle)
	return j.Handle
}

// Joint returns the joint for a handle.
func (w *World) Joint(h JointHandle) (*Joint, bool) {
	j, ok := w.joints[h]
	return j, ok
}

// JointValue returns the coordinate of a joint's free axis.
func (w *World) JointValue(h JointHandle) (float32, bool) {
	j, ok := w.joints[h]
	if !ok {
		return 0, false
	}
	a, okA := w.bodies[j.BodyA]
	b, okB := w.bodies[j.BodyB]
	if !okA || !okB {
		return 0, false
	}
	return j.Value(a, b), true
}

// RemoveJoint removes a joint from the set.
func (w *World) RemoveJoint(h JointHandle) {
	if _, ok := w.joints[h]; !ok {
		return
	}
	delete(w.joints, h)
	w.jointOrder = slices.DeleteFunc(w.jointOrder, func(x JointHandle) bool { return x == h })
}

// NumBodies returns the number of bodies.
func (w *World) NumBodies() int { return len(w.bodies) }

// NumJoints returns the number of joints.
func (w *World) NumJoints() int { return len(w.joints) }

// Stats returns the counters of the last step.
func (w *World) Stats() StepStats { return w.stats }

// Step advances the world by dt seconds.
func (w *World) Step(dt float32) {
	if dt <= 0 {
		return
	}
	w.stats = StepStats{Bodies: len(w.bodies), Joints: len(w.joints)}

	for _, h := range w.jointOrder {
		j := w.joints[h]
		if a, b, ok := w.jointBodies(j); ok {
			j.applyMotor(a, b)
		}
	}

	for _, h := range w.bodyOrder {
		b := w.bodies[h]
		b.prevPos = b.Position
		b.prevAngle = b.Angle
		if !b.Enabled || b.Static() {
			b.ResetForces()
			continue
		}
		b.LinVel = b.LinVel.Add(b.Force.Mul(b.InvMass * dt))
		b.AngVel += b.Torque * b.InvInertia * dt
		b.LinVel = b.LinVel.Mul(1 / (1 + dt*b.LinearDamping))
		b.AngVel *= 1 / (1 + dt*b.AngularDamping)
		b.Position = b.Position.Add(b.LinVel.Mul(dt))
		b.Angle += b.AngVel * dt
		b.ResetForces()
	}

	for i := 0; i < w.cfg.Iterations; i++ {
		for _, h := range w.jointOrder {
			j := w.joints[h]
			if a, b, ok := w.jointBodies(j); ok {
				j.project(a, b)
			}
		}
	}

	w.collide()

	inv := 1 / dt
	for _, h := range w.bodyOrder {
		b := w.bodies[h]
		if !b.Enabled || b.Static() {
			continue
		}
		b.LinVel = b.Position.Sub(b.prevPos).Mul(inv)
		b.AngVel = (b.Angle - b.prevAngle) * inv
	}
}

// jointBodies returns the enabled bodies of a joint.
func (w *World) jointBodies(j *Joint) (*Body, *Body, bool) {
	a, okA := w.bodies[j.BodyA]
	b, okB := w.bodies[j.BodyB]
	if !okA || !okB || !a.Enabled || !b.Enabled {
		return nil, nil, false
	}
	return a, b, true
}
