package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// MotionSystem applies drive damping and track grip before the physics step.
type MotionSystem struct {
	phys  *physics.World
	grip  float32
	drive *ecs.Filter2[components.Motors, components.RigidBody]
}

// NewMotionSystem creates the system. grip in [0, 1] is the fraction of
// sideways velocity removed per step.
func NewMotionSystem(w *ecs.World, phys *physics.World, grip float32) *MotionSystem {
	return &MotionSystem{
		phys:  phys,
		grip:  clamp32(grip, 0, 1),
		drive: ecs.NewFilter2[components.Motors, components.RigidBody](w),
	}
}

// Update runs before the physics step.
func (s *MotionSystem) Update() {
	query := s.drive.Query()
	for query.Next() {
		m, rb := query.Get()
		body, ok := s.phys.Body(rb.Handle)
		if !ok || !body.Enabled {
			continue
		}
		body.LinearDamping = m.LinearDamping
		body.AngularDamping = m.AngularDamping

		fwd := body.Forward()
		along := fwd.Mul(body.LinVel.Dot(fwd))
		side := body.LinVel.Sub(along)
		body.LinVel = along.Add(side.Mul(1 - s.grip))
	}
}

// TransformSync copies body placements back to item transforms after the step.
type TransformSync struct {
	phys   *physics.World
	filter *ecs.Filter2[components.Transform, components.RigidBody]
}

// NewTransformSync creates the system.
func NewTransformSync(w *ecs.World, phys *physics.World) *TransformSync {
	return &TransformSync{
		phys:   phys,
		filter: ecs.NewFilter2[components.Transform, components.RigidBody](w),
	}
}

// Update copies position and rotation. Z is left alone.
func (s *TransformSync) Update() {
	query := s.filter.Query()
	for query.Next() {
		t, rb := query.Get()
		body, ok := s.phys.Body(rb.Handle)
		if !ok || !body.Enabled {
			continue
		}
		t.Position = body.Position
		t.Rotation = body.Angle
	}
}
