package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// FilterContactPair reports whether two tagged entities may interact.
// Untagged entities (nil) interact with everything except items waiting
// for attachment. Parts of the same robot never interact.
func FilterContactPair(a, b *components.CollisionFilter) bool {
	if a != nil && a.Kind == components.FilterWaitForAttach {
		return false
	}
	if b != nil && b.Kind == components.FilterWaitForAttach {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	ra, okA := a.RobotRoot()
	rb, okB := b.RobotRoot()
	if okA && okB && ra == rb {
		return false
	}
	return true
}

// CollisionHook resolves collider entities to their tags for the physics pair filter.
type CollisionHook struct {
	world *ecs.World
	tags  *ecs.Map[components.CollisionFilter]
}

// NewCollisionHook creates the hook.
func NewCollisionHook(w *ecs.World) *CollisionHook {
	return &CollisionHook{
		world: w,
		tags:  ecs.NewMap[components.CollisionFilter](w),
	}
}

// AllowPair implements physics.PairFilter.
func (h *CollisionHook) AllowPair(a, b *physics.Collider) bool {
	return FilterContactPair(h.tag(a.Entity), h.tag(b.Entity))
}

func (h *CollisionHook) tag(e ecs.Entity) *components.CollisionFilter {
	if e.IsZero() || !h.world.Alive(e) || !h.tags.Has(e) {
		return nil
	}
	return h.tags.Get(e)
}
