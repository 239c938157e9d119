package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// JointSweeper removes joints whose parent or child no longer exists.
type JointSweeper struct {
	world     *ecs.World
	phys      *physics.World
	joints    *ecs.Filter1[components.JointLink]
	attachMap *ecs.Map[components.Attachments]
	linkMap   *ecs.Map[components.JointLink]
	buf       []ecs.Entity
}

// NewJointSweeper creates the sweeper.
func NewJointSweeper(w *ecs.World, phys *physics.World) *JointSweeper {
	return &JointSweeper{
		world:     w,
		phys:      phys,
		joints:    ecs.NewFilter1[components.JointLink](w),
		attachMap: ecs.NewMap[components.Attachments](w),
		linkMap:   ecs.NewMap[components.JointLink](w),
	}
}

// Sweep removes dangling joints and returns how many were removed.
func (s *JointSweeper) Sweep() int {
	dangling := s.buf[:0]
	query := s.joints.Query()
	for query.Next() {
		link := query.Get()
		if !s.alive(link.Parent) || !s.alive(link.Child) {
			dangling = append(dangling, query.Entity())
		}
	}
	s.buf = dangling

	for _, e := range dangling {
		link := *s.linkMap.Get(e)
		s.phys.RemoveJoint(link.Handle)
		if s.alive(link.Parent) && s.attachMap.Has(link.Parent) {
			if point, ok := s.attachMap.Get(link.Parent).Get(link.Point); ok &&
				point.Attached != nil && point.Attached.Joint == e {
				point.Detach()
			}
		}
		s.world.RemoveEntity(e)
	}
	if len(dangling) > 0 {
		slog.Debug("swept dangling joints", "count", len(dangling))
	}
	return len(dangling)
}

func (s *JointSweeper) alive(e ecs.Entity) bool {
	return !e.IsZero() && s.world.Alive(e)
}
