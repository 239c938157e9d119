package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// InspectionStats summarizes one inspection pass.
type InspectionStats struct {
	Inspecting int // gauges inside a camera view
	Completed  int // inspections finished this tick
}

// InspectionSystem advances gauges that lie inside a camera's field of view.
type InspectionSystem struct {
	phys     *physics.World
	interval int

	gauges   *ecs.Filter1[components.Gauge]
	gaugeMap *ecs.Map[components.Gauge]
	zoomMap  *ecs.Map[components.CameraZoom]
	infoMap  *ecs.Map[components.ItemInfo]

	seen map[ecs.Entity]bool
}

// NewInspectionSystem creates the system. interval is the number of ticks per progress step.
func NewInspectionSystem(w *ecs.World, phys *physics.World, interval int) *InspectionSystem {
	if interval < 1 {
		interval = 1
	}
	return &InspectionSystem{
		phys:     phys,
		interval: interval,
		gauges:   ecs.NewFilter1[components.Gauge](w),
		gaugeMap: ecs.NewMap[components.Gauge](w),
		zoomMap:  ecs.NewMap[components.CameraZoom](w),
		infoMap:  ecs.NewMap[components.ItemInfo](w),
		seen:     make(map[ecs.Entity]bool),
	}
}

// Update runs after the physics step.
func (s *InspectionSystem) Update() InspectionStats {
	clear(s.seen)
	s.phys.ActiveIntersections(func(a, b *physics.Collider) {
		if gauge, ok := s.viewedGauge(a, b); ok {
			s.seen[gauge] = true
		}
		if gauge, ok := s.viewedGauge(b, a); ok {
			s.seen[gauge] = true
		}
	})

	var stats InspectionStats
	query := s.gauges.Query()
	for query.Next() {
		g := query.Get()
		e := query.Entity()
		g.Inspecting = s.seen[e]
		if g.Inspecting {
			stats.Inspecting++
		}
		before := g.Inspections
		g.Step(s.interval)
		if g.Inspections > before {
			stats.Completed++
			slog.Info("inspection complete", "gauge", s.name(e), "inspections", g.Inspections)
		}
	}
	return stats
}

// viewedGauge reports the gauge entity when sensor is a camera view and other a gauge body.
func (s *InspectionSystem) viewedGauge(sensor, other *physics.Collider) (ecs.Entity, bool) {
	if !sensor.Sensor || other.Sensor {
		return ecs.Entity{}, false
	}
	if sensor.Entity.IsZero() || other.Entity.IsZero() {
		return ecs.Entity{}, false
	}
	if !s.zoomMap.Has(sensor.Entity) || s.zoomMap.Get(sensor.Entity).Sensor != sensor.Handle {
		return ecs.Entity{}, false
	}
	if !s.gaugeMap.Has(other.Entity) {
		return ecs.Entity{}, false
	}
	return other.Entity, true
}

func (s *InspectionSystem) name(e ecs.Entity) string {
	if s.infoMap.Has(e) {
		return s.infoMap.Get(e).Handle
	}
	return ""
}
