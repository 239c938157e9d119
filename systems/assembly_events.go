package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/builder"
	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
)

// AssemblyEventKind selects what an assembly event does.
type AssemblyEventKind uint8

const (
	// RemoveAttachment detaches and despawns the child at a point.
	RemoveAttachment AssemblyEventKind = iota
	// ReplaceAttachment frees a point, then requests a new item there.
	ReplaceAttachment
)

// AssemblyEvent is a UI request to change a robot's tree.
type AssemblyEvent struct {
	Kind   AssemblyEventKind
	Parent ecs.Entity
	Point  components.AttachmentPointId
	Handle catalog.Handle // ReplaceAttachment only
}

// AssemblyQueue carries assembly events from the UI to the simulation.
type AssemblyQueue struct {
	events []AssemblyEvent
}

// Push enqueues an event.
func (q *AssemblyQueue) Push(ev AssemblyEvent) {
	q.events = append(q.events, ev)
}

// Len returns the number of queued events.
func (q *AssemblyQueue) Len() int {
	return len(q.events)
}

func (q *AssemblyQueue) drain() []AssemblyEvent {
	out := q.events
	q.events = nil
	return out
}

// AssemblyHandler applies queued assembly events before the joint spawner runs.
type AssemblyHandler struct {
	queue     *AssemblyQueue
	despawner *Despawner
	spawner   *builder.Spawner
}

// NewAssemblyHandler creates the handler.
func NewAssemblyHandler(queue *AssemblyQueue, despawner *Despawner, spawner *builder.Spawner) *AssemblyHandler {
	return &AssemblyHandler{queue: queue, despawner: despawner, spawner: spawner}
}

// Update applies every queued event in order and returns the entities
// requested by replace events.
func (h *AssemblyHandler) Update() []ecs.Entity {
	var spawned []ecs.Entity
	for _, ev := range h.queue.drain() {
		switch ev.Kind {
		case RemoveAttachment:
			if h.despawner.Detach(ev.Parent, ev.Point) {
				slog.Info("attachment removed", "parent", ev.Parent.ID(), "point", ev.Point.Key())
			}
		case ReplaceAttachment:
			h.despawner.Detach(ev.Parent, ev.Point)
			e := h.spawner.AttachTo(ev.Parent, ev.Point, ev.Handle).Build()
			spawned = append(spawned, e)
			slog.Info("attachment requested",
				"parent", ev.Parent.ID(),
				"point", ev.Point.Key(),
				"item", string(ev.Handle),
			)
		}
	}
	return spawned
}
