package ui

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
)

// EventKind identifies a menu event.
type EventKind uint8

const (
	// EventSelectPoint opens the menu for an attachment point.
	EventSelectPoint EventKind = iota
	// EventRemove asks for the occupant of a point to be removed.
	EventRemove
	// EventReplace asks for a catalog item to be placed at a point,
	// replacing the occupant if there is one.
	EventReplace
	// EventClose closes the menu.
	EventClose
)

// Event is a message from the attachment menu to the simulation.
// The menu never mutates the world itself.
type Event struct {
	Kind   EventKind
	Parent ecs.Entity
	Point  components.AttachmentPointId
	Handle catalog.Handle // EventReplace only
}

// Events is a FIFO of menu events, drained once per frame.
type Events struct {
	queue []Event
}

// Push enqueues an event.
func (q *Events) Push(ev Event) {
	q.queue = append(q.queue, ev)
}

// Drain returns all queued events and empties the queue.
func (q *Events) Drain() []Event {
	out := q.queue
	q.queue = nil
	return out
}

// Len returns the number of queued events.
func (q *Events) Len() int {
	return len(q.queue)
}

// MenuEntry is one selectable catalog item.
type MenuEntry struct {
	Handle catalog.Handle
	Name   string
}

// MenuModel is everything the attachment menu shows for one point.
type MenuModel struct {
	Parent    ecs.Entity
	Point     components.AttachmentPointId
	PointName string
	Label     string // "REPLACE" when occupied, "ADD NEW" otherwise
	Current   string // name of the occupant, empty when free
	Accepts   []string
	MaxSize   components.ItemSize
	Options   []MenuEntry
	CanRemove bool
}

// Menu labels.
const (
	LabelReplace = "REPLACE"
	LabelAddNew  = "ADD NEW"
)

// BuildAttachmentMenu lists the catalog items that fit a point.
// occupant is the item info of the child at the point, or nil.
func BuildAttachmentMenu(cat *catalog.Catalog, parent ecs.Entity, point *components.Attachment, occupant *components.ItemInfo) MenuModel {
	m := MenuModel{
		Parent:    parent,
		Point:     point.ID,
		PointName: point.ID.String(),
		Label:     LabelAddNew,
		MaxSize:   point.MaxSize,
	}
	for _, kind := range point.Accepted {
		m.Accepts = append(m.Accepts, kind.String())
	}
	if point.IsAttached() {
		m.Label = LabelReplace
		m.CanRemove = true
		if occupant != nil {
			m.Current = occupant.Name
		}
	}
	for _, h := range cat.Compatible(point) {
		it, _ := cat.Lookup(h)
		m.Options = append(m.Options, MenuEntry{Handle: h, Name: it.Name})
	}
	return m
}

// PointEntry is one attachment point of the selected item, as listed by the panel.
type PointEntry struct {
	Point    components.AttachmentPointId
	Name     string
	Occupant string // empty when free
}

// ListPoints describes every point of an item in id order.
// names maps child entities to their display names.
func ListPoints(points *components.Attachments, names func(ecs.Entity) string) []PointEntry {
	out := make([]PointEntry, 0, len(points.Points))
	for _, id := range points.IDs() {
		p := points.Points[id]
		entry := PointEntry{Point: id, Name: id.String()}
		if p.Attached != nil {
			entry.Occupant = names(p.Attached.Child)
		}
		out = append(out, entry)
	}
	return out
}
