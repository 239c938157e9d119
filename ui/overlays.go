package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a toggleable overlay.
type OverlayID string

const (
	OverlayPoints    OverlayID = "attachment_points"
	OverlayJoints    OverlayID = "joints"
	OverlayColliders OverlayID = "colliders"
	OverlayViews     OverlayID = "camera_views"
	OverlayNames     OverlayID = "item_names"
	OverlayRejected  OverlayID = "rejected_only"
)

// OverlayDescriptor describes one overlay and its hotkey.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32
	KeyLabel  string
	Category  string      // assembly, sensors or debug
	Exclusive []OverlayID // switched off when this one is switched on
}

var defaultOverlays = []OverlayDescriptor{
	{ID: OverlayPoints, Name: "Attachment Points", Key: rl.KeyP, KeyLabel: "P", Category: "assembly"},
	{ID: OverlayJoints, Name: "Joints", Key: rl.KeyJ, KeyLabel: "J", Category: "assembly"},
	{ID: OverlayNames, Name: "Item Names", Key: rl.KeyN, KeyLabel: "N", Category: "assembly",
		Exclusive: []OverlayID{OverlayRejected}},
	{ID: OverlayViews, Name: "Camera Views", Key: rl.KeyV, KeyLabel: "V", Category: "sensors"},
	{ID: OverlayColliders, Name: "Colliders", Key: rl.KeyB, KeyLabel: "B", Category: "debug"},
	{ID: OverlayRejected, Name: "Highlight Rejected", Key: rl.KeyH, KeyLabel: "H", Category: "debug",
		Exclusive: []OverlayID{OverlayNames}},
}

// OverlayRegistry holds overlay state. Dimming to rejected items and
// labelling every item do not combine, so those two are exclusive.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with every overlay off.
func NewOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{
		descriptors: defaultOverlays,
		enabled:     make(map[OverlayID]bool, len(defaultOverlays)),
	}
}

func (r *OverlayRegistry) find(id OverlayID) (OverlayDescriptor, bool) {
	for _, d := range r.descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return OverlayDescriptor{}, false
}

// SetEnabled sets an overlay's state. Unknown ids are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, on bool) {
	desc, ok := r.find(id)
	if !ok {
		return
	}
	r.enabled[id] = on
	if !on {
		return
	}
	for _, other := range desc.Exclusive {
		r.enabled[other] = false
	}
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	on := !r.enabled[id]
	r.SetEnabled(id, on)
	return r.enabled[id]
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns the overlays of one category in display order.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var out []OverlayDescriptor
	for _, d := range r.descriptors {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the categories in first-seen order.
func (r *OverlayRegistry) Categories() []string {
	var cats []string
	for _, d := range r.descriptors {
		if len(cats) == 0 || cats[len(cats)-1] != d.Category {
			cats = append(cats, d.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. It returns false when no
// overlay uses that key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool) {
	for _, d := range r.descriptors {
		if d.Key == key {
			r.Toggle(d.ID)
			return d.ID, true
		}
	}
	return "", false
}
