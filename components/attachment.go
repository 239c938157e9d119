package components

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gopkg.in/yaml.v3"
)

// AttachmentPointId names a socket on an item.
type AttachmentPointId uint8

const (
	MainCamera AttachmentPointId = iota
	FirstCamera
	SecondCamera
	CameraLens
	LineFollowerCamera
	GroundPropulsionLeft
	GroundPropulsionRight
	MainBattery
)

var attachmentPointKeys = []string{
	"main_camera", "first_camera", "second_camera", "camera_lens",
	"line_follower_camera", "ground_propulsion_left", "ground_propulsion_right", "main_battery",
}

var attachmentPointDisplay = []string{
	"Main Camera", "First Camera", "Second Camera", "Camera Lens",
	"Line Follower Camera", "Ground Propulsion Left", "Ground Propulsion Right", "Main Battery",
}

func (id AttachmentPointId) String() string { return enumKey(attachmentPointDisplay, id) }

// Key returns the YAML key of the point.
func (id AttachmentPointId) Key() string { return enumKey(attachmentPointKeys, id) }

func (id AttachmentPointId) MarshalYAML() (any, error) { return id.Key(), nil }

func (id *AttachmentPointId) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum[AttachmentPointId](attachmentPointKeys, n.Value, "attachment point")
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// AttachedPair is the child item and joint entity occupying a point.
type AttachedPair struct {
	Child ecs.Entity
	Joint ecs.Entity
}

// Attachment is a runtime socket owned by its parent entity.
type Attachment struct {
	ID        AttachmentPointId
	MaxSize   ItemSize
	Accepted  []ItemKind
	Transform Transform // relative to the parent, in physics units

	Attached *AttachedPair
}

// Accepts reports whether the point takes items of the given kind.
func (a *Attachment) Accepts(kind ItemKind) bool {
	return slices.Contains(a.Accepted, kind)
}

// IsCompatible reports whether an item of the given size and type fits the point.
// Occupancy is not considered.
func (a *Attachment) IsCompatible(size ItemSize, t ItemType) bool {
	return size <= a.MaxSize && a.Accepts(t.Kind)
}

// Attach records the pair. It never fails and never checks occupancy.
func (a *Attachment) Attach(child, joint ecs.Entity) {
	a.Attached = &AttachedPair{Child: child, Joint: joint}
}

func (a *Attachment) IsAttached() bool {
	return a.Attached != nil
}

// Detach clears the point and returns the previous pair.
func (a *Attachment) Detach() (AttachedPair, bool) {
	if a.Attached == nil {
		return AttachedPair{}, false
	}
	prev := *a.Attached
	a.Attached = nil
	return prev, true
}

// Attachments maps point ids to the sockets of one entity.
type Attachments struct {
	Points map[AttachmentPointId]*Attachment
}

// NewAttachments creates an empty map.
func NewAttachments() Attachments {
	return Attachments{Points: make(map[AttachmentPointId]*Attachment)}
}

// Get returns the point with the given id.
func (a *Attachments) Get(id AttachmentPointId) (*Attachment, bool) {
	p, ok := a.Points[id]
	return p, ok
}

// IDs returns the point ids in ascending order.
func (a *Attachments) IDs() []AttachmentPointId {
	ids := make([]AttachmentPointId, 0, len(a.Points))
	for id := range a.Points {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// FindChild returns the point holding the given child.
func (a *Attachments) FindChild(child ecs.Entity) (AttachmentPointId, bool) {
	for _, id := range a.IDs() {
		p := a.Points[id]
		if p.Attached != nil && p.Attached.Child == child {
			return id, true
		}
	}
	return 0, false
}

// Children returns all attached pairs in point order.
func (a *Attachments) Children() []AttachedPair {
	var out []AttachedPair
	for _, id := range a.IDs() {
		if p := a.Points[id]; p.Attached != nil {
			out = append(out, *p.Attached)
		}
	}
	return out
}
