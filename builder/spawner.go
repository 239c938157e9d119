// Package builder assembles robots from catalog items as trees of attach requests.
package builder

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/physics"
)

// minHalfExtent keeps sprite-less items collidable, in pixels.
const minHalfExtent = 1

// Spawner creates item entities and their physics bodies.
// Items start hidden, disabled and tagged WaitForAttach; the joint spawner
// places them once their request commits.
type Spawner struct {
	world  *ecs.World
	phys   *physics.World
	cat    *catalog.Catalog
	cfg    *config.Config
	grants GrantRegistry
	maps   *GrantMaps

	itemMapper *ecs.Map8[
		components.ItemInfo,
		components.Transform,
		components.Visible,
		components.CollisionFilter,
		components.WantToAttach,
		components.AttachResult,
		components.Attachments,
		components.RigidBody,
	]
	placeholderMap *ecs.Map2[components.Placeholder, components.AttachResult]
	bodyMap        *ecs.Map[components.RigidBody]
	selectedMap    *ecs.Map[components.Selected]
	selected       *ecs.Filter1[components.Selected]
}

// NewSpawner creates a spawner. A nil grants registry uses DefaultGrants.
func NewSpawner(w *ecs.World, phys *physics.World, cat *catalog.Catalog, cfg *config.Config, grants GrantRegistry) *Spawner {
	if grants == nil {
		grants = DefaultGrants()
	}
	return &Spawner{
		world:  w,
		phys:   phys,
		cat:    cat,
		cfg:    cfg,
		grants: grants,
		maps:   NewGrantMaps(w),
		itemMapper: ecs.NewMap8[
			components.ItemInfo,
			components.Transform,
			components.Visible,
			components.CollisionFilter,
			components.WantToAttach,
			components.AttachResult,
			components.Attachments,
			components.RigidBody,
		](w),
		placeholderMap: ecs.NewMap2[components.Placeholder, components.AttachResult](w),
		bodyMap:        ecs.NewMap[components.RigidBody](w),
		selectedMap:    ecs.NewMap[components.Selected](w),
		selected:       ecs.NewFilter1[components.Selected](w),
	}
}

// Catalog returns the catalog items are resolved against.
func (s *Spawner) Catalog() *catalog.Catalog {
	return s.cat
}

// Start begins a tree whose top item becomes the root of a new robot.
func (s *Spawner) Start(h catalog.Handle) *ItemBuilder {
	return &ItemBuilder{s: s, handle: h, request: components.AttachMe()}
}

// AttachTo begins a tree that hangs from a point of an existing item.
func (s *Spawner) AttachTo(parent ecs.Entity, point components.AttachmentPointId, h catalog.Handle) *ItemBuilder {
	return &ItemBuilder{s: s, handle: h, request: components.AttachTo(parent, point)}
}

// ItemBuilder describes one node of a tree to spawn.
type ItemBuilder struct {
	s        *Spawner
	handle   catalog.Handle
	request  components.WantToAttach
	pos      mgl32.Vec2 // pixels
	angle    float32    // degrees
	static   bool
	selected bool
	children []*ItemBuilder
}

// At sets the spawn placement in pixels and degrees. Only roots keep it;
// attached items are moved to their point on commit.
func (b *ItemBuilder) At(x, y, deg float32) *ItemBuilder {
	b.pos = mgl32.Vec2{x, y}
	b.angle = deg
	return b
}

// Static makes the item immovable.
func (b *ItemBuilder) Static() *ItemBuilder {
	b.static = true
	return b
}

// Select makes the item the robot receiving input.
func (b *ItemBuilder) Select() *ItemBuilder {
	b.selected = true
	return b
}

// Attach adds a leaf child at point.
func (b *ItemBuilder) Attach(h catalog.Handle, point components.AttachmentPointId) *ItemBuilder {
	return b.AttachNested(h, point, nil)
}

// AttachNested adds a child at point and lets fn describe its own children.
func (b *ItemBuilder) AttachNested(h catalog.Handle, point components.AttachmentPointId, fn func(child *ItemBuilder)) *ItemBuilder {
	child := &ItemBuilder{
		s:       b.s,
		handle:  h,
		request: components.WantToAttach{Point: point},
		pos:     b.pos,
		angle:   b.angle,
	}
	if fn != nil {
		fn(child)
	}
	b.children = append(b.children, child)
	return b
}

// Build spawns the tree and returns the top entity. Nothing is attached
// until the joint spawner runs.
func (b *ItemBuilder) Build() ecs.Entity {
	e, ok := b.s.spawn(b)
	if !ok {
		return e
	}
	for _, child := range b.children {
		child.request.Parent = e
		child.Build()
	}
	return e
}

// spawn creates the entity for one node. Unknown handles yield a rejected
// placeholder and report false.
func (s *Spawner) spawn(b *ItemBuilder) (ecs.Entity, bool) {
	item, ok := s.cat.Lookup(b.handle)
	if !ok {
		slog.Warn("unknown catalog item", "handle", string(b.handle))
		e := s.placeholderMap.NewEntity(
			&components.Placeholder{Handle: string(b.handle)},
			&components.AttachResult{State: components.AttachRejected, Reason: components.ReasonCatalogMiss},
		)
		return e, false
	}

	inv := s.cfg.Derived.InvScale32
	half := mgl32.Vec2{
		max(item.Sprite.Size[0]/2, minHalfExtent) * inv,
		max(item.Sprite.Size[1]/2, minHalfExtent) * inv,
	}
	info := components.ItemInfo{
		Handle:      string(b.handle),
		Name:        item.Name,
		Size:        item.Size,
		Type:        item.Type,
		JointType:   item.JointType,
		HalfExtents: half,
		ZIndex:      item.ZIndex,
	}
	transform := components.Transform{
		Position: b.pos.Mul(inv),
		Rotation: mgl32.DegToRad(b.angle),
		Z:        item.ZIndex,
	}
	tag := components.WaitForAttach()
	result := components.AttachResult{State: components.AttachPending}
	attachments := s.attachments(item)

	e := s.itemMapper.NewEntity(
		&info,
		&transform,
		&components.Visible{},
		&tag,
		&b.request,
		&result,
		&attachments,
		&components.RigidBody{},
	)

	h := s.phys.CreateBody(physics.BodyDesc{
		Entity:         e,
		Position:       transform.Position,
		Angle:          transform.Rotation,
		HalfExtents:    half,
		Density:        float32(s.cfg.Physics.Density),
		Static:         b.static,
		LinearDamping:  float32(s.cfg.Physics.LinearDamping),
		AngularDamping: float32(s.cfg.Physics.AngularDamping),
	})
	s.bodyMap.Get(e).Handle = h

	s.grants.Apply(GrantContext{
		Maps:   s.maps,
		Phys:   s.phys,
		Cfg:    s.cfg,
		Entity: e,
		Body:   h,
		Item:   item,
	})

	if b.selected {
		s.Select(e)
	}
	return e, true
}

// attachments builds the runtime sockets of an item in physics units.
func (s *Spawner) attachments(item *catalog.Item) components.Attachments {
	inv := s.cfg.Derived.InvScale32
	a := components.NewAttachments()
	for _, p := range item.AttachmentPoints {
		a.Points[p.ID] = &components.Attachment{
			ID:       p.ID,
			MaxSize:  p.MaxSize,
			Accepted: p.Accepts,
			Transform: components.Transform{
				Position: mgl32.Vec2{p.Position[0] * inv, p.Position[1] * inv},
				Rotation: mgl32.DegToRad(p.Rotation),
				Z:        p.Position[2],
			},
		}
	}
	return a
}

// Select moves the input selection to e.
func (s *Spawner) Select(e ecs.Entity) {
	var prev []ecs.Entity
	query := s.selected.Query()
	for query.Next() {
		prev = append(prev, query.Entity())
	}
	for _, p := range prev {
		if p != e {
			s.selectedMap.Remove(p)
		}
	}
	if !s.selectedMap.Has(e) {
		s.selectedMap.Add(e, &components.Selected{})
	}
}
