package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// Despawner removes items, their subtrees and their joints.
type Despawner struct {
	world     *ecs.World
	phys      *physics.World
	attachMap *ecs.Map[components.Attachments]
	bodyMap   *ecs.Map[components.RigidBody]
	linkMap   *ecs.Map[components.JointLink]
	links     *ecs.Filter1[components.JointLink]
}

// NewDespawner creates the despawner.
func NewDespawner(w *ecs.World, phys *physics.World) *Despawner {
	return &Despawner{
		world:     w,
		phys:      phys,
		attachMap: ecs.NewMap[components.Attachments](w),
		bodyMap:   ecs.NewMap[components.RigidBody](w),
		linkMap:   ecs.NewMap[components.JointLink](w),
		links:     ecs.NewFilter1[components.JointLink](w),
	}
}

// Detach frees a point of parent and despawns the child subtree and joint.
// It reports whether the point was occupied.
func (d *Despawner) Detach(parent ecs.Entity, id components.AttachmentPointId) bool {
	if !d.alive(parent) || !d.attachMap.Has(parent) {
		return false
	}
	point, ok := d.attachMap.Get(parent).Get(id)
	if !ok {
		return false
	}
	pair, ok := point.Detach()
	if !ok {
		return false
	}
	d.removeJoint(pair.Joint)
	d.despawnSubtree(pair.Child)
	return true
}

// DespawnTree removes e and everything attached below it. If e hangs from a
// parent, the parent's point is freed.
func (d *Despawner) DespawnTree(e ecs.Entity) {
	if !d.alive(e) {
		return
	}
	if joint, link, ok := d.parentLink(e); ok {
		if d.alive(link.Parent) && d.attachMap.Has(link.Parent) {
			if point, ok := d.attachMap.Get(link.Parent).Get(link.Point); ok &&
				point.Attached != nil && point.Attached.Child == e {
				point.Detach()
			}
		}
		d.removeJoint(joint)
	}
	d.despawnSubtree(e)
}

func (d *Despawner) despawnSubtree(e ecs.Entity) {
	if !d.alive(e) {
		return
	}
	if d.attachMap.Has(e) {
		for _, pair := range d.attachMap.Get(e).Children() {
			d.removeJoint(pair.Joint)
			d.despawnSubtree(pair.Child)
		}
	}
	if d.bodyMap.Has(e) {
		d.phys.RemoveBody(d.bodyMap.Get(e).Handle)
	}
	d.world.RemoveEntity(e)
}

func (d *Despawner) removeJoint(j ecs.Entity) {
	if !d.alive(j) || !d.linkMap.Has(j) {
		return
	}
	d.phys.RemoveJoint(d.linkMap.Get(j).Handle)
	d.world.RemoveEntity(j)
}

// parentLink finds the joint that holds e as a child.
func (d *Despawner) parentLink(e ecs.Entity) (ecs.Entity, components.JointLink, bool) {
	query := d.links.Query()
	for query.Next() {
		link := query.Get()
		if link.Child == e {
			j, l := query.Entity(), *link
			query.Close()
			return j, l, true
		}
	}
	return ecs.Entity{}, components.JointLink{}, false
}

func (d *Despawner) alive(e ecs.Entity) bool {
	return !e.IsZero() && d.world.Alive(e)
}
