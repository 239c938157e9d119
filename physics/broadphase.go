package physics

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"github.com/solarlune/resolv"
)

// PairFilter decides whether two colliders may interact. It is consulted for
// solid contacts and sensor intersections alike.
type PairFilter interface {
	AllowPair(a, b *Collider) bool
}

// PairFilterFunc adapts a function to PairFilter.
type PairFilterFunc func(a, b *Collider) bool

func (f PairFilterFunc) AllowPair(a, b *Collider) bool { return f(a, b) }

// Intersection is a sensor overlap change between two colliders.
type Intersection struct {
	A, B       ColliderHandle
	EntityA    ecs.Entity
	EntityB    ecs.Entity
	Intersects bool // false when the overlap ended
}

type pairKey struct {
	a, b ColliderHandle
}

func makePairKey(a, b ColliderHandle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Events returns the sensor changes of the last step.
func (w *World) Events() []Intersection {
	return w.events
}

// ActiveIntersections calls fn for every sensor pair currently overlapping.
func (w *World) ActiveIntersections(fn func(a, b *Collider)) {
	keys := make([]pairKey, 0, len(w.sensors))
	for k := range w.sensors {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y pairKey) int {
		if x.a != y.a {
			return int(x.a) - int(y.a)
		}
		return int(x.b) - int(y.b)
	})
	for _, k := range keys {
		a, okA := w.colliders[k.a]
		b, okB := w.colliders[k.b]
		if okA && okB {
			fn(a, b)
		}
	}
}

// toSpace maps a physics-unit coordinate into the pixel grid of the space.
// The world origin sits at the center of the grid.
func (w *World) toSpace(p mgl32.Vec2) (float64, float64) {
	return float64(p.X()*w.cfg.Scale) + float64(w.cfg.Width)/2,
		float64(p.Y()*w.cfg.Scale) + float64(w.cfg.Height)/2
}

// place refreshes the world bounds of a collider and its broad phase object.
func (w *World) place(c *Collider, b *Body) {
	c.center = b.WorldPoint(c.Offset)
	c.aabbHalf = rotatedHalf(c.HalfExtents, b.Angle)

	cx, cy := w.toSpace(c.center)
	hw := float64(c.aabbHalf.X() * w.cfg.Scale)
	hh := float64(c.aabbHalf.Y() * w.cfg.Scale)
	wd, ht := math.Max(2*hw, 1), math.Max(2*hh, 1)

	c.obj.X = cx - wd/2
	c.obj.Y = cy - ht/2
	c.obj.W = wd
	c.obj.H = ht
	if math.Abs(wd-c.shapeW) > 0.5 || math.Abs(ht-c.shapeH) > 0.5 || c.obj.Shape == nil {
		c.obj.SetShape(resolv.NewRectangle(0, 0, wd, ht))
		c.shapeW, c.shapeH = wd, ht
	}
	if !c.inSpace {
		w.space.Add(c.obj)
		c.inSpace = true
	}
	c.obj.Update()
	c.obj.Shape.SetPosition(c.obj.X, c.obj.Y)
}

func (w *World) unplace(c *Collider) {
	if !c.inSpace {
		return
	}
	w.space.Remove(c.obj)
	c.inSpace = false
}

// collide refreshes the broad phase, resolves solid contacts and tracks
// sensor overlaps.
func (w *World) collide() {
	for _, h := range w.colliderOrder {
		c := w.colliders[h]
		if b, ok := w.bodies[c.Body]; ok && b.Enabled {
			w.place(c, b)
		}
	}

	current := make(map[pairKey]bool)
	seen := make(map[pairKey]bool)
	for _, h := range w.colliderOrder {
		c := w.colliders[h]
		if !c.inSpace {
			continue
		}
		hit := c.obj.Check(0, 0)
		if hit == nil {
			continue
		}
		for _, o := range hit.Objects {
			other, ok := o.Data.(*Collider)
			if !ok || other.Handle <= c.Handle || other.Body == c.Body {
				continue
			}
			key := makePairKey(c.Handle, other.Handle)
			if seen[key] {
				continue
			}
			seen[key] = true
			if c.obj.Shape.Intersection(0, 0, other.obj.Shape) == nil {
				continue
			}
			if w.filter != nil && !w.filter.AllowPair(c, other) {
				w.stats.Suppressed++
				continue
			}
			if c.Sensor || other.Sensor {
				current[key] = true
				continue
			}
			if w.separate(c, other) {
				w.stats.Contacts++
			}
		}
	}

	w.events = w.events[:0]
	for k := range current {
		if !w.sensors[k] {
			w.events = append(w.events, w.intersection(k, true))
		}
	}
	for k := range w.sensors {
		if !current[k] {
			w.events = append(w.events, w.intersection(k, false))
		}
	}
	slices.SortFunc(w.events, func(x, y Intersection) int {
		if x.A != y.A {
			return int(x.A) - int(y.A)
		}
		return int(x.B) - int(y.B)
	})
	w.sensors = current
}

func (w *World) intersection(k pairKey, on bool) Intersection {
	ev := Intersection{A: k.a, B: k.b, Intersects: on}
	if c, ok := w.colliders[k.a]; ok {
		ev.EntityA = c.Entity
	}
	if c, ok := w.colliders[k.b]; ok {
		ev.EntityB = c.Entity
	}
	return ev
}

// separate pushes two overlapping boxes apart along the axis of least overlap.
func (w *World) separate(c1, c2 *Collider) bool {
	b1, b2 := w.bodies[c1.Body], w.bodies[c2.Body]
	sum := b1.InvMass + b2.InvMass
	if sum == 0 {
		return false
	}

	d := c2.center.Sub(c1.center)
	ox := c1.aabbHalf.X() + c2.aabbHalf.X() - float32(math.Abs(float64(d.X())))
	oy := c1.aabbHalf.Y() + c2.aabbHalf.Y() - float32(math.Abs(float64(d.Y())))
	if ox <= 0 || oy <= 0 {
		return false
	}

	var push mgl32.Vec2
	if ox < oy {
		push = mgl32.Vec2{sign(d.X()) * ox, 0}
	} else {
		push = mgl32.Vec2{0, sign(d.Y()) * oy}
	}
	b1.Position = b1.Position.Sub(push.Mul(b1.InvMass / sum))
	b2.Position = b2.Position.Add(push.Mul(b2.InvMass / sum))
	return true
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
