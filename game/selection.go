package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/ui"
)

// pointRadius is the click radius of attachment point markers, in screen pixels.
const pointRadius = 6

// handleSelection picks items and attachment points with the mouse.
// Left click inspects an item, or opens the menu for a point of the
// inspected item. Right click clears the inspection.
func (g *Game) handleSelection() {
	if g.camera == nil {
		return
	}
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.inspected = ecs.Entity{}
		g.menu = menuState{}
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	if g.controlsPanel.Contains(g.overlays, mouse.X, mouse.Y) {
		return
	}
	if data, ok := g.panelData(); ok && !g.controlsPanel.IsVisible() && g.attachPanel.Contains(data, mouse.X, mouse.Y) {
		return
	}

	if id, ok := g.pointAtScreen(mouse.X, mouse.Y); ok {
		g.uiEvents.Push(ui.Event{Kind: ui.EventSelectPoint, Parent: g.inspected, Point: id})
		return
	}

	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	e, ok := g.itemAt(wx, wy)
	if !ok {
		return
	}
	g.inspected = e
	g.menu = menuState{}
	if root, ok := g.robotRoot(e); ok && g.isRobot(root) {
		g.spawner.Select(root)
	}
}

// pointAtScreen returns the point of the inspected item under a screen position.
func (g *Game) pointAtScreen(sx, sy float32) (components.AttachmentPointId, bool) {
	e := g.inspected
	if !g.world.Alive(e) || !g.attachMap.Has(e) || !g.transformMap.Has(e) {
		return 0, false
	}
	t := *g.transformMap.Get(e)
	scale := g.cfg.Derived.Scale32
	points := g.attachMap.Get(e)
	for _, id := range points.IDs() {
		wp := t.Apply(points.Points[id].Transform.Position)
		px, py := g.camera.WorldToScreen(wp.X()*scale, wp.Y()*scale)
		if dx, dy := px-sx, py-sy; dx*dx+dy*dy <= pointRadius*pointRadius {
			return id, true
		}
	}
	return 0, false
}

// itemAt returns the topmost drawn item containing a world pixel position.
func (g *Game) itemAt(wx, wy float32) (ecs.Entity, bool) {
	scale := g.cfg.Derived.Scale32
	var best ecs.Entity
	bestZ := float32(math.Inf(-1))
	found := false

	query := g.items.Query()
	for query.Next() {
		e := query.Entity()
		info, t := query.Get()
		if !g.drawn(e) {
			continue
		}
		cx, cy := t.Position.X()*scale, t.Position.Y()*scale
		hw, hh := info.HalfExtents.X()*scale, info.HalfExtents.Y()*scale
		if !pointInBox(wx, wy, cx, cy, hw, hh, t.Rotation) {
			continue
		}
		if z := t.Z + info.ZIndex; !found || z >= bestZ {
			best, bestZ, found = e, z, true
		}
	}
	return best, found
}

// drawn reports whether an item is shown: attached items and rejected requests.
func (g *Game) drawn(e ecs.Entity) bool {
	if g.visibleMap.Has(e) && g.visibleMap.Get(e).Visible {
		return true
	}
	return g.resultMap.Has(e) && g.resultMap.Get(e).State == components.AttachRejected
}

// pointInBox reports whether (px, py) lies in a box centered at (cx, cy)
// with half extents (hw, hh), rotated counter-clockwise by rot radians.
func pointInBox(px, py, cx, cy, hw, hh, rot float32) bool {
	dx, dy := px-cx, py-cy
	sin, cos := math.Sincos(float64(-rot))
	lx := float32(float64(dx)*cos - float64(dy)*sin)
	ly := float32(float64(dx)*sin + float64(dy)*cos)
	return lx >= -hw && lx <= hw && ly >= -hh && ly <= hh
}
