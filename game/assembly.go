package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/systems"
	"github.com/framefighter/inspection-idle/telemetry"
	"github.com/framefighter/inspection-idle/ui"
)

// handleMenuEvents turns menu messages into assembly events. The simulation
// applies them at the start of the next tick.
func (g *Game) handleMenuEvents() {
	for _, ev := range g.uiEvents.Drain() {
		switch ev.Kind {
		case ui.EventSelectPoint:
			g.menu = menuState{open: true, parent: ev.Parent, point: ev.Point}
		case ui.EventClose:
			g.menu = menuState{}
		case ui.EventRemove:
			g.assemblyQueue.Push(systems.AssemblyEvent{
				Kind:   systems.RemoveAttachment,
				Parent: ev.Parent,
				Point:  ev.Point,
			})
		case ui.EventReplace:
			if _, ok := g.cat.Lookup(ev.Handle); !ok {
				slog.Warn("menu picked unknown item", "item", string(ev.Handle))
				continue
			}
			g.assemblyQueue.Push(systems.AssemblyEvent{
				Kind:   systems.ReplaceAttachment,
				Parent: ev.Parent,
				Point:  ev.Point,
				Handle: ev.Handle,
			})
		}
	}
}

// menuModel builds the open menu from the current attachment map.
func (g *Game) menuModel() (*ui.MenuModel, bool) {
	if !g.menu.open || !g.world.Alive(g.menu.parent) || !g.attachMap.Has(g.menu.parent) {
		return nil, false
	}
	point, ok := g.attachMap.Get(g.menu.parent).Get(g.menu.point)
	if !ok {
		return nil, false
	}
	var occupant *components.ItemInfo
	if point.Attached != nil && g.infoMap.Has(point.Attached.Child) {
		occupant = g.infoMap.Get(point.Attached.Child)
	}
	m := ui.BuildAttachmentMenu(g.cat, g.menu.parent, point, occupant)
	return &m, true
}

// panelData describes the inspected item for the attachment panel.
func (g *Game) panelData() (ui.AttachmentPanelData, bool) {
	e := g.inspected
	if !g.world.Alive(e) || !g.attachMap.Has(e) || !g.infoMap.Has(e) {
		return ui.AttachmentPanelData{}, false
	}
	points := g.attachMap.Get(e)
	if len(points.Points) == 0 {
		return ui.AttachmentPanelData{}, false
	}
	data := ui.AttachmentPanelData{
		Parent:   e,
		ItemName: g.infoMap.Get(e).Name,
		Points:   ui.ListPoints(points, g.itemName),
	}
	if g.menu.parent == e {
		if m, ok := g.menuModel(); ok {
			data.Menu = m
		}
	}
	return data, true
}

func (g *Game) itemName(e ecs.Entity) string {
	if g.world.Alive(e) && g.infoMap.Has(e) {
		return g.infoMap.Get(e).Name
	}
	return "?"
}

// inspectorData gathers the inspected item's components.
func (g *Game) inspectorData(e ecs.Entity) (ui.InspectorData, bool) {
	if !g.world.Alive(e) || !g.infoMap.Has(e) {
		return ui.InspectorData{}, false
	}
	info := g.infoMap.Get(e)
	data := ui.InspectorData{
		Name:      info.Name,
		Kind:      info.Type.Kind,
		JointType: info.JointType,
		Status:    components.AttachPending.String(),
	}
	if g.resultMap.Has(e) {
		res := g.resultMap.Get(e)
		data.Status = res.State.String()
		if res.State == components.AttachRejected {
			data.Reason = res.Reason.String()
		}
	}
	if g.attachMap.Has(e) {
		points := g.attachMap.Get(e)
		data.Points = len(points.Points)
		data.Occupied = len(points.Children())
	}
	if g.zoomMap.Has(e) {
		data.Camera = g.zoomMap.Get(e)
	}
	if link, ok := g.parentLink(e); ok {
		data.JointPos, data.Jointed = g.phys.JointValue(link.Handle)
	}
	if g.lensMap.Has(e) {
		data.Lens = g.lensMap.Get(e)
	}
	if g.batteryMap.Has(e) {
		data.Battery = g.batteryMap.Get(e)
	}
	if g.gaugeMap.Has(e) {
		data.Gauge = g.gaugeMap.Get(e)
	}
	if root, ok := g.robotRoot(e); ok {
		data.RobotCharge, data.RobotCapacity = g.ledger.Totals(root)
		data.RobotItems = g.countRobotItems(root)
	}
	return data, true
}

// parentLink returns the joint that holds e in its parent.
func (g *Game) parentLink(e ecs.Entity) (components.JointLink, bool) {
	query := g.links.Query()
	for query.Next() {
		if link := query.Get(); link.Child == e {
			found := *link
			query.Close()
			return found, true
		}
	}
	return components.JointLink{}, false
}

func (g *Game) countRobotItems(root ecs.Entity) int {
	n := 0
	query := g.items.Query()
	for query.Next() {
		if r, ok := g.robotRoot(query.Entity()); ok && r == root {
			n++
		}
	}
	return n
}

// recordRejection logs a refused request and appends it to rejections.csv.
func (g *Game) recordRejection(r systems.RejectedRequest) {
	g.rejectedTotal++
	rec := telemetry.Rejection{
		Tick:   g.tick,
		Entity: r.Entity.ID(),
		Reason: r.Reason.String(),
	}
	if g.infoMap.Has(r.Entity) {
		rec.Item = string(g.infoMap.Get(r.Entity).Handle)
	}
	if g.wantMap.Has(r.Entity) {
		want := g.wantMap.Get(r.Entity)
		rec.Parent = want.Parent.ID()
		rec.Point = want.Point.Key()
	}
	slog.Debug("attach rejected", "entity", rec.Entity, "item", rec.Item, "point", rec.Point, "reason", rec.Reason)
	if err := g.outputManager.WriteRejection(rec); err != nil {
		slog.Error("failed to write rejection", "error", err)
	}
}
