package game

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/camera"
	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/renderer"
	"github.com/framefighter/inspection-idle/ui"
)

// drawItem is an item queued for drawing in z order.
type drawItem struct {
	entity ecs.Entity
	z      float32
	shape  renderer.ItemShape
	name   string
}

// Draw renders the workspace and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	cam := g.camera
	g.background.Draw(cam.X, cam.Y, cam.Zoom, g.cfg.Derived.WorldW32, g.cfg.Derived.WorldH32)

	if g.overlays.IsEnabled(ui.OverlayViews) {
		g.drawCameraViews()
	}
	g.drawItems()
	if g.overlays.IsEnabled(ui.OverlayJoints) {
		g.drawJoints()
	}
	if g.overlays.IsEnabled(ui.OverlayColliders) {
		g.drawColliders()
	}
	g.drawGauges()
	g.drawPoints()

	g.drawUI()

	rl.EndDrawing()
}

// toScreen converts physics units to screen pixels.
func (g *Game) toScreen(x, y float32) (float32, float32) {
	scale := g.cfg.Derived.Scale32
	return g.camera.WorldToScreen(x*scale, y*scale)
}

func (g *Game) drawItems() {
	scale := g.cfg.Derived.Scale32
	zoom := g.camera.Zoom
	root, hasRoot := g.selectedRoot()
	dimOthers := g.overlays.IsEnabled(ui.OverlayRejected)

	var queue []drawItem
	query := g.items.Query()
	for query.Next() {
		e := query.Entity()
		info, t := query.Get()
		if !g.drawn(e) {
			continue
		}
		radius := info.HalfExtents.Len() * scale
		if !g.camera.IsVisible(t.Position.X()*scale, t.Position.Y()*scale, radius) {
			continue
		}

		rejected := g.resultMap.Has(e) && g.resultMap.Get(e).State == components.AttachRejected
		sx, sy := g.toScreen(t.Position.X(), t.Position.Y())
		queue = append(queue, drawItem{
			entity: e,
			z:      t.Z + info.ZIndex,
			name:   info.Name,
			shape: renderer.ItemShape{
				X:        sx,
				Y:        sy,
				HalfW:    info.HalfExtents.X() * scale * zoom,
				HalfH:    info.HalfExtents.Y() * scale * zoom,
				Rotation: camera.WorldAngleToScreen(t.Rotation),
				Kind:     info.Type.Kind,
				Selected: hasRoot && e == root,
				Rejected: rejected,
				Dim:      dimOthers && !rejected,
			},
		})
	}

	slices.SortStableFunc(queue, func(a, b drawItem) int {
		switch {
		case a.z < b.z:
			return -1
		case a.z > b.z:
			return 1
		}
		return int(a.entity.ID()) - int(b.entity.ID())
	})

	showNames := g.overlays.IsEnabled(ui.OverlayNames)
	for _, it := range queue {
		renderer.DrawItem(it.shape)
		if showNames || it.entity == g.inspected {
			renderer.DrawLabel(it.shape.X, it.shape.Y-it.shape.HalfH, it.name)
		}
	}
}

func (g *Game) drawJoints() {
	query := g.links.Query()
	for query.Next() {
		link := query.Get()
		if !g.transformMap.Has(link.Parent) || !g.transformMap.Has(link.Child) {
			continue
		}
		p := g.transformMap.Get(link.Parent).Position
		c := g.transformMap.Get(link.Child).Position
		x1, y1 := g.toScreen(p.X(), p.Y())
		x2, y2 := g.toScreen(c.X(), c.Y())
		renderer.DrawJoint(x1, y1, x2, y2, link.Type)
	}
}

// drawPoints marks the points of the inspected item, or of every item
// when the overlay is on.
func (g *Game) drawPoints() {
	all := g.overlays.IsEnabled(ui.OverlayPoints)
	query := g.items.Query()
	for query.Next() {
		e := query.Entity()
		if !all && e != g.inspected {
			continue
		}
		if !g.attachMap.Has(e) || !g.drawn(e) {
			continue
		}
		_, t := query.Get()
		points := g.attachMap.Get(e)
		for _, id := range points.IDs() {
			p := points.Points[id]
			wp := t.Apply(p.Transform.Position)
			sx, sy := g.toScreen(wp.X(), wp.Y())
			renderer.DrawPointMarker(renderer.PointMarker{
				X:           sx,
				Y:           sy,
				Radius:      pointRadius,
				Occupied:    p.IsAttached(),
				Highlighted: g.menu.open && g.menu.parent == e && g.menu.point == id,
			})
		}
	}
}

func (g *Game) drawCameraViews() {
	scale := g.cfg.Derived.Scale32
	zoom := g.camera.Zoom

	query := g.items.Query()
	for query.Next() {
		e := query.Entity()
		if !g.zoomMap.Has(e) || !g.drawn(e) {
			continue
		}
		c, ok := g.phys.Collider(g.zoomMap.Get(e).Sensor)
		if !ok {
			continue
		}
		body, ok := g.phys.Body(c.Body)
		if !ok {
			continue
		}
		center := c.Center()
		sx, sy := g.toScreen(center.X(), center.Y())
		renderer.DrawSensor(renderer.SensorShape{
			X:        sx,
			Y:        sy,
			HalfW:    c.HalfExtents.X() * scale * zoom,
			HalfH:    c.HalfExtents.Y() * scale * zoom,
			Rotation: camera.WorldAngleToScreen(body.Angle),
			Active:   g.inspecting > 0,
		})
	}
}

func (g *Game) drawColliders() {
	query := g.items.Query()
	for query.Next() {
		e := query.Entity()
		if !g.bodyMap.Has(e) {
			continue
		}
		body, ok := g.phys.Body(g.bodyMap.Get(e).Handle)
		if !ok || !body.Enabled {
			continue
		}
		for _, h := range body.Colliders() {
			c, ok := g.phys.Collider(h)
			if !ok {
				continue
			}
			center, half := c.Center(), c.Bounds()
			x1, y1 := g.toScreen(center.X()-half.X(), center.Y()+half.Y())
			x2, y2 := g.toScreen(center.X()+half.X(), center.Y()-half.Y())
			renderer.DrawBounds(x1, y1, x2, y2, c.Sensor)
		}
	}
}

func (g *Game) drawGauges() {
	scale := g.cfg.Derived.Scale32
	zoom := g.camera.Zoom

	query := g.gauges.Query()
	for query.Next() {
		e := query.Entity()
		gauge := query.Get()
		if !g.transformMap.Has(e) || !g.infoMap.Has(e) || gauge.Goal <= 0 {
			continue
		}
		t := g.transformMap.Get(e)
		sx, sy := g.toScreen(t.Position.X(), t.Position.Y())
		radius := g.infoMap.Get(e).HalfExtents.Len()*scale*zoom + 4
		renderer.DrawGaugeProgress(sx, sy, radius, float32(gauge.Progress)/float32(gauge.Goal), gauge.Inspecting)
	}
}

// drawUI renders the HUD and panels.
func (g *Game) drawUI() {
	hudData := ui.HUDData{
		Title:        "Inspection Idle",
		Tick:         g.tick,
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		DebitMode:    g.cfg.Energy.DebitMode,
		Inspections:  g.inspectionsDone(),
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	}
	s := g.sample()
	hudData.Robots, hudData.Items, hudData.Joints = s.Robots, s.Items, s.Joints
	hudData.Pending, hudData.Rejected = s.Pending, s.Rejected
	if root, ok := g.selectedRoot(); ok {
		hudData.Charge, hudData.Capacity = g.ledger.Totals(root)
	}
	g.hud.Draw(hudData)
	g.hud.DrawControls(int32(g.screenHeight),
		"WASD/QE: Drive | R/F: Zoom | Z/X: Mast | T/G: Focus | Click: Inspect | Del: Clear rejected | Space: Pause | F1: Overlays | F3: Perf")

	if g.showPerf {
		g.drawPerfPanel()
	} else if data, ok := g.inspectorData(g.inspected); ok {
		data.Color = renderer.KindColor(data.Kind)
		g.inspector.Draw(data)
	}

	if g.controlsPanel.IsVisible() {
		g.controlsPanel.Draw(g.overlays)
	} else if data, ok := g.panelData(); ok {
		g.attachPanel.Draw(data, &g.uiEvents)
	}

	if g.lastStats.WindowEndTick > 0 {
		g.quickStats.Draw(ui.QuickStatsData{
			DropRate:    g.lastStats.DropRate,
			PowerSpent:  g.lastStats.PowerSpent,
			ChargeMean:  g.lastStats.ChargeMean,
			Inspections: g.lastStats.Inspections,
			Rejected:    g.lastStats.Rejected,
		})
	}
}

func (g *Game) drawPerfPanel() {
	slowest := ""
	if names := g.perf.SortedNames(); len(names) > 0 {
		slowest = names[0]
	}
	systemsInfo := g.registry.All()
	rows := make([]ui.PerfRow, 0, len(systemsInfo))
	for _, info := range systemsInfo {
		rows = append(rows, ui.PerfRow{
			Name:     info.Name,
			Category: info.Category,
			Avg:      g.perf.Avg(info.ID),
			Slowest:  info.ID == slowest,
		})
	}
	g.perfPanel.Draw(ui.PerfPanelData{Rows: rows, Total: g.perf.Total()})
}

// inspectionsDone sums completed inspections over all gauges.
func (g *Game) inspectionsDone() int {
	n := 0
	query := g.gauges.Query()
	for query.Next() {
		n += query.Get().Inspections
	}
	return n
}
