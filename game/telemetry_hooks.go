package game

import (
	"log/slog"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sample counts the world state for the closing window.
func (g *Game) sample() telemetry.Sample {
	var s telemetry.Sample

	query := g.items.Query()
	for query.Next() {
		s.Items++
		if g.isRobot(query.Entity()) {
			s.Robots++
		}
	}

	links := g.links.Query()
	s.Joints = links.Count()
	links.Close()

	requests := g.requests.Query()
	for requests.Next() {
		e := requests.Entity()
		if g.resultMap.Has(e) && g.resultMap.Get(e).State == components.AttachRejected {
			continue
		}
		s.Pending++
	}
	results := g.results.Query()
	for results.Next() {
		if results.Get().State == components.AttachRejected {
			s.Rejected++
		}
	}

	for _, rc := range g.ledger.Robots() {
		if rc.Capacity > 0 {
			s.ChargeFractions = append(s.ChargeFractions, float64(rc.Charge/rc.Capacity))
		}
	}

	gauges := g.gauges.Query()
	for gauges.Next() {
		gauge := gauges.Get()
		if gauge.Inspecting {
			s.Inspecting++
		}
		if gauge.Goal > 0 {
			s.GaugeProgress = append(s.GaugeProgress, float64(gauge.Progress)/float64(gauge.Goal))
		}
	}

	return s
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot of every item and joint.
// Positions are in pixels.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	scale := g.cfg.Derived.Scale32
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Tick:        g.tick,
		WorldWidth:  g.cfg.Derived.WorldW32,
		WorldHeight: g.cfg.Derived.WorldH32,
		Bookmark:    bookmark,
	}

	query := g.items.Query()
	for query.Next() {
		e := query.Entity()
		info, t := query.Get()

		state := telemetry.ItemState{
			ID:     e.ID(),
			Name:   info.Handle,
			Kind:   info.Type.Kind.Key(),
			Status: components.AttachPending.String(),
			X:      t.Position.X() * scale,
			Y:      t.Position.Y() * scale,
			Angle:  t.Rotation,
		}
		if root, ok := g.robotRoot(e); ok {
			state.Root = root.ID()
		}
		if g.resultMap.Has(e) {
			state.Status = g.resultMap.Get(e).State.String()
		}
		if g.attachMap.Has(e) {
			points := g.attachMap.Get(e)
			state.Points = make(map[string]uint32, len(points.Points))
			for _, id := range points.IDs() {
				var child uint32
				if p := points.Points[id]; p.Attached != nil {
					child = p.Attached.Child.ID()
				}
				state.Points[id.Key()] = child
			}
		}
		if g.batteryMap.Has(e) {
			b := g.batteryMap.Get(e)
			state.Charge, state.Capacity = b.Charge, b.Capacity
		}
		if g.zoomMap.Has(e) {
			state.Zoom = g.zoomMap.Get(e).Zoom
		}
		if g.gaugeMap.Has(e) {
			state.Progress = g.gaugeMap.Get(e).Progress
		}
		snapshot.Items = append(snapshot.Items, state)
	}

	links := g.links.Query()
	for links.Next() {
		link := links.Get()
		snapshot.Joints = append(snapshot.Joints, telemetry.JointState{
			Parent: link.Parent.ID(),
			Child:  link.Child.ID(),
			Point:  link.Point.Key(),
			Type:   link.Type.String(),
		})
	}

	return snapshot
}
