package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/builder"
	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
)

// spawnScene builds the starting robot and the gauges it can inspect.
// Everything is requested here and assembled by the joint spawner over the
// first ticks.
func (g *Game) spawnScene() {
	sc := g.cfg.Scene

	root := g.spawner.Start("simple_body").
		At(float32(sc.RobotX), float32(sc.RobotY), 0).
		Select().
		Attach("camera_hd", components.LineFollowerCamera).
		Attach("simple_track", components.GroundPropulsionLeft).
		Attach("simple_track", components.GroundPropulsionRight).
		AttachNested("sensor_mast_two", components.MainCamera, func(mast *builder.ItemBuilder) {
			mast.AttachNested("camera_zoom", components.FirstCamera, func(cam *builder.ItemBuilder) {
				cam.Attach("camera_lens_telephoto", components.CameraLens)
			})
		}).
		Attach("simple_battery", components.MainBattery).
		Build()
	g.inspected = root

	for _, gc := range sc.Gauges {
		g.spawner.Start(catalog.Handle(gc.Item)).
			At(float32(gc.X), float32(gc.Y), 0).
			Static().
			Build()
	}

	slog.Info("scene requested", "robot", root.ID(), "gauges", len(sc.Gauges))
}

// ClearRejected despawns every rejected request together with anything
// declared below it, and returns how many requests were removed.
func (g *Game) ClearRejected() int {
	var rejected []ecs.Entity
	query := g.results.Query()
	for query.Next() {
		if query.Get().State == components.AttachRejected {
			rejected = append(rejected, query.Entity())
		}
	}
	for _, e := range rejected {
		g.despawner.DespawnTree(e)
	}
	if len(rejected) > 0 {
		slog.Info("rejected requests cleared", "count", len(rejected))
	}
	if g.menu.open && !g.world.Alive(g.menu.parent) {
		g.menu = menuState{}
	}
	return len(rejected)
}

// selectedRoot returns the robot receiving input.
func (g *Game) selectedRoot() (ecs.Entity, bool) {
	return g.inputs.SelectedRoot()
}

// robotRoot returns the root of the robot e belongs to.
func (g *Game) robotRoot(e ecs.Entity) (ecs.Entity, bool) {
	if !g.world.Alive(e) || !g.tagMap.Has(e) {
		return ecs.Entity{}, false
	}
	return g.tagMap.Get(e).RobotRoot()
}

// isRobot reports whether e is the root of a driveable robot.
func (g *Game) isRobot(e ecs.Entity) bool {
	if !g.infoMap.Has(e) || g.infoMap.Get(e).Type.Kind != components.KindBody {
		return false
	}
	root, ok := g.robotRoot(e)
	return ok && root == e
}
