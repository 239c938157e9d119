package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/framefighter/inspection-idle/components"
)

// ItemShape is an item as it appears on screen.
type ItemShape struct {
	X, Y         float32 // center, screen pixels
	HalfW, HalfH float32 // screen pixels
	Rotation     float32 // screen degrees, clockwise
	Kind         components.ItemKind
	Selected     bool
	Pending      bool // request not yet committed
	Rejected     bool
	Dim          bool
}

// KindColor returns the fill color of an item kind.
func KindColor(k components.ItemKind) rl.Color {
	switch k {
	case components.KindBody:
		return rl.Color{R: 90, G: 110, B: 140, A: 255}
	case components.KindGroundPropulsion:
		return rl.Color{R: 60, G: 60, B: 64, A: 255}
	case components.KindSensorMast:
		return rl.Color{R: 150, G: 150, B: 160, A: 255}
	case components.KindCamera:
		return rl.Color{R: 70, G: 160, B: 200, A: 255}
	case components.KindCameraLens:
		return rl.Color{R: 160, G: 220, B: 240, A: 255}
	case components.KindBattery:
		return rl.Color{R: 220, G: 190, B: 60, A: 255}
	case components.KindManometer:
		return rl.Color{R: 210, G: 210, B: 200, A: 255}
	default:
		return rl.Color{R: 180, G: 120, B: 200, A: 255}
	}
}

// DrawItem draws an item as an oriented box with a forward tick.
func DrawItem(s ItemShape) {
	col := KindColor(s.Kind)
	switch {
	case s.Rejected:
		col = rl.Color{R: 200, G: 60, B: 60, A: 200}
	case s.Pending:
		col.A = 90
	}
	if s.Dim {
		col.A /= 3
	}

	rect := rl.Rectangle{X: s.X, Y: s.Y, Width: s.HalfW * 2, Height: s.HalfH * 2}
	origin := rl.Vector2{X: s.HalfW, Y: s.HalfH}
	rl.DrawRectanglePro(rect, origin, s.Rotation, col)

	// Forward is local +y, which is screen up before rotation
	rad := float64(s.Rotation) * math.Pi / 180
	fx := float32(math.Sin(rad)) * s.HalfH
	fy := -float32(math.Cos(rad)) * s.HalfH
	rl.DrawLineV(rl.Vector2{X: s.X, Y: s.Y}, rl.Vector2{X: s.X + fx, Y: s.Y + fy}, rl.Color{R: 20, G: 20, B: 24, A: col.A})

	if s.Selected {
		r := float32(math.Hypot(float64(s.HalfW), float64(s.HalfH))) + 4
		rl.DrawCircleLinesV(rl.Vector2{X: s.X, Y: s.Y}, r, rl.Yellow)
	}
}

// PointMarker is an attachment point on screen.
type PointMarker struct {
	X, Y        float32
	Radius      float32
	Occupied    bool
	Highlighted bool
}

// DrawPointMarker draws a point as a ring, filled when occupied.
func DrawPointMarker(m PointMarker) {
	col := rl.Color{R: 120, G: 230, B: 140, A: 220}
	if m.Highlighted {
		col = rl.Yellow
	}
	center := rl.Vector2{X: m.X, Y: m.Y}
	if m.Occupied {
		rl.DrawCircleV(center, m.Radius*0.6, col)
	}
	rl.DrawCircleLinesV(center, m.Radius, col)
}

// DrawJoint draws a parent to child link colored by joint type.
func DrawJoint(x1, y1, x2, y2 float32, jt components.JointType) {
	var col rl.Color
	switch jt {
	case components.JointBall:
		col = rl.Color{R: 240, G: 160, B: 60, A: 255}
	case components.JointPrismatic:
		col = rl.Color{R: 100, G: 200, B: 240, A: 255}
	case components.JointRevolute:
		col = rl.Color{R: 220, G: 100, B: 220, A: 255}
	default:
		col = rl.Color{R: 200, G: 200, B: 200, A: 255}
	}
	rl.DrawLineEx(rl.Vector2{X: x1, Y: y1}, rl.Vector2{X: x2, Y: y2}, 2, col)
	rl.DrawCircleV(rl.Vector2{X: x2, Y: y2}, 2.5, col)
}

// SensorShape is a camera's field of view on screen.
type SensorShape struct {
	X, Y         float32
	HalfW, HalfH float32
	Rotation     float32
	Active       bool // a gauge is in view
}

// DrawSensor draws a translucent field of view box.
func DrawSensor(s SensorShape) {
	col := rl.Color{R: 120, G: 200, B: 255, A: 40}
	if s.Active {
		col = rl.Color{R: 120, G: 255, B: 140, A: 60}
	}
	rect := rl.Rectangle{X: s.X, Y: s.Y, Width: s.HalfW * 2, Height: s.HalfH * 2}
	rl.DrawRectanglePro(rect, rl.Vector2{X: s.HalfW, Y: s.HalfH}, s.Rotation, col)
}

// DrawBounds outlines an axis-aligned box in screen pixels.
func DrawBounds(minX, minY, maxX, maxY float32, sensor bool) {
	col := rl.Color{R: 255, G: 80, B: 80, A: 200}
	if sensor {
		col = rl.Color{R: 80, G: 180, B: 255, A: 160}
	}
	rl.DrawRectangleLinesEx(rl.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, 1, col)
}

// DrawGaugeProgress draws an arc around a gauge showing inspection progress.
func DrawGaugeProgress(x, y, radius, fraction float32, inspecting bool) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	center := rl.Vector2{X: x, Y: y}
	rl.DrawRing(center, radius, radius+3, 0, 360, 32, rl.Color{R: 40, G: 40, B: 40, A: 200})
	col := rl.Color{R: 120, G: 120, B: 120, A: 255}
	if inspecting {
		col = rl.Color{R: 100, G: 220, B: 100, A: 255}
	}
	if fraction > 0 {
		rl.DrawRing(center, radius, radius+3, -90, -90+360*fraction, 32, col)
	}
}

// DrawLabel draws a small label centered above a screen point.
func DrawLabel(x, y float32, text string) {
	w := rl.MeasureText(text, 10)
	rl.DrawText(text, int32(x)-w/2, int32(y)-14, 10, rl.RayWhite)
}
