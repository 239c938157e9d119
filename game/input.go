package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/framefighter/inspection-idle/systems"
)

// driveKeys maps held keys to robot actions.
var driveKeys = []struct {
	key    int32
	action systems.Action
}{
	{rl.KeyW, systems.ActionForward},
	{rl.KeyS, systems.ActionBackward},
	{rl.KeyA, systems.ActionLeft},
	{rl.KeyD, systems.ActionRight},
	{rl.KeyQ, systems.ActionRotateLeft},
	{rl.KeyE, systems.ActionRotateRight},
	{rl.KeyR, systems.ActionZoomIn},
	{rl.KeyF, systems.ActionZoomOut},
	{rl.KeyZ, systems.ActionMastLeft},
	{rl.KeyX, systems.ActionMastRight},
	{rl.KeyT, systems.ActionFocusIn},
	{rl.KeyG, systems.ActionFocusOut},
}

// pressedKeys maps single-press keys to game toggles.
var pressedKeys = []struct {
	key int32
	fn  func(g *Game)
}{
	{rl.KeyF11, func(*Game) { rl.ToggleFullscreen() }},
	{rl.KeySpace, func(g *Game) { g.paused = !g.paused }},
	{rl.KeyComma, func(g *Game) { g.stepsPerUpdate = max(g.stepsPerUpdate-1, 1) }},
	{rl.KeyPeriod, func(g *Game) { g.stepsPerUpdate = min(g.stepsPerUpdate+1, 10) }},
	{rl.KeyF1, func(g *Game) { g.controlsPanel.Toggle() }},
	{rl.KeyF3, func(g *Game) { g.showPerf = !g.showPerf }},
	{rl.KeyC, func(g *Game) { g.follow = !g.follow }},
	{rl.KeyDelete, func(g *Game) { g.ClearRejected() }},
	{rl.KeyBackspace, func(g *Game) { g.menu = menuState{} }},
}

// handleInput reads the keyboard and mouse for one frame.
func (g *Game) handleInput() {
	g.handleResize()

	for _, pk := range pressedKeys {
		if rl.IsKeyPressed(pk.key) {
			pk.fn(g)
		}
	}
	if key := rl.GetKeyPressed(); key != 0 {
		g.overlays.HandleKeyPress(key)
	}

	g.keys = 0
	for _, dk := range driveKeys {
		if rl.IsKeyDown(dk.key) {
			g.keys |= dk.action
		}
	}

	g.handleCameraInput()
	g.handleSelection()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.camera != nil {
		g.camera.Resize(w, h)
	}
	if g.background != nil {
		g.background.Resize(w, h)
	}
	if g.attachPanel != nil {
		g.attachPanel.SetPosition(int32(w)-290, 10)
		g.controlsPanel.SetPosition(int32(w)-290, 10)
	}
	if g.quickStats != nil {
		g.quickStats.SetPosition(10, int32(h)-150)
	}
}

// panKeys maps arrow keys to a pan direction.
var panKeys = []struct {
	key    int32
	dx, dy float32
}{
	{rl.KeyRight, 1, 0},
	{rl.KeyLeft, -1, 0},
	{rl.KeyDown, 0, 1},
	{rl.KeyUp, 0, -1},
}

// handleCameraInput pans and zooms the view. Manual panning stops following
// the selected robot; Home resets the view and resumes it.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	step := 8 / g.camera.Zoom
	for _, pk := range panKeys {
		if rl.IsKeyDown(pk.key) {
			g.camera.Pan(pk.dx*step, pk.dy*step)
			g.follow = false
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	switch {
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		g.camera.ZoomBy(1.25)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		g.camera.ZoomBy(0.8)
	case rl.IsKeyPressed(rl.KeyHome):
		g.camera.Reset()
		g.follow = true
	}
}
