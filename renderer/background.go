// Package renderer draws the workspace floor and robot items with raylib primitives.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BackgroundRenderer draws the floor as a grid that follows the camera.
type BackgroundRenderer struct {
	screenW, screenH float32
	spacing          float32 // world pixels between minor lines
	majorEvery       int
	base             rl.Color
	minor            rl.Color
	major            rl.Color
	border           rl.Color
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW:    float32(screenW),
		screenH:    float32(screenH),
		spacing:    32,
		majorEvery: 8,
		base:       rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		minor:      rl.Color{R: baseR + 12, G: baseG + 12, B: baseB + 14, A: 255},
		major:      rl.Color{R: baseR + 28, G: baseG + 28, B: baseB + 32, A: 255},
		border:     rl.Color{R: 200, G: 90, B: 60, A: 255},
	}
}

// Resize updates the screen dimensions.
func (b *BackgroundRenderer) Resize(screenW, screenH float32) {
	b.screenW = screenW
	b.screenH = screenH
}

// Draw renders the grid for a camera centered at (cameraX, cameraY) in world
// pixels with y up. The world spans worldW x worldH around the origin.
func (b *BackgroundRenderer) Draw(cameraX, cameraY, cameraZoom, worldW, worldH float32) {
	rl.DrawRectangle(0, 0, int32(b.screenW), int32(b.screenH), b.base)

	step := b.spacing
	// Skip minor lines when they would be closer than a few pixels
	for step*cameraZoom < 8 {
		step *= float32(b.majorEvery)
	}

	halfW := b.screenW / (2 * cameraZoom)
	halfH := b.screenH / (2 * cameraZoom)
	minX := max(cameraX-halfW, -worldW/2)
	maxX := min(cameraX+halfW, worldW/2)
	minY := max(cameraY-halfH, -worldH/2)
	maxY := min(cameraY+halfH, worldH/2)

	toScreenX := func(wx float32) float32 { return b.screenW/2 + (wx-cameraX)*cameraZoom }
	toScreenY := func(wy float32) float32 { return b.screenH/2 - (wy-cameraY)*cameraZoom }

	major := step * float32(b.majorEvery)
	for x := float32(math.Ceil(float64(minX/step))) * step; x <= maxX; x += step {
		col := b.minor
		if isMultiple(x, major) {
			col = b.major
		}
		sx := toScreenX(x)
		rl.DrawLineV(rl.Vector2{X: sx, Y: toScreenY(maxY)}, rl.Vector2{X: sx, Y: toScreenY(minY)}, col)
	}
	for y := float32(math.Ceil(float64(minY/step))) * step; y <= maxY; y += step {
		col := b.minor
		if isMultiple(y, major) {
			col = b.major
		}
		sy := toScreenY(y)
		rl.DrawLineV(rl.Vector2{X: toScreenX(minX), Y: sy}, rl.Vector2{X: toScreenX(maxX), Y: sy}, col)
	}

	// World edge
	left, top := toScreenX(-worldW/2), toScreenY(worldH/2)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: left, Y: top, Width: worldW * cameraZoom, Height: worldH * cameraZoom}, 2, b.border)
}

// Unload frees resources. The grid holds none; the method keeps the
// renderer lifecycle uniform.
func (b *BackgroundRenderer) Unload() {}

func isMultiple(v, step float32) bool {
	r := math.Mod(float64(v), float64(step))
	return math.Abs(r) < 0.5 || math.Abs(r-float64(step)) < 0.5 || math.Abs(r+float64(step)) < 0.5
}
