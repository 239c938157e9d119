package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the values shown in the top-left status block.
type HUDData struct {
	Title        string
	Robots       int
	Items        int
	Joints       int
	Pending      int
	Rejected     int
	Tick         int32
	Speed        int
	FPS          int32
	Paused       bool
	DebitMode    string
	Charge       float32 // selected robot
	Capacity     float32
	Inspections  int
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD draws the status block and the key legend.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the status block.
func (h *HUD) Draw(data HUDData) {
	const x = 10
	y := int32(10)
	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 25

	lines := []string{
		fmt.Sprintf("Robots %d   Items %d   Joints %d", data.Robots, data.Items, data.Joints),
		fmt.Sprintf("Pending %d   Rejected %d", data.Pending, data.Rejected),
		fmt.Sprintf("Tick %d   x%d   %d fps   debit %s", data.Tick, data.Speed, data.FPS, data.DebitMode),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, 16, rl.LightGray)
		y += 20
	}

	if data.Capacity > 0 {
		h.renderer.DrawEnergyBar(x, y, "Power", data.Charge, data.Capacity, 320)
		y += 20
	}

	status, color := fmt.Sprintf("Inspected %d", data.Inspections), rl.Yellow
	if data.Paused {
		status, color = "PAUSED", rl.Orange
	}
	rl.DrawText(status, x, y, 16, color)
}

// DrawControls renders the key legend along the bottom edge.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfRow is one system line in the perf panel.
type PerfRow struct {
	Name     string
	Category string
	Avg      time.Duration
	Slowest  bool
}

// PerfPanelData holds per-system timings in execution order.
type PerfPanelData struct {
	Rows  []PerfRow
	Total time.Duration
}

// PerfPanel lists average system times, grouped by category.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates the panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the panel. Systems that never ran are skipped.
func (p *PerfPanel) Draw(data PerfPanelData) {
	th := p.renderer.Theme
	x, y := p.x, p.y

	rl.DrawText("Systems", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("tick %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 18

	category := ""
	for _, row := range data.Rows {
		if row.Avg == 0 {
			continue
		}
		if row.Category != category {
			category = row.Category
			rl.DrawText(category, x, y, th.HeaderFontSize, th.SectionHeader)
			y += 14
		}
		var share float32
		if data.Total > 0 {
			share = float32(row.Avg) / float32(data.Total)
		}
		color := rl.LightGray
		if row.Slowest {
			color = rl.Orange
		}
		rl.DrawText(row.Name, x+8, y, 12, color)
		rl.DrawRectangle(x+130, y+2, int32(share*80), 8, color)
		rl.DrawText(row.Avg.Round(time.Microsecond).String(), x+216, y, 12, color)
		y += 14
	}
}
