package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var categoryTitles = map[string]string{
	"assembly": "Assembly",
	"sensors":  "Sensors",
	"debug":    "Debug",
}

func categoryLabel(cat string) string {
	if title, ok := categoryTitles[cat]; ok {
		return title
	}
	return cat
}

// ControlsPanel lists the overlays as check boxes, grouped by category.
// Hidden until toggled.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	th := c.renderer.Theme
	rows := 0
	for _, cat := range overlays.Categories() {
		rows += len(overlays.ByCategory(cat)) + 1
	}
	return th.Padding*2 + th.LineHeight + 4 + int32(rows)*(th.LineHeight+4)
}

// Contains reports whether a screen point lies over the visible panel.
func (c *ControlsPanel) Contains(overlays *OverlayRegistry, sx, sy float32) bool {
	if !c.visible {
		return false
	}
	return sx >= float32(c.x) && sx <= float32(c.x+c.width) &&
		sy >= float32(c.y) && sy <= float32(c.y+c.height(overlays))
}

// Draw renders the panel. Clicking a check box toggles its overlay.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}
	r := c.renderer
	th := r.Theme
	row := th.LineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))
	x := c.x + th.Padding
	y := c.y + th.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += th.LineHeight + 4

	for _, cat := range overlays.Categories() {
		rl.DrawText(categoryLabel(cat), x, y, th.HeaderFontSize, th.SectionHeader)
		y += row
		for _, desc := range overlays.ByCategory(cat) {
			box := rl.Rectangle{X: float32(x), Y: float32(y), Width: 12, Height: 12}
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(box, desc.Name, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			if desc.KeyLabel != "" {
				key := fmt.Sprintf("[%s]", desc.KeyLabel)
				kw := rl.MeasureText(key, th.FontSize)
				rl.DrawText(key, c.x+c.width-th.Padding-kw, y, th.FontSize, th.LabelColor)
			}
			y += row
		}
	}
}

// QuickStatsData holds the latest telemetry window for display.
type QuickStatsData struct {
	DropRate    float64
	PowerSpent  float64
	ChargeMean  float64
	Inspections int
	Rejected    int
}

// QuickStatsPanel shows the last closed telemetry window.
type QuickStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewQuickStatsPanel creates the panel.
func NewQuickStatsPanel(x, y, width int32) *QuickStatsPanel {
	return &QuickStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (q *QuickStatsPanel) SetPosition(x, y int32) {
	q.x, q.y = x, y
}

// Draw renders the panel.
func (q *QuickStatsPanel) Draw(data QuickStatsData) {
	rows := []struct{ label, value string }{
		{"Dropped", fmt.Sprintf("%.0f%%", data.DropRate*100)},
		{"Power", fmt.Sprintf("%.1f", data.PowerSpent)},
		{"Charge", fmt.Sprintf("%.0f%%", data.ChargeMean*100)},
		{"Inspected", fmt.Sprintf("%d", data.Inspections)},
		{"Rejected", fmt.Sprintf("%d", data.Rejected)},
	}

	r := q.renderer
	th := r.Theme
	r.DrawPanel(q.x, q.y, q.width, th.LineHeight*int32(len(rows)+1)+th.Padding*2+2)

	x := q.x + th.Padding
	y := q.y + th.Padding
	rl.DrawText("Last Window", x, y, 14, rl.White)
	y += th.LineHeight + 2
	for _, row := range rows {
		y = r.DrawLabelValue(x, y, row.label, row.value)
	}
}
