package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// AttachmentPanelData is the selected item as the panel sees it.
type AttachmentPanelData struct {
	Parent   ecs.Entity
	ItemName string
	Points   []PointEntry
	Menu     *MenuModel // open menu, nil when no point is selected
}

// AttachmentPanel lists the points of the selected item and, for the open
// point, the catalog items that fit it. Clicks are reported as Events.
type AttachmentPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewAttachmentPanel creates the panel.
func NewAttachmentPanel(x, y, width int32) *AttachmentPanel {
	return &AttachmentPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *AttachmentPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Contains reports whether a screen point lies over the panel.
func (p *AttachmentPanel) Contains(data AttachmentPanelData, sx, sy float32) bool {
	h := p.height(data)
	return sx >= float32(p.x) && sx <= float32(p.x+p.width) &&
		sy >= float32(p.y) && sy <= float32(p.y+h)
}

func (p *AttachmentPanel) height(data AttachmentPanelData) int32 {
	const row = 26
	th := p.renderer.Theme
	h := th.Padding*2 + th.LineHeight + 4 + int32(len(data.Points))*row
	if m := data.Menu; m != nil {
		h += th.LineHeight*4 + int32(len(m.Options)+2)*row
	}
	return h
}

// Draw renders the panel and pushes an event for every clicked button.
func (p *AttachmentPanel) Draw(data AttachmentPanelData, events *Events) {
	const row = 26
	r := p.renderer
	th := r.Theme
	pad := th.Padding
	inner := float32(p.width - pad*2)

	r.DrawPanel(p.x, p.y, p.width, p.height(data))
	x := p.x + pad
	y := p.y + pad

	rl.DrawText(data.ItemName, x, y, 16, rl.White)
	y += th.LineHeight + 4

	for _, pt := range data.Points {
		label := pt.Name
		if pt.Occupant != "" {
			label = fmt.Sprintf("%s: %s", pt.Name, pt.Occupant)
		}
		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: row - 4}
		if gui.Button(bounds, label) {
			events.Push(Event{Kind: EventSelectPoint, Parent: data.Parent, Point: pt.Point})
		}
		y += row
	}

	m := data.Menu
	if m == nil {
		return
	}

	y += 4
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("%s - %s", m.PointName, m.Label))
	if m.Current != "" {
		y = r.DrawLabelValue(x, y, "Current", m.Current)
	}
	y = r.DrawLabelValue(x, y, "Accepts", strings.Join(m.Accepts, ", "))
	y = r.DrawLabelValue(x, y, "Max size", fmt.Sprintf("%d", m.MaxSize))

	if len(m.Options) == 0 {
		r.DrawLabel(x, y, "No compatible items")
		y += row
	}
	for _, opt := range m.Options {
		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: row - 4}
		if gui.Button(bounds, opt.Name) {
			events.Push(Event{Kind: EventReplace, Parent: m.Parent, Point: m.Point, Handle: opt.Handle})
		}
		y += row
	}

	half := (inner - 6) / 2
	if m.CanRemove {
		if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: row - 4}, "Remove") {
			events.Push(Event{Kind: EventRemove, Parent: m.Parent, Point: m.Point})
		}
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + 6, Y: float32(y), Width: half, Height: row - 4}, "Close") {
		events.Push(Event{Kind: EventClose, Parent: m.Parent, Point: m.Point})
	}
}
