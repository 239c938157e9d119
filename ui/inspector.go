package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/framefighter/inspection-idle/components"
)

// InspectorData holds all the data needed to render the inspector panel.
type InspectorData struct {
	Name      string
	Kind      components.ItemKind
	Color     rl.Color
	Status    string // attach state of the item's request
	Reason    string // reject reason, empty unless rejected
	JointType components.JointType
	Jointed   bool    // held by a committed joint
	JointPos  float32 // joint angle or slide of that joint
	Points    int     // attachment points, free or occupied
	Occupied  int

	Camera  *components.CameraZoom
	Lens    *components.CameraLensState
	Battery *components.Battery
	Gauge   *components.Gauge

	// Totals of the robot the item belongs to
	RobotCharge   float32
	RobotCapacity float32
	RobotItems    int
}

// Inspector renders the item inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: inspectorSections(),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, ins.height(&data))
	y := ins.y + padding

	y = ins.drawHeader(ins.x+padding, y, &data)
	y += 6

	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, &data, contentWidth)
	}
	return y
}

// height estimates the panel height from the visible fields.
func (ins *Inspector) height(data *InspectorData) int32 {
	th := ins.renderer.Theme
	h := th.Padding*2 + th.LineHeight + 12
	for _, sd := range ins.sections {
		if sd.Visible != nil && !sd.Visible(data) {
			continue
		}
		h += th.LineHeight + 4
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(data) {
				continue
			}
			h += th.LineHeight + 2
		}
	}
	return h
}

// drawHeader renders the item name with its kind color.
func (ins *Inspector) drawHeader(x, y int32, data *InspectorData) int32 {
	rl.DrawRectangle(x, y+3, 12, 12, data.Color)
	rl.DrawText(data.Name, x+18, y, 18, rl.White)
	return y + ins.renderer.Theme.LineHeight + 6
}

func inspected(d any) *InspectorData { return d.(*InspectorData) }

// inspectorSections describes the inspector layout.
func inspectorSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "item",
			Title: "Item",
			Fields: []FieldDescriptor{
				{ID: "kind", Label: "Kind", Widget: WidgetText, TextGetter: func(d any) string { return inspected(d).Kind.String() }},
				{ID: "status", Label: "Status", Widget: WidgetText, TextGetter: func(d any) string {
					data := inspected(d)
					if data.Reason != "" {
						return fmt.Sprintf("%s (%s)", data.Status, data.Reason)
					}
					return data.Status
				}},
				{ID: "joint", Label: "Joint", Widget: WidgetText, TextGetter: func(d any) string { return inspected(d).JointType.String() }},
				{
					ID: "angle", Label: "Angle", Widget: WidgetCenteredBar,
					Range:   FieldRange{Min: -math.Pi, Max: math.Pi},
					Visible: func(d any) bool { return inspected(d).Jointed && inspected(d).JointType == components.JointRevolute },
					Getter:  func(d any) float32 { return inspected(d).JointPos },
				},
				{
					ID: "points", Label: "Points", Widget: WidgetText,
					Visible:    func(d any) bool { return inspected(d).Points > 0 },
					TextGetter: func(d any) string { return fmt.Sprintf("%d/%d used", inspected(d).Occupied, inspected(d).Points) },
				},
			},
		},
		{
			ID:      "camera",
			Title:   "Camera",
			Visible: func(d any) bool { return inspected(d).Camera != nil },
			Fields: []FieldDescriptor{
				{ID: "zoom", Label: "Zoom", Widget: WidgetBar, Getter: func(d any) float32 {
					c := inspected(d).Camera
					if c.Max <= c.Min {
						return 1
					}
					return (c.Zoom - c.Min) / (c.Max - c.Min)
				}},
				{ID: "fov", Label: "FOV", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 { return inspected(d).Camera.FOV }},
			},
		},
		{
			ID:      "lens",
			Title:   "Lens",
			Visible: func(d any) bool { return inspected(d).Lens != nil },
			Fields: []FieldDescriptor{
				{ID: "lens_kind", Label: "Type", Widget: WidgetText, TextGetter: func(d any) string { return inspected(d).Lens.Kind.String() }},
				{ID: "focus", Label: "Focus", Widget: WidgetBar, Getter: func(d any) float32 {
					data := inspected(d)
					if data.Lens.Max <= data.Lens.Min {
						return 0
					}
					return (data.JointPos - data.Lens.Min) / (data.Lens.Max - data.Lens.Min)
				}},
			},
		},
		{
			ID:      "battery",
			Title:   "Battery",
			Visible: func(d any) bool { return inspected(d).Battery != nil },
			Fields: []FieldDescriptor{
				{
					ID: "charge", Label: "Charge", Widget: WidgetEnergyBar,
					Getter:    func(d any) float32 { return inspected(d).Battery.Charge },
					MaxGetter: func(d any) float32 { return inspected(d).Battery.Capacity },
				},
				{ID: "recharge", Label: "Recharge", Widget: WidgetText, Format: "%.2f/s", Getter: func(d any) float32 { return inspected(d).Battery.ChargeSpeed }},
			},
		},
		{
			ID:      "gauge",
			Title:   "Gauge",
			Visible: func(d any) bool { return inspected(d).Gauge != nil },
			Fields: []FieldDescriptor{
				{ID: "progress", Label: "Progress", Widget: WidgetBar, Getter: func(d any) float32 {
					g := inspected(d).Gauge
					if g.Goal <= 0 {
						return 0
					}
					return float32(g.Progress) / float32(g.Goal)
				}},
				{ID: "done", Label: "Done", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("%d", inspected(d).Gauge.Inspections) }},
				{ID: "viewed", Label: "Viewed", Widget: WidgetText, TextGetter: func(d any) string {
					if inspected(d).Gauge.Inspecting {
						return "yes"
					}
					return "no"
				}},
			},
		},
		{
			ID:      "robot",
			Title:   "Robot",
			Visible: func(d any) bool { return inspected(d).RobotItems > 0 },
			Fields: []FieldDescriptor{
				{ID: "items", Label: "Items", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("%d", inspected(d).RobotItems) }},
				{
					ID: "power", Label: "Power", Widget: WidgetEnergyBar,
					Visible:   func(d any) bool { return inspected(d).RobotCapacity > 0 },
					Getter:    func(d any) float32 { return inspected(d).RobotCharge },
					MaxGetter: func(d any) float32 { return inspected(d).RobotCapacity },
				},
			},
		},
	}
}
