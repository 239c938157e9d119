package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panel rows in the theme's style. Every row method returns
// the y position of the next row.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section title.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabel draws a text label.
func (r *Renderer) DrawLabel(x, y int32, text string) {
	rl.DrawText(text, x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.label(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

func (r *Renderer) label(x, y int32, text string) {
	rl.DrawText(text+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// barRow draws a labelled bar track and returns its x and width. valueWidth
// is reserved on the right for the value text.
func (r *Renderer) barRow(x, y int32, label string, width, valueWidth int32) (int32, int32) {
	r.label(x, y, label)
	barX := x + r.Theme.LabelWidth
	barW := width - r.Theme.LabelWidth - valueWidth
	rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)
	return barX, barW
}

// DrawBar draws a progress bar for a fraction in [0, 1].
func (r *Renderer) DrawBar(x, y int32, label string, fraction float32, width int32) int32 {
	fraction = clampUnit(fraction)
	barX, barW := r.barRow(x, y, label, width, 50)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*fraction), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", fraction*100), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawEnergyBar draws charge against capacity, colored by how full it is.
func (r *Renderer) DrawEnergyBar(x, y int32, label string, charge, capacity float32, width int32) int32 {
	var fraction float32
	if capacity > 0 {
		fraction = clampUnit(charge / capacity)
	}
	barX, barW := r.barRow(x, y, label, width, 80)

	fill := r.Theme.BarFillHigh
	switch {
	case fraction < r.Theme.LowCharge:
		fill = r.Theme.BarFillLow
	case fraction < r.Theme.MediumCharge:
		fill = r.Theme.BarFillMedium
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*fraction), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", charge, capacity), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a value in [min, max] as a fill from the middle of
// the track, for signed quantities like joint angles.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value, min, max float32, width int32) int32 {
	barX, barW := r.barRow(x, y, label, width, 50)
	mid := barX + barW/2
	rl.DrawLine(mid, y+2, mid, y+2+r.Theme.BarHeight, r.Theme.PanelBorder)

	half := (max - min) / 2
	if half > 0 {
		offset := clampUnit(abs32(value-(min+half))/half) * float32(barW/2)
		fill, fx := r.Theme.BarFillPositive, mid
		if value < min+half {
			fill, fx = r.Theme.BarFillNegative, mid-int32(offset)
		}
		rl.DrawRectangle(fx, y+2, int32(offset), r.Theme.BarHeight, fill)
	}
	rl.DrawText(fmt.Sprintf("%+.2f", value), barX+barW+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawField renders a field from its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	value := func() float32 {
		if fd.Getter == nil {
			return 0
		}
		return fd.Getter(data)
	}

	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(data)
		} else if fd.Getter != nil {
			text = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, value(), width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, value(), fd.Range.Min, fd.Range.Max, width)
	case WidgetEnergyBar:
		if fd.MaxGetter == nil {
			return y
		}
		return r.DrawEnergyBar(x, y, fd.Label, value(), fd.MaxGetter(data), width)
	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section header and its visible fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
