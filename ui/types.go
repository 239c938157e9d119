// Package ui provides the HUD, panels and attachment menu of the robot view.
// Inspector fields are defined through descriptors so the layout can follow
// the components without hard-coding field names. Panels never touch the
// world; user choices leave the package as Events.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType selects how a field is drawn.
type WidgetType int

const (
	WidgetText        WidgetType = iota // formatted value or TextGetter
	WidgetBar                           // fraction in [0, 1]
	WidgetCenteredBar                   // signed value in Range
	WidgetEnergyBar                     // Getter against MaxGetter
	WidgetSection                       // header row
	WidgetSpacer
)

// FieldRange bounds a centered bar.
type FieldRange struct {
	Min float32
	Max float32
}

// FieldDescriptor describes one inspector row.
type FieldDescriptor struct {
	ID         string
	Label      string
	Widget     WidgetType
	Format     string            // printf format for Getter values
	Range      FieldRange        // centered bars only
	Visible    func(any) bool    // nil means always shown
	Getter     func(any) float32 // numeric value
	MaxGetter  func(any) float32 // capacity for energy bars
	TextGetter func(any) string
}

// SectionDescriptor is a titled group of rows.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillLow      rl.Color
	BarFillMedium   rl.Color
	BarFillHigh     rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color

	// Charge fractions below which energy bars turn low or medium.
	LowCharge    float32
	MediumCharge float32

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 18, G: 22, B: 28, A: 235},
		PanelBorder:     rl.Color{R: 70, G: 80, B: 92, A: 255},
		SectionHeader:   rl.Color{R: 240, G: 200, B: 90, A: 255},
		LabelColor:      rl.LightGray,
		ValueColor:      rl.RayWhite,
		BarBg:           rl.Color{R: 40, G: 44, B: 50, A: 255},
		BarFill:         rl.Color{R: 90, G: 150, B: 210, A: 255},
		BarFillLow:      rl.Color{R: 210, G: 90, B: 80, A: 255},
		BarFillMedium:   rl.Color{R: 220, G: 180, B: 90, A: 255},
		BarFillHigh:     rl.Color{R: 100, G: 200, B: 110, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 120, B: 200, A: 255},
		BarFillPositive: rl.Color{R: 90, G: 200, B: 200, A: 255},
		LowCharge:       0.2,
		MediumCharge:    0.5,
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
