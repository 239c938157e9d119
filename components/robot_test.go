package components

import "testing"

func TestCameraZoomAdjust(t *testing.T) {
	z := CameraZoom{Min: 2, Max: 10, Speed: 1, Zoom: 4}

	if got := z.Adjust(3); got != 7 {
		t.Errorf("Adjust(3) = %v, want 7", got)
	}
	if got := z.Adjust(100); got != 10 {
		t.Errorf("Adjust(100) = %v, want clamp to 10", got)
	}
	if got := z.Adjust(-100); got != 2 {
		t.Errorf("Adjust(-100) = %v, want clamp to 2", got)
	}
	if z.Middle() != 1 {
		t.Errorf("Middle() = %v, want 1", z.Middle())
	}
}

func TestGaugeStep(t *testing.T) {
	g := Gauge{Goal: 2}

	// Not inspecting: no progress
	for i := 0; i < 10; i++ {
		if g.Step(3) {
			t.Fatal("progress without inspection")
		}
	}

	g.Inspecting = true
	steps := 0
	for i := 0; i < 12; i++ {
		if g.Step(3) {
			steps++
		}
	}
	if steps != 4 {
		t.Errorf("progress steps = %d, want 4", steps)
	}
	if g.Inspections != 2 {
		t.Errorf("inspections = %d, want 2", g.Inspections)
	}
	if g.Progress != 0 {
		t.Errorf("progress = %d, want reset to 0", g.Progress)
	}
}

func TestBatteryFraction(t *testing.T) {
	b := Battery{Capacity: 50, Charge: 25}
	if b.Fraction() != 0.5 {
		t.Errorf("Fraction() = %v, want 0.5", b.Fraction())
	}
	empty := Battery{}
	if empty.Fraction() != 0 {
		t.Errorf("zero-capacity Fraction() = %v, want 0", empty.Fraction())
	}
}
