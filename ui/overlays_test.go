package ui

import (
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayExclusive(t *testing.T) {
	r := NewOverlayRegistry()
	r.SetEnabled(OverlayNames, true)
	r.SetEnabled(OverlayJoints, true)

	if !r.Toggle(OverlayRejected) {
		t.Fatal("toggle did not enable rejected overlay")
	}
	if r.IsEnabled(OverlayNames) {
		t.Error("names still on after enabling rejected highlight")
	}
	if !r.IsEnabled(OverlayJoints) {
		t.Error("unrelated overlay switched off")
	}
}

func TestOverlayKeys(t *testing.T) {
	tests := []struct {
		key    int32
		wantID OverlayID
		wantOK bool
	}{
		{rl.KeyP, OverlayPoints, true},
		{rl.KeyB, OverlayColliders, true},
		{rl.KeyF12, "", false},
	}
	for _, tt := range tests {
		r := NewOverlayRegistry()
		id, ok := r.HandleKeyPress(tt.key)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("HandleKeyPress(%d) = %q, %v, want %q, %v", tt.key, id, ok, tt.wantID, tt.wantOK)
		}
		if ok && !r.IsEnabled(id) {
			t.Errorf("%s not enabled after key press", id)
		}
	}
}

func TestOverlayCategories(t *testing.T) {
	r := NewOverlayRegistry()
	if got := r.Categories(); !slices.Equal(got, []string{"assembly", "sensors", "debug"}) {
		t.Errorf("Categories() = %v", got)
	}
	if n := len(r.ByCategory("assembly")); n != 3 {
		t.Errorf("assembly overlays = %d, want 3", n)
	}
	r.SetEnabled("missing", true)
	if r.IsEnabled("missing") {
		t.Error("unknown overlay enabled")
	}
}
