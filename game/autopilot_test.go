package game

import (
	"testing"

	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/systems"
)

func TestAutopilotLoops(t *testing.T) {
	a, err := NewAutopilot([]config.AutopilotStep{
		{Ticks: 2, Actions: []string{"forward"}},
		{Ticks: 0, Actions: []string{"backward"}},
		{Ticks: 1, Actions: []string{"rotate_left", "zoom_in"}},
	})
	if err != nil {
		t.Fatalf("NewAutopilot: %v", err)
	}
	if a.Length() != 3 {
		t.Fatalf("Length = %d, want 3", a.Length())
	}

	want := []systems.Action{
		systems.ActionForward,
		systems.ActionForward,
		systems.ActionRotateLeft | systems.ActionZoomIn,
		systems.ActionForward,
	}
	for i, w := range want {
		if got := a.Next(); got != w {
			t.Errorf("tick %d: got %b, want %b", i, got, w)
		}
	}
}

func TestAutopilotRejectsUnknownAction(t *testing.T) {
	_, err := NewAutopilot([]config.AutopilotStep{{Ticks: 1, Actions: []string{"jump"}}})
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestAutopilotEmpty(t *testing.T) {
	a, err := NewAutopilot(nil)
	if err != nil {
		t.Fatalf("NewAutopilot: %v", err)
	}
	for i := 0; i < 3; i++ {
		if got := a.Next(); got != 0 {
			t.Errorf("empty script held %b", got)
		}
	}
}
