package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v, want nil, nil", om, err)
	}
	if err := om.WriteRejection(Rejection{}); err != nil {
		t.Errorf("nil manager write: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager close: %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	for _, r := range []Rejection{
		{Tick: 3, Entity: 7, Item: "simple_battery", Parent: 1, Point: "camera_lens", Reason: "unknown_point"},
		{Tick: 9, Entity: 8, Item: "large_battery", Parent: 1, Point: "main_battery", Reason: "incompatible"},
	} {
		if err := om.WriteRejection(r); err != nil {
			t.Fatalf("WriteRejection: %v", err)
		}
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 600, Robots: 1}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rejections.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("rejections.csv has %d lines, want header and 2 rows:\n%s", len(lines), data)
	}
	if lines[0] != "tick,entity,item,parent,point,reason" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "9,8,large_battery") {
		t.Errorf("second row = %q", lines[2])
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}
