package telemetry

import (
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		Tick:        1000,
		WorldWidth:  4096,
		WorldHeight: 4096,
		Items: []ItemState{
			{ID: 1, Name: "simple_body", Kind: "body", Root: 1, Status: "success",
				Points: map[string]uint32{"MainCamera": 2, "MainBattery": 0}},
			{ID: 2, Name: "sensor_mast_two", Kind: "sensor_mast", Root: 1, Status: "success", X: 0, Y: 1.5},
			{ID: 3, Name: "simple_battery", Kind: "battery", Status: "rejected", Charge: 40, Capacity: 100},
			{ID: 4, Name: "simple_manometer", Kind: "gauge", Status: "success", Progress: 12},
		},
		Joints: []JointState{{Parent: 1, Child: 2, Point: "MainCamera", Type: "fixed"}},
		Bookmark: &Bookmark{
			Type:        BookmarkAttachRejected,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_1000_attach_rejected.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Tick != snapshot.Tick || loaded.Version != SnapshotVersion {
		t.Errorf("header mismatch: got %d/%d", loaded.Version, loaded.Tick)
	}
	if len(loaded.Items) != 4 || len(loaded.Joints) != 1 {
		t.Fatalf("got %d items, %d joints", len(loaded.Items), len(loaded.Joints))
	}
	if got := loaded.Items[0].Points["MainCamera"]; got != 2 {
		t.Errorf("MainCamera occupant = %d, want 2", got)
	}
	if got := loaded.Items[2]; got.Charge != 40 || got.Status != "rejected" {
		t.Errorf("battery = %+v", got)
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkAttachRejected {
		t.Errorf("bookmark = %+v", loaded.Bookmark)
	}
}

func TestSnapshotWithoutBookmark(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestSnapshotRoots(t *testing.T) {
	s := &Snapshot{Items: []ItemState{
		{ID: 1, Root: 1}, {ID: 2, Root: 1}, {ID: 5}, {ID: 6, Root: 6}, {ID: 7, Root: 6},
	}}
	roots := s.Roots()
	if len(roots) != 2 || roots[0] != 1 || roots[1] != 6 {
		t.Errorf("Roots() = %v, want [1 6]", roots)
	}
}

func TestLoadSnapshotRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion + 1, Tick: 5}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("loaded a snapshot from a newer format")
	}
}
