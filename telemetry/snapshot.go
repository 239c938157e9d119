package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the assembled scene at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	Tick    int32 `json:"tick"`

	WorldWidth  float32 `json:"world_width"`
	WorldHeight float32 `json:"world_height"`

	Items  []ItemState  `json:"items"`
	Joints []JointState `json:"joints"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ItemState holds one item entity.
type ItemState struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Root   uint32 `json:"root,omitempty"` // robot root, zero when untagged
	Status string `json:"status"`         // attach result

	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Angle float32 `json:"angle"`

	// Points lists the attachment points and the occupying item, zero when free
	Points map[string]uint32 `json:"points,omitempty"`

	Charge   float32 `json:"charge,omitempty"`
	Capacity float32 `json:"capacity,omitempty"`
	Zoom     float32 `json:"zoom,omitempty"`
	Progress int     `json:"progress,omitempty"`
}

// JointState holds one joint linking a parent point to a child item.
type JointState struct {
	Parent uint32 `json:"parent"`
	Child  uint32 `json:"child"`
	Point  string `json:"point"`
	Type   string `json:"type"`
}

// Roots returns the distinct robot roots in item order.
func (s *Snapshot) Roots() []uint32 {
	var roots []uint32
	for _, it := range s.Items {
		if it.Root != 0 && !slices.Contains(roots, it.Root) {
			roots = append(roots, it.Root)
		}
	}
	return roots
}

// FileName returns the snapshot file name, tagged with the bookmark type
// when the snapshot was taken for one.
func (s *Snapshot) FileName() string {
	name := fmt.Sprintf("snapshot_%d", s.Tick)
	if s.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(s.Bookmark.Type), " ", "_")
	}
	return name + ".json"
}

// SaveSnapshot writes s as indented JSON under dir and returns the path.
func SaveSnapshot(s *Snapshot, dir string) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot %d: %w", s.Tick, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, s.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. Files from a newer
// format version are refused.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("%s: snapshot version %d is newer than %d", path, s.Version, SnapshotVersion)
	}
	return &s, nil
}
