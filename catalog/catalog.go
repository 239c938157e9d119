// Package catalog holds the immutable item definitions robots are built from.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/framefighter/inspection-idle/components"
)

//go:embed items.yaml
var itemsYAML []byte

// Handle is the catalog key of an item.
type Handle string

// AttachmentPointSpec describes one socket of an item. Positions are in pixels,
// rotation in degrees.
type AttachmentPointSpec struct {
	ID       components.AttachmentPointId `yaml:"id"`
	Position [3]float32                   `yaml:"position"` // x, y, z-order
	Rotation float32                      `yaml:"rotation"`
	Accepts  []components.ItemKind        `yaml:"accepts"`
	MaxSize  components.ItemSize          `yaml:"max_size"`
}

// Sprite describes how the item is drawn.
type Sprite struct {
	Name   string     `yaml:"name"`
	Size   [2]float32 `yaml:"size"` // pixels
	Frames int        `yaml:"frames"`
}

// Item is a catalog entry.
type Item struct {
	Name             string                `yaml:"name"`
	Size             components.ItemSize   `yaml:"size"`
	Type             components.ItemType   `yaml:"type"`
	JointType        components.JointType  `yaml:"joint_type"`
	ZIndex           float32               `yaml:"z_index"`
	Origin           [2]float32            `yaml:"origin"`
	Sprite           Sprite                `yaml:"sprite"`
	AttachmentPoints []AttachmentPointSpec `yaml:"attachment_points"`
}

// Point returns the socket spec with the given id.
func (it *Item) Point(id components.AttachmentPointId) (AttachmentPointSpec, bool) {
	for _, p := range it.AttachmentPoints {
		if p.ID == id {
			return p, true
		}
	}
	return AttachmentPointSpec{}, false
}

// Catalog is a read-only set of items keyed by handle.
type Catalog struct {
	items map[Handle]*Item
}

type catalogFile struct {
	Items map[Handle]*Item `yaml:"items"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(itemsYAML)
}

// Load reads a catalog from path, or returns the embedded one if path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	for h, it := range f.Items {
		if it == nil {
			return nil, fmt.Errorf("item %q: empty definition", h)
		}
		if it.Name == "" {
			it.Name = string(h)
		}
		seen := make(map[components.AttachmentPointId]bool, len(it.AttachmentPoints))
		for _, p := range it.AttachmentPoints {
			if seen[p.ID] {
				return nil, fmt.Errorf("item %q: duplicate attachment point %s", h, p.ID.Key())
			}
			seen[p.ID] = true
		}
	}
	return &Catalog{items: f.Items}, nil
}

// Lookup returns the item for a handle.
func (c *Catalog) Lookup(h Handle) (*Item, bool) {
	it, ok := c.items[h]
	return it, ok
}

// Handles returns all handles in sorted order.
func (c *Catalog) Handles() []Handle {
	hs := make([]Handle, 0, len(c.items))
	for h := range c.items {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// Compatible returns the handles of every item that fits the point, sorted.
func (c *Catalog) Compatible(point *components.Attachment) []Handle {
	var out []Handle
	for _, h := range c.Handles() {
		it := c.items[h]
		if point.IsCompatible(it.Size, it.Type) {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}
