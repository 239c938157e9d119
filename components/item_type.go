package components

import "gopkg.in/yaml.v3"

// ItemSize is an ordinal size class. A point accepts items up to its max size.
type ItemSize uint8

// ItemKind is the display identity of an item type. Compatibility checks
// compare kinds only; the payload carried in ItemType never matters.
type ItemKind uint8

const (
	KindItem ItemKind = iota
	KindBody
	KindGroundPropulsion
	KindSensorMast
	KindCamera
	KindCameraLens
	KindBattery
	KindManometer
)

var itemKindKeys = []string{
	"item", "body", "ground_propulsion", "sensor_mast",
	"camera", "camera_lens", "battery", "manometer",
}

var itemKindDisplay = []string{
	"Item", "Body", "Ground Propulsion", "Sensor Mast",
	"Camera", "Camera Lens", "Battery", "Manometer",
}

func (k ItemKind) String() string { return enumKey(itemKindDisplay, k) }

// Key returns the YAML key of the kind.
func (k ItemKind) Key() string { return enumKey(itemKindKeys, k) }

func (k ItemKind) MarshalYAML() (any, error) { return k.Key(), nil }

func (k *ItemKind) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum[ItemKind](itemKindKeys, n.Value, "item kind")
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// LensKind distinguishes fixed and zooming lenses.
type LensKind uint8

const (
	LensWide LensKind = iota
	LensTelephoto
)

var lensKindKeys = []string{"wide", "telephoto"}

func (k LensKind) String() string { return enumKey(lensKindKeys, k) }

func (k LensKind) MarshalYAML() (any, error) { return k.String(), nil }

func (k *LensKind) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum[LensKind](lensKindKeys, n.Value, "lens kind")
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// CameraSpec holds the optics of a camera item.
type CameraSpec struct {
	FOV       float32    `yaml:"fov"`        // sensor width in pixels
	ZoomRange [2]float32 `yaml:"zoom_range"` // min/max sensor reach in pixels
	ZoomSpeed float32    `yaml:"zoom_speed"` // reach change per zoom command
	Zoom      float32    `yaml:"zoom"`       // initial reach
}

// LensSpec holds the optics of a lens item.
type LensSpec struct {
	Kind         LensKind   `yaml:"kind"`
	FocalLength  float32    `yaml:"focal_length"`  // wide lenses
	FocalLengths [2]float32 `yaml:"focal_lengths"` // telephoto travel range
	FocusSpeed   float32    `yaml:"focus_speed"`
}

// BatterySpec holds the initial state of a battery item.
type BatterySpec struct {
	Capacity    float32 `yaml:"capacity"`
	Charge      float32 `yaml:"charge"`
	ChargeSpeed float32 `yaml:"charge_speed"` // charge per second
}

// GaugeSpec holds the initial state of an inspectable gauge.
type GaugeSpec struct {
	Progress int `yaml:"progress"`
}

// ItemType is a tagged item type: a kind plus an optional kind-specific payload.
type ItemType struct {
	Kind    ItemKind     `yaml:"kind"`
	Camera  *CameraSpec  `yaml:"camera,omitempty"`
	Lens    *LensSpec    `yaml:"lens,omitempty"`
	Battery *BatterySpec `yaml:"battery,omitempty"`
	Gauge   *GaugeSpec   `yaml:"gauge,omitempty"`
}

func (t ItemType) String() string { return t.Kind.String() }

// SameType reports whether two types share a display identity.
func (t ItemType) SameType(other ItemType) bool { return t.Kind == other.Kind }

// JointType selects the physics joint created when an item is attached.
type JointType uint8

const (
	JointFixed JointType = iota
	JointBall
	JointPrismatic
	JointRevolute
)

var jointTypeKeys = []string{"fixed", "ball", "prismatic", "revolute"}

func (j JointType) String() string { return enumKey(jointTypeKeys, j) }

func (j JointType) MarshalYAML() (any, error) { return j.String(), nil }

func (j *JointType) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum[JointType](jointTypeKeys, n.Value, "joint type")
	if err != nil {
		return err
	}
	*j = v
	return nil
}
