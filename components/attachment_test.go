package components

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"gopkg.in/yaml.v3"
)

func TestIsCompatible(t *testing.T) {
	point := &Attachment{
		ID:       MainCamera,
		MaxSize:  2,
		Accepted: []ItemKind{KindCamera, KindSensorMast},
	}

	tests := []struct {
		name string
		size ItemSize
		typ  ItemType
		want bool
	}{
		{"smaller camera", 1, ItemType{Kind: KindCamera}, true},
		{"equal size mast", 2, ItemType{Kind: KindSensorMast}, true},
		{"too large", 3, ItemType{Kind: KindCamera}, false},
		{"wrong kind", 1, ItemType{Kind: KindBattery}, false},
		{"wrong kind and too large", 3, ItemType{Kind: KindBody}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := point.IsCompatible(tc.size, tc.typ); got != tc.want {
				t.Errorf("IsCompatible(%d, %s) = %v, want %v", tc.size, tc.typ, got, tc.want)
			}
		})
	}
}

// Shrinking an item never turns a compatible placement incompatible.
func TestIsCompatibleMonotoneInSize(t *testing.T) {
	point := &Attachment{MaxSize: 3, Accepted: []ItemKind{KindGroundPropulsion}}
	typ := ItemType{Kind: KindGroundPropulsion}

	for s := ItemSize(0); s <= 5; s++ {
		if !point.IsCompatible(s, typ) {
			continue
		}
		for smaller := ItemSize(0); smaller < s; smaller++ {
			if !point.IsCompatible(smaller, typ) {
				t.Errorf("size %d compatible but %d is not", s, smaller)
			}
		}
	}
}

// Payloads are ignored: only the kind identity is compared.
func TestIsCompatibleIgnoresPayload(t *testing.T) {
	point := &Attachment{MaxSize: 1, Accepted: []ItemKind{KindCameraLens}}

	wide := ItemType{Kind: KindCameraLens, Lens: &LensSpec{Kind: LensWide, FocalLength: 8}}
	tele := ItemType{Kind: KindCameraLens, Lens: &LensSpec{Kind: LensTelephoto, FocalLengths: [2]float32{4, 12}}}
	bare := ItemType{Kind: KindCameraLens}

	for _, typ := range []ItemType{wide, tele, bare} {
		if !point.IsCompatible(1, typ) {
			t.Errorf("lens %+v rejected", typ.Lens)
		}
	}
	if !wide.SameType(tele) {
		t.Error("wide and telephoto lenses should share a type identity")
	}
	if wide.String() != "Camera Lens" {
		t.Errorf("String() = %q, want %q", wide.String(), "Camera Lens")
	}
}

func TestAttachDetach(t *testing.T) {
	w := ecs.NewWorld()
	m := ecs.NewMap[Visible](w)
	child := m.NewEntity(&Visible{})
	joint := m.NewEntity(&Visible{})

	point := &Attachment{ID: MainBattery, MaxSize: 1, Accepted: []ItemKind{KindBattery}}
	if point.IsAttached() {
		t.Fatal("new point should be empty")
	}
	if _, ok := point.Detach(); ok {
		t.Error("Detach on empty point reported a pair")
	}

	point.Attach(child, joint)
	if !point.IsAttached() {
		t.Fatal("point should be attached")
	}

	prev, ok := point.Detach()
	if !ok || prev.Child != child || prev.Joint != joint {
		t.Errorf("Detach = %+v, %v; want child/joint pair", prev, ok)
	}
	if point.IsAttached() {
		t.Error("point still attached after Detach")
	}
}

func TestAttachmentsFindChild(t *testing.T) {
	w := ecs.NewWorld()
	m := ecs.NewMap[Visible](w)
	left := m.NewEntity(&Visible{})
	right := m.NewEntity(&Visible{})
	joint := m.NewEntity(&Visible{})

	att := NewAttachments()
	att.Points[GroundPropulsionLeft] = &Attachment{ID: GroundPropulsionLeft}
	att.Points[GroundPropulsionRight] = &Attachment{ID: GroundPropulsionRight}
	att.Points[MainBattery] = &Attachment{ID: MainBattery}
	att.Points[GroundPropulsionLeft].Attach(left, joint)
	att.Points[GroundPropulsionRight].Attach(right, joint)

	if id, ok := att.FindChild(right); !ok || id != GroundPropulsionRight {
		t.Errorf("FindChild(right) = %v, %v", id, ok)
	}
	if got := len(att.Children()); got != 2 {
		t.Errorf("Children() = %d pairs, want 2", got)
	}
	ids := att.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("IDs not sorted: %v", ids)
		}
	}
}

func TestTransformCompose(t *testing.T) {
	parent := Transform{Position: mgl32.Vec2{10, 0}, Rotation: math.Pi / 2}
	local := Transform{Position: mgl32.Vec2{2, 0}, Rotation: 0.25, Z: 1}

	got := parent.Compose(local)
	// A quarter turn maps local +x onto parent +y.
	if math.Abs(float64(got.Position.X()-10)) > 1e-4 || math.Abs(float64(got.Position.Y()-2)) > 1e-4 {
		t.Errorf("position = %v, want (10, 2)", got.Position)
	}
	if math.Abs(float64(got.Rotation-(math.Pi/2+0.25))) > 1e-5 {
		t.Errorf("rotation = %v", got.Rotation)
	}
	if got.Z != 1 {
		t.Errorf("z = %v, want 1", got.Z)
	}

	p := parent.Apply(mgl32.Vec2{0, 1})
	if math.Abs(float64(p.X()-9)) > 1e-4 || math.Abs(float64(p.Y())) > 1e-4 {
		t.Errorf("Apply = %v, want (9, 0)", p)
	}
}

func TestEnumYAML(t *testing.T) {
	var doc struct {
		Kind   ItemKind          `yaml:"kind"`
		Point  AttachmentPointId `yaml:"point"`
		Joint  JointType         `yaml:"joint"`
		Lens   LensKind          `yaml:"lens"`
		Accept []ItemKind        `yaml:"accept"`
	}
	src := "kind: ground_propulsion\npoint: main_battery\njoint: prismatic\nlens: telephoto\naccept: [camera, sensor_mast]\n"
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Kind != KindGroundPropulsion || doc.Point != MainBattery || doc.Joint != JointPrismatic || doc.Lens != LensTelephoto {
		t.Errorf("decoded %+v", doc)
	}
	if len(doc.Accept) != 2 || doc.Accept[1] != KindSensorMast {
		t.Errorf("accept = %v", doc.Accept)
	}

	if err := yaml.Unmarshal([]byte("kind: hovercraft\n"), &doc); err == nil {
		t.Error("expected error for unknown kind")
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Errorf("re-decoding marshaled enums: %v", err)
	}
}

func TestRejectReasonPermanent(t *testing.T) {
	tests := []struct {
		reason RejectReason
		want   bool
	}{
		{ReasonParentNotReady, false},
		{ReasonPointOccupied, false},
		{ReasonIncompatible, true},
		{ReasonUnknownPoint, true},
		{ReasonParentMissing, true},
		{ReasonParentRejected, true},
	}
	for _, tc := range tests {
		if got := tc.reason.Permanent(); got != tc.want {
			t.Errorf("%s.Permanent() = %v, want %v", tc.reason, got, tc.want)
		}
	}
}
