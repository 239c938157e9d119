package builder

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/catalog"
	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/physics"
)

// GrantMaps holds the component maps grants write to. It is built once per
// spawner.
type GrantMaps struct {
	Motors  *ecs.Map[components.Motors]
	Image   *ecs.Map[components.ImageQuality]
	Zoom    *ecs.Map[components.CameraZoom]
	Lens    *ecs.Map[components.CameraLensState]
	Battery *ecs.Map[components.Battery]
	Gauge   *ecs.Map[components.Gauge]
}

// NewGrantMaps creates the grant maps for a world.
func NewGrantMaps(w *ecs.World) *GrantMaps {
	return &GrantMaps{
		Motors:  ecs.NewMap[components.Motors](w),
		Image:   ecs.NewMap[components.ImageQuality](w),
		Zoom:    ecs.NewMap[components.CameraZoom](w),
		Lens:    ecs.NewMap[components.CameraLensState](w),
		Battery: ecs.NewMap[components.Battery](w),
		Gauge:   ecs.NewMap[components.Gauge](w),
	}
}

// GrantContext is what a grant sees of a freshly spawned item.
type GrantContext struct {
	Maps   *GrantMaps
	Phys   *physics.World
	Cfg    *config.Config
	Entity ecs.Entity
	Body   physics.BodyHandle
	Item   *catalog.Item
}

// px converts pixels to physics units.
func (c GrantContext) px(v float32) float32 {
	return v * c.Cfg.Derived.InvScale32
}

// GrantFunc adds kind-specific components to an item.
type GrantFunc func(ctx GrantContext)

// GrantRegistry maps item kinds to the grants applied when such an item spawns.
type GrantRegistry map[components.ItemKind][]GrantFunc

// Register appends a grant for kind.
func (r GrantRegistry) Register(kind components.ItemKind, fn GrantFunc) {
	r[kind] = append(r[kind], fn)
}

// Apply runs every grant registered for the item's kind.
func (r GrantRegistry) Apply(ctx GrantContext) {
	for _, fn := range r[ctx.Item.Type.Kind] {
		fn(ctx)
	}
}

// DefaultGrants returns the grants for the built-in item kinds.
func DefaultGrants() GrantRegistry {
	r := GrantRegistry{}
	r.Register(components.KindGroundPropulsion, GrantMotors)
	r.Register(components.KindCamera, GrantCamera)
	r.Register(components.KindCameraLens, GrantLens)
	r.Register(components.KindBattery, GrantBattery)
	r.Register(components.KindManometer, GrantGauge)
	return r
}

// GrantMotors makes the item a drive unit.
func GrantMotors(ctx GrantContext) {
	m := ctx.Cfg.Motors
	ctx.Maps.Motors.Add(ctx.Entity, &components.Motors{
		LinearSpeed:    float32(m.LinearSpeed),
		AngularSpeed:   float32(m.AngularSpeed),
		LinearDamping:  float32(m.LinearDamping),
		AngularDamping: float32(m.AngularDamping),
	})
}

// GrantCamera adds image quality, zoom state and the field-of-view sensor.
func GrantCamera(ctx GrantContext) {
	spec := ctx.Item.Type.Camera
	if spec == nil {
		spec = &components.CameraSpec{}
	}
	zoom := components.CameraZoom{
		Min:   ctx.px(spec.ZoomRange[0]),
		Max:   ctx.px(spec.ZoomRange[1]),
		Speed: ctx.px(spec.ZoomSpeed),
		FOV:   ctx.px(spec.FOV),
	}
	zoom.Zoom = zoom.Min
	zoom.Adjust(ctx.px(spec.Zoom) - zoom.Min)
	zoom.Sensor = ctx.Phys.AddCollider(ctx.Body, physics.ColliderDesc{
		Entity:      ctx.Entity,
		Offset:      mgl32.Vec2{0, zoom.Middle()},
		HalfExtents: mgl32.Vec2{zoom.FOV / 2, zoom.Middle()},
		Sensor:      true,
	})

	ctx.Maps.Image.Add(ctx.Entity, &components.ImageQuality{Sharpness: 1, Exposure: 1})
	ctx.Maps.Zoom.Add(ctx.Entity, &zoom)
}

// GrantLens adds the focal travel of a lens. Wide lenses have none.
func GrantLens(ctx GrantContext) {
	spec := ctx.Item.Type.Lens
	if spec == nil {
		spec = &components.LensSpec{}
	}
	lens := components.CameraLensState{Kind: spec.Kind, FocusSpeed: ctx.px(spec.FocusSpeed)}
	switch spec.Kind {
	case components.LensTelephoto:
		lens.Min, lens.Max = ctx.px(spec.FocalLengths[0]), ctx.px(spec.FocalLengths[1])
		if lens.Min > lens.Max {
			lens.Min, lens.Max = lens.Max, lens.Min
		}
	default:
		lens.Min = ctx.px(spec.FocalLength)
		lens.Max = lens.Min
	}
	ctx.Maps.Lens.Add(ctx.Entity, &lens)
}

// GrantBattery adds a charged battery.
func GrantBattery(ctx GrantContext) {
	spec := ctx.Item.Type.Battery
	if spec == nil {
		spec = &components.BatterySpec{}
	}
	b := components.Battery{Capacity: spec.Capacity, Charge: spec.Charge, ChargeSpeed: spec.ChargeSpeed}
	if b.Charge > b.Capacity {
		b.Charge = b.Capacity
	}
	ctx.Maps.Battery.Add(ctx.Entity, &b)
}

// GrantGauge makes the item inspectable.
func GrantGauge(ctx GrantContext) {
	g := components.Gauge{Goal: ctx.Cfg.Inspection.Goal}
	if spec := ctx.Item.Type.Gauge; spec != nil {
		g.Progress = spec.Progress
	}
	ctx.Maps.Gauge.Add(ctx.Entity, &g)
}
