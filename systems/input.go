package systems

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
	"github.com/framefighter/inspection-idle/physics"
)

// Action is a held control.
type Action uint16

const (
	ActionForward Action = 1 << iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionRotateLeft
	ActionRotateRight
	ActionZoomIn
	ActionZoomOut
	ActionMastLeft
	ActionMastRight
	ActionFocusIn
	ActionFocusOut
)

var actionNames = map[string]Action{
	"forward":      ActionForward,
	"backward":     ActionBackward,
	"left":         ActionLeft,
	"right":        ActionRight,
	"rotate_left":  ActionRotateLeft,
	"rotate_right": ActionRotateRight,
	"zoom_in":      ActionZoomIn,
	"zoom_out":     ActionZoomOut,
	"mast_left":    ActionMastLeft,
	"mast_right":   ActionMastRight,
	"focus_in":     ActionFocusIn,
	"focus_out":    ActionFocusOut,
}

// ParseAction resolves an action name as used by autopilot scripts.
func ParseAction(name string) (Action, error) {
	a, ok := actionNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

// InputState is the set of actions held this tick.
type InputState struct {
	held Action
	prev Action
}

// Set replaces the held actions. The previous set is kept for release detection.
func (s *InputState) Set(held Action) {
	s.prev = s.held
	s.held = held
}

// Held reports whether all of a are held.
func (s *InputState) Held(a Action) bool {
	return s.held&a == a
}

// Released reports whether any of a was held last tick and none is held now.
func (s *InputState) Released(a Action) bool {
	return s.prev&a != 0 && s.held&a == 0
}

// axis returns +1, -1 or 0 for a pair of opposing actions.
func (s *InputState) axis(pos, neg Action) float32 {
	var v float32
	if s.Held(pos) {
		v++
	}
	if s.Held(neg) {
		v--
	}
	return v
}

// InputProducers turns held actions into robot commands for the selected robot.
type InputProducers struct {
	world *ecs.World
	phys  *physics.World
	bus   *RobotCommands
	cfg   *config.Config

	selected *ecs.Filter1[components.Selected]
	motors   *ecs.Filter3[components.Motors, components.RigidBody, components.CollisionFilter]
	joints   *ecs.Filter1[components.JointLink]
	cameras  *ecs.Filter2[components.CameraZoom, components.CollisionFilter]
	tagMap   *ecs.Map[components.CollisionFilter]
	lensMap  *ecs.Map[components.CameraLensState]
	linkMap  *ecs.Map[components.JointLink]

	focus map[ecs.Entity]float32 // lens joint -> commanded position
}

// NewInputProducers creates the producers.
func NewInputProducers(w *ecs.World, phys *physics.World, bus *RobotCommands, cfg *config.Config) *InputProducers {
	return &InputProducers{
		world:    w,
		phys:     phys,
		bus:      bus,
		cfg:      cfg,
		selected: ecs.NewFilter1[components.Selected](w),
		motors:   ecs.NewFilter3[components.Motors, components.RigidBody, components.CollisionFilter](w),
		joints:   ecs.NewFilter1[components.JointLink](w),
		cameras:  ecs.NewFilter2[components.CameraZoom, components.CollisionFilter](w),
		tagMap:   ecs.NewMap[components.CollisionFilter](w),
		lensMap:  ecs.NewMap[components.CameraLensState](w),
		linkMap:  ecs.NewMap[components.JointLink](w),
		focus:    make(map[ecs.Entity]float32),
	}
}

// SelectedRoot returns the robot receiving input.
func (p *InputProducers) SelectedRoot() (ecs.Entity, bool) {
	query := p.selected.Query()
	for query.Next() {
		e := query.Entity()
		query.Close()
		return e, true
	}
	return ecs.Entity{}, false
}

// Update emits the commands for this tick.
func (p *InputProducers) Update(in *InputState) {
	root, ok := p.SelectedRoot()
	if !ok {
		return
	}
	p.drive(root, in)
	p.mast(root, in)
	p.lensFocus(root, in)
	p.zoom(root, in)
}

func (p *InputProducers) drive(root ecs.Entity, in *InputState) {
	x := in.axis(ActionRight, ActionLeft)
	y := in.axis(ActionForward, ActionBackward)
	turn := in.axis(ActionRotateLeft, ActionRotateRight)
	if x == 0 && y == 0 && turn == 0 {
		return
	}

	inv := p.cfg.Derived.InvScale32
	driveCost := float32(p.cfg.Commands.DriveCost)
	turnCost := float32(p.cfg.Commands.TurnCost)

	var cmds []RobotCommand
	query := p.motors.Query()
	for query.Next() {
		m, rb, tag := query.Get()
		if r, ok := tag.RobotRoot(); !ok || r != root {
			continue
		}
		body, ok := p.phys.Body(rb.Handle)
		if !ok {
			continue
		}
		fwd := body.Forward()
		right := mgl32.Vec2{fwd.Y(), -fwd.X()}
		dir := right.Mul(x).Add(fwd.Mul(y))
		var force mgl32.Vec2
		if dir.Len() > 0 {
			force = dir.Normalize().Mul(m.LinearSpeed * inv)
		}
		torque := turn * m.AngularSpeed * inv
		cmds = append(cmds, RobotCommand{
			Root:      root,
			Payload:   MoveMotors{Body: query.Entity(), Force: force, Torque: torque},
			PowerCost: force.Len()*driveCost + abs32(torque)*turnCost,
		})
	}
	for _, c := range cmds {
		p.bus.Send(c)
	}
}

func (p *InputProducers) mast(root ecs.Entity, in *InputState) {
	dir := in.axis(ActionMastLeft, ActionMastRight)
	released := in.Released(ActionMastLeft | ActionMastRight)
	if dir == 0 && !released {
		return
	}
	speed := float32(p.cfg.Joints.JointSpeed)
	damping := float32(p.cfg.Joints.JointDamping)
	cost := float32(p.cfg.Commands.JointCost)

	for _, j := range p.robotJoints(root, components.JointBall) {
		if dir == 0 {
			// Releasing the keys stops the joint at no cost.
			p.bus.Send(RobotCommand{Root: root, Payload: MoveJoint{Joint: j, Velocity: 0, Damping: damping}})
			continue
		}
		v := dir * speed
		p.bus.Send(RobotCommand{Root: root, Payload: MoveJoint{Joint: j, Velocity: v, Damping: damping}, PowerCost: abs32(v) * cost})
	}
}

func (p *InputProducers) lensFocus(root ecs.Entity, in *InputState) {
	dir := in.axis(ActionFocusOut, ActionFocusIn)
	if dir == 0 {
		return
	}
	cost := float32(p.cfg.Commands.JointCost)
	for _, j := range p.robotJoints(root, components.JointPrismatic) {
		link := p.linkMap.Get(j)
		if !p.lensMap.Has(link.Child) {
			continue
		}
		lens := p.lensMap.Get(link.Child)
		if lens.Min == lens.Max {
			continue
		}
		pos, ok := p.focus[j]
		if !ok {
			pos = lens.Rest()
		}
		step := dir * lens.FocusSpeed
		pos = clamp32(pos+step, lens.Min, lens.Max)
		p.focus[j] = pos
		p.bus.Send(RobotCommand{Root: root, Payload: SetJoint{Joint: j, Position: pos}, PowerCost: abs32(step) * cost})
	}
}

func (p *InputProducers) zoom(root ecs.Entity, in *InputState) {
	dir := in.axis(ActionZoomIn, ActionZoomOut)
	if dir == 0 {
		return
	}
	cost := float32(p.cfg.Commands.ZoomCost)
	var cmds []RobotCommand
	query := p.cameras.Query()
	for query.Next() {
		z, tag := query.Get()
		if r, ok := tag.RobotRoot(); !ok || r != root {
			continue
		}
		delta := dir * z.Speed
		cmds = append(cmds, RobotCommand{
			Root:      root,
			Payload:   ZoomCamera{Camera: query.Entity(), Delta: delta},
			PowerCost: abs32(delta) * cost,
		})
	}
	for _, c := range cmds {
		p.bus.Send(c)
	}
}

// robotJoints returns the joint entities of the given type whose child belongs to root.
func (p *InputProducers) robotJoints(root ecs.Entity, kind components.JointType) []ecs.Entity {
	var out []ecs.Entity
	query := p.joints.Query()
	for query.Next() {
		link := query.Get()
		if link.Type != kind || !p.world.Alive(link.Child) || !p.tagMap.Has(link.Child) {
			continue
		}
		if r, ok := p.tagMap.Get(link.Child).RobotRoot(); ok && r == root {
			out = append(out, query.Entity())
		}
	}
	return out
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
