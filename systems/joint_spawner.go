package systems

import (
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/physics"
)

// SpawnReport counts request outcomes for one spawner pass.
type SpawnReport struct {
	Committed int
	Rejected  int
	Pending   int
}

// CommitEvent describes an item that was just placed in a robot.
type CommitEvent struct {
	Entity ecs.Entity
	Parent ecs.Entity // zero for roots
	Joint  ecs.Entity // zero for roots
	Root   ecs.Entity
	Info   components.ItemInfo
	Tick   int32
}

// CommitHook runs after the spawner has committed an item of a registered kind.
type CommitHook func(ev CommitEvent)

// RejectedRequest is a request the spawner gave up on.
type RejectedRequest struct {
	Entity ecs.Entity
	Reason components.RejectReason
}

type stagedTag struct {
	entity ecs.Entity
	tag    components.CollisionFilter
}

// JointSpawner resolves WantToAttach requests into joints.
//
// Requests are evaluated against the collision tags as they were at the start
// of the pass. Tags of newly committed items are staged and applied after the
// pass, so a child whose parent commits this tick waits for the next one.
type JointSpawner struct {
	world *ecs.World
	phys  *physics.World

	filter *ecs.Filter2[components.WantToAttach, components.ItemInfo]

	requestMap    *ecs.Map[components.WantToAttach]
	resultMap     *ecs.Map[components.AttachResult]
	tagMap        *ecs.Map[components.CollisionFilter]
	attachMap     *ecs.Map[components.Attachments]
	bodyMap       *ecs.Map[components.RigidBody]
	infoMap       *ecs.Map[components.ItemInfo]
	transformMap  *ecs.Map[components.Transform]
	visibleMap    *ecs.Map[components.Visible]
	jointLinkMap  *ecs.Map[components.JointLink]
	ballDamping   float32
	hooks         map[components.ItemKind][]CommitHook
	rejected      []RejectedRequest
	pendingBuffer []ecs.Entity
}

// NewJointSpawner creates the spawner. ballDamping is the damping of the
// zero-velocity motor every ball joint starts with.
func NewJointSpawner(w *ecs.World, phys *physics.World, ballDamping float32) *JointSpawner {
	return &JointSpawner{
		world:        w,
		phys:         phys,
		filter:       ecs.NewFilter2[components.WantToAttach, components.ItemInfo](w),
		requestMap:   ecs.NewMap[components.WantToAttach](w),
		resultMap:    ecs.NewMap[components.AttachResult](w),
		tagMap:       ecs.NewMap[components.CollisionFilter](w),
		attachMap:    ecs.NewMap[components.Attachments](w),
		bodyMap:      ecs.NewMap[components.RigidBody](w),
		infoMap:      ecs.NewMap[components.ItemInfo](w),
		transformMap: ecs.NewMap[components.Transform](w),
		visibleMap:   ecs.NewMap[components.Visible](w),
		jointLinkMap: ecs.NewMap[components.JointLink](w),
		ballDamping:  ballDamping,
		hooks:        make(map[components.ItemKind][]CommitHook),
	}
}

// OnCommit registers a hook for items of the given kind.
func (s *JointSpawner) OnCommit(kind components.ItemKind, hook CommitHook) {
	s.hooks[kind] = append(s.hooks[kind], hook)
}

// TakeRejected returns the requests rejected since the last call.
func (s *JointSpawner) TakeRejected() []RejectedRequest {
	out := s.rejected
	s.rejected = nil
	return out
}

// Update runs one spawner pass.
func (s *JointSpawner) Update(tick int32) SpawnReport {
	var report SpawnReport

	// Collect first; the pass makes structural changes.
	requests := s.pendingBuffer[:0]
	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		if s.resultMap.Has(e) && s.resultMap.Get(e).State == components.AttachRejected {
			continue
		}
		requests = append(requests, e)
	}
	s.pendingBuffer = requests
	if len(requests) == 0 {
		return report
	}
	slices.SortFunc(requests, func(a, b ecs.Entity) int { return int(a.ID()) - int(b.ID()) })

	var staged []stagedTag
	var committed []CommitEvent
	var done []ecs.Entity

	for _, e := range requests {
		req := *s.requestMap.Get(e)
		info := *s.infoMap.Get(e)

		if req.Root {
			tag := components.RobotOf(e)
			s.enable(e)
			staged = append(staged, stagedTag{e, tag})
			done = append(done, e)
			s.setResult(e, components.AttachCommitted, components.ReasonNone, tick)
			committed = append(committed, CommitEvent{Entity: e, Root: e, Info: info, Tick: tick})
			report.Committed++
			continue
		}

		state, reason, point := s.evaluate(req, info)
		switch state {
		case components.AttachPending:
			s.setResult(e, state, reason, tick)
			report.Pending++
			continue
		case components.AttachRejected:
			s.setResult(e, state, reason, tick)
			s.rejected = append(s.rejected, RejectedRequest{Entity: e, Reason: reason})
			report.Rejected++
			slog.Warn("attach rejected",
				"item", info.Handle,
				"point", req.Point.Key(),
				"reason", reason.String(),
			)
			continue
		}

		joint := s.commit(e, req, info, point)
		parentTag := *s.tagMap.Get(req.Parent)
		staged = append(staged, stagedTag{e, parentTag})
		done = append(done, e)
		s.setResult(e, components.AttachCommitted, components.ReasonNone, tick)

		root, _ := parentTag.RobotRoot()
		committed = append(committed, CommitEvent{
			Entity: e, Parent: req.Parent, Joint: joint, Root: root, Info: info, Tick: tick,
		})
		report.Committed++
	}

	for _, st := range staged {
		if s.tagMap.Has(st.entity) {
			*s.tagMap.Get(st.entity) = st.tag
		} else {
			s.tagMap.Add(st.entity, &st.tag)
		}
	}
	for _, e := range done {
		s.requestMap.Remove(e)
	}

	for _, ev := range committed {
		for _, hook := range s.hooks[ev.Info.Type.Kind] {
			hook(ev)
		}
	}
	return report
}

// evaluate decides whether a non-root request can commit now.
func (s *JointSpawner) evaluate(req components.WantToAttach, info components.ItemInfo) (components.AttachState, components.RejectReason, *components.Attachment) {
	parent := req.Parent
	if parent.IsZero() || !s.world.Alive(parent) || !s.attachMap.Has(parent) || !s.tagMap.Has(parent) {
		return components.AttachRejected, components.ReasonParentMissing, nil
	}
	if s.resultMap.Has(parent) && s.resultMap.Get(parent).State == components.AttachRejected {
		return components.AttachRejected, components.ReasonParentRejected, nil
	}
	if s.tagMap.Get(parent).Kind == components.FilterWaitForAttach {
		return components.AttachPending, components.ReasonParentNotReady, nil
	}

	point, ok := s.attachMap.Get(parent).Get(req.Point)
	if !ok {
		return components.AttachRejected, components.ReasonUnknownPoint, nil
	}
	if !point.IsCompatible(info.Size, info.Type) {
		return components.AttachRejected, components.ReasonIncompatible, nil
	}
	if point.IsAttached() {
		return components.AttachPending, components.ReasonPointOccupied, nil
	}
	return components.AttachCommitted, components.ReasonNone, point
}

// commit creates the joint, occupies the point and moves the child into place.
func (s *JointSpawner) commit(e ecs.Entity, req components.WantToAttach, info components.ItemInfo, point *components.Attachment) ecs.Entity {
	parentBody := s.bodyMap.Get(req.Parent).Handle
	childBody := s.bodyMap.Get(e).Handle

	link := components.JointLink{Parent: req.Parent, Child: e, Point: req.Point, Type: info.JointType}
	jointEntity := s.jointLinkMap.NewEntity(&link)

	rot := point.Transform.Rotation
	jh := s.phys.CreateJoint(physics.JointDesc{
		Kind:     physics.JointKind(info.JointType),
		Entity:   jointEntity,
		BodyA:    parentBody,
		BodyB:    childBody,
		AnchorA:  point.Transform.Position,
		Axis:     mgl32.Rotate2D(rot).Mul2x1(mgl32.Vec2{0, 1}),
		RefAngle: rot,
	})
	s.jointLinkMap.Get(jointEntity).Handle = jh
	if info.JointType == components.JointBall {
		if j, ok := s.phys.Joint(jh); ok {
			j.SetMotorVelocity(0, s.ballDamping)
		}
	}

	point.Attach(e, jointEntity)

	place := s.parentTransform(req.Parent).Compose(point.Transform)
	if s.transformMap.Has(e) {
		*s.transformMap.Get(e) = place
	}
	s.phys.Teleport(childBody, place.Position, place.Rotation)
	s.enable(e)
	return jointEntity
}

// parentTransform returns the parent's placement from its body.
func (s *JointSpawner) parentTransform(parent ecs.Entity) components.Transform {
	if b, ok := s.phys.Body(s.bodyMap.Get(parent).Handle); ok {
		return components.Transform{Position: b.Position, Rotation: b.Angle}
	}
	if s.transformMap.Has(parent) {
		return *s.transformMap.Get(parent)
	}
	return components.Transform{}
}

func (s *JointSpawner) enable(e ecs.Entity) {
	if s.bodyMap.Has(e) {
		s.phys.SetBodyEnabled(s.bodyMap.Get(e).Handle, true)
	}
	if s.visibleMap.Has(e) {
		s.visibleMap.Get(e).Visible = true
	}
}

func (s *JointSpawner) setResult(e ecs.Entity, state components.AttachState, reason components.RejectReason, tick int32) {
	res := components.AttachResult{State: state, Reason: reason, Tick: tick}
	if s.resultMap.Has(e) {
		*s.resultMap.Get(e) = res
		return
	}
	s.resultMap.Add(e, &res)
}

// LensCommitHook bounds the focal travel of a freshly attached lens and moves
// it to its rest position. The commands are free.
func LensCommitHook(w *ecs.World, bus *RobotCommands) CommitHook {
	lenses := ecs.NewMap[components.CameraLensState](w)
	return func(ev CommitEvent) {
		if ev.Joint.IsZero() || !lenses.Has(ev.Entity) {
			return
		}
		lens := lenses.Get(ev.Entity)
		bus.Send(RobotCommand{Root: ev.Root, Payload: SetJointLimits{Joint: ev.Joint, Min: lens.Min, Max: lens.Max}})
		bus.Send(RobotCommand{Root: ev.Root, Payload: SetJoint{Joint: ev.Joint, Position: lens.Rest()}})
	}
}
