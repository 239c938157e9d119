package components

import "github.com/mlange-42/ark/ecs"

// WantToAttach marks an entity awaiting placement in a robot tree.
// Root requests commit unconditionally; the others target a parent point.
type WantToAttach struct {
	Root   bool
	Parent ecs.Entity
	Point  AttachmentPointId
}

// AttachMe requests that the entity become the root of its own robot.
func AttachMe() WantToAttach {
	return WantToAttach{Root: true}
}

// AttachTo requests attachment to the given point of parent.
func AttachTo(parent ecs.Entity, point AttachmentPointId) WantToAttach {
	return WantToAttach{Parent: parent, Point: point}
}

// AttachState is the outcome of the latest evaluation of a request.
type AttachState uint8

const (
	AttachPending AttachState = iota
	AttachCommitted
	AttachRejected
)

var attachStateNames = []string{"pending", "committed", "rejected"}

func (s AttachState) String() string { return enumKey(attachStateNames, s) }

// RejectReason says why a request has not committed.
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonParentNotReady
	ReasonPointOccupied
	ReasonParentMissing
	ReasonParentRejected
	ReasonUnknownPoint
	ReasonIncompatible
	ReasonCatalogMiss
)

var rejectReasonNames = []string{
	"none", "parent_not_ready", "point_occupied", "parent_missing",
	"parent_rejected", "unknown_point", "incompatible", "catalog_miss",
}

func (r RejectReason) String() string { return enumKey(rejectReasonNames, r) }

// Permanent reports whether the reason can never resolve on its own.
func (r RejectReason) Permanent() bool {
	switch r {
	case ReasonParentMissing, ReasonParentRejected, ReasonUnknownPoint, ReasonIncompatible, ReasonCatalogMiss:
		return true
	}
	return false
}

// AttachResult is the tri-state result of an assembly request.
// Pending requests are retried every tick; rejected ones are skipped until
// the caller clears them.
type AttachResult struct {
	State  AttachState
	Reason RejectReason
	Tick   int32 // tick of the last evaluation
}
