package components

import "github.com/mlange-42/ark/ecs"

// FilterKind is the assembly state used to filter contact pairs.
type FilterKind uint8

const (
	FilterNone FilterKind = iota
	FilterWaitForAttach
	FilterRobot
)

// CollisionFilter tags an entity for the contact pair hook.
// Items waiting for attachment never collide; items of the same robot
// never collide with each other.
type CollisionFilter struct {
	Kind FilterKind
	Root ecs.Entity // set for FilterRobot
}

func WaitForAttach() CollisionFilter {
	return CollisionFilter{Kind: FilterWaitForAttach}
}

func NoFilter() CollisionFilter {
	return CollisionFilter{Kind: FilterNone}
}

// RobotOf tags an entity as part of the robot rooted at root.
func RobotOf(root ecs.Entity) CollisionFilter {
	return CollisionFilter{Kind: FilterRobot, Root: root}
}

// RobotRoot returns the robot root, if the entity belongs to one.
func (f CollisionFilter) RobotRoot() (ecs.Entity, bool) {
	if f.Kind != FilterRobot {
		return ecs.Entity{}, false
	}
	return f.Root, true
}
