package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/framefighter/inspection-idle/components"
	"github.com/framefighter/inspection-idle/config"
)

// Debit charges cost against batteries in order and reports whether the
// cost was fully covered, along with the charge actually removed.
//
// In atomic mode batteries are untouched unless their combined charge covers
// the cost. In drain mode every battery is drained in order until the cost is
// met, even when it is not, which rations power across starving commands.
func Debit(batteries []*components.Battery, cost float32, mode string) (paid bool, spent float32) {
	if cost <= 0 {
		return true, 0
	}

	atomic := mode == config.DebitAtomic
	if atomic {
		var total float32
		for _, b := range batteries {
			total += b.Charge
		}
		if total < cost {
			return false, 0
		}
	}

	remaining := cost
	for _, b := range batteries {
		if remaining <= 0 {
			break
		}
		if b.Charge >= remaining {
			b.Charge -= remaining
			remaining = 0
		} else {
			remaining -= b.Charge
			b.Charge = 0
		}
	}
	// The covered check sums in a different order than the deduction, so a
	// rounding residue may be left over. It is forgiven.
	if atomic {
		remaining = 0
	}
	return remaining <= 0, cost - remaining
}

// RobotCharge is the summed battery state of one robot.
type RobotCharge struct {
	Root     ecs.Entity
	Charge   float32
	Capacity float32
}

// EnergyLedger indexes batteries by robot and recharges them.
type EnergyLedger struct {
	filter     *ecs.Filter2[components.Battery, components.CollisionFilter]
	batteryMap *ecs.Map[components.Battery]
}

// NewEnergyLedger creates the ledger.
func NewEnergyLedger(w *ecs.World) *EnergyLedger {
	return &EnergyLedger{
		filter:     ecs.NewFilter2[components.Battery, components.CollisionFilter](w),
		batteryMap: ecs.NewMap[components.Battery](w),
	}
}

// Index groups battery entities by robot root, ordered by entity id.
// Batteries not yet attached to a robot are left out.
func (l *EnergyLedger) Index() map[ecs.Entity][]ecs.Entity {
	index := make(map[ecs.Entity][]ecs.Entity)
	query := l.filter.Query()
	for query.Next() {
		_, tag := query.Get()
		if root, ok := tag.RobotRoot(); ok {
			index[root] = append(index[root], query.Entity())
		}
	}
	for root, list := range index {
		slices.SortFunc(list, func(a, b ecs.Entity) int { return int(a.ID()) - int(b.ID()) })
		index[root] = list
	}
	return index
}

// Batteries resolves indexed battery entities to their components.
func (l *EnergyLedger) Batteries(entities []ecs.Entity) []*components.Battery {
	out := make([]*components.Battery, 0, len(entities))
	for _, e := range entities {
		out = append(out, l.batteryMap.Get(e))
	}
	return out
}

// Recharge adds ChargeSpeed*dt to every battery, clamped to capacity.
func (l *EnergyLedger) Recharge(dt float32) {
	query := l.filter.Query()
	for query.Next() {
		b, _ := query.Get()
		b.Charge += b.ChargeSpeed * dt
		if b.Charge > b.Capacity {
			b.Charge = b.Capacity
		}
		if b.Charge < 0 {
			b.Charge = 0
		}
	}
}

// Robots returns the summed charge of every robot with batteries, ordered by root id.
func (l *EnergyLedger) Robots() []RobotCharge {
	sums := make(map[ecs.Entity]*RobotCharge)
	var order []ecs.Entity
	query := l.filter.Query()
	for query.Next() {
		b, tag := query.Get()
		root, ok := tag.RobotRoot()
		if !ok {
			continue
		}
		rc, ok := sums[root]
		if !ok {
			rc = &RobotCharge{Root: root}
			sums[root] = rc
			order = append(order, root)
		}
		rc.Charge += b.Charge
		rc.Capacity += b.Capacity
	}
	slices.SortFunc(order, func(a, b ecs.Entity) int { return int(a.ID()) - int(b.ID()) })
	out := make([]RobotCharge, len(order))
	for i, root := range order {
		out[i] = *sums[root]
	}
	return out
}

// Totals returns the summed charge and capacity of one robot.
func (l *EnergyLedger) Totals(root ecs.Entity) (charge, capacity float32) {
	for _, rc := range l.Robots() {
		if rc.Root == root {
			return rc.Charge, rc.Capacity
		}
	}
	return 0, 0
}
