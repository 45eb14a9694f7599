package component

import "dungeoncrawl/internal/ecs"

const (
	CProvidesHealing ecs.ComponentType = 11
	CInflictsDamage  ecs.ComponentType = 12
	CRanged          ecs.ComponentType = 13
	CInBackpack      ecs.ComponentType = 14
)

type ProvidesHealing struct {
	Amount int
}

func (ProvidesHealing) Type() ecs.ComponentType { return CProvidesHealing }

type InflictsDamage struct {
	Amount int
}

func (InflictsDamage) Type() ecs.ComponentType { return CInflictsDamage }

// Ranged items are used on a target cell no further than Range away.
type Ranged struct {
	Range int
}

func (Ranged) Type() ecs.ComponentType { return CRanged }

// InBackpack ties an item to its holder. An item has either a Position or
// an InBackpack, never both.
type InBackpack struct {
	Owner ecs.Entity
}

func (InBackpack) Type() ecs.ComponentType { return CInBackpack }
