package component

import (
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
)

const (
	CWantsToMelee      ecs.ComponentType = 15
	CWantsToPickupItem ecs.ComponentType = 16
	CWantsToUseItem    ecs.ComponentType = 17
	CWantsToDropItem   ecs.ComponentType = 18
)

// Intent is the closed set of single-turn "wants to" components. Each kind
// is consumed and cleared by exactly one resolution pass.
type Intent interface {
	ecs.Component
	intent()
}

// IntentTypes lists every intent component type.
var IntentTypes = []ecs.ComponentType{
	CWantsToMelee,
	CWantsToPickupItem,
	CWantsToUseItem,
	CWantsToDropItem,
}

type WantsToMelee struct {
	Target ecs.Entity
}

func (WantsToMelee) Type() ecs.ComponentType { return CWantsToMelee }
func (WantsToMelee) intent()                 {}

type WantsToPickupItem struct {
	CollectedBy ecs.Entity
	Item        ecs.Entity
}

func (WantsToPickupItem) Type() ecs.ComponentType { return CWantsToPickupItem }
func (WantsToPickupItem) intent()                 {}

// WantsToUseItem optionally carries a target cell for ranged items.
type WantsToUseItem struct {
	Item   ecs.Entity
	Target *gamemap.Point
}

func (WantsToUseItem) Type() ecs.ComponentType { return CWantsToUseItem }
func (WantsToUseItem) intent()                 {}

type WantsToDropItem struct {
	Item ecs.Entity
}

func (WantsToDropItem) Type() ecs.ComponentType { return CWantsToDropItem }
func (WantsToDropItem) intent()                 {}
