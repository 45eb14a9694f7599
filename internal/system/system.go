// Package system holds the per-turn simulation passes and the runner that
// executes them in a fixed order.
package system

import (
	"math/rand"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamelog"
	"dungeoncrawl/internal/gamemap"

	"go.uber.org/zap"
)

// Phase defines execution ordering within a single turn. The order is part
// of the simulation's correctness: damage must land before the dead sweep,
// and the sweep before maintenance.
type Phase int

const (
	PhaseVisibility Phase = iota // 0: recompute dirty viewsheds
	PhaseAI                      // 1: monsters move or declare melee
	PhaseIndex                   // 2: rebuild blocked bitmap and occupant lists
	PhaseMelee                   // 3: WantsToMelee -> SufferDamage
	PhaseDamage                  // 4: SufferDamage -> hp
	PhaseDeath                   // 5: sweep hp<1
	PhaseCollect                 // 6: WantsToPickupItem
	PhaseUse                     // 7: WantsToUseItem
	PhaseDrop                    // 8: WantsToDropItem
	PhaseCleanup                 // 9: apply deferred mutations and destroys
)

func (p Phase) String() string {
	switch p {
	case PhaseVisibility:
		return "visibility"
	case PhaseAI:
		return "ai"
	case PhaseIndex:
		return "index"
	case PhaseMelee:
		return "melee"
	case PhaseDamage:
		return "damage"
	case PhaseDeath:
		return "death"
	case PhaseCollect:
		return "collect"
	case PhaseUse:
		return "use"
	case PhaseDrop:
		return "drop"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// Context carries the resources every system borrows for one pass. Passes
// never overlap, so each has exclusive use of the world and map while it runs.
type Context struct {
	World  *ecs.World
	Map    *gamemap.Map
	Log    *gamelog.Log
	Player ecs.Entity
	RNG    *rand.Rand
	Turn   uint64
	Logger *zap.Logger
}

// System is the interface every per-turn pass implements.
type System interface {
	Phase() Phase
	Run(ctx *Context)
}

// nameOf returns the entity's display name.
func nameOf(w *ecs.World, id ecs.Entity) string {
	if n, ok := ecs.Fetch[component.Name](w, id); ok {
		return n.Name
	}
	return "Something"
}

func (ctx *Context) isPlayer(id ecs.Entity) bool {
	return id == ctx.Player
}
