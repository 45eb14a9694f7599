package component

import "dungeoncrawl/internal/ecs"

const (
	CCombatStats   ecs.ComponentType = 6
	CSufferDamage  ecs.ComponentType = 7
	CMovementSpeed ecs.ComponentType = 8
)

type CombatStats struct {
	MaxHP   int
	HP      int
	Defense int
	Power   int
}

func (CombatStats) Type() ecs.ComponentType { return CCombatStats }

// SufferDamage accumulates hits landed this turn. Only the damage pass reads
// it, and it is empty again once that pass has run.
type SufferDamage struct {
	Amount []int
}

func (SufferDamage) Type() ecs.ComponentType { return CSufferDamage }

// MovementSpeed limits how often an actor may act, counted in turns.
type MovementSpeed struct {
	MinDelay uint64
	LastMove uint64
}

func (MovementSpeed) Type() ecs.ComponentType { return CMovementSpeed }

// Ready reports whether the actor may act on turn.
func (m MovementSpeed) Ready(turn uint64) bool {
	return m.LastMove == 0 || turn >= m.LastMove+m.MinDelay
}
