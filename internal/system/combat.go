package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"

	"go.uber.org/zap"
)

// MeleeCombat turns every WantsToMelee into pending damage on its target.
// Dead attackers do not act. All melee intents are cleared afterwards.
type MeleeCombat struct{}

func (MeleeCombat) Phase() Phase { return PhaseMelee }

func (MeleeCombat) Run(ctx *Context) {
	w := ctx.World
	for _, id := range w.Query(component.CWantsToMelee, component.CCombatStats) {
		wants := w.Get(id, component.CWantsToMelee).(component.WantsToMelee)
		stats := w.Get(id, component.CCombatStats).(component.CombatStats)
		if stats.HP <= 0 {
			continue
		}
		if !w.Alive(wants.Target) {
			continue
		}
		tc := w.Get(wants.Target, component.CCombatStats)
		if tc == nil {
			continue
		}
		target := tc.(component.CombatStats)
		if target.HP <= 0 {
			continue
		}

		damage := max(0, stats.Power-target.Defense)
		if damage == 0 {
			ctx.Log.Addf("%s is unable to hurt %s.", nameOf(w, id), nameOf(w, wants.Target))
			continue
		}
		ctx.Log.Addf("%s hits %s, for %d hp.", nameOf(w, id), nameOf(w, wants.Target), damage)
		AppendDamage(w, wants.Target, damage)
	}
	w.RemoveAll(component.CWantsToMelee)
}

// AppendDamage queues amount against victim for the damage pass. Multiple
// hits in one turn accumulate.
func AppendDamage(w *ecs.World, victim ecs.Entity, amount int) {
	sd, _ := ecs.Fetch[component.SufferDamage](w, victim)
	sd.Amount = append(sd.Amount, amount)
	w.Add(victim, sd)
}

// Damage applies each entity's accumulated hits to its hp in one mutation,
// then clears every accumulator.
type Damage struct{}

func (Damage) Phase() Phase { return PhaseDamage }

func (Damage) Run(ctx *Context) {
	w := ctx.World
	for _, id := range w.Query(component.CSufferDamage, component.CCombatStats) {
		sd := w.Get(id, component.CSufferDamage).(component.SufferDamage)
		stats := w.Get(id, component.CCombatStats).(component.CombatStats)
		total := 0
		for _, amt := range sd.Amount {
			total += amt
		}
		stats.HP -= total
		w.Add(id, stats)
	}
	w.RemoveAll(component.CSufferDamage)
}

// DeathSweep queues every entity with hp below 1 for destruction. The player
// is never destroyed; its death is announced once until it recovers.
type DeathSweep struct {
	playerDown bool
}

func (*DeathSweep) Phase() Phase { return PhaseDeath }

// PlayerDown reports whether the player was at hp<1 on the last sweep.
func (d *DeathSweep) PlayerDown() bool { return d.playerDown }

// Reset forgets the player's death, for a new or loaded game.
func (d *DeathSweep) Reset() { d.playerDown = false }

func (d *DeathSweep) Run(ctx *Context) {
	w := ctx.World
	for _, id := range w.Query(component.CCombatStats) {
		stats := w.Get(id, component.CCombatStats).(component.CombatStats)
		if ctx.isPlayer(id) {
			if stats.HP < 1 {
				if !d.playerDown {
					ctx.Log.Add("You are dead!")
					ctx.Logger.Info("player died", zap.Uint64("turn", ctx.Turn))
				}
				d.playerDown = true
			} else {
				d.playerDown = false
			}
			continue
		}
		if stats.HP >= 1 || w.PendingDestroy(id) {
			continue
		}
		dropCarried(ctx, id)
		w.DestroyEntity(id)
		ctx.Logger.Debug("entity died",
			zap.Stringer("entity", id),
			zap.String("name", nameOf(w, id)),
		)
	}
}

// dropCarried schedules every item in owner's backpack to land on owner's
// last position once deferred mutations are applied.
func dropCarried(ctx *Context, owner ecs.Entity) {
	w := ctx.World
	pc := w.Get(owner, component.CPosition)
	if pc == nil {
		return
	}
	pos := pc.(component.Position)
	for _, item := range Backpack(w, owner) {
		w.Lazy(func(w *ecs.World) {
			if !w.Alive(item) {
				return
			}
			w.Remove(item, component.CInBackpack)
			w.Add(item, pos)
		})
	}
}
