package system

import (
	"math"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"go.uber.org/zap"
)

// Backpack returns the items owned by owner, in stable order.
func Backpack(w *ecs.World, owner ecs.Entity) []ecs.Entity {
	var items []ecs.Entity
	for _, id := range w.Query(component.CInBackpack) {
		if w.Get(id, component.CInBackpack).(component.InBackpack).Owner == owner {
			items = append(items, id)
		}
	}
	return items
}

// ItemCollection moves items named by WantsToPickupItem from the map into
// the collector's backpack.
type ItemCollection struct{}

func (ItemCollection) Phase() Phase { return PhaseCollect }

func (ItemCollection) Run(ctx *Context) {
	w := ctx.World
	for _, id := range w.Query(component.CWantsToPickupItem) {
		p := w.Get(id, component.CWantsToPickupItem).(component.WantsToPickupItem)
		if !w.Alive(p.Item) || !w.Alive(p.CollectedBy) {
			continue
		}
		// Another collector may have taken it earlier in this pass.
		if !w.Has(p.Item, component.CItem) || !w.Has(p.Item, component.CPosition) {
			continue
		}
		w.Remove(p.Item, component.CPosition)
		w.Add(p.Item, component.InBackpack{Owner: p.CollectedBy})
		if ctx.isPlayer(p.CollectedBy) {
			ctx.Log.Addf("You pick up the %s.", nameOf(w, p.Item))
		}
	}
	w.RemoveAll(component.CWantsToPickupItem)
}

// ItemUse applies the effects of every WantsToUseItem. Consumables are
// destroyed once used, whether or not they did anything.
type ItemUse struct{}

func (ItemUse) Phase() Phase { return PhaseUse }

func (ItemUse) Run(ctx *Context) {
	w := ctx.World
	for _, user := range w.Query(component.CWantsToUseItem) {
		wants := w.Get(user, component.CWantsToUseItem).(component.WantsToUseItem)
		item := wants.Item
		if !w.Alive(item) || w.PendingDestroy(item) {
			continue
		}
		if bp, ok := ecs.Fetch[component.InBackpack](w, item); !ok || bp.Owner != user {
			continue
		}
		itemName := nameOf(w, item)

		if reason := rangeCheck(ctx, user, item, wants.Target); reason != "" {
			if ctx.isPlayer(user) {
				ctx.Log.Add(reason)
			}
		} else {
			applyItem(ctx, user, item, itemName, wants.Target)
		}

		if w.Has(item, component.CConsumable) {
			w.DestroyEntity(item)
		}
		ctx.Logger.Debug("item used",
			zap.Stringer("user", user),
			zap.String("item", itemName),
		)
	}
	w.RemoveAll(component.CWantsToUseItem)
}

// rangeCheck returns the message explaining why a targeted use of item by
// user cannot reach target, or "" when it can.
func rangeCheck(ctx *Context, user, item ecs.Entity, target *gamemap.Point) string {
	if target == nil {
		return ""
	}
	r, ok := ecs.Fetch[component.Ranged](ctx.World, item)
	if !ok {
		return ""
	}
	pos, ok := ecs.Fetch[component.Position](ctx.World, user)
	if !ok || !ctx.Map.InBounds(target.X, target.Y) {
		return "That is out of range."
	}
	if math.Hypot(float64(pos.X-target.X), float64(pos.Y-target.Y)) > float64(r.Range) {
		return "That is out of range."
	}
	return ""
}

func applyItem(ctx *Context, user, item ecs.Entity, itemName string, target *gamemap.Point) {
	w, m := ctx.World, ctx.Map
	if heal, ok := ecs.Fetch[component.ProvidesHealing](w, item); ok {
		if stats, ok := ecs.Fetch[component.CombatStats](w, user); ok {
			stats.HP = min(stats.MaxHP, stats.HP+heal.Amount)
			w.Add(user, stats)
			if ctx.isPlayer(user) {
				ctx.Log.Addf("You use the %s, healing %d hp.", itemName, heal.Amount)
			}
		}
	}

	if dmg, ok := ecs.Fetch[component.InflictsDamage](w, item); ok && target != nil {
		for _, victim := range m.ContentAt(target.X, target.Y) {
			if !w.Alive(victim) {
				continue
			}
			stats, ok := ecs.Fetch[component.CombatStats](w, victim)
			if !ok {
				continue
			}
			stats.HP -= dmg.Amount
			w.Add(victim, stats)
			if ctx.isPlayer(user) {
				ctx.Log.Addf("You use %s on %s, inflicting %d hp.", itemName, nameOf(w, victim), dmg.Amount)
			}
		}
	}
}

// ItemDrop puts items named by WantsToDropItem back on the map at the
// dropper's position.
type ItemDrop struct{}

func (ItemDrop) Phase() Phase { return PhaseDrop }

func (ItemDrop) Run(ctx *Context) {
	w := ctx.World
	for _, id := range w.Query(component.CWantsToDropItem, component.CPosition) {
		d := w.Get(id, component.CWantsToDropItem).(component.WantsToDropItem)
		if !w.Alive(d.Item) || w.PendingDestroy(d.Item) {
			continue
		}
		if bp, ok := ecs.Fetch[component.InBackpack](w, d.Item); !ok || bp.Owner != id {
			continue
		}
		pos := w.Get(id, component.CPosition).(component.Position)
		w.Remove(d.Item, component.CInBackpack)
		w.Add(d.Item, pos)
		if ctx.isPlayer(id) {
			ctx.Log.Addf("You drop the %s.", nameOf(w, d.Item))
		}
	}
	w.RemoveAll(component.CWantsToDropItem)
}

// Cleanup applies every deferred mutation and destruction queued this turn.
type Cleanup struct{}

func (Cleanup) Phase() Phase { return PhaseCleanup }

// The index is rebuilt afterwards so cells freed this turn are walkable
// before the next command is checked against them.
func (Cleanup) Run(ctx *Context) {
	n := ctx.World.Maintain()
	if n > 0 {
		ctx.Logger.Debug("entities reclaimed", zap.Int("count", n))
	}
	if ctx.Map != nil {
		rebuildIndex(ctx.World, ctx.Map)
	}
}
