package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
)

// MoveResult describes the outcome of a TryMovePlayer call.
type MoveResult uint8

const (
	MoveOK      MoveResult = iota // position updated
	MoveBlocked                   // wall, out-of-bounds or blocking entity
	MoveAttack                    // bumped something with combat stats
)

// TryMovePlayer moves the player by (dx, dy). Bumping a cell that holds
// something with CombatStats declares a melee attack on it instead.
func TryMovePlayer(ctx *Context, dx, dy int) (MoveResult, ecs.Entity) {
	w, m := ctx.World, ctx.Map
	pc := w.Get(ctx.Player, component.CPosition)
	if pc == nil {
		return MoveBlocked, ecs.NilEntity
	}
	pos := pc.(component.Position)
	nx, ny := pos.X+dx, pos.Y+dy
	if !m.InBounds(nx, ny) {
		return MoveBlocked, ecs.NilEntity
	}

	for _, other := range m.ContentAt(nx, ny) {
		if other == ctx.Player || !w.Alive(other) || w.PendingDestroy(other) {
			continue
		}
		if w.Has(other, component.CCombatStats) {
			w.Add(ctx.Player, component.WantsToMelee{Target: other})
			return MoveAttack, other
		}
	}

	if m.IsBlocked(nx, ny) {
		return MoveBlocked, ecs.NilEntity
	}

	m.Blocked[m.XYIdx(pos.X, pos.Y)] = !m.Tiles[m.XYIdx(pos.X, pos.Y)].Walkable()
	if w.Has(ctx.Player, component.CBlocksTile) {
		m.Blocked[m.XYIdx(nx, ny)] = true
	}
	w.Add(ctx.Player, component.Position{X: nx, Y: ny})
	MarkDirty(w, ctx.Player)
	return MoveOK, ecs.NilEntity
}

// PickupIntent asks to pick up the first item on the player's cell. It
// returns false, and tells the player, when there is nothing there.
func PickupIntent(ctx *Context) bool {
	w := ctx.World
	pc := w.Get(ctx.Player, component.CPosition)
	if pc == nil {
		return false
	}
	pos := pc.(component.Position)
	for _, id := range w.Query(component.CItem, component.CPosition) {
		if w.Get(id, component.CPosition).(component.Position) == pos {
			w.Add(ctx.Player, component.WantsToPickupItem{CollectedBy: ctx.Player, Item: id})
			return true
		}
	}
	ctx.Log.Add("There is nothing here to pick up.")
	return false
}

// UseIntent asks to use item from the player's backpack, optionally on a
// target cell. A target beyond the item's range is refused without
// spending the turn.
func UseIntent(ctx *Context, item ecs.Entity, target *gamemap.Point) bool {
	if !ownsItem(ctx.World, ctx.Player, item) {
		return false
	}
	if ctx.World.Has(item, component.CRanged) && target == nil {
		return false
	}
	if reason := rangeCheck(ctx, ctx.Player, item, target); reason != "" {
		ctx.Log.Add(reason)
		return false
	}
	ctx.World.Add(ctx.Player, component.WantsToUseItem{Item: item, Target: target})
	return true
}

// DropIntent asks to drop item from the player's backpack.
func DropIntent(ctx *Context, item ecs.Entity) bool {
	if !ownsItem(ctx.World, ctx.Player, item) {
		return false
	}
	ctx.World.Add(ctx.Player, component.WantsToDropItem{Item: item})
	return true
}

func ownsItem(w *ecs.World, owner, item ecs.Entity) bool {
	bp, ok := ecs.Fetch[component.InBackpack](w, item)
	return ok && w.Alive(item) && bp.Owner == owner
}
