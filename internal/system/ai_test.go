package system

import (
	"testing"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/gamemap"
)

// seeAll runs visibility so every viewshed is current.
func seeAll(ctx *Context) { Visibility{}.Run(ctx) }

func TestAdjacentMonsterDeclaresMelee(t *testing.T) {
	ctx := newTestContext(10, 10)
	p := spawnPlayer(ctx, 5, 5)
	orc := spawnMonster(ctx, "Orc", 6, 6, component.CombatStats{HP: 10, Power: 4})
	seeAll(ctx)
	MapIndex{}.Run(ctx)

	MonsterAI{}.Run(ctx)
	wants, ok := ctx.World.Get(orc, component.CWantsToMelee).(component.WantsToMelee)
	if !ok || wants.Target != p {
		t.Fatal("diagonal neighbour should attack the player")
	}
	if pos := ctx.World.Get(orc, component.CPosition).(component.Position); pos != (component.Position{X: 6, Y: 6}) {
		t.Fatalf("attacking monster must not move, now at %+v", pos)
	}
}

func TestMonsterStepsTowardPlayer(t *testing.T) {
	ctx := newTestContext(15, 10)
	spawnPlayer(ctx, 2, 5)
	orc := spawnMonster(ctx, "Orc", 7, 5, component.CombatStats{HP: 10})
	seeAll(ctx)
	MapIndex{}.Run(ctx)

	MonsterAI{}.Run(ctx)
	pos := ctx.World.Get(orc, component.CPosition).(component.Position)
	if pos.X != 6 {
		t.Fatalf("expected one step west, got %+v", pos)
	}
	if ctx.World.Has(orc, component.CWantsToMelee) {
		t.Fatal("distant monster should not attack")
	}
	vs := ctx.World.Get(orc, component.CViewshed).(component.Viewshed)
	if !vs.Dirty {
		t.Fatal("moving should dirty the viewshed")
	}
	if !ctx.Map.IsBlocked(6, 5) || ctx.Map.IsBlocked(7, 5) {
		t.Fatal("blocked bitmap should follow the monster")
	}
}

func TestMonsterIgnoresUnseenPlayer(t *testing.T) {
	ctx := newTestContext(20, 10)
	spawnPlayer(ctx, 2, 5)
	orc := spawnMonster(ctx, "Orc", 10, 5, component.CombatStats{HP: 10})
	// wall between them
	for y := 1; y < 9; y++ {
		ctx.Map.Set(6, y, gamemap.TileWall)
	}
	ctx.Map.PopulateBlocked()
	seeAll(ctx)

	MonsterAI{}.Run(ctx)
	if pos := ctx.World.Get(orc, component.CPosition).(component.Position); pos.X != 10 {
		t.Fatalf("monster should idle, moved to %+v", pos)
	}
}

func TestMovementSpeedGatesAction(t *testing.T) {
	ctx := newTestContext(15, 10)
	spawnPlayer(ctx, 2, 5)
	orc := spawnMonster(ctx, "Orc", 9, 5, component.CombatStats{HP: 10})
	ctx.World.Add(orc, component.MovementSpeed{MinDelay: 2})
	seeAll(ctx)
	MapIndex{}.Run(ctx)

	MonsterAI{}.Run(ctx) // turn 1: acts
	ctx.Turn = 2
	MarkDirty(ctx.World, orc)
	seeAll(ctx)
	MonsterAI{}.Run(ctx) // turn 2: too soon
	if pos := ctx.World.Get(orc, component.CPosition).(component.Position); pos.X != 8 {
		t.Fatalf("expected a single step after two turns, at %+v", pos)
	}
	ctx.Turn = 3
	seeAll(ctx)
	MonsterAI{}.Run(ctx)
	if pos := ctx.World.Get(orc, component.CPosition).(component.Position); pos.X != 7 {
		t.Fatalf("expected second step on turn 3, at %+v", pos)
	}
}

func TestNoPathMeansIdle(t *testing.T) {
	ctx := newTestContext(15, 10)
	spawnPlayer(ctx, 2, 5)
	orc := spawnMonster(ctx, "Orc", 9, 5, component.CombatStats{HP: 10})
	seeAll(ctx)
	// Seal the monster in after it has seen the player.
	for _, d := range [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}} {
		ctx.Map.Blocked[ctx.Map.XYIdx(9+d[0], 5+d[1])] = true
	}
	MonsterAI{}.Run(ctx)
	if pos := ctx.World.Get(orc, component.CPosition).(component.Position); pos.X != 9 || pos.Y != 5 {
		t.Fatalf("sealed monster should idle, at %+v", pos)
	}
}
