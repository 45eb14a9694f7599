package system

import (
	"slices"
	"testing"

	"dungeoncrawl/internal/component"
)

func TestIndexFreshness(t *testing.T) {
	ctx := newTestContext(12, 12)
	spawnPlayer(ctx, 2, 2)
	spawnMonster(ctx, "Orc", 5, 5, component.CombatStats{HP: 10})
	spawnPotion(ctx, 5, 5)
	spawnPotion(ctx, 7, 7)

	MapIndex{}.Run(ctx)

	for _, id := range ctx.World.Query(component.CPosition) {
		pos := ctx.World.Get(id, component.CPosition).(component.Position)
		if !slices.Contains(ctx.Map.ContentAt(pos.X, pos.Y), id) {
			t.Errorf("entity %v missing from cell (%d,%d)", id, pos.X, pos.Y)
		}
		if ctx.World.Has(id, component.CBlocksTile) && !ctx.Map.IsBlocked(pos.X, pos.Y) {
			t.Errorf("blocking entity %v at (%d,%d) not marked blocked", id, pos.X, pos.Y)
		}
	}
	if ctx.Map.IsBlocked(7, 7) {
		t.Error("an item alone must not block its cell")
	}
	if got := ctx.Map.ContentAt(5, 5); len(got) != 2 {
		t.Errorf("expected orc and potion on (5,5), got %v", got)
	}
}

func TestIndexForgetsMovedEntities(t *testing.T) {
	ctx := newTestContext(12, 12)
	spawnPlayer(ctx, 2, 2)
	orc := spawnMonster(ctx, "Orc", 5, 5, component.CombatStats{HP: 10})
	MapIndex{}.Run(ctx)

	ctx.World.Add(orc, component.Position{X: 6, Y: 5})
	MapIndex{}.Run(ctx)
	if len(ctx.Map.ContentAt(5, 5)) != 0 {
		t.Fatal("old cell should be empty after rebuild")
	}
	if ctx.Map.IsBlocked(5, 5) {
		t.Fatal("old cell should no longer be blocked")
	}
	if !ctx.Map.IsBlocked(6, 5) {
		t.Fatal("new cell should be blocked")
	}
}

func TestIndexOutOfBoundsPanics(t *testing.T) {
	ctx := newTestContext(5, 5)
	e := ctx.World.CreateEntity()
	ctx.World.Add(e, component.Position{X: 9, Y: 9})
	defer func() {
		if recover() == nil {
			t.Fatal("out-of-bounds position should fail loudly")
		}
	}()
	MapIndex{}.Run(ctx)
}
