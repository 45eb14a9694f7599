package system

import (
	"testing"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/gamemap"
)

func TestVisibilityUpdatesPlayerBitmaps(t *testing.T) {
	ctx := newTestContext(20, 20)
	p := spawnPlayer(ctx, 5, 5)
	Visibility{}.Run(ctx)

	vs := ctx.World.Get(p, component.CViewshed).(component.Viewshed)
	if vs.Dirty {
		t.Fatal("viewshed should be clean after recompute")
	}
	if !vs.Sees(gamemap.Point{X: 6, Y: 5}) {
		t.Fatal("neighbouring cell should be visible")
	}
	idx := ctx.Map.XYIdx(6, 5)
	if !ctx.Map.Visible[idx] || !ctx.Map.Revealed[idx] {
		t.Fatal("player's view should be written into the map")
	}
	if ctx.Map.Visible[ctx.Map.XYIdx(18, 18)] {
		t.Fatal("far cell should not be visible")
	}
}

func TestVisibilitySkipsCleanViewsheds(t *testing.T) {
	ctx := newTestContext(20, 20)
	p := spawnPlayer(ctx, 5, 5)
	Visibility{}.Run(ctx)

	// Move without marking dirty: the cache must not change.
	ctx.World.Add(p, component.Position{X: 15, Y: 15})
	Visibility{}.Run(ctx)
	vs := ctx.World.Get(p, component.CViewshed).(component.Viewshed)
	if vs.Sees(gamemap.Point{X: 15, Y: 15}) {
		t.Fatal("clean viewshed should not be recomputed")
	}

	MarkDirty(ctx.World, p)
	Visibility{}.Run(ctx)
	vs = ctx.World.Get(p, component.CViewshed).(component.Viewshed)
	if !vs.Sees(gamemap.Point{X: 15, Y: 15}) {
		t.Fatal("dirty viewshed should be recomputed")
	}
	if ctx.Map.Visible[ctx.Map.XYIdx(5, 5)] {
		t.Fatal("old view should be cleared from the map")
	}
	if !ctx.Map.Revealed[ctx.Map.XYIdx(5, 5)] {
		t.Fatal("revealed cells stay revealed")
	}
}
