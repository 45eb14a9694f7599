package system

import (
	"math/rand"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamelog"
	"dungeoncrawl/internal/gamemap"

	"go.uber.org/zap"
)

// newTestContext returns a context over a walled map whose interior is floor.
func newTestContext(width, height int) *Context {
	m := gamemap.New(width, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			m.Set(x, y, gamemap.TileFloor)
		}
	}
	m.PopulateBlocked()
	return &Context{
		World:  ecs.NewWorld(),
		Map:    m,
		Log:    gamelog.New(32),
		RNG:    rand.New(rand.NewSource(1)),
		Turn:   1,
		Logger: zap.NewNop(),
	}
}

func spawnPlayer(ctx *Context, x, y int) ecs.Entity {
	w := ctx.World
	p := w.CreateEntity()
	w.Add(p, component.Player{})
	w.Add(p, component.Name{Name: "Player"})
	w.Add(p, component.Position{X: x, Y: y})
	w.Add(p, component.BlocksTile{})
	w.Add(p, component.CombatStats{MaxHP: 30, HP: 30, Defense: 2, Power: 5})
	w.Add(p, component.NewViewshed(8))
	ctx.Player = p
	return p
}

func spawnMonster(ctx *Context, name string, x, y int, stats component.CombatStats) ecs.Entity {
	w := ctx.World
	e := w.CreateEntity()
	w.Add(e, component.Monster{})
	w.Add(e, component.Name{Name: name})
	w.Add(e, component.Position{X: x, Y: y})
	w.Add(e, component.BlocksTile{})
	w.Add(e, stats)
	w.Add(e, component.NewViewshed(8))
	return e
}

func spawnPotion(ctx *Context, x, y int) ecs.Entity {
	w := ctx.World
	e := w.CreateEntity()
	w.Add(e, component.Item{})
	w.Add(e, component.Consumable{})
	w.Add(e, component.Name{Name: "Health Potion"})
	w.Add(e, component.ProvidesHealing{Amount: 8})
	w.Add(e, component.Position{X: x, Y: y})
	return e
}

func stats(ctx *Context, id ecs.Entity) component.CombatStats {
	s, _ := ecs.Fetch[component.CombatStats](ctx.World, id)
	return s
}
