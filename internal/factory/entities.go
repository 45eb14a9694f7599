package factory

import (
	"math/rand"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"github.com/gdamore/tcell/v2"
	"github.com/zyedidia/generic/mapset"
)

// NewPlayer creates the player entity at (x, y).
func NewPlayer(w *ecs.World, t ActorTemplate, x, y int) ecs.Entity {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Renderable{
		Glyph:       t.Glyph,
		FGColor:     color(t.FG),
		BGColor:     tcell.ColorDefault,
		RenderOrder: 10,
	})
	w.Add(id, component.Name{Name: t.Name})
	w.Add(id, component.CombatStats{MaxHP: t.MaxHP, HP: t.MaxHP, Defense: t.Defense, Power: t.Power})
	w.Add(id, component.NewViewshed(t.ViewRange))
	w.Add(id, component.Player{})
	w.Add(id, component.BlocksTile{})
	w.Add(id, component.NewSaveMarker())
	return id
}

// NewMonster creates a monster entity from a template.
func NewMonster(w *ecs.World, t ActorTemplate, x, y int) ecs.Entity {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Renderable{
		Glyph:       t.Glyph,
		FGColor:     color(t.FG),
		BGColor:     tcell.ColorDefault,
		RenderOrder: 5,
	})
	w.Add(id, component.Name{Name: t.Name})
	w.Add(id, component.CombatStats{MaxHP: t.MaxHP, HP: t.MaxHP, Defense: t.Defense, Power: t.Power})
	w.Add(id, component.NewViewshed(t.ViewRange))
	if t.MinDelay > 0 {
		w.Add(id, component.MovementSpeed{MinDelay: t.MinDelay})
	}
	w.Add(id, component.Monster{})
	w.Add(id, component.BlocksTile{})
	w.Add(id, component.NewSaveMarker())
	return id
}

// NewItem creates an item entity on the map from a template.
func NewItem(w *ecs.World, t ItemTemplate, x, y int) ecs.Entity {
	id := w.CreateEntity()
	w.Add(id, component.Position{X: x, Y: y})
	w.Add(id, component.Renderable{
		Glyph:       t.Glyph,
		FGColor:     color(t.FG),
		BGColor:     tcell.ColorDefault,
		RenderOrder: 2,
	})
	w.Add(id, component.Name{Name: t.Name})
	w.Add(id, component.Item{})
	if t.Consumable {
		w.Add(id, component.Consumable{})
	}
	if t.Healing > 0 {
		w.Add(id, component.ProvidesHealing{Amount: t.Healing})
	}
	if t.Damage > 0 {
		w.Add(id, component.InflictsDamage{Amount: t.Damage})
	}
	if t.Range > 0 {
		w.Add(id, component.Ranged{Range: t.Range})
	}
	w.Add(id, component.NewSaveMarker())
	return id
}

// SpawnRoom places up to maxMonsters monsters and maxItems items on distinct
// free cells inside room.
func SpawnRoom(w *ecs.World, room gamemap.Rect, rng *rand.Rand, t *Templates, maxMonsters, maxItems int) {
	used := mapset.New[gamemap.Point]()
	cell := func() (gamemap.Point, bool) {
		// Give up after a bounded number of tries.
		for range 20 {
			p := gamemap.Point{
				X: room.X1 + 1 + rng.Intn(max(room.X2-room.X1, 1)),
				Y: room.Y1 + 1 + rng.Intn(max(room.Y2-room.Y1, 1)),
			}
			if !used.Has(p) {
				used.Put(p)
				return p, true
			}
		}
		return gamemap.Point{}, false
	}

	for range rng.Intn(maxMonsters + 1) {
		if p, ok := cell(); ok {
			NewMonster(w, pickMonster(rng, t.Monsters), p.X, p.Y)
		}
	}
	if len(t.Items) == 0 {
		return
	}
	for range rng.Intn(maxItems + 1) {
		if p, ok := cell(); ok {
			NewItem(w, pickItem(rng, t.Items), p.X, p.Y)
		}
	}
}

// Populate spawns the player in the centre of the first room and fills
// every other room. It returns the player.
func Populate(w *ecs.World, m *gamemap.Map, rng *rand.Rand, t *Templates, maxMonsters, maxItems int) ecs.Entity {
	px, py := m.Rooms[0].Center()
	player := NewPlayer(w, t.Player, px, py)
	for _, room := range m.Rooms[1:] {
		SpawnRoom(w, room, rng, t, maxMonsters, maxItems)
	}
	return player
}

func pickMonster(rng *rand.Rand, table []ActorTemplate) ActorTemplate {
	total := 0
	for _, e := range table {
		total += e.Weight
	}
	roll := rng.Intn(total)
	for _, e := range table {
		if roll < e.Weight {
			return e
		}
		roll -= e.Weight
	}
	return table[len(table)-1]
}

func pickItem(rng *rand.Rand, table []ItemTemplate) ItemTemplate {
	total := 0
	for _, e := range table {
		total += e.Weight
	}
	roll := rng.Intn(total)
	for _, e := range table {
		if roll < e.Weight {
			return e
		}
		roll -= e.Weight
	}
	return table[len(table)-1]
}
