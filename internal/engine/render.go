package engine

import (
	"sort"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/system"

	"github.com/gdamore/tcell/v2"
)

// RenderCommand is one entity to draw.
type RenderCommand struct {
	Pos   gamemap.Point
	Glyph string
	FG    tcell.Color
	BG    tcell.Color
	Order int
}

// RenderCommands returns every renderable entity on a currently visible
// cell, sorted so higher orders come last.
func (s *State) RenderCommands() []RenderCommand {
	if s.world == nil {
		return nil
	}
	w, m := s.world, s.gmap
	var out []RenderCommand
	for _, id := range w.Query(component.CPosition, component.CRenderable) {
		pos := w.Get(id, component.CPosition).(component.Position)
		if !m.InBounds(pos.X, pos.Y) || !m.Visible[m.XYIdx(pos.X, pos.Y)] {
			continue
		}
		r := w.Get(id, component.CRenderable).(component.Renderable)
		out = append(out, RenderCommand{
			Pos:   pos.Point(),
			Glyph: r.Glyph,
			FG:    r.FGColor,
			BG:    r.BGColor,
			Order: r.RenderOrder,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// InventoryEntry is one backpack line for the UI.
type InventoryEntry struct {
	Item   ecs.Entity
	Name   string
	Ranged int // 0 when the item needs no target
}

// Inventory lists the player's backpack.
func (s *State) Inventory() []InventoryEntry {
	if s.world == nil {
		return nil
	}
	var out []InventoryEntry
	for _, id := range system.Backpack(s.world, s.player) {
		e := InventoryEntry{Item: id}
		if n, ok := ecs.Fetch[component.Name](s.world, id); ok {
			e.Name = n.Name
		}
		if r, ok := ecs.Fetch[component.Ranged](s.world, id); ok {
			e.Ranged = r.Range
		}
		out = append(out, e)
	}
	return out
}

// PlayerPos returns the player's cell.
func (s *State) PlayerPos() (gamemap.Point, bool) {
	if s.world == nil {
		return gamemap.Point{}, false
	}
	p, ok := ecs.Fetch[component.Position](s.world, s.player)
	return p.Point(), ok
}
