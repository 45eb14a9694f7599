package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"
)

// MapIndex rebuilds the blocked bitmap and per-cell occupant lists from
// current positions.
type MapIndex struct{}

func (MapIndex) Phase() Phase { return PhaseIndex }

func (MapIndex) Run(ctx *Context) {
	rebuildIndex(ctx.World, ctx.Map)
}

func rebuildIndex(w *ecs.World, m *gamemap.Map) {
	m.PopulateBlocked()
	m.ClearContentIndex()
	for _, id := range w.Query(component.CPosition) {
		pos := w.Get(id, component.CPosition).(component.Position)
		idx := m.MustIdx(pos.X, pos.Y)
		if w.Has(id, component.CBlocksTile) {
			m.Blocked[idx] = true
		}
		m.AddContent(idx, id)
	}
}
