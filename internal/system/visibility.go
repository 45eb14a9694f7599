package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/fov"
	"dungeoncrawl/internal/gamemap"
)

// Visibility recomputes every dirty viewshed. The player's result is also
// written into the map's visible and revealed bitmaps.
type Visibility struct{}

func (Visibility) Phase() Phase { return PhaseVisibility }

func (Visibility) Run(ctx *Context) {
	w, m := ctx.World, ctx.Map
	for _, id := range w.Query(component.CViewshed, component.CPosition) {
		vs := w.Get(id, component.CViewshed).(component.Viewshed)
		if !vs.Dirty {
			continue
		}
		pos := w.Get(id, component.CPosition).(component.Position)
		vs.Visible = fov.Compute(pos.Point(), vs.Range, m)
		vs.Dirty = false
		w.Add(id, vs)

		if ctx.isPlayer(id) {
			m.ClearVisible()
			vs.Visible.Each(func(p gamemap.Point) {
				idx := m.XYIdx(p.X, p.Y)
				m.Visible[idx] = true
				m.Revealed[idx] = true
			})
		}
	}
}

// MarkDirty flags id's viewshed for recomputation on the next turn.
func MarkDirty(w *ecs.World, id ecs.Entity) {
	if vs, ok := ecs.Fetch[component.Viewshed](w, id); ok {
		vs.Dirty = true
		w.Add(id, vs)
	}
}
