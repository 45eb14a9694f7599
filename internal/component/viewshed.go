package component

import (
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/gamemap"

	"github.com/zyedidia/generic/mapset"
)

const CViewshed ecs.ComponentType = 5

// Viewshed caches the cells an entity can currently see. Dirty forces the
// visibility pass to recompute it; movement sets it.
type Viewshed struct {
	Visible mapset.Set[gamemap.Point]
	Range   int
	Dirty   bool
}

func (Viewshed) Type() ecs.ComponentType { return CViewshed }

// NewViewshed returns a dirty viewshed with an empty visible set.
func NewViewshed(rng int) Viewshed {
	return Viewshed{Visible: mapset.New[gamemap.Point](), Range: rng, Dirty: true}
}

// Sees reports whether p is in the cached visible set.
func (v Viewshed) Sees(p gamemap.Point) bool {
	if v.Visible.Size() == 0 {
		return false
	}
	return v.Visible.Has(p)
}
