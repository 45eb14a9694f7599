package system

import (
	"math"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/pathfind"

	"go.uber.org/zap"
)

// meleeReach is the Euclidean distance under which a monster attacks
// instead of moving. It admits diagonal neighbours.
const meleeReach = 1.5

// MonsterAI gives every monster that can see the player one action: a melee
// intent when adjacent, otherwise a single step along the shortest path.
type MonsterAI struct{}

func (MonsterAI) Phase() Phase { return PhaseAI }

func (MonsterAI) Run(ctx *Context) {
	w, m := ctx.World, ctx.Map
	pc := w.Get(ctx.Player, component.CPosition)
	if pc == nil {
		return
	}
	target := pc.(component.Position).Point()

	for _, id := range w.Query(component.CMonster, component.CViewshed, component.CPosition) {
		if ctx.isPlayer(id) {
			continue
		}
		if cs := w.Get(id, component.CCombatStats); cs != nil && cs.(component.CombatStats).HP < 1 {
			continue
		}
		vs := w.Get(id, component.CViewshed).(component.Viewshed)
		if !vs.Sees(target) {
			continue
		}
		if mc := w.Get(id, component.CMovementSpeed); mc != nil {
			speed := mc.(component.MovementSpeed)
			if !speed.Ready(ctx.Turn) {
				continue
			}
			speed.LastMove = ctx.Turn
			w.Add(id, speed)
		}

		pos := w.Get(id, component.CPosition).(component.Position)
		dist := math.Hypot(float64(pos.X-target.X), float64(pos.Y-target.Y))
		if dist < meleeReach {
			w.Add(id, component.WantsToMelee{Target: ctx.Player})
			continue
		}

		path := pathfind.FindPath(m, pos.Point(), target, m.Width*m.Height)
		if len(path) <= 1 {
			continue
		}
		next := path[1]
		m.Blocked[m.MustIdx(pos.X, pos.Y)] = false
		m.Blocked[m.MustIdx(next.X, next.Y)] = true
		w.Add(id, component.Position{X: next.X, Y: next.Y})
		vs.Dirty = true
		w.Add(id, vs)
		ctx.Logger.Debug("monster step",
			zap.Stringer("entity", id),
			zap.Int("x", next.X),
			zap.Int("y", next.Y),
		)
	}
}
