package system

import (
	"sort"

	"go.uber.org/zap"
)

// Runner executes systems in phase order each turn.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Run advances the simulation by one turn.
func (r *Runner) Run(ctx *Context) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Run(ctx)
	}
	ctx.Logger.Debug("turn complete",
		zap.Uint64("turn", ctx.Turn),
		zap.Int("entities", ctx.World.Live()),
	)
}

// RunPhase runs only the systems registered for phase.
func (r *Runner) RunPhase(phase Phase, ctx *Context) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Run(ctx)
		}
	}
}

// Phases returns the registered phases in execution order.
func (r *Runner) Phases() []Phase {
	r.ensureSorted()
	out := make([]Phase, len(r.systems))
	for i, s := range r.systems {
		out[i] = s.Phase()
	}
	return out
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

// NewTurnRunner registers the full turn pipeline. The returned DeathSweep is
// the one registered, so callers can ask whether the player is down.
func NewTurnRunner() (*Runner, *DeathSweep) {
	death := &DeathSweep{}
	r := NewRunner()
	r.Register(Cleanup{})
	r.Register(ItemDrop{})
	r.Register(ItemUse{})
	r.Register(ItemCollection{})
	r.Register(death)
	r.Register(Damage{})
	r.Register(MeleeCombat{})
	r.Register(MapIndex{})
	r.Register(MonsterAI{})
	r.Register(Visibility{})
	return r, death
}
