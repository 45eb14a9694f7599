// Package engine drives the simulation: the run-state machine, turn gating,
// new game setup, and save/load orchestration.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/factory"
	"dungeoncrawl/internal/gamelog"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/generate"
	"dungeoncrawl/internal/input"
	"dungeoncrawl/internal/saveload"
	"dungeoncrawl/internal/system"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// MenuSelection is the highlighted main-menu entry.
type MenuSelection int

const (
	MenuNewGame MenuSelection = iota
	MenuLoadGame
	MenuQuit
	menuEntries
)

func (m MenuSelection) String() string {
	switch m {
	case MenuNewGame:
		return "New Game"
	case MenuLoadGame:
		return "Load Game"
	case MenuQuit:
		return "Quit"
	}
	return ""
}

// MenuEntries lists the main menu in display order.
func MenuEntries() []MenuSelection {
	return []MenuSelection{MenuNewGame, MenuLoadGame, MenuQuit}
}

// State owns one simulation: its world, map, log and run state. It is not
// safe for concurrent use; each player session gets its own.
type State struct {
	cfg    *config.Config
	tpl    *factory.Templates
	logger *zap.Logger
	rng    *rand.Rand

	world  *ecs.World
	gmap   *gamemap.Map
	log    *gamelog.Log
	player ecs.Entity
	turn   uint64

	runner  *system.Runner
	death   *system.DeathSweep
	machine *fsm.FSM
	menu    MenuSelection
	quit    bool
}

// New returns a State sitting at the main menu.
func New(cfg *config.Config, tpl *factory.Templates, rng *rand.Rand, logger *zap.Logger) *State {
	runner, death := system.NewTurnRunner()
	return &State{
		cfg:     cfg,
		tpl:     tpl,
		logger:  logger,
		rng:     rng,
		log:     gamelog.New(cfg.Game.LogCapacity),
		runner:  runner,
		death:   death,
		machine: newMachine(logger),
	}
}

func (s *State) RunState() RunState  { return RunState(s.machine.Current()) }
func (s *State) Menu() MenuSelection { return s.menu }
func (s *State) Quit() bool          { return s.quit }
func (s *State) World() *ecs.World   { return s.world }
func (s *State) Map() *gamemap.Map   { return s.gmap }
func (s *State) Log() *gamelog.Log   { return s.log }
func (s *State) Player() ecs.Entity  { return s.player }
func (s *State) Turn() uint64        { return s.turn }
func (s *State) PlayerDead() bool    { return s.death.PlayerDown() }
func (s *State) HasSave() bool       { return saveload.Exists(s.cfg.Save.Path) }
func (s *State) InGame() bool        { return s.world != nil }

// PlayerStats returns the player's combat stats, if there is a game.
func (s *State) PlayerStats() (component.CombatStats, bool) {
	if s.world == nil {
		return component.CombatStats{}, false
	}
	return ecs.Fetch[component.CombatStats](s.world, s.player)
}

// Tick feeds one frame of input to the simulation. A turn runs only when
// the command is accepted and spends a turn; otherwise nothing advances.
func (s *State) Tick(ctx context.Context, cmd input.Command) error {
	switch s.RunState() {
	case MainMenu:
		return s.tickMenu(ctx, cmd)
	case Running, Paused:
		return s.tickGame(ctx, cmd)
	}
	return nil
}

func (s *State) tickMenu(ctx context.Context, cmd input.Command) error {
	switch cmd.Kind {
	case input.MenuUp:
		s.stepMenu(menuEntries - 1)
	case input.MenuDown:
		s.stepMenu(1)
	case input.Quit:
		s.quit = true
	case input.MenuConfirm:
		switch s.menu {
		case MenuNewGame:
			s.NewGame()
		case MenuLoadGame:
			if err := s.Load(); err != nil {
				s.logger.Warn("load failed", zap.Error(err))
				return nil
			}
		case MenuQuit:
			s.quit = true
			return nil
		}
		return s.fire(ctx, evStart)
	}
	return nil
}

// stepMenu moves the selection, skipping Load Game when there is no save.
func (s *State) stepMenu(delta MenuSelection) {
	s.menu = (s.menu + delta) % menuEntries
	if s.menu == MenuLoadGame && !s.HasSave() {
		s.menu = (s.menu + delta) % menuEntries
	}
}

func (s *State) tickGame(ctx context.Context, cmd input.Command) error {
	switch cmd.Kind {
	case input.Quit:
		s.quit = true
		return nil
	case input.Save:
		return s.saveFromGame(ctx)
	}

	if !cmd.Advances() || !s.apply(cmd) {
		if s.RunState() == Running {
			return s.fire(ctx, evIdle)
		}
		return nil
	}
	if s.RunState() == Paused {
		if err := s.fire(ctx, evAct); err != nil {
			return err
		}
	}
	s.RunTurn()
	return nil
}

// apply turns a player command into movement or intents. It reports whether
// the command was accepted.
func (s *State) apply(cmd input.Command) bool {
	ctx := s.context()
	switch cmd.Kind {
	case input.Move:
		res, _ := system.TryMovePlayer(ctx, cmd.DX, cmd.DY)
		return res != system.MoveBlocked
	case input.Wait:
		return true
	case input.Pickup:
		return system.PickupIntent(ctx)
	case input.Use:
		return system.UseIntent(ctx, cmd.Item, cmd.Target)
	case input.Drop:
		return system.DropIntent(ctx, cmd.Item)
	}
	return false
}

// RunTurn advances the simulation by exactly one turn.
func (s *State) RunTurn() {
	s.turn++
	s.runner.Run(s.context())
}

func (s *State) context() *system.Context {
	return &system.Context{
		World:  s.world,
		Map:    s.gmap,
		Log:    s.log,
		Player: s.player,
		RNG:    s.rng,
		Turn:   s.turn,
		Logger: s.logger,
	}
}

// prime brings derived state up to date without spending a turn.
func (s *State) prime() {
	ctx := s.context()
	s.runner.RunPhase(system.PhaseVisibility, ctx)
	s.runner.RunPhase(system.PhaseIndex, ctx)
}

// NewGame replaces any current game with a freshly generated level.
func (s *State) NewGame() {
	s.world = ecs.NewWorld()
	s.gmap = generate.RoomsAndCorridors(generate.Config{
		Width:       s.cfg.Map.Width,
		Height:      s.cfg.Map.Height,
		MaxRooms:    s.cfg.Map.MaxRooms,
		MinRoomSize: s.cfg.Map.MinRoomSize,
		MaxRoomSize: s.cfg.Map.MaxRoomSize,
		Rand:        s.rng,
	})
	s.player = factory.Populate(s.world, s.gmap, s.rng, s.tpl, s.cfg.Game.MonstersPerRoom, s.cfg.Game.ItemsPerRoom)
	s.turn = 0
	s.death.Reset()
	s.log = gamelog.New(s.cfg.Game.LogCapacity)
	s.log.Add("Welcome to the dungeon.")
	s.prime()
	s.logger.Info("new game",
		zap.Int("rooms", len(s.gmap.Rooms)),
		zap.Int("entities", s.world.Live()),
	)
}

func (s *State) saveFromGame(ctx context.Context) error {
	if err := s.fire(ctx, evSave); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		s.logger.Error("save failed", zap.Error(err))
		s.log.Add("Could not save the game.")
		return s.fire(ctx, evResume)
	}
	s.menu = MenuLoadGame
	return s.fire(ctx, evSaved)
}

// Save writes the current game to the configured path.
func (s *State) Save() error {
	if s.world == nil {
		return errors.New("engine: no game to save")
	}
	err := saveload.SaveFile(s.cfg.Save.Path, s.world, s.gmap, s.logger)
	s.world.Maintain()
	if err != nil {
		return err
	}
	s.log.Add("Game saved.")
	return nil
}

// Load replaces the current game with the one at the configured path. On
// failure the current game is left untouched.
func (s *State) Load() error {
	w := ecs.NewWorld()
	m, player, err := saveload.LoadFile(s.cfg.Save.Path, w, s.logger)
	if err != nil {
		if errors.Is(err, saveload.ErrNoSave) {
			s.log.Add("There is no saved game.")
		} else {
			s.log.Add("The saved game is damaged.")
		}
		return fmt.Errorf("load: %w", err)
	}
	s.world, s.gmap, s.player = w, m, player

	// Rate limiters count turns; resume the clock where they left off.
	s.turn = 0
	for _, id := range w.Query(component.CMovementSpeed) {
		s.turn = max(s.turn, w.Get(id, component.CMovementSpeed).(component.MovementSpeed).LastMove)
	}
	s.death.Reset()
	s.log = gamelog.New(s.cfg.Game.LogCapacity)
	s.log.Add("Game loaded.")
	s.prime()
	return nil
}

// ErrNoTransition is returned when an event is not valid in the current
// run state.
var ErrNoTransition = errors.New("engine: no such run state transition")

func (s *State) fire(ctx context.Context, event string) error {
	err := s.machine.Event(ctx, event)
	var (
		noop    fsm.NoTransitionError
		invalid fsm.InvalidEventError
		unknown fsm.UnknownEventError
	)
	switch {
	case err == nil, errors.As(err, &noop):
		return nil
	case errors.As(err, &invalid), errors.As(err, &unknown):
		return fmt.Errorf("%w: %s from %s", ErrNoTransition, event, s.machine.Current())
	}
	return fmt.Errorf("run state %s on %s: %w", s.machine.Current(), event, err)
}
