package game

import (
	"context"
	"math"

	"dungeoncrawl/internal/engine"
	"dungeoncrawl/internal/gamemap"
	"dungeoncrawl/internal/input"
	"dungeoncrawl/internal/render"
)

// uiMode is what the keyboard currently drives while a game is on.
type uiMode uint8

const (
	modePlay uiMode = iota
	modeUseItem
	modeDropItem
	modeTarget
)

// Session turns one player's raw key presses into simulation commands.
// It owns the frame-counted input gate and the inventory and targeting
// overlays; everything else is delegated to the engine.
type Session struct {
	state *engine.State
	gate  *input.Gate
	mode  uiMode

	pending engine.InventoryEntry
	cursor  gamemap.Point

	stats RunLog
}

func NewSession(state *engine.State, gate *input.Gate) *Session {
	return &Session{state: state, gate: gate, stats: newRunLog()}
}

// Done reports whether the player asked to leave.
func (s *Session) Done() bool { return s.state.Quit() }

// Step consumes the keys seen during one frame and ticks the engine once.
func (s *Session) Step(ctx context.Context, down []string) error {
	cmd := input.Command{}
	for _, key := range s.gate.Frame(down) {
		if cmd = s.translate(key); cmd.Kind != input.None {
			break
		}
	}
	before, choice := s.state.RunState(), s.state.Menu()
	if err := s.state.Tick(ctx, cmd); err != nil {
		return err
	}
	s.stats.observe(s.state, before, choice)
	return nil
}

// translate maps one fired key to a command, updating overlay state. Keys
// that only move the UI yield a None command.
func (s *Session) translate(key string) input.Command {
	switch s.state.RunState() {
	case engine.MainMenu:
		s.mode = modePlay
		return menuCommand(key)
	case engine.Running, engine.Paused:
	default:
		return input.Command{}
	}

	switch s.mode {
	case modeUseItem, modeDropItem:
		return s.pickItem(key)
	case modeTarget:
		return s.moveCursor(key)
	}

	if dx, dy, ok := direction(key); ok {
		return input.Command{Kind: input.Move, DX: dx, DY: dy}
	}
	switch key {
	case ".", "5", " ":
		return input.Command{Kind: input.Wait}
	case "g", ",":
		return input.Command{Kind: input.Pickup}
	case "i":
		s.mode = modeUseItem
	case "d":
		s.mode = modeDropItem
	case keyEsc:
		return input.Command{Kind: input.Save}
	case "Q":
		return input.Command{Kind: input.Quit}
	}
	return input.Command{}
}

func (s *Session) pickItem(key string) input.Command {
	if key == keyEsc {
		s.mode = modePlay
		return input.Command{}
	}
	slot, ok := itemSlot(key)
	items := s.state.Inventory()
	if !ok || slot >= len(items) {
		return input.Command{}
	}
	item := items[slot]
	if s.mode == modeDropItem {
		s.mode = modePlay
		return input.Command{Kind: input.Drop, Item: item.Item}
	}
	if item.Ranged > 0 {
		s.pending = item
		s.cursor, _ = s.state.PlayerPos()
		s.mode = modeTarget
		return input.Command{}
	}
	s.mode = modePlay
	return input.Command{Kind: input.Use, Item: item.Item}
}

func (s *Session) moveCursor(key string) input.Command {
	switch key {
	case keyEsc:
		s.mode = modePlay
		return input.Command{}
	case keyEnter:
		s.mode = modePlay
		target := s.cursor
		return input.Command{Kind: input.Use, Item: s.pending.Item, Target: &target}
	}
	if dx, dy, ok := direction(key); ok {
		next := s.cursor.Add(dx, dy)
		if s.state.Map().InBounds(next.X, next.Y) {
			s.cursor = next
		}
	}
	return input.Command{}
}

// targetCells lists the visible cells within reach of the pending item.
func (s *Session) targetCells() []gamemap.Point {
	origin, ok := s.state.PlayerPos()
	if !ok {
		return nil
	}
	m := s.state.Map()
	var cells []gamemap.Point
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Visible[m.XYIdx(x, y)] {
				continue
			}
			d := math.Hypot(float64(x-origin.X), float64(y-origin.Y))
			if d <= float64(s.pending.Ranged) {
				cells = append(cells, gamemap.Point{X: x, Y: y})
			}
		}
	}
	return cells
}

// Draw renders the current screen for this session.
func (s *Session) Draw(r *render.Renderer) {
	if !s.state.InGame() || s.state.RunState() == engine.MainMenu {
		r.DrawMenu(s.state)
		return
	}
	r.DrawFrame(s.state)
	switch s.mode {
	case modeUseItem:
		r.DrawInventory(render.InventoryView{Title: "Inventory", Entries: s.state.Inventory()})
	case modeDropItem:
		r.DrawInventory(render.InventoryView{Title: "Drop Which Item?", Entries: s.state.Inventory()})
	case modeTarget:
		r.DrawTargeting(s.targetCells(), s.cursor)
	}
}
