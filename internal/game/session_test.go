package game

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/ecs"
	"dungeoncrawl/internal/engine"
	"dungeoncrawl/internal/factory"
	"dungeoncrawl/internal/input"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Map.Width, cfg.Map.Height = 40, 20
	cfg.Map.MaxRooms = 6
	cfg.Save.Path = filepath.Join(t.TempDir(), "save.json")
	state := engine.New(cfg, factory.DefaultTemplates(), rand.New(rand.NewSource(11)), zap.NewNop())
	return NewSession(state, input.NewGate(0, 0))
}

func press(t *testing.T, s *Session, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if err := s.Step(context.Background(), []string{k}); err != nil {
			t.Fatalf("key %q: %v", k, err)
		}
	}
}

// give puts a fresh copy of the named item template in the player's pack.
func give(t *testing.T, s *Session, name string) ecs.Entity {
	t.Helper()
	for _, tpl := range factory.DefaultTemplates().Items {
		if tpl.Name != name {
			continue
		}
		w := s.state.World()
		item := factory.NewItem(w, tpl, 0, 0)
		w.Remove(item, component.CPosition)
		w.Add(item, component.InBackpack{Owner: s.state.Player()})
		return item
	}
	t.Fatalf("no item template %q", name)
	return ecs.NilEntity
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), "k"},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), keyUp},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), keyEnter},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), keyEsc},
		{tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), ""},
	}
	for _, tt := range tests {
		if got := keyName(tt.ev); got != tt.want {
			t.Errorf("keyName = %q, want %q", got, tt.want)
		}
	}
}

func TestDirectionCoversEightWays(t *testing.T) {
	seen := map[[2]int]bool{}
	for _, k := range []string{"h", "j", "k", "l", "y", "u", "b", "n"} {
		dx, dy, ok := direction(k)
		if !ok {
			t.Fatalf("%q is not a direction", k)
		}
		seen[[2]int{dx, dy}] = true
	}
	if len(seen) != 8 {
		t.Fatalf("got %d distinct directions, want 8", len(seen))
	}
}

func TestMenuEnterStartsGame(t *testing.T) {
	s := newTestSession(t)
	press(t, s, keyEnter)
	if s.state.RunState() != engine.Running {
		t.Fatalf("state = %s", s.state.RunState())
	}
	if s.stats.Games != 1 {
		t.Fatalf("games = %d, want 1", s.stats.Games)
	}
}

func TestWaitSpendsATurn(t *testing.T) {
	s := newTestSession(t)
	press(t, s, keyEnter, ".")
	if s.state.Turn() != 1 {
		t.Fatalf("turn = %d, want 1", s.state.Turn())
	}
	if s.stats.Turns != 1 {
		t.Fatalf("run log turns = %d", s.stats.Turns)
	}
}

func TestEscapeClosesInventoryThenSaves(t *testing.T) {
	s := newTestSession(t)
	press(t, s, keyEnter, "i")
	if s.mode != modeUseItem {
		t.Fatalf("mode = %d, want inventory", s.mode)
	}
	press(t, s, keyEsc)
	if s.mode != modePlay || s.state.RunState() == engine.MainMenu {
		t.Fatal("first escape should only close the inventory")
	}
	press(t, s, keyEsc)
	if s.state.RunState() != engine.MainMenu {
		t.Fatalf("state = %s, want main_menu", s.state.RunState())
	}
	if s.stats.Saves != 1 {
		t.Fatalf("saves = %d", s.stats.Saves)
	}
	if !s.state.HasSave() {
		t.Fatal("expected save file")
	}
}

func TestUsePotionFromInventory(t *testing.T) {
	s := newTestSession(t)
	press(t, s, keyEnter)
	potion := give(t, s, "Health Potion")
	w := s.state.World()
	stats, _ := ecs.Fetch[component.CombatStats](w, s.state.Player())
	stats.HP = 10
	w.Add(s.state.Player(), stats)

	press(t, s, "i", "a")
	if s.mode != modePlay {
		t.Fatalf("mode = %d after use", s.mode)
	}
	if w.Alive(potion) {
		t.Fatal("potion should be consumed")
	}
	if !strings.HasPrefix(s.state.Log().Last(), "You use the Health Potion") {
		t.Fatalf("log = %q", s.state.Log().Last())
	}
	if s.state.Turn() != 1 {
		t.Fatalf("turn = %d, want 1", s.state.Turn())
	}
}

func TestRangedItemEntersTargeting(t *testing.T) {
	s := newTestSession(t)
	press(t, s, keyEnter)
	scroll := give(t, s, "Magic Missile Scroll")

	press(t, s, "i", "a")
	if s.mode != modeTarget {
		t.Fatalf("mode = %d, want targeting", s.mode)
	}
	start := s.cursor
	press(t, s, "l")
	if s.cursor == start && s.state.Map().InBounds(start.X+1, start.Y) {
		t.Fatal("cursor did not move")
	}
	if len(s.targetCells()) == 0 {
		t.Fatal("expected cells in range")
	}
	press(t, s, keyEsc)
	if s.mode != modePlay || !s.state.World().Alive(scroll) || s.state.Turn() != 0 {
		t.Fatal("cancelled targeting should keep the scroll and the turn")
	}
}

func TestDropFromInventory(t *testing.T) {
	s := newTestSession(t)
	press(t, s, keyEnter)
	potion := give(t, s, "Health Potion")

	press(t, s, "d", "a")
	w := s.state.World()
	if w.Has(potion, component.CInBackpack) {
		t.Fatal("potion should have left the pack")
	}
	pos, _ := ecs.Fetch[component.Position](w, potion)
	ppos, _ := s.state.PlayerPos()
	if pos.Point() != ppos {
		t.Fatalf("dropped at %v, want %v", pos.Point(), ppos)
	}
}

func TestQuitKeyEndsSession(t *testing.T) {
	s := newTestSession(t)
	press(t, s, "q")
	if !s.Done() {
		t.Fatal("q on the menu should quit")
	}
}
