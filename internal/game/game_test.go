package game

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// newSimScreen creates an initialized 80×24 simulation screen.
func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	ss.SetSize(80, 24)
	t.Cleanup(ss.Fini)
	return ss
}

func TestRunQuitsOnKey(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	scr := newSimScreen(t)
	sess := newTestSession(t)
	scr.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Run(ctx, scr, sess, time.Millisecond, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if !sess.Done() {
		t.Fatal("session should have quit before the deadline")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	scr := newSimScreen(t)
	sess := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, scr, sess, time.Millisecond, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
}
