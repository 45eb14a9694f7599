package engine

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// RunState is the scheduler's top-level mode.
type RunState string

const (
	MainMenu RunState = "main_menu"
	Running  RunState = "running"
	Paused   RunState = "paused"
	SaveGame RunState = "save_game"
)

const (
	evStart  = "start"  // menu confirmed a game
	evIdle   = "idle"   // a frame with no accepted input
	evAct    = "act"    // input accepted while paused
	evSave   = "save"   // player asked to save
	evSaved  = "saved"  // save written, back to the menu
	evResume = "resume" // save failed, back to the game
)

func newMachine(logger *zap.Logger) *fsm.FSM {
	return fsm.NewFSM(
		string(MainMenu),
		fsm.Events{
			{Name: evStart, Src: []string{string(MainMenu)}, Dst: string(Running)},
			{Name: evIdle, Src: []string{string(Running)}, Dst: string(Paused)},
			{Name: evAct, Src: []string{string(Paused)}, Dst: string(Running)},
			{Name: evSave, Src: []string{string(Running), string(Paused)}, Dst: string(SaveGame)},
			{Name: evSaved, Src: []string{string(SaveGame)}, Dst: string(MainMenu)},
			{Name: evResume, Src: []string{string(SaveGame)}, Dst: string(Running)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Debug("run state",
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
}
