// Package game runs the terminal front end: it reads keys from a tcell
// screen, paces frames, and draws the engine's state.
package game

import (
	"context"
	"time"

	"dungeoncrawl/internal/render"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Run drives sess on screen until the player quits or ctx is cancelled.
// Keys arriving between two frames are handed to the session together.
func Run(ctx context.Context, screen tcell.Screen, sess *Session, frame time.Duration, logger *zap.Logger) error {
	r := render.NewRenderer(screen)

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	defer sess.finish(logger)

	sess.Draw(r)
	var down []string
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				r.Resize()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if name := keyName(ev); name != "" {
					down = append(down, name)
				}
			}
		case <-ticker.C:
			if err := sess.Step(ctx, down); err != nil {
				logger.Error("tick failed", zap.Error(err))
				return err
			}
			down = down[:0]
			if sess.Done() {
				return nil
			}
			sess.Draw(r)
		}
	}
}
