// dungeoncrawl is the local terminal front end for the dungeon crawl.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"dungeoncrawl/internal/config"
	"dungeoncrawl/internal/engine"
	"dungeoncrawl/internal/factory"
	"dungeoncrawl/internal/game"
	"dungeoncrawl/internal/input"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	tpl, err := factory.LoadTemplates(cfg.Game.Templates)
	if err != nil {
		return err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting", zap.Int64("seed", seed), zap.String("save", cfg.Save.Path))

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	state := engine.New(cfg, tpl, rand.New(rand.NewSource(seed)), logger)
	sess := game.NewSession(state, input.NewGate(cfg.Input.MinDelayFrames, cfg.Input.RepeatDelayFrames))
	return game.Run(ctx, screen, sess, time.Duration(cfg.Input.FrameMS)*time.Millisecond, logger)
}
