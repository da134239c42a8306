package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"sandgarden/internal/config"
	"sandgarden/internal/logging"
	"sandgarden/internal/sims/sand"
	"sandgarden/internal/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse("sandterm", os.Args[1:])
	if err != nil {
		return err
	}
	// The screen owns the terminal, so logs only go to a file.
	log := zap.NewNop()
	if cfg.Logging.Output != "" {
		if log, err = logging.New(cfg.Logging); err != nil {
			return err
		}
		defer log.Sync()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	// Size the world to the terminal unless the flags or config file pinned it.
	if cfg.World.Width == config.Default().World.Width && cfg.World.Height == config.Default().World.Height {
		w, h := screen.Size()
		cfg.World.Width, cfg.World.Height = max(w, 1), max(h-1, 1)
	}

	world, err := sand.Open(cfg.World, log.Named("sand"))
	if err != nil {
		return err
	}
	world.Reset(cfg.World.Seed)
	log.Info("starting",
		zap.Int("width", cfg.World.Width),
		zap.Int("height", cfg.World.Height),
		zap.String("scene", cfg.World.Scene))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := term.New(screen, world, cfg, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
