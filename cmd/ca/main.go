//go:build ebiten

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"sandgarden/internal/app"
	"sandgarden/internal/config"
	"sandgarden/internal/logging"
	"sandgarden/internal/sims/sand"
)

func main() {
	cfg, err := config.Parse("ca", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	world, err := sand.Open(cfg.World, log.Named("sand"))
	if err != nil {
		log.Fatal("world setup failed", zap.Error(err))
	}
	world.Reset(cfg.World.Seed)

	game := app.New(world, cfg, log)
	size := world.Size()

	ebiten.SetWindowTitle("sandgarden")
	ebiten.SetTPS(cfg.App.TPS)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)

	log.Info("starting",
		zap.Int("width", size.W),
		zap.Int("height", size.H),
		zap.String("scene", cfg.World.Scene),
		zap.Int("tps", cfg.App.TPS))
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal("game exited", zap.Error(err))
	}
}
