//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"sandgarden/internal/config"
	"sandgarden/internal/input"
	"sandgarden/internal/render"
	"sandgarden/internal/sims/sand"
	"sandgarden/internal/ui"
)

const hudWidth = 240

var background = color.RGBA{R: 12, G: 12, B: 16, A: 255}

// Game adapts a sand world to the ebiten.Game interface.
type Game struct {
	world   *sand.World
	tool    *input.Tool
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	log     *zap.Logger

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided world.
func New(world *sand.World, cfg *config.Config, log *zap.Logger) *Game {
	size := world.Size()
	return &Game{
		world:   world,
		tool:    input.NewTool(world, cfg.Brush),
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(world, hudWidth),
		overlay: ui.NewOverlay(world, cfg.App.Scale),
		log:     log,
		scale:   cfg.App.Scale,
		seed:    cfg.World.Seed,
	}
}

// Reset reinitializes the world with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.tickOnce = false
	g.log.Info("world reset", zap.Int64("seed", seed))
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.tool.Select(r)
	}

	size := g.world.Size()
	onPanel := g.hud.Update(size.W * g.scale)
	g.overlay.Update()
	if !onPanel {
		g.handleMouse()
	}

	if !g.paused || g.tickOnce {
		g.world.Step()
		g.tickOnce = false
	}
	mx, my := ebiten.CursorPosition()
	g.hud.SetStatus(g.tool.Status(g.paused), g.tool.Describe(mx/g.scale, my/g.scale), "Tab: bush view  F1-F4: layers")
	return nil
}

func (g *Game) handleMouse() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.tool.Wheel(dy)
	}
	x, y, ok := g.cursorCell()
	if !ok {
		return
	}
	var err error
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if g.tool.Continuous() || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			_, err = g.tool.Primary(x, y)
		}
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		err = g.tool.Secondary(x, y)
	}
	if err != nil {
		g.log.Debug("brush rejected", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
	}
}

func (g *Game) cursorCell() (int, int, bool) {
	mx, my := ebiten.CursorPosition()
	x, y := mx/g.scale, my/g.scale
	size := g.world.Size()
	return x, y, mx >= 0 && my >= 0 && x < size.W && y < size.H
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.world.Colors(), background, g.scale)
	x, y, ok := g.cursorCell()
	if !ok {
		x, y = -1, -1
	}
	g.overlay.Draw(screen, x, y, g.tool.Radius())
	g.hud.Draw(screen, g.world.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
