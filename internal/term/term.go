// Package term runs a sand world in a terminal: one terminal cell per grid
// cell, the mouse paints and the number row picks materials.
package term

import (
	"context"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"sandgarden/internal/config"
	"sandgarden/internal/core"
	"sandgarden/internal/input"
	"sandgarden/internal/sims/sand"
)

const block = '█'

var (
	backgroundStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorBlack)
	statusStyle     = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver)
)

// Frontend draws a world onto a tcell screen and feeds input back into it.
type Frontend struct {
	screen tcell.Screen
	world  *sand.World
	tool   *input.Tool
	pacer  *core.FixedStep
	log    *zap.Logger

	seed     int64
	paused   bool
	tickOnce bool
	buttons  tcell.ButtonMask
	mouseX   int
	mouseY   int
	hover    bool
}

// New wires a frontend to an initialized screen.
func New(screen tcell.Screen, world *sand.World, cfg *config.Config, log *zap.Logger) *Frontend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Frontend{
		screen: screen,
		world:  world,
		tool:   input.NewTool(world, cfg.Brush),
		pacer:  core.NewFixedStep(cfg.App.TPS),
		log:    log,
		seed:   cfg.World.Seed,
	}
}

// Run polls events and steps the world until ctx is done or the user quits.
func (f *Frontend) Run(ctx context.Context) error {
	f.screen.EnableMouse()
	f.screen.HideCursor()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(events)
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(f.pacer.Interval())
	defer ticker.Stop()

	f.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !f.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if f.pacer.ShouldStep() {
				f.tick()
			}
			f.draw()
		}
	}
}

func (f *Frontend) tick() {
	if f.buttons&tcell.Button1 != 0 && f.tool.Continuous() {
		f.primary(f.mouseX, f.mouseY)
	}
	if f.buttons&tcell.Button2 != 0 {
		f.secondary(f.mouseX, f.mouseY)
	}
	if !f.paused || f.tickOnce {
		f.world.Step()
		f.tickOnce = false
	}
}

// handle applies one event and reports whether the frontend keeps running.
func (f *Frontend) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			return f.handleRune(ev.Rune())
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		f.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		f.screen.Sync()
	}
	return true
}

func (f *Frontend) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		f.paused = !f.paused
	case 'n', 'N':
		f.tickOnce = true
	case 'r', 'R':
		f.world.Reset(f.seed)
		f.log.Info("world reset", zap.Int64("seed", f.seed))
	case '+', '=':
		f.tool.Grow(1)
	case '-', '_':
		f.tool.Grow(-1)
	default:
		f.tool.Select(r)
	}
	return true
}

func (f *Frontend) handleMouse(x, y int, buttons tcell.ButtonMask) {
	pressed := buttons &^ f.buttons
	f.buttons = buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	f.mouseX, f.mouseY = x, y
	f.hover = true

	switch {
	case buttons&tcell.WheelUp != 0:
		f.tool.Wheel(1)
	case buttons&tcell.WheelDown != 0:
		f.tool.Wheel(-1)
	}
	switch {
	case buttons&tcell.Button1 != 0:
		if f.tool.Continuous() || pressed&tcell.Button1 != 0 {
			f.primary(x, y)
		}
	case buttons&(tcell.Button2|tcell.Button3) != 0:
		f.buttons |= tcell.Button2
		f.secondary(x, y)
	}
}

func (f *Frontend) primary(x, y int) {
	if _, err := f.tool.Primary(x, y); err != nil {
		f.log.Debug("brush rejected", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
	}
}

func (f *Frontend) secondary(x, y int) {
	if err := f.tool.Secondary(x, y); err != nil {
		f.log.Debug("erase rejected", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
	}
}

func (f *Frontend) draw() {
	f.screen.Clear()
	size := f.world.Size()
	sw, sh := f.screen.Size()
	colors := f.world.Colors()
	rows := min(size.H, sh-1)
	cols := min(size.W, sw)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := colors[y*size.W+x]
			if c.A == 0 {
				f.screen.SetContent(x, y, ' ', nil, backgroundStyle)
				continue
			}
			f.screen.SetContent(x, y, block, nil, tcell.StyleDefault.Foreground(Color(c)).Background(tcell.ColorBlack))
		}
	}
	if sh > 0 {
		status := f.tool.Status(f.paused)
		if f.hover {
			if cell := f.tool.Describe(f.mouseX, f.mouseY); cell != "" {
				status += "  " + cell
			}
		}
		drawText(f.screen, 0, min(size.H, sh-1), status, statusStyle)
	}
	f.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Color converts a cell color to a true-color terminal color.
func Color(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
