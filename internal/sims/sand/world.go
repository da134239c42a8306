package sand

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"sandgarden/internal/core"
	"sandgarden/internal/scene"
)

var (
	// ErrUnknownMaterial rejects brush operations with an unregistered ID.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrBrushRadius rejects negative brush radii.
	ErrBrushRadius = errors.New("brush radius must not be negative")
	// ErrOutOfBounds rejects single-cell placement outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

// World is the falling-sand simulation: the grid, its material rules and the
// bushes growing in it.
type World struct {
	cfg Config

	w, h int

	reg    *Registry
	grid   *Grid
	rng    *core.RNG
	log    *zap.Logger
	layout *scene.Scene

	bushes []*Bush

	// stamp[i] == tick marks a cell that already moved during the current tick.
	stamp []uint32
	tick  uint32
	ticks uint64

	ctx cellContext
}

// New returns a sand world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world using the default material registry.
func NewWithConfig(cfg Config) *World {
	return NewWithRegistry(cfg, DefaultRegistry())
}

// NewWithRegistry returns a world whose materials come from reg. Unknown
// scene names fall back to an empty layout.
func NewWithRegistry(cfg Config, reg *Registry) *World {
	grid := NewGrid(cfg.Width, cfg.Height)
	w := &World{
		cfg:   cfg,
		w:     grid.W,
		h:     grid.H,
		reg:   reg,
		grid:  grid,
		rng:   core.NewRNG(cfg.Seed),
		log:   zap.NewNop(),
		stamp: make([]uint32, len(grid.Cells())),
	}
	w.ctx = cellContext{grid: grid, reg: reg, rng: w.rng}
	if cfg.Scene != "" {
		if sc, ok := scene.Builtin(cfg.Scene); ok {
			w.layout = sc
		}
	}
	return w
}

// Open builds a world for a frontend: the scene named by cfg.Scene may be a
// builtin or a YAML file and must only use registered materials.
func Open(cfg Config, log *zap.Logger) (*World, error) {
	w := NewWithConfig(cfg)
	w.SetLogger(log)
	if cfg.Scene == "" {
		return w, w.SetScene(nil)
	}
	sc, err := scene.Resolve(cfg.Scene)
	if err != nil {
		return nil, err
	}
	if err := w.SetScene(sc); err != nil {
		return nil, err
	}
	return w, nil
}

// SetLogger replaces the world's logger.
func (w *World) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	w.log = log
}

// SetScene validates sc against the registry and uses it on the next Reset.
// A nil scene resets to an empty grid.
func (w *World) SetScene(sc *scene.Scene) error {
	if sc != nil {
		for _, name := range sc.Materials() {
			if _, ok := w.reg.Lookup(name); !ok {
				return fmt.Errorf("scene %q: %w %q", sc.Name, ErrUnknownMaterial, name)
			}
		}
	}
	w.layout = sc
	return nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the material ID of every cell.
func (w *World) Cells() []uint8 { return w.grid.Cells() }

// Colors exposes the display color of every cell.
func (w *World) Colors() []color.RGBA { return w.grid.Colors() }

// Grid exposes the cell grid.
func (w *World) Grid() *Grid { return w.grid }

// Registry returns the material registry.
func (w *World) Registry() *Registry { return w.reg }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Bushes returns every bush planted since the last reset, in planting order.
func (w *World) Bushes() []*Bush { return w.bushes }

// Ticks returns the number of steps since the last reset.
func (w *World) Ticks() uint64 { return w.ticks }

// MaterialAt returns the definition of the material at (x, y).
func (w *World) MaterialAt(x, y int) Material { return w.reg.Material(w.grid.At(x, y)) }

// Reset clears the world and lays out the configured scene.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Seed(effective)
	w.grid.Reset()
	w.bushes = nil
	for i := range w.stamp {
		w.stamp[i] = 0
	}
	w.tick = 0
	w.ticks = 0
	if w.layout != nil {
		w.applyScene(w.layout)
	}
}

func (w *World) applyScene(sc *scene.Scene) {
	for _, l := range sc.Layers {
		id, ok := w.reg.Lookup(l.Material)
		if !ok {
			continue
		}
		r := l.Bounds(w.w, w.h)
		if r.Empty() {
			w.log.Debug("scene layer outside grid", zap.String("scene", sc.Name), zap.String("material", l.Material))
			continue
		}
		for y := r.Y0; y < r.Y1; y++ {
			for x := r.X0; x < r.X1; x++ {
				w.grid.Set(x, y, id, w.reg.SampleColor(id, w.rng))
			}
		}
	}
	for _, p := range sc.Patches {
		x, y := p.Center(w.h)
		if err := w.PaintNamed(x, y, p.Material, p.Radius); err != nil {
			w.log.Warn("scene patch skipped", zap.String("scene", sc.Name), zap.String("material", p.Material), zap.Error(err))
		}
	}
}

// Step advances the world by one tick: every occupied cell is updated from
// the bottom row up, left to right, then every bush grows once in planting
// order.
func (w *World) Step() {
	w.tick++
	if w.tick == 0 {
		for i := range w.stamp {
			w.stamp[i] = 0
		}
		w.tick = 1
	}
	w.ticks++

	cells := w.grid.Cells()
	for y := w.h - 1; y >= 0; y-- {
		for x := 0; x < w.w; x++ {
			idx := y*w.w + x
			if w.stamp[idx] == w.tick {
				continue
			}
			id := ID(cells[idx])
			if id == Empty {
				continue
			}
			cat := w.reg.Category(id)
			if cat == Falling {
				w.stepSeed(x, y)
				continue
			}
			if nx, ny, moved := ruleFor(cat)(&w.ctx, x, y, id); moved {
				w.stamp[ny*w.w+nx] = w.tick
			}
		}
	}

	for i, b := range w.bushes {
		if b.Step() {
			w.log.Debug("bush finished growing",
				zap.Int("bush", i),
				zap.Int("roots", b.RootCount()),
				zap.Int("wood", b.WoodCount()),
				zap.Int("leaves", b.LeafCount()),
				zap.Int("mud_roots", b.MudRoots()),
				zap.Uint64("tick", w.ticks))
		}
	}
}

// stepSeed drops a seed into empty cells only and germinates it once it
// rests on soil, sand or mud.
func (w *World) stepSeed(x, y int) {
	if w.grid.InBounds(x, y+1) {
		switch w.grid.At(x, y+1) {
		case Soil, Sand, Mud:
			w.germinate(x, y)
			return
		}
	}
	for _, dx := range [3]int{0, -1, 1} {
		nx, ny := x+dx, y+1
		if w.grid.InBounds(nx, ny) && w.grid.At(nx, ny) == Empty {
			w.grid.Move(x, y, nx, ny)
			w.stamp[ny*w.w+nx] = w.tick
			return
		}
	}
}

func (w *World) germinate(x, y int) *Bush {
	b := NewBush(w.grid, w.reg, w.rng, w.cfg.Bush)
	b.Plant(x, y)
	w.bushes = append(w.bushes, b)
	w.log.Debug("seed germinated",
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Float64("max_root_size", b.MaxRootSize()),
		zap.Int("bushes", len(w.bushes)))
	return b
}

// Paint fills every in-bounds cell within radius of (x, y) with id, each with
// a freshly sampled color.
func (w *World) Paint(x, y int, id ID, radius int) error {
	if !w.reg.Valid(id) {
		return fmt.Errorf("%w: %d", ErrUnknownMaterial, id)
	}
	if radius < 0 {
		return fmt.Errorf("%w: %d", ErrBrushRadius, radius)
	}
	w.brush(x, y, radius, func(cx, cy int) {
		w.grid.Set(cx, cy, id, w.reg.SampleColor(id, w.rng))
	})
	return nil
}

// PaintNamed is Paint with the material given by name.
func (w *World) PaintNamed(x, y int, name string, radius int) error {
	id, ok := w.reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return w.Paint(x, y, id, radius)
}

// Erase empties every in-bounds cell within radius of (x, y).
func (w *World) Erase(x, y, radius int) error {
	if radius < 0 {
		return fmt.Errorf("%w: %d", ErrBrushRadius, radius)
	}
	w.brush(x, y, radius, w.grid.Clear)
	return nil
}

// PlaceSeed drops a single seed at (x, y). Rate limiting is up to the caller.
func (w *World) PlaceSeed(x, y int) error {
	if !w.grid.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	w.grid.Set(x, y, Seed, w.reg.SampleColor(Seed, w.rng))
	return nil
}

// brush visits the cells within radius of (x, y), clipped to the grid before
// iterating so an oversized radius costs no more than the grid itself.
func (w *World) brush(x, y, radius int, apply func(cx, cy int)) {
	x0, x1 := max(x-radius, 0), min(x+radius, w.w-1)
	y0, y1 := max(y-radius, 0), min(y+radius, w.h-1)
	r2 := int64(radius) * int64(radius)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			dx, dy := int64(cx-x), int64(cy-y)
			if dx*dx+dy*dy > r2 {
				continue
			}
			apply(cx, cy)
		}
	}
}

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
