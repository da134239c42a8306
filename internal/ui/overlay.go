//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sandgarden/internal/render"
	"sandgarden/internal/sims/sand"
)

var brushOutline = color.RGBA{R: 255, G: 255, B: 255, A: 160}

// Overlay draws the bush debug view and the brush outline on top of the
// simulation.
type Overlay struct {
	world *sand.World
	scale int

	visible bool
	layers  Layers

	painter *render.GridPainter
	mask    []uint8
	parts   []sand.Part
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for world drawn at the given pixel scale.
func NewOverlay(world *sand.World, scale int) *Overlay {
	size := world.Size()
	o := &Overlay{
		world:   world,
		scale:   max(scale, 1),
		layers:  AllLayers(),
		painter: render.NewGridPainter(size.W, size.H),
		mask:    make([]uint8, size.W*size.H),
		parts:   make([]sand.Part, size.W*size.H),
		pixel:   ebiten.NewImage(1, 1),
	}
	o.pixel.Fill(color.White)
	return o
}

// Visible reports whether the bush view is on.
func (o *Overlay) Visible() bool { return o.visible }

// Update toggles the bush view with Tab and its layers with F1-F4.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		o.visible = !o.visible
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.layers.Roots = !o.layers.Roots
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		o.layers.Wood = !o.layers.Wood
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		o.layers.Leaves = !o.layers.Leaves
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF4) {
		o.layers.Tips = !o.layers.Tips
	}
}

// Draw renders the bush view when visible and the brush outline around the
// cursor cell (cx, cy) with the given radius in cells.
func (o *Overlay) Draw(screen *ebiten.Image, cx, cy, radius int) {
	if o.visible && len(o.world.Bushes()) > 0 {
		fillPartMask(o.mask, o.parts, o.world.Bushes(), o.layers)
		o.painter.BlitPalette(screen, o.mask, partPalette, o.scale)
	}
	size := o.world.Size()
	if cx < 0 || cy < 0 || cx >= size.W || cy >= size.H {
		return
	}
	o.drawCircle(screen, cx, cy, radius)
}

func (o *Overlay) drawCircle(screen *ebiten.Image, cx, cy, radius int) {
	const segments = 32
	s := float64(o.scale)
	x0 := (float64(cx) + 0.5) * s
	y0 := (float64(cy) + 0.5) * s
	r := (float64(radius) + 0.5) * s
	for i := 0; i < segments; i++ {
		a1 := 2 * math.Pi * float64(i) / segments
		a2 := 2 * math.Pi * float64(i+1) / segments
		o.drawLine(screen, x0+r*math.Cos(a1), y0+r*math.Sin(a1), x0+r*math.Cos(a2), y0+r*math.Sin(a2), 1, brushOutline)
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
