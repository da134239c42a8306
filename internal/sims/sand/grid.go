package sand

import (
	"image/color"

	"sandgarden/internal/core"
)

// Grid holds the material of every cell plus a parallel cache of display
// colors. A cell's color is sampled when it is placed and travels with the
// cell when it moves.
type Grid struct {
	*core.ByteGrid
	colors []color.RGBA
}

// NewGrid allocates an empty grid.
func NewGrid(w, h int) *Grid {
	bg := core.NewByteGrid(w, h)
	return &Grid{ByteGrid: bg, colors: make([]color.RGBA, len(bg.Cells()))}
}

// At returns the material at (x, y); out-of-range cells read as Empty.
func (g *Grid) At(x, y int) ID { return ID(g.Get(x, y)) }

// ColorAt returns the cached display color at (x, y).
func (g *Grid) ColorAt(x, y int) color.RGBA {
	if !g.InBounds(x, y) {
		return OffColor
	}
	return g.colors[g.Index(x, y)]
}

// ColorHex returns the cached display color at (x, y) as "#rrggbb".
func (g *Grid) ColorHex(x, y int) string { return HexColor(g.ColorAt(x, y)) }

// Colors exposes the color cache in row-major order.
func (g *Grid) Colors() []color.RGBA { return g.colors }

// Set places id with the given display color. Setting Empty always stores
// OffColor.
func (g *Grid) Set(x, y int, id ID, c color.RGBA) {
	if !g.InBounds(x, y) {
		return
	}
	idx := g.Index(x, y)
	g.Cells()[idx] = uint8(id)
	if id == Empty {
		c = OffColor
	}
	g.colors[idx] = c
}

// Recolor replaces the display color of an occupied cell.
func (g *Grid) Recolor(x, y int, c color.RGBA) {
	if !g.InBounds(x, y) || g.At(x, y) == Empty {
		return
	}
	g.colors[g.Index(x, y)] = c
}

// Clear empties (x, y).
func (g *Grid) Clear(x, y int) { g.Set(x, y, Empty, OffColor) }

// Move copies the material and color at (fx, fy) to (tx, ty) and clears the
// source. Whatever occupied the destination is overwritten.
func (g *Grid) Move(fx, fy, tx, ty int) bool {
	if !g.InBounds(fx, fy) || !g.InBounds(tx, ty) {
		return false
	}
	from := g.Index(fx, fy)
	to := g.Index(tx, ty)
	cells := g.Cells()
	cells[to] = cells[from]
	g.colors[to] = g.colors[from]
	cells[from] = uint8(Empty)
	g.colors[from] = OffColor
	return true
}

// Reset empties every cell.
func (g *Grid) Reset() {
	g.ByteGrid.Clear()
	for i := range g.colors {
		g.colors[i] = OffColor
	}
}
