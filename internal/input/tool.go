// Package input turns frontend gestures into brush operations on a sand
// world. The GUI and the terminal frontend share it.
package input

import (
	"fmt"
	"time"

	"sandgarden/internal/config"
	"sandgarden/internal/sims/sand"
)

// Tool holds the selected material, the brush radius and the seed cooldown.
type Tool struct {
	world *sand.World
	brush config.BrushConfig

	selected sand.ID
	radius   int
	lastSeed time.Time

	now func() time.Time
}

// NewTool returns a tool painting sand with the configured radius.
func NewTool(world *sand.World, brush config.BrushConfig) *Tool {
	return &Tool{
		world:    world,
		brush:    brush,
		selected: sand.Sand,
		radius:   brush.Clamp(brush.Radius),
		now:      time.Now,
	}
}

// Selected returns the material the primary button paints.
func (t *Tool) Selected() sand.ID { return t.selected }

// Radius returns the current brush radius.
func (t *Tool) Radius() int { return t.radius }

// Select switches material when key is one of the number-row hotkeys.
func (t *Tool) Select(key rune) bool {
	id, ok := sand.HotkeyMaterial(key)
	if ok {
		t.selected = id
	}
	return ok
}

// Grow changes the brush radius by delta within the configured range.
func (t *Tool) Grow(delta int) {
	t.radius = t.brush.Clamp(t.radius + delta)
}

// Wheel adjusts the radius from a scroll delta: scrolling up grows the brush.
func (t *Tool) Wheel(dy float64) {
	switch {
	case dy > 0:
		t.Grow(1)
	case dy < 0:
		t.Grow(-1)
	}
}

// Primary applies the selected material at (x, y). Seeds go down one cell at
// a time and at most once per cooldown; it reports whether anything was
// placed.
func (t *Tool) Primary(x, y int) (bool, error) {
	if t.selected == sand.Seed {
		now := t.now()
		if !t.lastSeed.IsZero() && now.Sub(t.lastSeed) <= t.brush.SeedCooldown {
			return false, nil
		}
		if err := t.world.PlaceSeed(x, y); err != nil {
			return false, err
		}
		t.lastSeed = now
		return true, nil
	}
	if err := t.world.Paint(x, y, t.selected, t.radius); err != nil {
		return false, err
	}
	return true, nil
}

// Secondary erases around (x, y).
func (t *Tool) Secondary(x, y int) error {
	return t.world.Erase(x, y, t.radius)
}

// Continuous reports whether holding the primary button keeps painting.
func (t *Tool) Continuous() bool { return t.selected != sand.Seed }

// Status summarizes the tool and the world on one line.
func (t *Tool) Status(paused bool) string {
	growing := 0
	for _, b := range t.world.Bushes() {
		if b.Growing() {
			growing++
		}
	}
	line := fmt.Sprintf("%s  r=%d  tick %d  bushes %d (%d growing)",
		t.world.Registry().Label(t.selected), t.radius, t.world.Ticks(), len(t.world.Bushes()), growing)
	if paused {
		line += "  [paused]"
	}
	return line
}

// Describe names the material under (x, y) and its display color, or returns
// "" when the point is off the grid.
func (t *Tool) Describe(x, y int) string {
	grid := t.world.Grid()
	if !grid.InBounds(x, y) {
		return ""
	}
	id := grid.At(x, y)
	if id == sand.Empty {
		return fmt.Sprintf("(%d,%d) empty", x, y)
	}
	return fmt.Sprintf("(%d,%d) %s %s", x, y, t.world.Registry().Material(id).Name, grid.ColorHex(x, y))
}
