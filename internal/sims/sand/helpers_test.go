package sand

import "testing"

func newTestWorld(t *testing.T, w, h int) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Scene = "empty"
	cfg.Seed = 7
	world := NewWithConfig(cfg)
	world.Reset(0)
	return world
}

func put(world *World, x, y int, id ID) {
	world.grid.Set(x, y, id, world.reg.SampleColor(id, world.rng))
}

func fillRows(world *World, y0, y1 int, id ID) {
	for y := y0; y <= y1; y++ {
		for x := 0; x < world.w; x++ {
			put(world, x, y, id)
		}
	}
}

func snapshot(world *World) ([]uint8, []string) {
	cells := append([]uint8(nil), world.Cells()...)
	colors := make([]string, len(world.Colors()))
	for i, c := range world.Colors() {
		colors[i] = HexColor(c)
	}
	return cells, colors
}
