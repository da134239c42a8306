package sand

import "sandgarden/internal/core"

// maxFall is how far a liquid may drop through open cells in one tick.
const maxFall = 7

// cellContext carries what a rule may touch while updating one cell.
type cellContext struct {
	grid *Grid
	reg  *Registry
	rng  *core.RNG

	scratch []offset
}

type offset struct{ dx, dy int }

// cellRule moves the cell at (x, y) holding id at most once and reports the
// destination when it moved.
type cellRule func(c *cellContext, x, y int, id ID) (int, int, bool)

var rules = [...]cellRule{
	Immovable:  stayPut,
	Movable:    stepMovable,
	GravelLike: stepGravel,
	Liquid:     stepLiquid,
	Gas:        stepGas,
}

func ruleFor(cat Category) cellRule {
	if int(cat) >= len(rules) || rules[cat] == nil {
		return stayPut
	}
	return rules[cat]
}

// displaces reports whether mover may enter (x, y): the cell must be in
// bounds and either empty or strictly less dense.
func (c *cellContext) displaces(mover ID, x, y int) bool {
	if !c.grid.InBounds(x, y) {
		return false
	}
	target := c.grid.At(x, y)
	return target == Empty || c.reg.Density(target) < c.reg.Density(mover)
}

// lighter reports whether (x, y) is in bounds and strictly less dense than mover.
func (c *cellContext) lighter(mover ID, x, y int) bool {
	return c.grid.InBounds(x, y) && c.reg.Density(c.grid.At(x, y)) < c.reg.Density(mover)
}

// denser reports whether (x, y) is in bounds and strictly denser than mover.
func (c *cellContext) denser(mover ID, x, y int) bool {
	return c.grid.InBounds(x, y) && c.reg.Density(c.grid.At(x, y)) > c.reg.Density(mover)
}

func (c *cellContext) move(x, y, nx, ny int) (int, int, bool) {
	if !c.grid.Move(x, y, nx, ny) {
		return x, y, false
	}
	return nx, ny, true
}

func stayPut(_ *cellContext, x, y int, _ ID) (int, int, bool) {
	return x, y, false
}

func stepMovable(c *cellContext, x, y int, id ID) (int, int, bool) {
	switch {
	case c.displaces(id, x, y+1):
		return c.move(x, y, x, y+1)
	case c.displaces(id, x-1, y+1):
		return c.move(x, y, x-1, y+1)
	case c.displaces(id, x+1, y+1):
		return c.move(x, y, x+1, y+1)
	}
	return x, y, false
}

// stepGravel may only slide diagonally while the cell below the source is
// lighter too, and then the straight drop always wins. Gravel resting on
// anything denser stays put, so piles hold on ledges where sand would spill.
func stepGravel(c *cellContext, x, y int, id ID) (int, int, bool) {
	if c.lighter(id, x, y+1) {
		return c.move(x, y, x, y+1)
	}
	return x, y, false
}

func stepLiquid(c *cellContext, x, y int, id ID) (int, int, bool) {
	fall := 0
	for d := 1; d <= maxFall; d++ {
		if !c.displaces(id, x, y+d) {
			break
		}
		fall = d
	}
	if fall > 0 {
		return c.move(x, y, x, y+fall)
	}

	reach := c.reg.Material(id).Dispersion
	moves := c.scratch[:0]
	for d := 1; d <= reach; d++ {
		for _, o := range [4]offset{{-d, 0}, {d, 0}, {-d, d}, {d, d}} {
			if c.grid.InBounds(x+o.dx, y+o.dy) {
				moves = append(moves, o)
			}
		}
	}
	c.rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	c.scratch = moves

	for _, o := range moves {
		if c.displaces(id, x+o.dx, y+o.dy) {
			return c.move(x, y, x+o.dx, y+o.dy)
		}
	}
	return x, y, false
}

func stepGas(c *cellContext, x, y int, id ID) (int, int, bool) {
	if c.denser(id, x, y-1) {
		return c.move(x, y, x, y-1)
	}
	reach := c.reg.Material(id).Dispersion
	for d := 1; d <= reach; d++ {
		if c.denser(id, x-d, y) {
			return c.move(x, y, x-d, y)
		}
		if c.denser(id, x+d, y) {
			return c.move(x, y, x+d, y)
		}
	}
	return x, y, false
}
