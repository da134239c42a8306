package sand

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovableFallsStraightDownFirst(t *testing.T) {
	world := newTestWorld(t, 5, 5)
	put(world, 2, 0, Sand)
	shade := world.grid.ColorAt(2, 0)

	world.Step()

	assert.Equal(t, Sand, world.grid.At(2, 1))
	assert.Equal(t, shade, world.grid.ColorAt(2, 1), "moving cells keep their shade")
	assert.Equal(t, Empty, world.grid.At(1, 1))
	assert.Equal(t, Empty, world.grid.At(3, 1))
	assert.Equal(t, Empty, world.grid.At(2, 0))
}

func TestMovablePrefersDownLeftWhenBlocked(t *testing.T) {
	world := newTestWorld(t, 5, 5)
	put(world, 2, 3, Stone)
	put(world, 2, 2, Sand)

	world.Step()

	assert.Equal(t, Sand, world.grid.At(1, 3))
	assert.Equal(t, Empty, world.grid.At(2, 2))
}

func TestMovableSinksThroughLighterMaterial(t *testing.T) {
	world := newTestWorld(t, 1, 3)
	put(world, 0, 2, Water)
	put(world, 0, 1, Sand)

	world.Step()

	assert.Equal(t, Sand, world.grid.At(0, 2))
	assert.Equal(t, Empty, world.grid.At(0, 1))
}

func TestMovesOncePerTick(t *testing.T) {
	world := newTestWorld(t, 3, 10)
	put(world, 1, 0, Sand)
	for i := 1; i <= 4; i++ {
		world.Step()
		require.Equal(t, Sand, world.grid.At(1, i), "tick %d", i)
	}
}

func TestGravelHoldsOnSingleLedge(t *testing.T) {
	build := func(id ID) *World {
		world := newTestWorld(t, 5, 5)
		fillRows(world, 4, 4, Stone)
		put(world, 2, 3, Stone)
		put(world, 2, 2, id)
		return world
	}

	gravel := build(Gravel)
	for i := 0; i < 5; i++ {
		gravel.Step()
	}
	assert.Equal(t, Gravel, gravel.grid.At(2, 2), "gravel must not slide off a one-cell ledge")
	assert.Equal(t, Empty, gravel.grid.At(1, 3))
	assert.Equal(t, Empty, gravel.grid.At(3, 3))

	sand := build(Sand)
	sand.Step()
	assert.Equal(t, Sand, sand.grid.At(1, 3), "sand spills where gravel holds")
}

func TestGravelStaysBesideDeepDrop(t *testing.T) {
	world := newTestWorld(t, 5, 5)
	for y := 2; y < 5; y++ {
		put(world, 2, y, Stone)
	}
	put(world, 2, 1, Gravel)

	for i := 0; i < 5; i++ {
		world.Step()
	}

	assert.Equal(t, Gravel, world.grid.At(2, 1), "stone below the gravel holds it in place")
	assert.Equal(t, Empty, world.grid.At(1, 2))
	assert.Equal(t, Empty, world.grid.At(3, 2))

	sand := newTestWorld(t, 5, 5)
	for y := 2; y < 5; y++ {
		put(sand, 2, y, Stone)
	}
	put(sand, 2, 1, Sand)
	sand.Step()
	assert.Equal(t, Sand, sand.grid.At(1, 2), "sand slides where gravel holds")
}

func TestGravelSinksIntoLighterCell(t *testing.T) {
	world := newTestWorld(t, 1, 2)
	put(world, 0, 1, Soil)
	put(world, 0, 0, Gravel)

	world.Step()

	assert.Equal(t, Gravel, world.grid.At(0, 1))
}

func TestLiquidFallsThroughShortColumn(t *testing.T) {
	for n := 1; n <= maxFall; n++ {
		world := newTestWorld(t, 1, n+2)
		put(world, 0, n+1, Stone)
		put(world, 0, 0, Water)

		world.Step()

		assert.Equal(t, Water, world.grid.At(0, n), "run of %d empty cells", n)
	}
}

func TestLiquidFallCappedAtLookahead(t *testing.T) {
	world := newTestWorld(t, 1, 20)
	put(world, 0, 0, Water)

	world.Step()

	assert.Equal(t, Water, world.grid.At(0, maxFall))
	assert.Equal(t, Empty, world.grid.At(0, 0))
}

func TestLiquidDispersionIsUnbiased(t *testing.T) {
	world := newTestWorld(t, 21, 2)
	fillRows(world, 1, 1, Stone)

	const trials = 4000
	left, right := 0, 0
	for i := 0; i < trials; i++ {
		for x := 0; x < world.w; x++ {
			world.grid.Clear(x, 0)
		}
		put(world, 10, 0, Water)
		world.Step()
		for x := 0; x < world.w; x++ {
			if world.grid.At(x, 0) != Water {
				continue
			}
			switch {
			case x < 10:
				left++
			case x > 10:
				right++
			}
		}
	}
	require.Equal(t, trials, left+right, "water always has somewhere to spread")
	share := float64(left) / trials
	assert.InDelta(t, 0.5, share, 0.03, "left share %.3f", share)
}

func TestLiquidStaysWhenEnclosed(t *testing.T) {
	world := newTestWorld(t, 3, 2)
	fillRows(world, 1, 1, Stone)
	put(world, 0, 0, Stone)
	put(world, 2, 0, Stone)
	put(world, 1, 0, Water)

	world.Step()

	assert.Equal(t, Water, world.grid.At(1, 0))
}

func TestGasRisesThroughDenserMedium(t *testing.T) {
	steam := Material{Name: "steam", Color: MustParseHex("#e0e0e0"), Density: 0.1, Dispersion: 2, Variance: 0.1}
	reg, steamID, err := DefaultRegistry().Extend(steam, Gas)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Scene = 3, 3, "empty"
	world := NewWithRegistry(cfg, reg)
	world.Reset(5)

	put(world, 1, 1, Water)
	put(world, 1, 2, steamID)
	world.Step()
	assert.Equal(t, steamID, world.grid.At(1, 1), "steam rises into the denser water above")

	world.grid.Reset()
	put(world, 1, 2, steamID)
	world.Step()
	assert.Equal(t, steamID, world.grid.At(1, 2), "empty space is not denser, so steam stays")

	world.grid.Reset()
	put(world, 1, 2, steamID)
	put(world, 2, 2, Water)
	world.Step()
	assert.Equal(t, steamID, world.grid.At(2, 2), "steam disperses sideways into denser neighbors")
}

func TestRuleTableCoversCategories(t *testing.T) {
	for _, cat := range []Category{Immovable, Movable, GravelLike, Liquid, Gas} {
		assert.NotNil(t, ruleFor(cat), cat.String())
	}
	_, _, moved := ruleFor(Category(math.MaxUint8))(nil, 0, 0, Sand)
	assert.False(t, moved)
}
