package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandgarden/internal/sims/sand"
)

func grownWorld(t *testing.T) *sand.World {
	t.Helper()
	world := newWorld(t)
	require.NoError(t, world.Paint(8, 14, sand.Soil, 3))
	for x := 0; x < 16; x++ {
		require.NoError(t, world.Paint(x, 15, sand.Soil, 0))
	}
	require.NoError(t, world.PlaceSeed(8, 2))
	for i := 0; i < 60; i++ {
		world.Step()
	}
	require.NotEmpty(t, world.Bushes())
	return world
}

func TestPartMaskFiltersLayers(t *testing.T) {
	world := grownWorld(t)
	n := len(world.Cells())
	mask := make([]uint8, n)
	parts := make([]sand.Part, n)

	fillPartMask(mask, parts, world.Bushes(), AllLayers())
	counts := map[sand.Part]int{}
	for _, m := range mask {
		counts[sand.Part(m)]++
	}
	assert.Positive(t, counts[sand.PartWood]+counts[sand.PartTip], "origin is always marked")

	fillPartMask(mask, parts, world.Bushes(), Layers{})
	for i, m := range mask {
		require.Zero(t, m, "cell %d visible with every layer off", i)
	}

	fillPartMask(mask, parts, world.Bushes(), Layers{Roots: true})
	for i, m := range mask {
		if m != 0 {
			assert.Equal(t, uint8(sand.PartRoot), m, "cell %d", i)
		}
	}
}

func TestPartPaletteCoversParts(t *testing.T) {
	require.Len(t, partPalette, int(sand.PartTip)+1)
	assert.Zero(t, partPalette[sand.PartNone].A)
	for p := sand.PartRoot; p <= sand.PartTip; p++ {
		assert.NotZero(t, partPalette[p].A, "part %d", p)
	}
}
