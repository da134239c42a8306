package sand

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFallsAndGerminatesOnSoil(t *testing.T) {
	world := newTestWorld(t, 10, 10)
	fillRows(world, 5, 9, Soil)
	require.NoError(t, world.PlaceSeed(5, 0))

	ticks := 0
	for len(world.Bushes()) == 0 && ticks < 10 {
		world.Step()
		ticks++
	}

	require.LessOrEqual(t, ticks, 5)
	require.Len(t, world.Bushes(), 1)
	assert.Equal(t, Wood, world.grid.At(5, 4))
	for y := 0; y < 4; y++ {
		assert.Equal(t, Empty, world.grid.At(5, y), "row %d", y)
	}

	b := world.Bushes()[0]
	x, y := b.Origin()
	assert.Equal(t, [2]int{5, 4}, [2]int{x, y})
	assert.True(t, b.Growing())
	assert.Equal(t, 1, b.RootCount())
	assert.True(t, b.IsRoot(5, 4))
	assert.True(t, b.IsWood(5, 4))
	assert.Equal(t, []Tip{{X: 5, Y: 4, Buds: 5}}, b.Tips())
	assert.Equal(t, []Tip{{X: 5, Y: 4, Buds: 5}}, b.RootTips())
}

func TestSeedGerminatesOnSandAndMudOnly(t *testing.T) {
	for _, tc := range []struct {
		ground ID
		sprout bool
	}{
		{Sand, true},
		{Mud, true},
		{Soil, true},
		{Stone, false},
		{Gravel, false},
	} {
		world := newTestWorld(t, 1, 3)
		put(world, 0, 2, tc.ground)
		put(world, 0, 1, Seed)
		world.Step()
		assert.Equal(t, tc.sprout, len(world.Bushes()) == 1, "seed over %s", world.reg.Material(tc.ground).Name)
		if !tc.sprout {
			assert.Equal(t, Seed, world.grid.At(0, 1))
		}
	}
}

func TestSeedOnlyFallsIntoEmptyCells(t *testing.T) {
	world := newTestWorld(t, 1, 3)
	put(world, 0, 2, Water)
	put(world, 0, 1, Seed)

	world.Step()

	assert.Equal(t, Seed, world.grid.At(0, 1))
	assert.Equal(t, Water, world.grid.At(0, 2))
	assert.Empty(t, world.Bushes())
}

func TestSeedSlidesDiagonally(t *testing.T) {
	world := newTestWorld(t, 3, 3)
	put(world, 1, 1, Stone)
	put(world, 1, 0, Seed)

	world.Step()

	assert.Equal(t, Seed, world.grid.At(0, 1))
}

func groundWorld(t *testing.T, seed int64, w, h, top int, ground ID, p BushParams) *World {
	t.Helper()
	world := newTestWorld(t, w, h)
	world.Reset(seed)
	world.cfg.Bush = p
	fillRows(world, top, h-1, ground)
	return world
}

func plantedBush(t *testing.T, w, h, soilTop int, ground ID, p BushParams) (*World, *Bush) {
	t.Helper()
	world := groundWorld(t, 7, w, h, soilTop, ground, p)
	return world, world.germinate(w/2, soilTop-1)
}

func TestRootCountNeverExceedsCapacity(t *testing.T) {
	p := BushParams{RootSizeMin: 8, RootSizeMax: 8, StopChance: 0, GrowthDelay: 1, MaxBuds: 5}
	capped := 0
	for seed := int64(1); seed <= 20; seed++ {
		world := groundWorld(t, seed, 20, 20, 5, Soil, p)
		b := world.germinate(10, 10)
		require.Equal(t, 8.0, b.MaxRootSize())

		for i := 0; i < 500 && b.Growing(); i++ {
			world.Step()
			require.LessOrEqual(t, float64(b.RootCount()), b.MaxRootSize(), "seed %d", seed)
		}
		if b.RootCount() < 8 {
			continue
		}
		capped++
		require.False(t, b.Growing(), "seed %d", seed)
		for idx := range b.roots {
			x, y := world.grid.Coords(idx)
			assert.Equal(t, MatureRootColor, world.grid.ColorAt(x, y), "root (%d,%d)", x, y)
		}

		cells, colors := snapshot(world)
		for i := 0; i < 10; i++ {
			world.Step()
		}
		after, afterColors := snapshot(world)
		assert.True(t, slices.Equal(cells, after), "finished bush must not change the grid")
		assert.True(t, slices.Equal(colors, afterColors))
	}
	assert.Positive(t, capped)
}

func TestReachingCapacityStopsBothFrontiers(t *testing.T) {
	p := BushParams{RootSizeMin: 1, RootSizeMax: 1, StopChance: 0, GrowthDelay: 1, MaxBuds: 5}
	world, b := plantedBush(t, 10, 10, 5, Soil, p)

	world.Step()

	assert.False(t, b.Growing())
	assert.Empty(t, b.Tips())
	assert.Empty(t, b.RootTips())
	assert.Equal(t, MatureRootColor, world.grid.ColorAt(5, 4))
}

func TestEmptyFrontiersFinishTheBush(t *testing.T) {
	p := BushParams{RootSizeMin: 50, RootSizeMax: 50, StopChance: 0, GrowthDelay: 1, MaxBuds: 5}
	world, b := plantedBush(t, 10, 10, 5, Soil, p)
	b.tips = nil
	b.rootTips = nil

	world.Step()

	assert.False(t, b.Growing())
	assert.Equal(t, MatureRootColor, world.grid.ColorAt(5, 4))
}

func TestGrowthDelaySkipsFrames(t *testing.T) {
	p := BushParams{RootSizeMin: 50, RootSizeMax: 50, StopChance: 0, GrowthDelay: 3, MaxBuds: 5}
	world, b := plantedBush(t, 20, 20, 5, Soil, p)

	cells, _ := snapshot(world)
	world.Step()
	world.Step()
	after, _ := snapshot(world)
	assert.True(t, slices.Equal(cells, after), "no growth before the delay elapses")
	assert.Equal(t, 1, b.RootCount())
	assert.Len(t, b.RootTips(), 1)
	assert.Equal(t, 2, b.counter)

	world.Step()
	assert.Zero(t, b.counter)
	assert.True(t, b.RootCount() > 1 || len(b.RootTips()) == 0, "third frame runs a root step")
}

func TestMudContactBoostsGrowth(t *testing.T) {
	p := BushParams{RootSizeMin: 100, RootSizeMax: 100, StopChance: 0.05, GrowthDelay: 1, MaxBuds: 5}
	mud := 0
	for seed := int64(1); seed <= 5 && mud == 0; seed++ {
		world := groundWorld(t, seed, 40, 40, 5, Mud, p)
		b := world.germinate(20, 10)

		prevSize, prevStop, prevBuds, prevMud := b.MaxRootSize(), b.StopChance(), b.MaxBuds(), b.MudRoots()
		for i := 0; i < 400 && len(b.rootTips) > 0; i++ {
			b.growRoots()
			if b.MudRoots() > prevMud {
				if prevSize < rootSizeCap {
					assert.Greater(t, b.MaxRootSize(), prevSize)
				}
				if prevStop > stopChanceFloor {
					assert.Less(t, b.StopChance(), prevStop)
				}
				if prevBuds < budsCap {
					assert.Greater(t, b.MaxBuds(), prevBuds)
				}
			}
			require.LessOrEqual(t, b.MaxRootSize(), float64(rootSizeCap))
			require.GreaterOrEqual(t, b.StopChance(), stopChanceFloor)
			require.LessOrEqual(t, b.StopChance(), prevStop)
			require.LessOrEqual(t, b.MaxBuds(), budsCap)
			prevSize, prevStop, prevBuds, prevMud = b.MaxRootSize(), b.StopChance(), b.MaxBuds(), b.MudRoots()
		}
		mud = b.MudRoots()
	}
	assert.Positive(t, mud)
}

func TestAbsorbMudSequenceHitsCaps(t *testing.T) {
	_, b := plantedBush(t, 10, 10, 5, Soil, DefaultBushParams())
	b.maxRootSize = 100

	for i := 0; i < 30; i++ {
		size, stop, buds := b.maxRootSize, b.stopChance, b.maxBuds
		b.absorbMud()
		switch {
		case size < rootSizeCap:
			assert.Greater(t, b.maxRootSize, size)
		default:
			assert.Equal(t, float64(rootSizeCap), b.maxRootSize)
		}
		switch {
		case stop > stopChanceFloor:
			assert.Less(t, b.stopChance, stop)
		default:
			assert.Equal(t, stopChanceFloor, b.stopChance)
		}
		switch {
		case buds < budsCap:
			assert.Equal(t, buds+1, b.maxBuds)
		default:
			assert.Equal(t, budsCap, b.maxBuds)
		}
	}
	assert.Equal(t, 30, b.MudRoots())
	assert.Equal(t, float64(rootSizeCap), b.MaxRootSize())
	assert.Equal(t, stopChanceFloor, b.StopChance())
	assert.Equal(t, budsCap, b.MaxBuds())
}

func TestLeafClusterNeverOverwrites(t *testing.T) {
	world := newTestWorld(t, 7, 7)
	fillRows(world, 0, 6, Stone)
	b := NewBush(world.grid, world.reg, world.rng, DefaultBushParams())
	b.Plant(3, 3)

	cells, colors := snapshot(world)
	for i := 0; i < 20; i++ {
		b.spawnLeaves(3, 3, 5)
	}
	after, afterColors := snapshot(world)
	assert.True(t, slices.Equal(cells, after))
	assert.True(t, slices.Equal(colors, afterColors))
	assert.Zero(t, b.LeafCount())
}

func TestLeafClusterFillsOpenNeighborhood(t *testing.T) {
	world := newTestWorld(t, 9, 9)
	b := NewBush(world.grid, world.reg, world.rng, DefaultBushParams())
	b.Plant(4, 4)

	b.spawnLeaves(4, 4, 1)

	require.Positive(t, b.LeafCount())
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if !b.IsLeaf(x, y) {
				continue
			}
			assert.Equal(t, Plant, world.grid.At(x, y))
			assert.LessOrEqual(t, max(abs(x-4), abs(y-4)), 2, "leaf (%d,%d) too far out", x, y)
		}
	}
	assert.Equal(t, Wood, world.grid.At(4, 4))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestCrownWeightsLeanAwayFromOrigin(t *testing.T) {
	world := newTestWorld(t, 30, 30)
	b := NewBush(world.grid, world.reg, world.rng, BushParams{RootSizeMin: 100, RootSizeMax: 100, MaxBuds: 5})
	b.Plant(10, 10)

	w := b.crownWeights(Tip{X: 12, Y: 11})
	want := []float64{1, 1, 1.5, 1.3, 0.8, 2.1, 1.6}
	require.Len(t, w, len(want))
	for i := range want {
		assert.InDelta(t, want[i], w[i], 1e-9, "direction %d", i)
	}

	wide := b.crownWeights(Tip{X: 21, Y: 10})
	assert.InDelta(t, 1.0, wide[0], 1e-9, "vertical direction is never widened")
	assert.InDelta(t, 1.3, wide[1], 1e-9)
	assert.InDelta(t, 1.8, wide[2], 1e-9)
}

func TestCrownGrowsIntoOwnLeavesOnly(t *testing.T) {
	world := newTestWorld(t, 9, 9)
	b := NewBush(world.grid, world.reg, world.rng, DefaultBushParams())
	b.Plant(4, 4)
	b.spawnLeaves(4, 4, 1)

	var lx, ly int
	found := false
	for idx := range b.leaves {
		lx, ly = world.grid.Coords(idx)
		found = true
		break
	}
	require.True(t, found)
	assert.True(t, b.ownLeaf(lx, ly))

	put(world, lx, ly, Sand)
	assert.False(t, b.ownLeaf(lx, ly), "a leaf painted over is no longer foliage")
}

func TestFullGrowthStaysInsideSubstrate(t *testing.T) {
	p := BushParams{RootSizeMin: 60, RootSizeMax: 60, StopChance: 0.05, GrowthDelay: 1, MaxBuds: 5}
	world, b := plantedBush(t, 40, 40, 20, Soil, p)

	for i := 0; i < 5000 && b.Growing(); i++ {
		world.Step()
	}
	for idx := range b.roots {
		x, y := world.grid.Coords(idx)
		if x == 20 && y == 19 {
			continue
		}
		assert.GreaterOrEqual(t, y, 20, "root (%d,%d) above the soil line", x, y)
		assert.Equal(t, Root, world.grid.At(x, y))
	}
	for idx := range b.wood {
		x, y := world.grid.Coords(idx)
		assert.Less(t, y, 20, "wood (%d,%d) inside the soil", x, y)
	}
}

func TestMarkParts(t *testing.T) {
	world, b := plantedBush(t, 10, 10, 5, Soil, BushParams{RootSizeMin: 50, RootSizeMax: 50, GrowthDelay: 1, MaxBuds: 5})
	b.leaves[world.grid.Index(1, 1)] = struct{}{}
	b.roots[world.grid.Index(5, 6)] = struct{}{}

	parts := make([]Part, world.w*world.h)
	b.MarkParts(parts)

	assert.Equal(t, PartTip, parts[world.grid.Index(5, 4)], "origin holds both starting tips")
	assert.Equal(t, PartLeaf, parts[world.grid.Index(1, 1)])
	assert.Equal(t, PartRoot, parts[world.grid.Index(5, 6)])
	assert.Equal(t, PartNone, parts[world.grid.Index(0, 0)])

	b.tips, b.rootTips = nil, nil
	b.MarkParts(parts)
	assert.Equal(t, PartWood, parts[world.grid.Index(5, 4)])
}
