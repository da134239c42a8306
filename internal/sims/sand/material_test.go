package sand

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandgarden/internal/core"
)

func TestDefaultRegistryCategories(t *testing.T) {
	reg := DefaultRegistry()
	cases := map[ID]Category{
		Empty:  Immovable,
		Sand:   Movable,
		Soil:   Movable,
		Mud:    Movable,
		Stone:  Immovable,
		Wood:   Immovable,
		Plant:  Immovable,
		Root:   Immovable,
		Gravel: GravelLike,
		Water:  Liquid,
		Seed:   Falling,
	}
	for id, want := range cases {
		assert.Equal(t, want, reg.Category(id), "material %s", reg.Material(id).Name)
	}
	assert.Equal(t, 11, reg.Len())
	assert.Equal(t, 0.0, reg.Density(Empty))
	assert.False(t, reg.Material(Empty).Solid)
	assert.Equal(t, 5, reg.Material(Water).Dispersion)

	id, ok := reg.Lookup("gravel")
	require.True(t, ok)
	assert.Equal(t, Gravel, id)
	_, ok = reg.Lookup("lava")
	assert.False(t, ok)
}

func TestSampleColorStaysWithinVariance(t *testing.T) {
	reg := DefaultRegistry()
	rng := core.NewRNG(1)
	base := reg.Material(Sand).Color
	limit := reg.Material(Sand).Variance * 255 / 2
	for i := 0; i < 500; i++ {
		c := reg.SampleColor(Sand, rng)
		require.Equal(t, uint8(255), c.A)
		assert.LessOrEqual(t, math.Abs(float64(c.R)-float64(base.R)), limit+1)
		assert.LessOrEqual(t, math.Abs(float64(c.G)-float64(base.G)), limit+1)
		assert.LessOrEqual(t, math.Abs(float64(c.B)-float64(base.B)), limit+1)
	}
	assert.Equal(t, OffColor, reg.SampleColor(Empty, rng))
}

func TestExtendLeavesReceiverUntouched(t *testing.T) {
	base := DefaultRegistry()
	steam := Material{Name: "steam", Color: MustParseHex("#dddddd"), Density: 0.1, Dispersion: 3, Variance: 0.1}
	ext, id, err := base.Extend(steam, Gas)
	require.NoError(t, err)

	assert.Equal(t, ID(base.Len()), id)
	assert.Equal(t, base.Len()+1, ext.Len())
	assert.False(t, base.Valid(id))
	assert.Equal(t, Gas, ext.Category(id))
	got, ok := ext.Lookup("steam")
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, _, err = ext.Extend(steam, Gas)
	assert.Error(t, err)
}

func TestLabelsAndHex(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, "Gravel", reg.Label(Gravel))
	assert.Equal(t, "#e6c229", HexColor(MustParseHex("#e6c229")))
	assert.Equal(t, "#0000ff", HexColor(MatureRootColor))
}

func TestHotkeys(t *testing.T) {
	id, ok := HotkeyMaterial('6')
	require.True(t, ok)
	assert.Equal(t, Gravel, id)
	_, ok = HotkeyMaterial('x')
	assert.False(t, ok)
}
