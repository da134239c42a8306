package sand

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sandgarden/internal/core"
)

// ID identifies a material. It doubles as the cell value stored in the grid.
type ID uint8

// Default material IDs. Empty must stay zero so a cleared ByteGrid is empty.
const (
	Empty ID = iota
	Sand
	Stone
	Water
	Seed
	Wood
	Plant
	Soil
	Root
	Mud
	Gravel
)

// Category selects the behavior rule that updates a material each tick.
type Category uint8

const (
	Immovable Category = iota
	Movable
	GravelLike
	Liquid
	Gas
	Falling
)

func (c Category) String() string {
	switch c {
	case Immovable:
		return "immovable"
	case Movable:
		return "movable"
	case GravelLike:
		return "gravel"
	case Liquid:
		return "liquid"
	case Gas:
		return "gas"
	case Falling:
		return "falling"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// OffColor is the color cache value of every empty cell. Sampled colors are
// always opaque, so it never collides with an occupied cell.
var OffColor = color.RGBA{}

// Material is the immutable definition of a substance.
type Material struct {
	Name       string
	Color      color.RGBA
	Density    float64
	Solid      bool
	Dispersion int
	Variance   float64
}

// Registry maps material IDs to definitions and behavior categories. It is
// never mutated after construction and is safe to share between worlds.
type Registry struct {
	materials  []Material
	categories []Category
	byName     map[string]ID
}

type materialDef struct {
	id       ID
	name     string
	hex      string
	density  float64
	solid    bool
	disperse int
	category Category
}

var defaultDefs = []materialDef{
	{Empty, "empty", "#000000", 0, false, 0, Immovable},
	{Sand, "sand", "#e6c229", 1, false, 0, Movable},
	{Stone, "stone", "#808080", 2, true, 0, Immovable},
	{Water, "water", "#1e90ff", 0.5, false, 5, Liquid},
	{Seed, "seed", "#8b4513", 1.5, false, 0, Falling},
	{Wood, "wood", "#8b4513", 2, true, 0, Immovable},
	{Plant, "plant", "#2e8b57", 1.2, true, 0, Immovable},
	{Soil, "soil", "#5c4033", 1.3, false, 0, Movable},
	{Root, "root", "#ff69b4", 2, true, 0, Immovable},
	{Mud, "mud", "#4b2f0a", 1.3, false, 0, Movable},
	{Gravel, "gravel", "#a9a9a9", 1.6, false, 0, GravelLike},
}

const defaultVariance = 0.2

var defaultRegistry = buildDefaultRegistry()

// DefaultRegistry returns the shared registry of built-in materials.
func DefaultRegistry() *Registry { return defaultRegistry }

func buildDefaultRegistry() *Registry {
	r := &Registry{byName: make(map[string]ID, len(defaultDefs))}
	for _, def := range defaultDefs {
		if int(def.id) != len(r.materials) {
			panic(fmt.Sprintf("sand: material %q declared out of order", def.name))
		}
		r.materials = append(r.materials, Material{
			Name:       def.name,
			Color:      MustParseHex(def.hex),
			Density:    def.density,
			Solid:      def.solid,
			Dispersion: def.disperse,
			Variance:   defaultVariance,
		})
		r.categories = append(r.categories, def.category)
		r.byName[def.name] = def.id
	}
	return r
}

// Extend returns a copy of the registry with one more material appended and
// the ID assigned to it. The receiver is left untouched.
func (r *Registry) Extend(m Material, c Category) (*Registry, ID, error) {
	if len(r.materials) > 255 {
		return nil, 0, fmt.Errorf("registry full: %d materials", len(r.materials))
	}
	if _, dup := r.byName[m.Name]; dup {
		return nil, 0, fmt.Errorf("material %q already registered", m.Name)
	}
	next := &Registry{
		materials:  append(append([]Material(nil), r.materials...), m),
		categories: append(append([]Category(nil), r.categories...), c),
		byName:     make(map[string]ID, len(r.byName)+1),
	}
	for name, id := range r.byName {
		next.byName[name] = id
	}
	id := ID(len(r.materials))
	next.byName[m.Name] = id
	return next, id, nil
}

// Len reports the number of registered materials, Empty included.
func (r *Registry) Len() int { return len(r.materials) }

// Valid reports whether id is registered.
func (r *Registry) Valid(id ID) bool { return int(id) < len(r.materials) }

// Material returns the definition for id, or the Empty definition when id is
// not registered.
func (r *Registry) Material(id ID) Material {
	if !r.Valid(id) {
		return r.materials[Empty]
	}
	return r.materials[id]
}

// Category returns the behavior category of id.
func (r *Registry) Category(id ID) Category {
	if !r.Valid(id) {
		return Immovable
	}
	return r.categories[id]
}

// Density is shorthand for Material(id).Density.
func (r *Registry) Density(id ID) float64 { return r.Material(id).Density }

// Lookup resolves a material name.
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Label returns the display name of id, e.g. "Gravel".
func (r *Registry) Label(id ID) string {
	return cases.Title(language.English).String(r.Material(id).Name)
}

// SampleColor returns a jittered display color for a freshly placed cell.
// Each channel moves by a uniform offset within ±(variance*255)/2.
func (r *Registry) SampleColor(id ID, rng *core.RNG) color.RGBA {
	if id == Empty || !r.Valid(id) {
		return OffColor
	}
	m := r.materials[id]
	spread := m.Variance * 255
	jitter := func(c uint8) uint8 {
		v := float64(c) + (rng.Float64()-0.5)*spread
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return color.RGBA{R: jitter(m.Color.R), G: jitter(m.Color.G), B: jitter(m.Color.B), A: 255}
}

// MustParseHex parses a "#rrggbb" color and panics on malformed input. It is
// meant for package-level tables.
func MustParseHex(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("sand: bad color %q: %v", hex, err))
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// HexColor formats an opaque color as "#rrggbb".
func HexColor(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}
