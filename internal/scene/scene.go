// Package scene describes the initial layout of a sand world: horizontal
// material layers stacked from the bottom edge plus brush patches.
package scene

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scenes/*.yaml
var builtin embed.FS

// ErrUnknownScene is returned when a name matches neither a builtin scene
// nor a readable file.
var ErrUnknownScene = errors.New("unknown scene")

// Layer fills Rows rows of material starting Bottom rows above the bottom
// edge. Width 0 spans the whole grid from X.
type Layer struct {
	Material string `yaml:"material"`
	Rows     int    `yaml:"rows"`
	Bottom   int    `yaml:"bottom"`
	X        int    `yaml:"x"`
	Width    int    `yaml:"width"`
}

// Patch paints a disc of material. A negative Y counts up from the bottom
// edge; radius 0 places a single cell.
type Patch struct {
	Material string `yaml:"material"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Radius   int    `yaml:"radius"`
}

// Scene is a named initial layout.
type Scene struct {
	Name    string  `yaml:"name"`
	Layers  []Layer `yaml:"layers"`
	Patches []Patch `yaml:"patches"`
}

// Rect is a resolved, clipped cell rectangle: [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

// Bounds resolves the layer against a w x h grid.
func (l Layer) Bounds(w, h int) Rect {
	r := Rect{
		X0: l.X,
		X1: w,
		Y0: h - l.Bottom - l.Rows,
		Y1: h - l.Bottom,
	}
	if l.Width > 0 {
		r.X1 = l.X + l.Width
	}
	r.X0 = max(r.X0, 0)
	r.Y0 = max(r.Y0, 0)
	r.X1 = min(r.X1, w)
	r.Y1 = min(r.Y1, h)
	return r
}

// Center resolves the patch center against a grid of height h.
func (p Patch) Center(h int) (int, int) {
	if p.Y < 0 {
		return p.X, h + p.Y
	}
	return p.X, p.Y
}

// Materials lists every material name the scene refers to.
func (s *Scene) Materials() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, l := range s.Layers {
		add(l.Material)
	}
	for _, p := range s.Patches {
		add(p.Material)
	}
	return names
}

// Validate checks the scene for structural mistakes.
func (s *Scene) Validate() error {
	for i, l := range s.Layers {
		if l.Material == "" {
			return fmt.Errorf("layer %d: missing material", i)
		}
		if l.Rows <= 0 {
			return fmt.Errorf("layer %d (%s): rows must be positive, got %d", i, l.Material, l.Rows)
		}
		if l.Bottom < 0 || l.Width < 0 {
			return fmt.Errorf("layer %d (%s): bottom and width must not be negative", i, l.Material)
		}
	}
	for i, p := range s.Patches {
		if p.Material == "" {
			return fmt.Errorf("patch %d: missing material", i)
		}
		if p.Radius < 0 {
			return fmt.Errorf("patch %d (%s): radius must not be negative", i, p.Material)
		}
	}
	return nil
}

// Parse decodes a YAML scene.
func Parse(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return &s, nil
}

// Load reads a scene from a YAML file.
func Load(file string) (*Scene, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", file, err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return s, nil
}

// Builtin returns one of the embedded scenes.
func Builtin(name string) (*Scene, bool) {
	raw, err := builtin.ReadFile("scenes/" + name + ".yaml")
	if err != nil {
		return nil, false
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	return s, true
}

// BuiltinNames lists the embedded scenes.
func BuiltinNames() []string {
	entries, err := builtin.ReadDir("scenes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Resolve returns the builtin scene called ref, or loads ref as a file path.
func Resolve(ref string) (*Scene, error) {
	if s, ok := Builtin(ref); ok {
		return s, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, ref)
	}
	return Load(ref)
}
