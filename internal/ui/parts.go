package ui

import (
	"image/color"

	"sandgarden/internal/sims/sand"
)

// Layers selects which bush parts the overlay shows.
type Layers struct {
	Roots  bool
	Wood   bool
	Leaves bool
	Tips   bool
}

// AllLayers shows every part.
func AllLayers() Layers { return Layers{Roots: true, Wood: true, Leaves: true, Tips: true} }

func (l Layers) shows(p sand.Part) bool {
	switch p {
	case sand.PartRoot:
		return l.Roots
	case sand.PartWood:
		return l.Wood
	case sand.PartLeaf:
		return l.Leaves
	case sand.PartTip:
		return l.Tips
	}
	return false
}

// partPalette tints overlay cells, indexed by sand.Part.
var partPalette = []color.RGBA{
	sand.PartNone: {},
	sand.PartRoot: {R: 255, G: 80, B: 200, A: 150},
	sand.PartWood: {R: 255, G: 170, B: 40, A: 150},
	sand.PartLeaf: {R: 60, G: 255, B: 90, A: 130},
	sand.PartTip:  {R: 255, G: 255, B: 255, A: 230},
}

// fillPartMask writes the visible parts of every bush into mask, one byte
// per grid cell. parts is scratch space of the same length.
func fillPartMask(mask []uint8, parts []sand.Part, bushes []*sand.Bush, show Layers) {
	clear(parts)
	for _, b := range bushes {
		b.MarkParts(parts)
	}
	for i, p := range parts {
		if show.shows(p) {
			mask[i] = uint8(p)
		} else {
			mask[i] = uint8(sand.PartNone)
		}
	}
}
