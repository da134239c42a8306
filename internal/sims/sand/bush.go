package sand

import (
	"math"
	"slices"

	"sandgarden/internal/core"
)

const (
	rootSizeCap       = 1000
	rootSizeMudGrowth = 1.5
	stopChanceFloor   = 0.01
	stopChanceMudRate = 0.8
	budsCap           = 8

	growingLeafChance   = 0.5
	terminalLeafChance  = 0.7
	leafChancePerMud    = 0.1
	leafDistanceFalloff = 0.2
	crownWideningRatio  = 0.1
)

// MatureRootColor marks the roots of a bush that stopped growing.
var MatureRootColor = MustParseHex("#0000ff")

// BushParams seeds the growth parameters of a new bush.
type BushParams struct {
	RootSizeMin int     `toml:"root_size_min"`
	RootSizeMax int     `toml:"root_size_max"`
	StopChance  float64 `toml:"stop_chance"`
	GrowthDelay int     `toml:"growth_delay"`
	MaxBuds     int     `toml:"max_buds"`
}

// DefaultBushParams returns the stock growth parameters.
func DefaultBushParams() BushParams {
	return BushParams{
		RootSizeMin: 100,
		RootSizeMax: 500,
		StopChance:  0.05,
		GrowthDelay: 2,
		MaxBuds:     5,
	}
}

// Tip is an active growth point and the buds it has left to spend.
type Tip struct {
	X, Y int
	Buds int
}

type direction struct {
	dx, dy int
	weight float64
}

var rootDirections = [...]direction{
	{0, 1, 2},
	{-1, 1, 1},
	{1, 1, 1},
	{-1, 0, 0.5},
	{1, 0, 0.5},
}

var crownDirections = [...]direction{
	{0, -1, 1},
	{-1, 0, 1},
	{1, 0, 1},
	{1, -1, 0.8},
	{-1, -1, 0.8},
	{1, 1, 0.6},
	{-1, 1, 0.6},
}

// leafOffsets covers the 8 neighbors plus the ring at distance 2.
var leafOffsets = func() []offset {
	var offs []offset
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offs = append(offs, offset{dx, dy})
		}
	}
	return offs
}()

type cellSet map[int]struct{}

func (s cellSet) has(idx int) bool {
	_, ok := s[idx]
	return ok
}

// Bush grows a plant out of the grid: roots push down through soil and mud
// while a woody crown with leaves branches into open air.
type Bush struct {
	grid *Grid
	reg  *Registry
	rng  *core.RNG

	originX, originY int

	wood   cellSet
	roots  cellSet
	leaves cellSet

	tips     []Tip
	rootTips []Tip

	maxRootSize float64
	stopChance  float64
	growthDelay int
	maxBuds     int
	mudRoots    int

	growing bool
	counter int

	weights []float64
	scratch []offset
}

// NewBush returns an unplanted bush bound to grid.
func NewBush(grid *Grid, reg *Registry, rng *core.RNG, p BushParams) *Bush {
	lo, hi := p.RootSizeMin, p.RootSizeMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return &Bush{
		grid:        grid,
		reg:         reg,
		rng:         rng,
		wood:        make(cellSet),
		roots:       make(cellSet),
		leaves:      make(cellSet),
		maxRootSize: float64(lo + rng.IntN(hi-lo+1)),
		stopChance:  p.StopChance,
		growthDelay: p.GrowthDelay,
		maxBuds:     p.MaxBuds,
		weights:     make([]float64, len(crownDirections)),
		scratch:     make([]offset, len(leafOffsets)),
	}
}

// Plant turns (x, y) into the wood origin of the bush. The origin counts as
// both wood and root and seeds one crown tip and one root tip.
func (b *Bush) Plant(x, y int) {
	b.originX, b.originY = x, y
	b.grid.Set(x, y, Wood, b.reg.SampleColor(Wood, b.rng))
	idx := b.grid.Index(x, y)
	b.wood[idx] = struct{}{}
	b.roots[idx] = struct{}{}
	b.tips = append(b.tips, Tip{X: x, Y: y, Buds: b.maxBuds})
	b.rootTips = append(b.rootTips, Tip{X: x, Y: y, Buds: b.maxBuds})
	b.growing = true
}

// Step advances growth by one frame and reports whether the bush stopped
// growing during this call.
func (b *Bush) Step() bool {
	if !b.growing {
		return false
	}
	b.counter++
	if b.counter < b.growthDelay {
		return false
	}
	b.counter = 0

	if len(b.tips) == 0 && len(b.rootTips) == 0 {
		b.finish()
		return true
	}
	if b.rootsFull() {
		b.tips = nil
		b.rootTips = nil
		b.finish()
		return true
	}

	b.growRoots()
	if !b.rootsFull() && len(b.rootTips) > 0 {
		b.growCrown()
	}
	return false
}

func (b *Bush) rootsFull() bool {
	return float64(len(b.roots)) >= b.maxRootSize
}

func (b *Bush) finish() {
	for idx := range b.roots {
		x, y := b.grid.Coords(idx)
		if id := b.grid.At(x, y); id == Root || id == Wood {
			b.grid.Recolor(x, y, MatureRootColor)
		}
	}
	b.growing = false
}

func (b *Bush) growRoots() {
	if len(b.rootTips) == 0 {
		return
	}
	i := b.rng.IntN(len(b.rootTips))
	if b.rng.Float64() < b.stopChance {
		b.rootTips = slices.Delete(b.rootTips, i, i+1)
		return
	}

	for j, d := range rootDirections {
		b.weights[j] = d.weight
	}
	d := rootDirections[b.rng.Weighted(b.weights[:len(rootDirections)])]
	t := b.rootTips[i]
	nx, ny := t.X+d.dx, t.Y+d.dy
	target := b.grid.At(nx, ny)
	if !b.grid.InBounds(nx, ny) || (target != Soil && target != Mud) || b.rootsFull() {
		b.rootTips = slices.Delete(b.rootTips, i, i+1)
		return
	}

	if target == Mud {
		b.absorbMud()
	}
	b.grid.Set(nx, ny, Root, b.reg.SampleColor(Root, b.rng))
	b.roots[b.grid.Index(nx, ny)] = struct{}{}
	b.rootTips[i].Buds--
	spent := b.rootTips[i].Buds <= 0
	b.rootTips = append(b.rootTips, Tip{X: nx, Y: ny, Buds: b.maxBuds})
	if spent {
		b.rootTips = slices.Delete(b.rootTips, i, i+1)
	}
}

// absorbMud applies the permanent boost a root gets from reaching mud.
func (b *Bush) absorbMud() {
	b.mudRoots++
	b.maxRootSize = math.Min(b.maxRootSize*rootSizeMudGrowth, rootSizeCap)
	b.stopChance = math.Max(b.stopChance*stopChanceMudRate, stopChanceFloor)
	b.maxBuds = min(b.maxBuds+1, budsCap)
}

func (b *Bush) growCrown() {
	if len(b.tips) == 0 {
		return
	}
	leafChance := terminalLeafChance + float64(b.mudRoots)*leafChancePerMud

	i := b.rng.IntN(len(b.tips))
	t := b.tips[i]
	if b.rng.Float64() < b.stopChance {
		b.tips = slices.Delete(b.tips, i, i+1)
		b.spawnLeaves(t.X, t.Y, leafChance)
		return
	}

	d := crownDirections[b.rng.Weighted(b.crownWeights(t))]
	nx, ny := t.X+d.dx, t.Y+d.dy
	if !b.grid.InBounds(nx, ny) || (b.grid.At(nx, ny) != Empty && !b.ownLeaf(nx, ny)) {
		b.tips = slices.Delete(b.tips, i, i+1)
		b.spawnLeaves(t.X, t.Y, leafChance)
		return
	}

	idx := b.grid.Index(nx, ny)
	delete(b.leaves, idx)
	b.grid.Set(nx, ny, Wood, b.reg.SampleColor(Wood, b.rng))
	b.wood[idx] = struct{}{}
	b.tips[i].Buds--
	spent := b.tips[i].Buds <= 0
	b.tips = append(b.tips, Tip{X: nx, Y: ny, Buds: b.maxBuds})
	if spent {
		b.tips = slices.Delete(b.tips, i, i+1)
		b.spawnLeaves(t.X, t.Y, leafChance)
	}
	b.spawnLeaves(nx, ny, growingLeafChance)
}

// crownWeights biases branch directions away from the origin.
func (b *Bush) crownWeights(t Tip) []float64 {
	dx := t.X - b.originX
	dy := t.Y - b.originY
	wide := math.Abs(float64(dx)) > b.maxRootSize*crownWideningRatio
	w := b.weights[:len(crownDirections)]
	for j, d := range crownDirections {
		w[j] = d.weight
		if d.dx*dx > 0 {
			w[j] += 0.5
		}
		if d.dy*dy > 0 {
			w[j] += 1.0
		}
		if wide && d.dx != 0 {
			w[j] += 0.3
		}
	}
	return w
}

func (b *Bush) ownLeaf(x, y int) bool {
	return b.leaves.has(b.grid.Index(x, y)) && b.grid.At(x, y) == Plant
}

// spawnLeaves scatters plant cells over empty cells around (x, y), more
// densely near the center.
func (b *Bush) spawnLeaves(x, y int, chance float64) {
	offs := b.scratch[:len(leafOffsets)]
	copy(offs, leafOffsets)
	b.rng.Shuffle(len(offs), func(i, j int) { offs[i], offs[j] = offs[j], offs[i] })

	for _, o := range offs {
		lx, ly := x+o.dx, y+o.dy
		if !b.grid.InBounds(lx, ly) || b.grid.At(lx, ly) != Empty {
			continue
		}
		dist := math.Hypot(float64(o.dx), float64(o.dy))
		p := chance * (1 - leafDistanceFalloff*dist) * (0.8 + 0.4*b.rng.Float64())
		if b.rng.Float64() < p {
			b.grid.Set(lx, ly, Plant, b.reg.SampleColor(Plant, b.rng))
			b.leaves[b.grid.Index(lx, ly)] = struct{}{}
		}
	}
}

// Origin returns the planted coordinate.
func (b *Bush) Origin() (int, int) { return b.originX, b.originY }

// Growing reports whether the bush still changes the grid.
func (b *Bush) Growing() bool { return b.growing }

// RootCount returns the number of cells claimed as root, origin included.
func (b *Bush) RootCount() int { return len(b.roots) }

// WoodCount returns the number of cells claimed as wood.
func (b *Bush) WoodCount() int { return len(b.wood) }

// LeafCount returns the number of cells currently marked as leaves.
func (b *Bush) LeafCount() int { return len(b.leaves) }

// MaxRootSize returns the current root capacity.
func (b *Bush) MaxRootSize() float64 { return b.maxRootSize }

// StopChance returns the current per-step chance of dropping a tip.
func (b *Bush) StopChance() float64 { return b.stopChance }

// MaxBuds returns the bud count given to new tips.
func (b *Bush) MaxBuds() int { return b.maxBuds }

// MudRoots returns how many roots grew into mud.
func (b *Bush) MudRoots() int { return b.mudRoots }

// Tips returns a copy of the crown frontier.
func (b *Bush) Tips() []Tip { return slices.Clone(b.tips) }

// RootTips returns a copy of the root frontier.
func (b *Bush) RootTips() []Tip { return slices.Clone(b.rootTips) }

// IsRoot reports whether (x, y) was claimed as root by this bush.
func (b *Bush) IsRoot(x, y int) bool { return b.grid.InBounds(x, y) && b.roots.has(b.grid.Index(x, y)) }

// IsWood reports whether (x, y) was claimed as wood by this bush.
func (b *Bush) IsWood(x, y int) bool { return b.grid.InBounds(x, y) && b.wood.has(b.grid.Index(x, y)) }

// IsLeaf reports whether (x, y) is marked as one of this bush's leaves.
func (b *Bush) IsLeaf(x, y int) bool { return b.grid.InBounds(x, y) && b.leaves.has(b.grid.Index(x, y)) }

// Part labels what a bush claimed a cell as.
type Part uint8

const (
	PartNone Part = iota
	PartRoot
	PartWood
	PartLeaf
	PartTip
)

// MarkParts writes the parts of the bush into dst, indexed like the grid.
// Wood wins over root at the origin and active tips over everything else.
// Cells the bush never claimed are left untouched.
func (b *Bush) MarkParts(dst []Part) {
	mark := func(set cellSet, p Part) {
		for idx := range set {
			if idx < len(dst) {
				dst[idx] = p
			}
		}
	}
	mark(b.roots, PartRoot)
	mark(b.leaves, PartLeaf)
	mark(b.wood, PartWood)
	for _, tips := range [2][]Tip{b.tips, b.rootTips} {
		for _, t := range tips {
			if idx := b.grid.Index(t.X, t.Y); idx < len(dst) {
				dst[idx] = PartTip
			}
		}
	}
}
