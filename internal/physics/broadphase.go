package physics

import (
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Bounds is the bounding sphere the broad phase sees for one object.
// Unbounded objects (planes) pair with everything.
type Bounds struct {
	Center    rl.Vector3
	Radius    float32
	Unbounded bool
}

// Pair holds two object indices with A < B
type Pair struct {
	A, B int
}

// BroadPhase narrows the pairs the scene tests each frame.
// Returned pairs must have A < B; order does not matter, the scene sorts them.
// A broad phase may return extra pairs but must not drop overlapping ones.
type BroadPhase interface {
	Pairs(bounds []Bounds) ([]Pair, error)
}

// BoundsOf returns the bounding sphere of an object at its current position
func BoundsOf(o *Object) Bounds {
	switch s := o.shape.(type) {
	case Sphere:
		return Bounds{Center: o.Center(), Radius: s.Radius}
	case AABB:
		return Bounds{Center: o.Center(), Radius: rl.Vector3Length(s.Extents)}
	}
	return Bounds{Unbounded: true}
}

// AllPairs is the exhaustive broad phase: every i < j
type AllPairs struct{}

func (AllPairs) Pairs(bounds []Bounds) ([]Pair, error) {
	n := len(bounds)
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: i, B: j})
		}
	}
	return pairs, nil
}

// DefaultCellSize is the grid cell edge used when none is given
const DefaultCellSize = 5.0

// maxCellsPerObject caps how many cells one object may occupy before it is
// treated as unbounded
const maxCellsPerObject = 4096

// CellKey addresses one cell of the spatial hash
type CellKey struct {
	X, Y, Z int
}

// Grid is a spatial hash broad phase. Every bounded object is inserted into
// each cell its bounding sphere touches; objects sharing a cell become a pair.
type Grid struct {
	CellSize float32

	cells map[CellKey][]int
	seen  map[Pair]struct{}
}

func NewGrid(cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		CellSize: cellSize,
		cells:    make(map[CellKey][]int),
		seen:     make(map[Pair]struct{}),
	}
}

func (g *Grid) posToCell(pos rl.Vector3) CellKey {
	return CellKey{
		X: int(math32.Floor(pos.X / g.CellSize)),
		Y: int(math32.Floor(pos.Y / g.CellSize)),
		Z: int(math32.Floor(pos.Z / g.CellSize)),
	}
}

// rebuild clears and repopulates the grid, returning the unbounded indices
func (g *Grid) rebuild(bounds []Bounds) []int {
	for k := range g.cells {
		delete(g.cells, k)
	}

	var unbounded []int
	for i, b := range bounds {
		if b.Unbounded || math32.IsInf(b.Radius, 0) || math32.IsNaN(b.Radius) {
			unbounded = append(unbounded, i)
			continue
		}
		reach := rl.Vector3{X: b.Radius, Y: b.Radius, Z: b.Radius}
		lo := g.posToCell(rl.Vector3Subtract(b.Center, reach))
		hi := g.posToCell(rl.Vector3Add(b.Center, reach))
		if (hi.X-lo.X+1)*(hi.Y-lo.Y+1)*(hi.Z-lo.Z+1) > maxCellsPerObject {
			unbounded = append(unbounded, i)
			continue
		}
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					key := CellKey{x, y, z}
					g.cells[key] = append(g.cells[key], i)
				}
			}
		}
	}
	return unbounded
}

func (g *Grid) Pairs(bounds []Bounds) ([]Pair, error) {
	if g.cells == nil {
		g.cells = make(map[CellKey][]int)
	}
	if g.seen == nil {
		g.seen = make(map[Pair]struct{})
	}
	for k := range g.seen {
		delete(g.seen, k)
	}

	unbounded := g.rebuild(bounds)

	var pairs []Pair
	add := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		p := Pair{A: a, B: b}
		if _, ok := g.seen[p]; ok {
			return
		}
		g.seen[p] = struct{}{}
		pairs = append(pairs, p)
	}

	for _, members := range g.cells {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				add(members[i], members[j])
			}
		}
	}

	// Planes are candidates against every other object
	for _, u := range unbounded {
		for i := range bounds {
			if i != u {
				add(u, i)
			}
		}
	}

	return pairs, nil
}

// sortPairs puts pairs into the i<j sweep order of the exhaustive loop
func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}
