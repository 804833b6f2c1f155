// Package grid stores the letters of a tower in a dense 3D volume and decides
// whether a placement may be committed.
//
// The grid is the only authority on cell occupancy. Checks never fail loudly:
// [Grid.CanFit] and [Grid.HasCollision] return booleans for the caller to
// branch on, and [Grid.Insert] writes unconditionally. There is no undo; a
// caller that abandons a speculative branch discards the grid.
//
// A Grid is not safe for concurrent use. Parallel builds each own a grid.
package grid

import (
	"github.com/matzehuels/wordtower/pkg/geom"
)

// Cell is the content of one grid position.
type Cell rune

const (
	// Empty marks an unused cell.
	Empty Cell = 0

	// Blocker marks a cell no placement may use.
	Blocker Cell = -1
)

// IsLetter reports whether c holds a letter.
func (c Cell) IsLetter() bool { return c > 0 }

func (c Cell) String() string {
	switch c {
	case Empty:
		return "."
	case Blocker:
		return "#"
	}
	return string(rune(c))
}

// Grid is a width x depth x height cell volume.
//
// The horizontal bounds are [0, width) and [0, depth). The vertical bound
// applies to the level of z along the convention's step (see
// [geom.Convention.Level]), so the volume always extends from z=0 in the
// direction vertical words grow.
type Grid struct {
	width, depth, height int

	conv      geom.Convention
	vocab     *geom.Vocabulary
	cells     []Cell
	committed []geom.Placement
}

// New creates an empty grid over vocab. Non-positive dimensions yield a
// grid that nothing fits in.
func New(width, depth, height int, vocab *geom.Vocabulary, conv geom.Convention) *Grid {
	width, depth, height = max(width, 0), max(depth, 0), max(height, 0)
	return &Grid{
		width:  width,
		depth:  depth,
		height: height,
		conv:   conv.OrDefault(),
		vocab:  vocab,
		cells:  make([]Cell, width*depth*height),
	}
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, depth, height int) { return g.width, g.depth, g.height }

// Convention returns the vertical convention the grid was built with.
func (g *Grid) Convention() geom.Convention { return g.conv }

// Vocabulary returns the word list placements are resolved against.
func (g *Grid) Vocabulary() *geom.Vocabulary { return g.vocab }

// InBounds reports whether c lies inside the volume.
func (g *Grid) InBounds(c geom.Coord) bool {
	level := g.conv.Level(c.Z)
	return c.X >= 0 && c.X < g.width &&
		c.Y >= 0 && c.Y < g.depth &&
		level >= 0 && level < g.height
}

func (g *Grid) index(c geom.Coord) int {
	return c.X + g.width*(c.Y+g.depth*g.conv.Level(c.Z))
}

// At returns the cell at c. The second result is false outside the volume.
func (g *Grid) At(c geom.Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Empty, false
	}
	return g.cells[g.index(c)], true
}

// CanFit reports whether every letter of p lies inside the volume.
// Placements of unknown words or along unknown axes never fit.
func (g *Grid) CanFit(p geom.Placement) bool {
	n := g.vocab.Len(p.WordID)
	if n == 0 || !p.Axis.Valid() {
		return false
	}
	return g.InBounds(p.Origin) && g.InBounds(g.conv.CellAt(p, n-1))
}

// HasCollision reports whether p would overwrite a blocker or a different
// letter. Sharing a cell that already holds the same letter is an
// intersection and does not collide. Cells outside the volume are ignored;
// use [Grid.CanFit] for bounds.
func (g *Grid) HasCollision(p geom.Placement) bool {
	letters := g.vocab.Letters(p.WordID)
	if len(letters) == 0 || !p.Axis.Valid() {
		return true
	}
	for i, c := range g.conv.Cells(p, len(letters)) {
		cur, ok := g.At(c)
		if !ok || cur == Empty {
			continue
		}
		if cur == Blocker || cur != Cell(letters[i]) {
			return true
		}
	}
	return false
}

// Insert writes the letters of p into the grid and appends p to the commit
// log. It does not check legality. Letters falling outside the volume are
// dropped.
func (g *Grid) Insert(p geom.Placement) {
	letters := g.vocab.Letters(p.WordID)
	for i, c := range g.conv.Cells(p, len(letters)) {
		if g.InBounds(c) {
			g.cells[g.index(c)] = Cell(letters[i])
		}
	}
	g.committed = append(g.committed, p)
}

// TryInsert commits p if it fits and does not collide.
func (g *Grid) TryInsert(p geom.Placement) bool {
	if !g.CanFit(p) || g.HasCollision(p) {
		return false
	}
	g.Insert(p)
	return true
}

// SetBlocker marks c as unplaceable. Coordinates outside the volume are
// ignored.
func (g *Grid) SetBlocker(c geom.Coord) {
	if g.InBounds(c) {
		g.cells[g.index(c)] = Blocker
	}
}

// ListCommitted returns the inserted placements in insertion order.
func (g *Grid) ListCommitted() []geom.Placement {
	out := make([]geom.Placement, len(g.committed))
	copy(out, g.committed)
	return out
}
