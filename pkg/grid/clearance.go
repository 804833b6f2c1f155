package grid

import "github.com/matzehuels/wordtower/pkg/geom"

// Clearance reports whether every letter of p keeps at least minDistance
// cells (Chebyshev distance) from every committed word that p does not
// cross. A committed word crosses p when they share a cell holding the same
// letter; such a word is ignored entirely, so the letters around the
// intersection never count as crowding. A minDistance of zero or less
// always passes.
func (g *Grid) Clearance(p geom.Placement, minDistance int) bool {
	if minDistance <= 0 {
		return true
	}
	letters := g.vocab.Letters(p.WordID)
	cells := g.conv.Cells(p, len(letters))

	for _, other := range g.committed {
		otherLetters := g.vocab.Letters(other.WordID)
		otherCells := g.conv.Cells(other, len(otherLetters))
		if crosses(cells, letters, otherCells, otherLetters) {
			continue
		}
		for _, oc := range otherCells {
			for _, c := range cells {
				if chebyshev(c, oc) < minDistance {
					return false
				}
			}
		}
	}
	return true
}

func crosses(a []geom.Coord, aLetters []rune, b []geom.Coord, bLetters []rune) bool {
	for i, ca := range a {
		for j, cb := range b {
			if ca == cb && aLetters[i] == bLetters[j] {
				return true
			}
		}
	}
	return false
}

func chebyshev(a, b geom.Coord) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
