package scorer

import (
	"slices"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// TowerState is a read-only view of a placement list grouped into floors.
// It is rebuilt for every evaluation and never updated in place.
type TowerState struct {
	Vocab      *geom.Vocabulary
	Placements []geom.Placement

	// Cells holds the occupied cells of each placement, by placement index.
	Cells [][]geom.Coord

	// Floors maps a z value to the indices of every placement touching it,
	// in placement order.
	Floors map[int][]int
}

// NewTowerState derives the floor grouping for placements. Placements of
// unknown words occupy no cells and join no floor.
func NewTowerState(vocab *geom.Vocabulary, conv geom.Convention, placements []geom.Placement) *TowerState {
	s := &TowerState{
		Vocab:      vocab,
		Placements: placements,
		Cells:      make([][]geom.Coord, len(placements)),
		Floors:     make(map[int][]int),
	}
	for i, p := range placements {
		cells := conv.Cells(p, vocab.Len(p.WordID))
		s.Cells[i] = cells

		var seen []int
		for _, c := range cells {
			if slices.Contains(seen, c.Z) {
				continue
			}
			seen = append(seen, c.Z)
			s.Floors[c.Z] = append(s.Floors[c.Z], i)
		}
	}
	return s
}

// Levels returns the floor z values in descending order.
func (s *TowerState) Levels() []int {
	zs := make([]int, 0, len(s.Floors))
	for z := range s.Floors {
		zs = append(zs, z)
	}
	slices.Sort(zs)
	slices.Reverse(zs)
	return zs
}

// Intersections counts the placements of the opposite orientation that
// share a cell with placement i at one of i's own letters past index 0.
// Each counterpart counts at most once.
func (s *TowerState) Intersections(i int) int {
	vertical := s.Placements[i].Vertical()
	own := s.Cells[i]
	if len(own) < 2 {
		return 0
	}

	count := 0
	for j, p := range s.Placements {
		if j == i || p.Vertical() == vertical {
			continue
		}
		if sharesCell(own[1:], s.Cells[j]) {
			count++
		}
	}
	return count
}

func sharesCell(a, b []geom.Coord) bool {
	for _, c := range a {
		if slices.Contains(b, c) {
			return true
		}
	}
	return false
}
