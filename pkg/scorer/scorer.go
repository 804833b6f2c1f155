// Package scorer decides whether a placement set forms a legal tower and
// computes its score.
//
// Evaluation works purely from placement geometry and needs no grid.
// Placements are grouped into floors by every z value their letters touch,
// so a vertical word belongs to each floor it crosses. Two rules are then
// checked in order, and the first violation is reported:
//
//   - every vertical word meets at least two horizontal words at one of its
//     letters past the first;
//   - every horizontal word off the base floor (z != 0) meets at least two
//     vertical words at one of its letters past the first.
//
// A legal tower scores the sum of its floor scores, where each floor scores
// letters x proportion x density x (|z| + 1).
//
// A Scorer holds no mutable state and is safe for concurrent use.
package scorer

import (
	"fmt"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// MinIntersections is how many counterparts each checked word must meet.
const MinIntersections = 2

// FloorReport is the breakdown of one floor.
type FloorReport struct {
	Z           int     `json:"z"`
	Score       float64 `json:"score"`
	Valid       bool    `json:"valid"`
	LetterCount int     `json:"letter_count"`
	Proportion  float64 `json:"proportion"`
	Density     float64 `json:"density"`
	Multiplier  int     `json:"multiplier"`

	// Words lists the ids of the words touching the floor.
	Words []int `json:"words"`
}

// Report is the outcome of evaluating a placement set.
type Report struct {
	Valid         bool          `json:"valid"`
	Score         float64       `json:"score"`
	Floors        []FloorReport `json:"floors,omitempty"`
	InvalidReason string        `json:"invalid_reason,omitempty"`
}

func invalid(format string, args ...any) Report {
	return Report{InvalidReason: fmt.Sprintf(format, args...)}
}

// Scorer evaluates towers under one vertical convention.
type Scorer struct {
	conv geom.Convention
}

// New returns a Scorer. The zero Convention means [geom.Downward].
func New(conv geom.Convention) *Scorer {
	return &Scorer{conv: conv.OrDefault()}
}

// Convention returns the vertical convention in use.
func (s *Scorer) Convention() geom.Convention { return s.conv }

// State groups placements into floors without checking anything.
func (s *Scorer) State(vocab *geom.Vocabulary, placements []geom.Placement) *TowerState {
	return NewTowerState(vocab, s.conv, placements)
}

// Evaluate checks placements against the tower rules and scores them.
// Failures are reported through Report.InvalidReason, never as errors;
// an invalid report has a zero score and no floors.
func (s *Scorer) Evaluate(vocab *geom.Vocabulary, placements []geom.Placement) Report {
	for _, p := range placements {
		if !vocab.Has(p.WordID) {
			return invalid("Placement references unknown word id %d", p.WordID)
		}
		if !p.Axis.Valid() {
			return invalid("Word %q has unknown axis %d", vocab.Text(p.WordID), int(p.Axis))
		}
	}

	st := s.State(vocab, placements)
	if len(st.Floors) < 2 {
		return invalid("Tower must have at least 2 floors")
	}

	for i, p := range placements {
		if !p.Vertical() {
			continue
		}
		if n := st.Intersections(i); n < MinIntersections {
			return invalid("Vertical word %q has only %d valid intersections, needs at least %d",
				vocab.Text(p.WordID), n, MinIntersections)
		}
	}

	for i, p := range placements {
		if p.Vertical() || p.Origin.Z == 0 {
			continue
		}
		if n := st.Intersections(i); n < MinIntersections {
			return invalid("Horizontal word %q at Z=%d has only %d valid intersections, needs at least %d",
				vocab.Text(p.WordID), p.Origin.Z, n, MinIntersections)
		}
	}

	floors := floorReports(st)
	r := Report{Valid: true, Floors: floors}
	for _, f := range floors {
		r.Score += f.Score
	}
	return r
}

// Floors scores every floor of placements without applying the legality
// rules. A floor is marked valid when all of its horizontal words off the
// base floor meet enough vertical words.
func (s *Scorer) Floors(vocab *geom.Vocabulary, placements []geom.Placement) []FloorReport {
	return floorReports(s.State(vocab, placements))
}

func floorReports(st *TowerState) []FloorReport {
	levels := st.Levels()
	out := make([]FloorReport, 0, len(levels))
	for _, z := range levels {
		out = append(out, scoreFloor(st, z))
	}
	return out
}

func scoreFloor(st *TowerState, z int) FloorReport {
	members := st.Floors[z]
	f := FloorReport{Z: z, Valid: true, Words: make([]int, 0, len(members))}

	var (
		horizontal int
		box        bounds
	)
	for _, i := range members {
		p := st.Placements[i]
		f.Words = append(f.Words, p.WordID)
		f.LetterCount += len(st.Cells[i])
		for _, c := range st.Cells[i] {
			box.add(c)
		}
		if p.Vertical() {
			continue
		}
		horizontal++
		if z != 0 && st.Intersections(i) < MinIntersections {
			f.Valid = false
		}
	}

	f.Proportion = box.proportion()
	f.Density = 1 + float64(horizontal)/4
	f.Multiplier = abs(z) + 1
	f.Score = float64(f.LetterCount) * f.Proportion * f.Density * float64(f.Multiplier)
	return f
}

// bounds is a horizontal bounding box.
type bounds struct {
	set                    bool
	minX, maxX, minY, maxY int
}

func (b *bounds) add(c geom.Coord) {
	if !b.set {
		b.minX, b.maxX, b.minY, b.maxY = c.X, c.X, c.Y, c.Y
		b.set = true
		return
	}
	b.minX, b.maxX = min(b.minX, c.X), max(b.maxX, c.X)
	b.minY, b.maxY = min(b.minY, c.Y), max(b.maxY, c.Y)
}

func (b *bounds) proportion() float64 {
	if !b.set {
		return 0
	}
	w := b.maxX - b.minX + 1
	d := b.maxY - b.minY + 1
	return float64(min(w, d)) / float64(max(w, d))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
