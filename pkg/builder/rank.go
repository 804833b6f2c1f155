package builder

import (
	"cmp"
	"slices"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// IDSet is a set of vocabulary ids.
type IDSet map[int]bool

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s IDSet) Has(id int) bool { return s[id] }

// Candidate is one way of attaching a word to the structure.
type Candidate struct {
	// WordID is the candidate word.
	WordID int

	// Letter is the shared letter.
	Letter rune

	// AnchorPos is the index of the shared letter in the anchor word.
	// It is zero for crossings ranked by [RankCrossings].
	AnchorPos int

	// Pos is the index of the shared letter in the candidate word.
	Pos int
}

// VerticalQuery restricts [RankVerticals].
type VerticalQuery struct {
	MinLength int
	MaxLength int

	// SkipAnchorPos, if set, drops anchor positions it returns true for.
	SkipAnchorPos func(anchorPos int) bool
}

// RankVerticals lists every (candidate, anchor position, candidate position)
// triple where an unused word of acceptable length shares a letter with the
// anchor word. Candidates whose shared letter is closest to their own start
// come first; ties keep vocabulary order.
func RankVerticals(vocab *geom.Vocabulary, used IDSet, anchorID int, q VerticalQuery) []Candidate {
	anchor := vocab.Letters(anchorID)
	if len(anchor) == 0 {
		return nil
	}

	var out []Candidate
	for id := range vocab.Size() {
		if id == anchorID || used.Has(id) {
			continue
		}
		word := vocab.Letters(id)
		if len(word) < q.MinLength || len(word) > q.MaxLength {
			continue
		}
		for ap, letter := range anchor {
			if q.SkipAnchorPos != nil && q.SkipAnchorPos(ap) {
				continue
			}
			for pos, r := range word {
				if r == letter {
					out = append(out, Candidate{WordID: id, Letter: letter, AnchorPos: ap, Pos: pos})
				}
			}
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(a.Pos, b.Pos)
	})
	return out
}

// RankCrossings lists every occurrence of letter in unused words of at least
// minLength letters. Occurrences closest to their word's midpoint come first,
// since central crossings leave room on both sides; ties keep vocabulary
// order.
func RankCrossings(vocab *geom.Vocabulary, used IDSet, letter rune, minLength int) []Candidate {
	var out []Candidate
	for id := range vocab.Size() {
		if used.Has(id) {
			continue
		}
		word := vocab.Letters(id)
		if len(word) < minLength {
			continue
		}
		for pos, r := range word {
			if r == letter {
				out = append(out, Candidate{WordID: id, Letter: letter, Pos: pos})
			}
		}
	}

	// |pos - len/2| compared without floats.
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(midDistance(vocab, a), midDistance(vocab, b))
	})
	return out
}

func midDistance(vocab *geom.Vocabulary, c Candidate) int {
	d := 2*c.Pos - vocab.Len(c.WordID)
	if d < 0 {
		return -d
	}
	return d
}

// BaseCandidates returns, in vocabulary order, the unused words of at least
// minLength letters.
func BaseCandidates(vocab *geom.Vocabulary, used IDSet, minLength int) []int {
	var out []int
	for id := range vocab.Size() {
		if !used.Has(id) && vocab.Len(id) >= minLength {
			out = append(out, id)
		}
	}
	return out
}
