package gameapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/wordtower/pkg/geom"
)

var (
	oobWordRe   = regexp.MustCompile(`word "([^"]+)" \(id:(\d+)\)`)
	oobCoordsRe = regexp.MustCompile(`head:\[([^\]]+)\] tail: \[([^\]]+)\]`)
)

// OutOfBounds describes a word the service refused because it left the
// map.
type OutOfBounds struct {
	Word string
	ID   int
	Head geom.Coord
	Tail geom.Coord
}

func (o OutOfBounds) String() string {
	return fmt.Sprintf("%q (id:%d) head %s tail %s", o.Word, o.ID, o.Head, o.Tail)
}

// Length returns the word length in letters.
func (o OutOfBounds) Length() int { return len([]rune(o.Word)) }

// ParseOutOfBounds extracts the word and its end points from a service
// error such as
//
//	word "дом" (id:12) is out of bounds: head:[5 5 0] tail: [5 5 -3]
//
// The second result is false unless both the word and the coordinates
// were found.
func ParseOutOfBounds(message string) (OutOfBounds, bool) {
	wm := oobWordRe.FindStringSubmatch(message)
	cm := oobCoordsRe.FindStringSubmatch(message)
	if wm == nil || cm == nil {
		return OutOfBounds{}, false
	}

	id, err := strconv.Atoi(wm[2])
	if err != nil {
		return OutOfBounds{}, false
	}
	head, ok := parseCoord(cm[1])
	if !ok {
		return OutOfBounds{}, false
	}
	tail, ok := parseCoord(cm[2])
	if !ok {
		return OutOfBounds{}, false
	}
	return OutOfBounds{Word: wm[1], ID: id, Head: head, Tail: tail}, true
}

func parseCoord(s string) (geom.Coord, bool) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return geom.Coord{}, false
	}
	var v [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return geom.Coord{}, false
		}
		v[i] = n
	}
	return geom.CoordFromArray(v), true
}
