package nodelink

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// Empty marks a cell without a letter in floor views.
const Empty = '.'

// FloorView is one horizontal slice of the tower. Rows[y][x] is the letter
// at (Min.X+x, Min.Y+y, Z).
type FloorView struct {
	Z     int
	Min   geom.Coord
	Rows  []string
	Words []string
}

// Floors slices the tower at every z that holds a letter, starting at the
// base floor and moving along the vertical step.
// All views share one x/y frame so they line up when printed in sequence.
func Floors(vocab *geom.Vocabulary, placements []geom.Placement, conv geom.Convention) []FloorView {
	conv = conv.OrDefault()
	type cell struct {
		c geom.Coord
		r rune
	}
	var cells []cell
	words := map[int][]string{}
	for _, p := range placements {
		letters := vocab.Letters(p.WordID)
		seen := map[int]bool{}
		for i, c := range conv.Cells(p, len(letters)) {
			cells = append(cells, cell{c, letters[i]})
			if !seen[c.Z] {
				seen[c.Z] = true
				words[c.Z] = append(words[c.Z], vocab.Text(p.WordID))
			}
		}
	}
	if len(cells) == 0 {
		return nil
	}

	lo, hi := cells[0].c, cells[0].c
	for _, c := range cells[1:] {
		lo.X, lo.Y = min(lo.X, c.c.X), min(lo.Y, c.c.Y)
		hi.X, hi.Y = max(hi.X, c.c.X), max(hi.Y, c.c.Y)
	}
	w, d := hi.X-lo.X+1, hi.Y-lo.Y+1

	grids := map[int][][]rune{}
	for _, c := range cells {
		g, ok := grids[c.c.Z]
		if !ok {
			g = make([][]rune, d)
			for y := range g {
				g[y] = []rune(strings.Repeat(string(Empty), w))
			}
			grids[c.c.Z] = g
		}
		g[c.c.Y-lo.Y][c.c.X-lo.X] = c.r
	}

	zs := make([]int, 0, len(grids))
	for z := range grids {
		zs = append(zs, z)
	}
	slices.SortFunc(zs, func(a, b int) int { return conv.Level(a) - conv.Level(b) })

	out := make([]FloorView, len(zs))
	for i, z := range zs {
		rows := make([]string, d)
		for y, r := range grids[z] {
			rows[y] = string(r)
		}
		out[i] = FloorView{Z: z, Min: geom.Coord{X: lo.X, Y: lo.Y, Z: z}, Rows: rows, Words: words[z]}
	}
	return out
}

// FormatFloors prints views one after another with a z header.
func FormatFloors(views []FloorView) string {
	var b strings.Builder
	for i, v := range views {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "z=%d  (x from %d, y from %d)\n", v.Z, v.Min.X, v.Min.Y)
		for _, r := range v.Rows {
			b.WriteString(r)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
