package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wordtower/pkg/geom"
)

// Options configures the intersection graph.
type Options struct {
	// Detailed adds origin and axis to node labels.
	Detailed bool
}

// Edge is a cell shared by two placements, identified by their index in
// the placement slice.
type Edge struct {
	From, To int
	Cell     geom.Coord
	Letter   rune
}

// Edges returns every shared cell between two placements, ordered by
// placement index.
func Edges(vocab *geom.Vocabulary, placements []geom.Placement, conv geom.Convention) []Edge {
	cells := make([][]geom.Coord, len(placements))
	for i, p := range placements {
		cells[i] = conv.Cells(p, vocab.Len(p.WordID))
	}
	var out []Edge
	for i := range placements {
		for j := i + 1; j < len(placements); j++ {
			for ai, a := range cells[i] {
				if slices.Contains(cells[j], a) {
					out = append(out, Edge{From: i, To: j, Cell: a, Letter: vocab.Letters(placements[i].WordID)[ai]})
				}
			}
		}
	}
	return out
}

// ToDOT converts placements to Graphviz DOT. The result can be rendered
// with [RenderSVG] or the render package converters.
//
// Vertical words are drawn as filled ellipses, horizontal words as boxes.
// The base floor (z = 0) is drawn bold.
func ToDOT(vocab *geom.Vocabulary, placements []geom.Placement, conv geom.Convention, opts Options) string {
	conv = conv.OrDefault()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=18];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	floors := map[int][]int{}
	for i, p := range placements {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(fmtAttrs(vocab, p, opts.Detailed), ", "))
		if p.Axis.Horizontal() {
			floors[p.Origin.Z] = append(floors[p.Origin.Z], i)
		}
	}

	zs := make([]int, 0, len(floors))
	for z := range floors {
		zs = append(zs, z)
	}
	slices.SortFunc(zs, func(a, b int) int { return conv.Level(a) - conv.Level(b) })
	if len(zs) > 0 {
		buf.WriteString("\n")
	}
	for _, z := range zs {
		ids := make([]string, len(floors[z]))
		for k, i := range floors[z] {
			ids[k] = nodeID(i)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
	}

	buf.WriteString("\n")
	for _, e := range Edges(vocab, placements, conv) {
		fmt.Fprintf(&buf, "  %s -- %s [label=%q];\n", nodeID(e.From), nodeID(e.To), string(e.Letter))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "w" + strconv.Itoa(i) }

func fmtAttrs(vocab *geom.Vocabulary, p geom.Placement, detailed bool) []string {
	label := vocab.Text(p.WordID)
	if detailed {
		label += fmt.Sprintf("\n#%d %s %s", p.WordID, p.Origin, p.Axis)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case p.Vertical():
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightblue")
	case p.Origin.Z == 0:
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// viewBox so the image scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
