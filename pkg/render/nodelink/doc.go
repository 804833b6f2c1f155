// Package nodelink renders a tower as an intersection graph.
//
// # Overview
//
// Every placed word becomes a node and every cell shared by two words
// becomes an edge labelled with the letter they share. Horizontal words of
// the same floor are drawn on one rank, base floor at the top.
//
// # Usage
//
//	dot := nodelink.ToDOT(vocab, placements, geom.Downward, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For terminals, [Floors] slices the tower into one character grid per
// floor:
//
//	fmt.Print(nodelink.FormatFloors(nodelink.Floors(vocab, placements, conv)))
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PNG and PDF conversion goes through the render package and
// requires librsvg (rsvg-convert).
package nodelink
