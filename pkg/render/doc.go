// Package render converts rendered towers between output formats.
//
// The [nodelink] subpackage draws a tower as an intersection graph and
// returns SVG. [Convert] turns that SVG into PNG or PDF through the
// external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := render.Convert(ctx, svg, render.FormatPNG, 2.0)
//
// [nodelink]: github.com/matzehuels/wordtower/pkg/render/nodelink
package render
