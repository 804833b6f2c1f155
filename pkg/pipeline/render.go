package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/render"
	"github.com/matzehuels/wordtower/pkg/render/nodelink"
	"github.com/matzehuels/wordtower/pkg/scorer"
)

// Export is the JSON artifact: the tower as it would be submitted, with
// its report.
type Export struct {
	Words   []string             `json:"words"`
	Request gameapi.BuildRequest `json:"request"`
	Report  scorer.Report        `json:"report"`
}

// Render generates artifacts in opts.Formats. SVG is rendered once and
// reused for PNG and PDF.
func (r *Runner) Render(ctx context.Context, vocab *geom.Vocabulary, placements []geom.Placement, report scorer.Report, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(vocab, placements, opts.Convention, nodelink.Options{Detailed: opts.Detailed})
	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(dot)
		return svg, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case render.FormatDOT:
			data = []byte(dot)
		case render.FormatSVG:
			data, err = svgOnce()
		case render.FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.Convert(ctx, data, render.FormatPNG, opts.Scale)
			}
		case render.FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.Convert(ctx, data, render.FormatPDF, 0)
			}
		case render.FormatText:
			data = []byte(nodelink.FormatFloors(nodelink.Floors(vocab, placements, opts.Convention)))
		case render.FormatJSON:
			data, err = json.MarshalIndent(Export{
				Words:   vocab.Words(),
				Request: gameapi.BuildRequest{Done: true, Words: gameapi.CommandsFromPlacements(placements)},
				Report:  report,
			}, "", "  ")
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
