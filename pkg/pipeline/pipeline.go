// Package pipeline ties word sources, the builder, the scorer and the
// renderers together for the CLI, the HTTP service and the play loop.
//
// # Architecture
//
// A tower run has four stages:
//
//  1. Vocabulary: fetch the word inventory from a [WordSource]
//  2. Build: grow a tower from one base word, or [Runner.Explore] all bases
//  3. Evaluate: validate and score the placements
//  4. Render: produce DOT, SVG, PNG, PDF, text or JSON artifacts
//
// Each stage can be run on its own or through [Runner.Execute]. Word lists,
// builds and reports are cached through the runner's cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.FileSource{Path: "words.txt"}, pipeline.Options{
//	    Explore: true,
//	    Formats: []string{"svg"},
//	})
//	fmt.Println(result.Report.Score)
//
// [Player] runs the game loop on top of a Runner.
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtower/pkg/builder"
	"github.com/matzehuels/wordtower/pkg/cache"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/render"
	"github.com/matzehuels/wordtower/pkg/scorer"
)

// DefaultVolume is used when neither the options nor the word source name
// a map size.
var DefaultVolume = geom.Volume{Width: 30, Depth: 30, Height: 100}

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Options configures a pipeline run. It supports JSON for the HTTP
// service.
type Options struct {
	// Volume overrides the inventory's map size.
	Volume geom.Volume `json:"volume"`

	Convention geom.Convention `json:"convention"`
	Builder    builder.Options `json:"builder"`

	// Base builds from this word id instead of the first eligible base.
	Base *int `json:"base,omitempty"`

	// Explore tries every eligible base and keeps the best valid tower.
	Explore bool `json:"explore,omitempty"`
	Workers int  `json:"workers,omitempty"`

	// Refresh bypasses cached word lists and builds.
	Refresh bool `json:"refresh,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Inventory  *Inventory
	Vocab      *geom.Vocabulary
	Placements []geom.Placement
	Report     scorer.Report

	// Candidates holds every explored base, best first. It is empty
	// unless Options.Explore is set.
	Candidates []Candidate

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Words      int
	Placements int
	Bases      int
	FetchTime  time.Duration
	BuildTime  time.Duration
	EvalTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	WordsHit  bool
	BuildHit  bool
	ReportHit bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Convention.VerticalStep != 0 {
		if err := o.Convention.Validate(); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidInput, err, "convention")
		}
	}
	o.Convention = o.Convention.OrDefault()
	if !o.Volume.Empty() {
		if err := werrors.ValidateVolume(o.Volume.Width, o.Volume.Depth, o.Volume.Height); err != nil {
			return err
		}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidInput, err, "formats")
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Builder.Logger == nil {
		o.Builder.Logger = o.Logger
	}
	bo := o.Builder
	bo.SetDefaults()
	if err := bo.Validate(); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidInput, err, "builder")
	}
	o.validated = true
	return nil
}

// volumeFor picks the options volume, then the inventory's, then the
// default.
func (o *Options) volumeFor(inv *Inventory) geom.Volume {
	switch {
	case !o.Volume.Empty():
		return o.Volume
	case inv != nil && !inv.Volume.Empty():
		return inv.Volume
	}
	return DefaultVolume
}

// builderFor returns builder options with the inventory's used ids merged
// in.
func (o *Options) builderFor(inv *Inventory) builder.Options {
	bo := o.Builder
	if inv != nil && len(inv.Used) > 0 {
		bo.Used = append(append([]int(nil), o.Builder.Used...), inv.Used...)
	}
	return bo
}

// BuildKeyOpts returns cache key options for a build.
func (o *Options) BuildKeyOpts(vol geom.Volume, bo builder.Options) cache.BuildKeyOpts {
	base := -1
	if o.Base != nil {
		base = *o.Base
	}
	return cache.BuildKeyOpts{
		Volume:       vol.Array(),
		VerticalStep: o.Convention.OrDefault().VerticalStep,
		Used:         bo.Used,
		Base:         base,
		Params: struct {
			Builder builder.Options `json:"builder"`
			Explore bool            `json:"explore"`
		}{bo, o.Explore},
	}
}
