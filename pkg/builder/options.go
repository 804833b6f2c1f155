package builder

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtower/pkg/geom"
)

const (
	// DefaultMinBaseLength is the shortest word accepted as a base.
	DefaultMinBaseLength = 5

	// DefaultMaxVerticalRun is the longest word accepted as a vertical.
	DefaultMaxVerticalRun = 17

	// DefaultMinVerticalLength is the shortest word accepted as a vertical.
	DefaultMinVerticalLength = 2

	// DefaultMinFloorWordLength is the shortest word accepted on the first
	// floor above (or below) the base.
	DefaultMinFloorWordLength = 3

	// DefaultMinSeparation is how many base letters the two verticals must
	// be apart.
	DefaultMinSeparation = 2
)

// DefaultAnchor is where the base word starts.
var DefaultAnchor = geom.Coord{X: 5, Y: 5, Z: 0}

// Options tunes a build. Zero values are replaced by the defaults above.
type Options struct {
	MinBaseLength      int `json:"min_base_length,omitempty" toml:"min_base_length" yaml:"min_base_length"`
	MaxVerticalRun     int `json:"max_vertical_run,omitempty" toml:"max_vertical_run" yaml:"max_vertical_run"`
	MinVerticalLength  int `json:"min_vertical_length,omitempty" toml:"min_vertical_length" yaml:"min_vertical_length"`
	MinFloorWordLength int `json:"min_floor_word_length,omitempty" toml:"min_floor_word_length" yaml:"min_floor_word_length"`
	MinSeparation      int `json:"min_separation,omitempty" toml:"min_separation" yaml:"min_separation"`

	// Anchor is the base word origin. Nil means DefaultAnchor.
	Anchor *geom.Coord `json:"anchor,omitempty" toml:"anchor" yaml:"anchor"`

	// Clearance, when positive, also requires every accepted word to keep
	// this Chebyshev distance from unrelated letters.
	Clearance int `json:"clearance,omitempty" toml:"clearance" yaml:"clearance"`

	// Used lists word ids that are already spent and must not be placed.
	Used []int `json:"used,omitempty" toml:"-" yaml:"-"`

	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.MinBaseLength <= 0 {
		o.MinBaseLength = DefaultMinBaseLength
	}
	if o.MaxVerticalRun <= 0 {
		o.MaxVerticalRun = DefaultMaxVerticalRun
	}
	if o.MinVerticalLength <= 0 {
		o.MinVerticalLength = DefaultMinVerticalLength
	}
	if o.MinFloorWordLength <= 0 {
		o.MinFloorWordLength = DefaultMinFloorWordLength
	}
	if o.MinSeparation <= 0 {
		o.MinSeparation = DefaultMinSeparation
	}
	if o.Anchor == nil {
		anchor := DefaultAnchor
		o.Anchor = &anchor
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Validate reports inconsistent limits. It assumes SetDefaults has run.
func (o *Options) Validate() error {
	if o.MinVerticalLength < 2 {
		return fmt.Errorf("min vertical length must be at least 2, got %d", o.MinVerticalLength)
	}
	if o.MaxVerticalRun < o.MinVerticalLength {
		return fmt.Errorf("max vertical run %d is shorter than min vertical length %d",
			o.MaxVerticalRun, o.MinVerticalLength)
	}
	return nil
}
