package builder

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/grid"
)

// Step names a stage of a build, used in logs and hooks.
type Step string

const (
	StepBase           Step = "base"
	StepFirstVertical  Step = "first-vertical"
	StepFloorExtension Step = "floor-extension"
	StepSecondVertical Step = "second-vertical"
)

// Builder runs greedy builds over one vocabulary. It holds no grid state
// and may be shared between goroutines as long as each build gets its own
// grid.
type Builder struct {
	vocab *geom.Vocabulary
	opts  Options
}

// New validates opts and returns a Builder over vocab.
func New(vocab *geom.Vocabulary, opts Options) (*Builder, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{vocab: vocab, opts: opts}, nil
}

// Options returns the effective options, defaults applied.
func (b *Builder) Options() Options { return b.opts }

// Bases returns the words eligible as a base, in the order Build tries them.
func (b *Builder) Bases() []int {
	return BaseCandidates(b.vocab, NewIDSet(b.opts.Used...), b.opts.MinBaseLength)
}

// Build picks the first eligible base word and grows a tower from it into
// g. It returns the accepted placements in build order, or nil when no
// tower with at least one vertical word could be formed.
func (b *Builder) Build(g *grid.Grid) []geom.Placement {
	bases := b.Bases()
	if len(bases) == 0 {
		b.opts.Logger.Debug("no base candidate", "min_length", b.opts.MinBaseLength, "words", b.vocab.Size())
		return nil
	}
	return b.BuildFrom(g, bases[0])
}

// BuildFrom grows a tower from the given base word. The base must be unused
// and at least MinBaseLength letters long.
func (b *Builder) BuildFrom(g *grid.Grid, baseID int) []geom.Placement {
	r := &run{
		b:      b,
		g:      g,
		conv:   g.Convention(),
		used:   NewIDSet(b.opts.Used...),
		logger: b.opts.Logger.With("base", b.vocab.Text(baseID)),
	}

	if r.used.Has(baseID) || b.vocab.Len(baseID) < b.opts.MinBaseLength {
		r.logger.Debug("base not eligible", "id", baseID)
		return nil
	}

	base := geom.Placement{WordID: baseID, Origin: *b.opts.Anchor, Axis: geom.AxisX}
	if !r.commit(StepBase, base) {
		return nil
	}

	first, firstOK := r.firstCandidate(StepFirstVertical, nil)
	if firstOK {
		if p, ok := r.placeVertical(StepFirstVertical, base, first); ok {
			r.extendFloor(p, first.Pos+1)
		}
		skip := func(ap int) bool {
			d := ap - first.AnchorPos
			return d > -b.opts.MinSeparation && d < b.opts.MinSeparation
		}
		if second, ok := r.firstCandidate(StepSecondVertical, skip); ok {
			r.placeVertical(StepSecondVertical, base, second)
		}
	}

	if r.verticals == 0 {
		r.logger.Debug("build rejected", "reason", "no vertical word accepted")
		return nil
	}
	return r.accepted
}

// run is the state of a single build.
type run struct {
	b      *Builder
	g      *grid.Grid
	conv   geom.Convention
	used   IDSet
	logger *log.Logger

	accepted  []geom.Placement
	verticals int
}

func (r *run) firstCandidate(step Step, skip func(int) bool) (Candidate, bool) {
	base := r.accepted[0].WordID
	cands := RankVerticals(r.b.vocab, r.used, base, VerticalQuery{
		MinLength:     r.b.opts.MinVerticalLength,
		MaxLength:     r.b.opts.MaxVerticalRun,
		SkipAnchorPos: skip,
	})
	if len(cands) == 0 {
		r.logger.Debug("no candidate", "step", step)
		return Candidate{}, false
	}
	return cands[0], true
}

// placeVertical lays c so its shared letter lands on the base letter at
// c.AnchorPos.
func (r *run) placeVertical(step Step, base geom.Placement, c Candidate) (geom.Placement, bool) {
	at := r.conv.CellAt(base, c.AnchorPos)
	p := geom.Placement{
		WordID: c.WordID,
		Origin: at.Add(r.conv.Step(geom.AxisVertical).Scale(-c.Pos)),
		Axis:   geom.AxisVertical,
	}
	if !r.commit(step, p) {
		return p, false
	}
	r.verticals++
	return p, true
}

// extendFloor crosses the vertical word v at letter index i with a
// horizontal word one floor away from the base.
func (r *run) extendFloor(v geom.Placement, i int) {
	letters := r.b.vocab.Letters(v.WordID)
	if i >= len(letters) {
		r.logger.Debug("no candidate", "step", StepFloorExtension, "reason", "vertical word too short")
		return
	}
	cands := RankCrossings(r.b.vocab, r.used, letters[i], r.b.opts.MinFloorWordLength)
	if len(cands) == 0 {
		r.logger.Debug("no candidate", "step", StepFloorExtension, "letter", string(letters[i]))
		return
	}
	c := cands[0]
	at := r.conv.CellAt(v, i)
	r.commit(StepFloorExtension, geom.Placement{
		WordID: c.WordID,
		Origin: at.Add(r.conv.Step(geom.AxisX).Scale(-c.Pos)),
		Axis:   geom.AxisX,
	})
}

func (r *run) commit(step Step, p geom.Placement) bool {
	word := r.b.vocab.Text(p.WordID)
	switch {
	case !r.g.CanFit(p):
		r.logger.Debug("placement rejected", "step", step, "word", word, "at", p.Origin, "reason", "out of bounds")
		return false
	case r.g.HasCollision(p):
		r.logger.Debug("placement rejected", "step", step, "word", word, "at", p.Origin, "reason", "collision")
		return false
	case !r.g.Clearance(p, r.b.opts.Clearance):
		r.logger.Debug("placement rejected", "step", step, "word", word, "at", p.Origin, "reason", "clearance")
		return false
	}
	r.g.Insert(p)
	r.used[p.WordID] = true
	r.accepted = append(r.accepted, p)
	r.logger.Debug("placement accepted", "step", step, "word", word, "at", p.Origin, "axis", p.Axis)
	return true
}
