package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/wordtower/pkg/builder"
	"github.com/matzehuels/wordtower/pkg/cache"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/grid"
	"github.com/matzehuels/wordtower/pkg/observability"
	"github.com/matzehuels/wordtower/pkg/scorer"
)

// Build grows one tower, from opts.Base or from the first eligible base.
// The second result reports a cache hit. A build that places no vertical
// word fails with BUILD_FAILED.
func (r *Runner) Build(ctx context.Context, vocab *geom.Vocabulary, inv *Inventory, opts Options) ([]geom.Placement, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	vol := opts.volumeFor(inv)
	bo := opts.builderFor(inv)

	key := r.Keyer.BuildKey(cache.HashWords(vocab.Words()), opts.BuildKeyOpts(vol, bo))
	if !opts.Refresh {
		var cached []geom.Placement
		if ok, _ := r.getJSON(ctx, "build", key, &cached); ok && len(cached) > 0 {
			observability.Pipeline().OnBuildComplete(ctx, vocab.Text(cached[0].WordID), len(cached), 0)
			return cached, true, nil
		}
	}

	b, err := builder.New(vocab, bo)
	if err != nil {
		return nil, false, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "builder options")
	}

	base := -1
	if opts.Base != nil {
		base = *opts.Base
		if !vocab.Has(base) {
			return nil, false, werrors.New(werrors.ErrCodeInvalidInput, "base word %d is not in the vocabulary", base)
		}
	} else if bases := b.Bases(); len(bases) > 0 {
		base = bases[0]
	}
	if base < 0 {
		return nil, false, werrors.New(werrors.ErrCodeBuildFailed,
			"no word has at least %d letters to serve as a base", b.Options().MinBaseLength)
	}

	placements := r.buildFrom(ctx, b, vocab, vol, opts.Convention, base)
	if placements == nil {
		return nil, false, werrors.New(werrors.ErrCodeBuildFailed, "no vertical word fits base %q", vocab.Text(base))
	}
	r.setJSON(ctx, "build", key, placements, cache.TTLBuild)
	return placements, false, nil
}

func (r *Runner) buildFrom(ctx context.Context, b *builder.Builder, vocab *geom.Vocabulary, vol geom.Volume, conv geom.Convention, base int) []geom.Placement {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnBuildStart(ctx, vocab.Text(base), vocab.Size())

	g := grid.New(vol.Width, vol.Depth, vol.Height, vocab, conv)
	placements := b.BuildFrom(g, base)

	hooks.OnBuildComplete(ctx, vocab.Text(base), len(placements), time.Since(start))
	return placements
}

// Evaluate validates and scores placements. The second result reports a
// cache hit.
func (r *Runner) Evaluate(ctx context.Context, vocab *geom.Vocabulary, placements []geom.Placement, opts Options) (scorer.Report, bool) {
	conv := opts.Convention.OrDefault()
	start := time.Now()

	key := r.Keyer.ReportKey(cache.HashWords(vocab.Words()), struct {
		Step       int              `json:"step"`
		Placements []geom.Placement `json:"placements"`
	}{conv.VerticalStep, placements})

	var report scorer.Report
	if ok, _ := r.getJSON(ctx, "report", key, &report); ok {
		observability.Pipeline().OnEvaluate(ctx, report.Valid, report.Score, time.Since(start))
		return report, true
	}

	report = scorer.New(conv).Evaluate(vocab, placements)
	observability.Pipeline().OnEvaluate(ctx, report.Valid, report.Score, time.Since(start))
	r.setJSON(ctx, "report", key, report, cache.TTLReport)
	return report, false
}

// Candidate is the outcome of building from one base word.
type Candidate struct {
	Base       int              `json:"base"`
	Word       string           `json:"word"`
	Placements []geom.Placement `json:"placements"`
	Report     scorer.Report    `json:"report"`
}

// Exploration is the result of trying every base.
type Exploration struct {
	// Best is the highest scoring valid candidate.
	Best Candidate

	// Candidates lists every base that produced a tower, valid ones first,
	// then by score, then by base id.
	Candidates []Candidate
}

// Explore builds from every eligible base on its own grid, using up to
// opts.Workers goroutines, and keeps the best valid tower. It fails with
// BUILD_FAILED when no base yields a valid tower.
func (r *Runner) Explore(ctx context.Context, vocab *geom.Vocabulary, inv *Inventory, opts Options) (*Exploration, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	vol := opts.volumeFor(inv)
	b, err := builder.New(vocab, opts.builderFor(inv))
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "builder options")
	}
	bases := b.Bases()
	if len(bases) == 0 {
		return nil, werrors.New(werrors.ErrCodeBuildFailed,
			"no word has at least %d letters to serve as a base", b.Options().MinBaseLength)
	}

	sc := scorer.New(opts.Convention)
	var (
		mu         sync.Mutex
		candidates []Candidate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, base := range bases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			placements := r.buildFrom(gctx, b, vocab, vol, opts.Convention, base)
			if placements == nil {
				return nil
			}
			c := Candidate{Base: base, Word: vocab.Text(base), Placements: placements, Report: sc.Evaluate(vocab, placements)}
			mu.Lock()
			candidates = append(candidates, c)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortCandidates(candidates)
	r.Logger.Debug("explored bases", "bases", len(bases), "towers", len(candidates))
	if len(candidates) == 0 || !candidates[0].Report.Valid {
		return &Exploration{Candidates: candidates}, werrors.New(werrors.ErrCodeBuildFailed,
			"no valid tower among %d bases", len(bases))
	}
	return &Exploration{Best: candidates[0], Candidates: candidates}, nil
}

func sortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i].Report, cs[j].Report
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return cs[i].Base < cs[j].Base
	})
}
