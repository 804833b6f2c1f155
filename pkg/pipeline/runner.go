package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtower/pkg/cache"
	"github.com/matzehuels/wordtower/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MaxTTL caps the per-kind TTLs. Zero keeps them.
	MaxTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs vocabulary, build, evaluate and render with caching.
func (r *Runner) Execute(ctx context.Context, src WordSource, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Vocabulary
	start := time.Now()
	inv, hit, err := r.Vocabulary(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	result.Inventory = inv
	result.Vocab = inv.Vocabulary()
	result.Stats.Words = len(inv.Words)
	result.Stats.FetchTime = time.Since(start)
	result.CacheInfo.WordsHit = hit

	r.Logger.Info("loaded words",
		"source", src.Name(),
		"words", len(inv.Words),
		"cached", hit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Build
	start = time.Now()
	if opts.Explore {
		ex, err := r.Explore(ctx, result.Vocab, inv, opts)
		if err != nil {
			return nil, fmt.Errorf("explore: %w", err)
		}
		result.Candidates = ex.Candidates
		result.Placements = ex.Best.Placements
		result.Stats.Bases = len(ex.Candidates)
	} else {
		placements, hit, err := r.Build(ctx, result.Vocab, inv, opts)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		result.Placements = placements
		result.CacheInfo.BuildHit = hit
		result.Stats.Bases = 1
	}
	result.Stats.Placements = len(result.Placements)
	result.Stats.BuildTime = time.Since(start)

	r.Logger.Info("built tower",
		"words", len(result.Placements),
		"bases", result.Stats.Bases,
		"duration", result.Stats.BuildTime)

	// Stage 3: Evaluate
	start = time.Now()
	report, hit := r.Evaluate(ctx, result.Vocab, result.Placements, opts)
	result.Report = report
	result.Stats.EvalTime = time.Since(start)
	result.CacheInfo.ReportHit = hit

	r.Logger.Info("evaluated tower",
		"valid", report.Valid,
		"score", report.Score,
		"floors", len(report.Floors),
		"duration", result.Stats.EvalTime)

	// Stage 4: Render
	if len(opts.Formats) > 0 {
		start = time.Now()
		artifacts, err := r.Render(ctx, result.Vocab, result.Placements, report, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(start)
		r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Vocabulary fetches an inventory from src. Inventories of a
// CacheableSource are served from the cache unless opts.Refresh is set.
func (r *Runner) Vocabulary(ctx context.Context, src WordSource, opts Options) (*Inventory, bool, error) {
	hooks := observability.Pipeline()
	start := time.Now()

	cs, cacheable := src.(CacheableSource)
	var key string
	if cacheable {
		key = r.Keyer.WordsKey(cs.CacheKey())
		if !opts.Refresh {
			var inv Inventory
			if ok, _ := r.getJSON(ctx, "words", key, &inv); ok {
				hooks.OnVocabulary(ctx, src.Name(), len(inv.Words), true, time.Since(start), nil)
				return &inv, true, nil
			}
		}
	}

	inv, err := src.Fetch(ctx)
	hooks.OnVocabulary(ctx, src.Name(), inventorySize(inv), false, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if cacheable {
		r.setJSON(ctx, "words", key, inv, cache.TTLWords)
	}
	return inv, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) getJSON(ctx context.Context, kind, key string, v any) (bool, error) {
	ok, err := cache.GetJSON(ctx, r.Cache, key, v)
	if ok {
		observability.Cache().OnCacheHit(ctx, kind)
	} else {
		observability.Cache().OnCacheMiss(ctx, kind)
	}
	return ok, err
}

func (r *Runner) setJSON(ctx context.Context, kind, key string, v any, ttl time.Duration) {
	if r.MaxTTL > 0 && (ttl == 0 || ttl > r.MaxTTL) {
		ttl = r.MaxTTL
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Debug("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func inventorySize(inv *Inventory) int {
	if inv == nil {
		return 0
	}
	return len(inv.Words)
}
