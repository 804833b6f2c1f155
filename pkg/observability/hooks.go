// Package observability lets a binary watch what the libraries are doing
// without the libraries importing a metrics or tracing backend.
//
// There are three event categories: the tower pipeline (vocabulary, build,
// evaluate, submit), the cache, and outgoing HTTP calls to the game service.
// Each category has an interface and a no-op default. Libraries fetch the
// current hooks at the call site:
//
//	hooks := observability.Pipeline()
//	hooks.OnBuildStart(ctx, base, vocab.Size())
//	placements := b.Build(g)
//	hooks.OnBuildComplete(ctx, base, len(placements), time.Since(start))
//
// Only main registers hooks. The CLI installs [LogHooks] when --verbose is
// set:
//
//	observability.NewLogHooks(logger).Register()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the tower pipeline and play loop.
type PipelineHooks interface {
	// OnVocabulary fires after a word inventory was loaded or failed to load.
	OnVocabulary(ctx context.Context, source string, words int, cached bool, duration time.Duration, err error)
	OnBuildStart(ctx context.Context, base string, vocabSize int)
	OnBuildComplete(ctx context.Context, base string, placements int, duration time.Duration)
	OnEvaluate(ctx context.Context, valid bool, score float64, duration time.Duration)
	// OnSubmit fires once per build request sent to the game service.
	OnSubmit(ctx context.Context, turn int, words int, err error)
}

// CacheHooks receives lookups and writes keyed by cache kind (words,
// build, report).
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives game service calls. OnError is for transport failures;
// non-2xx replies arrive through OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnVocabulary(context.Context, string, int, bool, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, time.Duration)         {}
func (NoopPipelineHooks) OnEvaluate(context.Context, bool, float64, time.Duration)            {}
func (NoopPipelineHooks) OnSubmit(context.Context, int, int, error)                           {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// registry is swapped as a whole so readers never see a half-updated set.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h for pipeline events. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h for cache events. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h for HTTP events. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset puts the no-op hooks back. Tests call it between cases.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
