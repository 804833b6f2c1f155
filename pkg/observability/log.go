package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Errors are
// logged at warn level. It implements all hook interfaces, so a single
// value can be registered for each category.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to log.Default() if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Register installs h as the pipeline, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnVocabulary(_ context.Context, source string, words int, cached bool, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("vocabulary failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("vocabulary", "source", source, "words", words, "cached", cached, "took", d)
}

func (h *LogHooks) OnBuildStart(_ context.Context, base string, vocabSize int) {
	h.Logger.Debug("build start", "base", base, "words", vocabSize)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, base string, placements int, d time.Duration) {
	h.Logger.Debug("build done", "base", base, "placements", placements, "took", d)
}

func (h *LogHooks) OnEvaluate(_ context.Context, valid bool, score float64, d time.Duration) {
	h.Logger.Debug("evaluate", "valid", valid, "score", score, "took", d)
}

func (h *LogHooks) OnSubmit(_ context.Context, turn int, words int, err error) {
	if err != nil {
		h.Logger.Warn("submit failed", "turn", turn, "words", words, "err", err)
		return
	}
	h.Logger.Debug("submit", "turn", turn, "words", words)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("request failed", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
