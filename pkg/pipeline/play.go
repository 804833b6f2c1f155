package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/history"
	"github.com/matzehuels/wordtower/pkg/httputil"
	"github.com/matzehuels/wordtower/pkg/observability"
	"github.com/matzehuels/wordtower/pkg/scorer"
)

// Play loop defaults.
const (
	DefaultInterval     = 350 * time.Millisecond
	DefaultErrorBackoff = 5 * time.Second
)

// Game is the part of the game client the play loop uses.
type Game interface {
	WordsClient
	Build(ctx context.Context, req gameapi.BuildRequest) (*gameapi.PlayerWordsResponse, error)
	Shuffle(ctx context.Context) (*gameapi.PlayerWordsResponse, error)
}

// EventLog receives play events. *journal.Journal implements it.
type EventLog interface {
	Event(msg string, fields map[string]any) error
}

// HistoryStore receives every evaluated tower. *history.Store implements
// it.
type HistoryStore interface {
	Record(ctx context.Context, r history.Record) (int64, error)
}

// PlayOptions configures the game loop.
type PlayOptions struct {
	Options

	// SendRequests submits valid towers and shuffles. When false the loop
	// only builds and scores.
	SendRequests bool

	// Interval is the minimum time between turns.
	Interval time.Duration

	// ErrorBackoff is the pause after a failed turn.
	ErrorBackoff time.Duration

	// Rounds stops the loop after this many turns. Zero runs until ctx is
	// cancelled.
	Rounds int

	// Shuffle requests a fresh inventory when no tower can be built.
	Shuffle bool
}

func (o *PlayOptions) setDefaults() {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.ErrorBackoff < 0 {
		o.ErrorBackoff = 0
	}
}

// Turn is the outcome of one loop iteration.
type Turn struct {
	Number      int
	ServerTurn  int
	Words       int
	Placements  []geom.Placement
	Report      scorer.Report
	Submitted   bool
	Shuffled    bool
	ShuffleLeft int
	Duration    time.Duration
}

// PlayStats summarizes a loop.
type PlayStats struct {
	Turns     int
	Submitted int
	Shuffles  int
	Invalid   int
	Errors    int
	Best      float64
}

// Player runs the game loop.
type Player struct {
	Runner *Runner
	Game   Game

	// Source overrides where words come from, for offline play from a
	// file. Nil means Game.
	Source WordSource

	Journal EventLog
	History HistoryStore
	RunID   string
	Logger  *log.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// Play runs turns until ctx is cancelled, opts.Rounds turns have run, or a
// turn fails with an error that retrying cannot fix (see errors.Fatal).
// onTurn, if non-nil, is called after every successful turn.
//
// Failed turns are followed by opts.ErrorBackoff, except when the server
// dropped the connection with GOAWAY, which is retried at once.
func (p *Player) Play(ctx context.Context, opts PlayOptions, onTurn func(Turn)) (PlayStats, error) {
	opts.setDefaults()
	logger := p.logger()
	sleep := p.sleep
	if sleep == nil {
		sleep = httputil.Sleep
	}

	var stats PlayStats
	pacer := httputil.NewPacer(opts.Interval)
	for n := 1; opts.Rounds == 0 || n <= opts.Rounds; n++ {
		if err := pacer.Wait(ctx); err != nil {
			return stats, nil
		}

		t, err := p.Turn(ctx, n, opts)
		if err != nil {
			if ctx.Err() != nil {
				return stats, nil
			}
			stats.Errors++
			p.event("turn failed", map[string]any{"turn": n, "error": err.Error(), "code": string(werrors.GetCode(err))})
			if werrors.Fatal(err) {
				logger.Error("stopping", "turn", n, "err", err)
				return stats, err
			}
			logTurnError(logger, n, err)
			if !gameapi.IsGoAway(err) {
				if err := sleep(ctx, opts.ErrorBackoff); err != nil {
					return stats, nil
				}
			}
			continue
		}

		stats.Turns++
		switch {
		case t.Shuffled:
			stats.Shuffles++
		case !t.Report.Valid:
			stats.Invalid++
		}
		if t.Submitted {
			stats.Submitted++
		}
		if t.Report.Valid && t.Report.Score > stats.Best {
			stats.Best = t.Report.Score
		}
		if onTurn != nil {
			onTurn(t)
		}
	}
	return stats, nil
}

// Turn fetches words, builds and scores a tower, records it, and submits
// it when opts.SendRequests is set and the tower is valid. When no tower
// can be built and shuffles remain, it shuffles instead.
func (p *Player) Turn(ctx context.Context, n int, opts PlayOptions) (Turn, error) {
	start := time.Now()
	logger := p.logger().With("turn", n)
	t := Turn{Number: n}

	if p.Runner == nil {
		return t, werrors.New(werrors.ErrCodeInvalidConfig, "player has no pipeline runner")
	}
	src := p.Source
	if src == nil {
		if p.Game == nil {
			return t, werrors.New(werrors.ErrCodeInvalidConfig, "player has neither a game client nor a word source")
		}
		src = APISource{Client: p.Game}
	}
	inv, err := src.Fetch(ctx)
	observability.Pipeline().OnVocabulary(ctx, src.Name(), inventorySize(inv), false, time.Since(start), err)
	if err != nil {
		return t, err
	}
	t.ServerTurn = inv.Turn
	t.Words = len(inv.Words)
	t.ShuffleLeft = inv.ShuffleLeft
	vocab := inv.Vocabulary()

	placements, err := p.build(ctx, vocab, inv, opts.Options)
	if werrors.Is(err, werrors.ErrCodeBuildFailed) {
		logger.Info("no tower", "reason", werrors.UserMessage(err), "shuffles", inv.ShuffleLeft)
		if opts.Shuffle && opts.SendRequests && inv.ShuffleLeft > 0 && p.Game != nil {
			resp, err := p.Game.Shuffle(ctx)
			if err != nil {
				return t, err
			}
			t.Shuffled = true
			t.ShuffleLeft = resp.ShuffleLeft
			p.event("shuffled", map[string]any{"turn": n, "shuffle_left": resp.ShuffleLeft})
		}
		t.Duration = time.Since(start)
		return t, nil
	}
	if err != nil {
		return t, err
	}
	t.Placements = placements

	report, _ := p.Runner.Evaluate(ctx, vocab, placements, opts.Options)
	t.Report = report
	logger.Info("tower",
		"words", len(placements),
		"valid", report.Valid,
		"score", report.Score,
		"floors", len(report.Floors))
	if !report.Valid {
		logger.Warn("tower rejected", "reason", report.InvalidReason)
	}

	if opts.SendRequests && report.Valid && p.Game != nil {
		req := gameapi.BuildRequest{Done: true, Words: gameapi.CommandsFromPlacements(placements)}
		_, err := p.Game.Build(ctx, req)
		observability.Pipeline().OnSubmit(ctx, n, len(placements), err)
		if err != nil {
			p.record(ctx, inv, t)
			return t, err
		}
		t.Submitted = true
	}

	p.record(ctx, inv, t)
	p.event("turn", map[string]any{
		"turn": n, "server_turn": inv.Turn, "words": len(placements),
		"valid": report.Valid, "score": report.Score, "submitted": t.Submitted,
	})
	t.Duration = time.Since(start)
	return t, nil
}

func (p *Player) build(ctx context.Context, vocab *geom.Vocabulary, inv *Inventory, opts Options) ([]geom.Placement, error) {
	if opts.Explore {
		ex, err := p.Runner.Explore(ctx, vocab, inv, opts)
		if err != nil {
			return nil, err
		}
		return ex.Best.Placements, nil
	}
	placements, _, err := p.Runner.Build(ctx, vocab, inv, opts)
	return placements, err
}

func (p *Player) record(ctx context.Context, inv *Inventory, t Turn) {
	if p.History == nil {
		return
	}
	words := make([]string, len(t.Placements))
	for i, pl := range t.Placements {
		if pl.WordID >= 0 && pl.WordID < len(inv.Words) {
			words[i] = inv.Words[pl.WordID]
		}
	}
	_, err := p.History.Record(ctx, history.Record{
		RunID:      p.RunID,
		Turn:       t.Number,
		Words:      words,
		Placements: t.Placements,
		Score:      t.Report.Score,
		Valid:      t.Report.Valid,
		Reason:     t.Report.InvalidReason,
		Submitted:  t.Submitted,
	})
	if err != nil {
		p.logger().Warn("history write failed", "err", err)
	}
}

func (p *Player) event(msg string, fields map[string]any) {
	if p.Journal == nil {
		return
	}
	if err := p.Journal.Event(msg, fields); err != nil {
		p.logger().Warn("journal write failed", "err", err)
	}
}

func (p *Player) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	if p.Runner != nil {
		return p.Runner.Logger
	}
	return log.Default()
}

func logTurnError(logger *log.Logger, n int, err error) {
	if rej, ok := gameapi.Rejection(err); ok && rej.OutOfBounds != nil {
		oob := rej.OutOfBounds
		logger.Error("word out of bounds",
			"turn", n,
			"word", oob.Word,
			"id", oob.ID,
			"head", oob.Head,
			"tail", oob.Tail,
			"length", oob.Length())
		return
	}
	var rl *werrors.RateLimitedError
	if errors.As(err, &rl) {
		logger.Warn("rate limited", "turn", n, "retry_after", rl.RetryAfter)
		return
	}
	logger.Error("turn failed", "turn", n, "code", werrors.GetCode(err), "err", err)
}
