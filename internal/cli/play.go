package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/pipeline"
)

// playOpts holds the command-line flags for the play command. Unset flags
// keep the config values.
type playOpts struct {
	send      bool
	rounds    int
	interval  time.Duration
	wordsFile string
	explore   bool
	noShuffle bool
	noCache   bool
}

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run the game loop: fetch words, build, score, submit",
		Long: `Play runs turns until interrupted or --rounds turns have run.

Each turn fetches the inventory, builds the best tower it can, scores it,
and with --send submits valid towers. When no tower can be built and
shuffles remain, it asks for a new inventory instead.

Every exchange with the service is written to the journal, and every
tower to the history database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			play := c.Config.Play
			if cmd.Flags().Changed("send") {
				play.SendRequests = opts.send
			}
			if cmd.Flags().Changed("rounds") {
				play.Rounds = opts.rounds
			}
			if cmd.Flags().Changed("interval") {
				play.Interval = opts.interval
			}
			if opts.wordsFile != "" {
				play.WordsFile = opts.wordsFile
			}
			if opts.explore {
				play.Explore = true
			}
			if opts.noShuffle {
				play.Shuffle = false
			}
			c.Config.Play = play
			return c.runPlay(cmd.Context(), opts.noCache)
		},
	}

	cmd.Flags().BoolVar(&opts.send, "send", false, "submit valid towers and shuffles (default from config)")
	cmd.Flags().IntVarP(&opts.rounds, "rounds", "n", 0, "stop after this many turns (0 = until interrupted)")
	cmd.Flags().DurationVar(&opts.interval, "interval", pipeline.DefaultInterval, "minimum time between turns")
	cmd.Flags().StringVarP(&opts.wordsFile, "words", "w", "", "read words from a file instead of the service")
	cmd.Flags().BoolVarP(&opts.explore, "explore", "e", false, "try every base word and keep the best valid tower")
	cmd.Flags().BoolVar(&opts.noShuffle, "no-shuffle", false, "never ask for a new inventory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, noCache bool) error {
	cfg := c.Config.Play
	runID := uuid.NewString()
	logger := c.Logger.With("run", runID[:8])

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	player := &pipeline.Player{Runner: runner, RunID: runID, Logger: logger}

	jr, err := c.openJournal(runID)
	if err != nil {
		return err
	}
	if jr != nil {
		defer func() {
			if err := jr.Close(); err != nil {
				logger.Warn("journal close failed", "err", err)
			}
		}()
		player.Journal = jr
	}

	hist, err := c.openHistory()
	if err != nil {
		return err
	}
	if hist != nil {
		defer hist.Close()
		player.History = hist
	}

	if cfg.WordsFile != "" {
		player.Source = pipeline.FileSource{Path: cfg.WordsFile}
	}
	if cfg.WordsFile == "" || cfg.SendRequests {
		var rec gameapi.Recorder
		if jr != nil {
			rec = jr
		}
		client, err := c.newClient(rec)
		if err != nil {
			return err
		}
		player.Game = client
	}

	opts := pipeline.PlayOptions{
		Options:      c.pipelineOptions(),
		SendRequests: cfg.SendRequests,
		Interval:     cfg.Interval,
		ErrorBackoff: cfg.ErrorBackoff,
		Rounds:       cfg.Rounds,
		Shuffle:      cfg.Shuffle,
	}
	opts.Explore = cfg.Explore

	fmt.Println(StyleTitle.Render("Playing"))
	printKeyValue("run", runID)
	printKeyValue("server", c.Config.API.BaseURL)
	printKeyValue("send", fmt.Sprintf("%v", cfg.SendRequests))
	if jr != nil {
		printKeyValue("journal", jr.Dir())
	}
	printNewline()

	prog := newProgress(logger)
	stats, err := player.Play(ctx, opts, printTurn)

	printNewline()
	fmt.Println(StyleTitle.Render("Summary"))
	printKeyValue("turns", fmt.Sprintf("%d", stats.Turns))
	printKeyValue("submitted", fmt.Sprintf("%d", stats.Submitted))
	printKeyValue("invalid", fmt.Sprintf("%d", stats.Invalid))
	printKeyValue("shuffles", fmt.Sprintf("%d", stats.Shuffles))
	printKeyValue("errors", fmt.Sprintf("%d", stats.Errors))
	printKeyValue("best score", fmt.Sprintf("%.2f", stats.Best))
	prog.done("Play finished", "turns", stats.Turns)
	return err
}

// printTurn prints one line per turn.
func printTurn(t pipeline.Turn) {
	switch {
	case t.Shuffled:
		printWarning("turn %d: no tower, shuffled (%d left)", t.Number, t.ShuffleLeft)
	case len(t.Placements) == 0:
		printWarning("turn %d: no tower from %d words", t.Number, t.Words)
	case !t.Report.Valid:
		printError("turn %d: %d words placed, invalid: %s", t.Number, len(t.Placements), t.Report.InvalidReason)
	case t.Submitted:
		printSuccess("turn %d: %d words placed, score %.2f, sent", t.Number, len(t.Placements), t.Report.Score)
	default:
		printInfo("turn %d: %d words placed, score %.2f", t.Number, len(t.Placements), t.Report.Score)
	}
}
