// Package cli implements the wordtower command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/buildinfo"
	"github.com/matzehuels/wordtower/pkg/cache"
	"github.com/matzehuels/wordtower/pkg/config"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/history"
	"github.com/matzehuels/wordtower/pkg/journal"
	"github.com/matzehuels/wordtower/pkg/observability"
	"github.com/matzehuels/wordtower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// redisPrefix scopes cache keys in a shared Redis database.
	redisPrefix = "wordtower:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Wordtower builds and scores word towers for the DatsWordTower game",
		Long:          `Wordtower fetches the word inventory from the game service, grows a tower of crossing words floor by floor, scores it locally, and submits it. It can also render towers, replay journals, and serve the builder over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.scoreCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.wordsCommand())
	root.AddCommand(c.shuffleCommand())
	root.AddCommand(c.towersCommand())
	root.AddCommand(c.roundsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.journalCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and installs logging hooks.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	observability.NewLogHooks(c.Logger).Register()
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, c.Config.Cache, noCache, c.Logger)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.MaxTTL = c.Config.Cache.TTL
	return r, nil
}

// newCache picks Redis when an address is configured, the file cache
// otherwise, and no cache when disabled.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool, logger *log.Logger) (cache.Cache, error) {
	switch {
	case noCache || cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("using redis cache", "addr", cfg.RedisAddr)
		return rc, nil
	}
	dir := cacheDir(cfg)
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newClient creates a game client. rec may be nil.
func (c *CLI) newClient(rec gameapi.Recorder) (*gameapi.Client, error) {
	if err := c.Config.RequireToken(); err != nil {
		return nil, err
	}
	opts := gameapi.Options{
		BaseURL: c.Config.API.BaseURL,
		Token:   c.Config.API.Token,
		Timeout: c.Config.API.Timeout,
		Retries: c.Config.API.Retries,
		Logger:  c.Logger,
	}
	if rec != nil {
		opts.Recorder = rec
	}
	return gameapi.NewClient(opts)
}

// openJournal returns nil when the journal is disabled.
func (c *CLI) openJournal(runID string) (*journal.Journal, error) {
	if c.Config.Journal.Disabled {
		return nil, nil
	}
	return journal.New(journal.Options{
		Dir:    c.Config.Journal.Dir,
		Limit:  c.Config.Journal.Limit,
		Logger: c.Logger,
		RunID:  runID,
	})
}

// openHistory returns nil when the history is disabled.
func (c *CLI) openHistory() (*history.Store, error) {
	if c.Config.History.Disabled {
		return nil, nil
	}
	return history.Open(c.Config.History.Path)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds pipeline options from the config.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Convention: c.Config.Builder.Convention(),
		Builder:    c.Config.Builder.Options,
		Explore:    c.Config.Play.Explore,
		Logger:     c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseVolume parses "WxDxH", e.g. "30x30x100". Empty means unset.
func parseVolume(s string) (geom.Volume, error) {
	if s == "" {
		return geom.Volume{}, nil
	}
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return geom.Volume{}, fmt.Errorf("invalid volume %q (want WIDTHxDEPTHxHEIGHT)", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return geom.Volume{}, fmt.Errorf("invalid volume %q (want WIDTHxDEPTHxHEIGHT)", s)
		}
		v[i] = n
	}
	return geom.VolumeFromArray(v), nil
}
