package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/pipeline"
	"github.com/matzehuels/wordtower/pkg/render"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	api          bool    // fetch the live inventory instead of reading a file
	output       string  // base path for artifacts
	formats      string  // comma-separated artifact formats
	explore      bool    // try every base word
	base         int     // base word id, -1 for the first eligible one
	detailed     bool    // label every crossing in DOT output
	volume       string  // WxDxH override
	verticalStep int     // -1 or 1, 0 keeps the config
	scale        float64 // PNG scale
	noCache      bool    // skip the cache entirely
	refresh      bool    // ignore cached entries but store new ones
	placements   bool    // print the placement table
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{base: -1, output: "tower"}

	cmd := &cobra.Command{
		Use:   "build [words-file]",
		Short: "Build a tower from a word list and score it",
		Long: `Build grows a tower from a word list and scores it locally.

The word list is a text file with one word per line, or a .json words
response saved from the game. With --api the live inventory is used.

Artifacts are written next to --output, one file per --format.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.api {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var src pipeline.WordSource
			if opts.api {
				client, err := c.newClient(nil)
				if err != nil {
					return err
				}
				src = pipeline.APISource{
					Client: client,
					Key:    pipeline.APISourceKey(client.BaseURL(), c.Config.API.Token),
				}
			} else {
				src = pipeline.FileSource{Path: args[0]}
			}
			return c.runBuild(cmd.Context(), src, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.api, "api", false, "fetch the live inventory from the game service")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "base path for artifacts")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "artifact format(s): dot, svg, png, pdf, txt, json (comma-separated)")
	cmd.Flags().BoolVarP(&opts.explore, "explore", "e", false, "try every base word and keep the best valid tower")
	cmd.Flags().IntVar(&opts.base, "base", opts.base, "build from this word id")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label every crossing in DOT/SVG output")
	cmd.Flags().StringVar(&opts.volume, "volume", "", "map size as WIDTHxDEPTHxHEIGHT (default from the inventory)")
	cmd.Flags().IntVar(&opts.verticalStep, "vertical-step", 0, "z step per vertical letter: -1 (down) or 1 (up)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.placements, "placements", false, "print every placement")

	return cmd
}

// pipelineOptions merges the flags into the config defaults.
func (o *buildOpts) pipelineOptions(c *CLI) (pipeline.Options, error) {
	popts := c.pipelineOptions()
	vol, err := parseVolume(o.volume)
	if err != nil {
		return popts, err
	}
	popts.Volume = vol
	if o.verticalStep != 0 {
		popts.Convention = geom.Convention{VerticalStep: o.verticalStep}
	}
	if o.base >= 0 {
		base := o.base
		popts.Base = &base
	}
	popts.Explore = popts.Explore || o.explore
	popts.Detailed = o.detailed
	popts.Refresh = o.refresh
	popts.Scale = o.scale
	popts.Formats = parseFormats(o.formats)
	for _, f := range popts.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return popts, err
		}
	}
	return popts, nil
}

func (c *CLI) runBuild(ctx context.Context, src pipeline.WordSource, opts *buildOpts) error {
	popts, err := opts.pipelineOptions(c)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, src, popts)
	if err != nil {
		return err
	}
	prog.done("Built tower", "words", result.Stats.Words, "placed", result.Stats.Placements)

	fmt.Println(StyleTitle.Render("Tower"))
	printStats(result.Stats.Words, result.Stats.Placements, result.CacheInfo.BuildHit)
	if popts.Explore {
		printDetail("explored %d bases", result.Stats.Bases)
	}
	if opts.placements {
		fmt.Println(placementTable(result.Vocab, result.Placements))
	}
	printReport(result.Report)

	if len(result.Artifacts) == 0 {
		printNewline()
		printNextStep("Render it", fmt.Sprintf("%s build %s -f svg,txt", appName, srcArg(src)))
		return nil
	}
	paths, err := writeArtifacts(opts.output, result.Artifacts)
	if err != nil {
		return err
	}
	printSuccess("Wrote %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes one file per format as <base>.<format>.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func srcArg(src pipeline.WordSource) string {
	if fs, ok := src.(pipeline.FileSource); ok {
		return fs.Path
	}
	return "--api"
}
