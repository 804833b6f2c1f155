package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/pipeline"
	"github.com/matzehuels/wordtower/pkg/render/nodelink"
)

// scoreCommand creates the score command.
func (c *CLI) scoreCommand() *cobra.Command {
	var (
		wordsFile    string
		verticalStep int
		floors       bool
	)

	cmd := &cobra.Command{
		Use:   "score [tower.json]",
		Short: "Validate and score a saved tower",
		Long: `Score checks a tower against the game rules and computes its score.

The input is the JSON artifact written by "build -f json", or a bare build
request ({"done": true, "words": [...]}) together with --words.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab, placements, err := loadTower(cmd.Context(), args[0], wordsFile)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions()
			if verticalStep != 0 {
				opts.Convention = geom.Convention{VerticalStep: verticalStep}
			}

			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			report, _ := runner.Evaluate(cmd.Context(), vocab, placements, opts)

			fmt.Println(StyleTitle.Render("Score"))
			printStats(vocab.Size(), len(placements), false)
			printReport(report)
			if floors {
				printNewline()
				fmt.Print(nodelink.FormatFloors(nodelink.Floors(vocab, placements, opts.Convention)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&wordsFile, "words", "w", "", "word list for a bare build request")
	cmd.Flags().IntVar(&verticalStep, "vertical-step", 0, "z step per vertical letter: -1 (down) or 1 (up)")
	cmd.Flags().BoolVar(&floors, "floors", false, "print every floor as a letter grid")

	return cmd
}

// loadTower reads a tower export, or a build request plus a word file.
func loadTower(ctx context.Context, path, wordsFile string) (*geom.Vocabulary, []geom.Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, werrors.Wrap(werrors.ErrCodeNotFound, err, "read tower")
	}

	var probe struct {
		Request json.RawMessage `json:"request"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	var export pipeline.Export
	if probe.Request != nil {
		err = json.Unmarshal(data, &export)
	} else {
		err = json.Unmarshal(data, &export.Request)
	}
	if err != nil {
		return nil, nil, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "decode %s", path)
	}

	words := export.Words
	if wordsFile != "" {
		inv, err := pipeline.FileSource{Path: wordsFile}.Fetch(ctx)
		if err != nil {
			return nil, nil, err
		}
		words = inv.Words
	}
	if len(words) == 0 {
		return nil, nil, werrors.New(werrors.ErrCodeInvalidInput, "%s has no word list; pass --words", path)
	}

	if err := gameapi.ValidateBuildRequest(export.Request); err != nil {
		return nil, nil, err
	}
	placements, err := gameapi.PlacementsFromCommands(export.Request.Words)
	if err != nil {
		return nil, nil, err
	}
	vocab := geom.NewVocabulary(words)
	for _, p := range placements {
		if !vocab.Has(p.WordID) {
			return nil, nil, werrors.New(werrors.ErrCodeInvalidPlacement,
				"word id %d is outside the %d-word list", p.WordID, vocab.Size())
		}
	}
	return vocab, placements, nil
}
