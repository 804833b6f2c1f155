package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/history"
	"github.com/matzehuels/wordtower/pkg/render/nodelink"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		wordsFile string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "inspect [tower.json]",
		Short: "Browse a tower floor by floor",
		Long: `Inspect opens an interactive floor browser.

Without an argument it lists the towers in the history database to pick
from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				title      string
				vocab      *geom.Vocabulary
				placements []geom.Placement
				err        error
			)
			if len(args) == 1 {
				title = filepath.Base(args[0])
				vocab, placements, err = loadTower(ctx, args[0], wordsFile)
			} else {
				title, vocab, placements, err = c.pickRecord(ctx, limit)
			}
			if err != nil || vocab == nil {
				return err
			}
			return c.browseFloors(ctx, title, vocab, placements)
		},
	}

	cmd.Flags().StringVarP(&wordsFile, "words", "w", "", "word list for a bare build request")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of recent towers to list")

	return cmd
}

// pickRecord lets the user choose a history record. A nil vocabulary
// means nothing was chosen.
func (c *CLI) pickRecord(ctx context.Context, limit int) (string, *geom.Vocabulary, []geom.Placement, error) {
	store, err := c.openHistory()
	if err != nil || store == nil {
		if store == nil && err == nil {
			printWarning("History is disabled in the config; pass a tower file")
		}
		return "", nil, nil, err
	}
	defer store.Close()

	records, err := store.Recent(ctx, limit)
	if err != nil {
		return "", nil, nil, err
	}
	if len(records) == 0 {
		printInfo("No towers recorded")
		return "", nil, nil, nil
	}

	final, err := tea.NewProgram(NewRecordListModel(records), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", nil, nil, err
	}
	sel := final.(RecordListModel).Selected
	if sel == nil {
		return "", nil, nil, nil
	}
	vocab, placements := recordTower(*sel)
	return fmt.Sprintf("Tower #%d", sel.ID), vocab, placements, nil
}

// recordTower rebuilds a vocabulary from the words stored with a record.
// Placement i is renumbered to word id i.
func recordTower(r history.Record) (*geom.Vocabulary, []geom.Placement) {
	placements := make([]geom.Placement, len(r.Placements))
	for i, p := range r.Placements {
		p.WordID = i
		placements[i] = p
	}
	return geom.NewVocabulary(r.Words), placements
}

func (c *CLI) browseFloors(ctx context.Context, title string, vocab *geom.Vocabulary, placements []geom.Placement) error {
	opts := c.pipelineOptions()
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	report, _ := runner.Evaluate(ctx, vocab, placements, opts)
	floors := nodelink.Floors(vocab, placements, opts.Convention)
	_, err = tea.NewProgram(NewFloorModel(title, floors, report), tea.WithContext(ctx)).Run()
	return err
}
