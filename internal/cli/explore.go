package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/geom"
	"github.com/matzehuels/wordtower/pkg/pipeline"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		workers int
		limit   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "explore [words-file]",
		Short: "Build from every base word and rank the towers",
		Long: `Explore grows one tower per eligible base word, in parallel, scores
each of them, and lists them best first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.pipelineOptions()
			opts.Workers = workers
			inv, _, err := runner.Vocabulary(ctx, pipeline.FileSource{Path: args[0]}, opts)
			if err != nil {
				return err
			}
			vocab := geom.NewVocabulary(inv.Words)

			prog := newProgress(c.Logger)
			exp, err := runner.Explore(ctx, vocab, inv, opts)
			if exp == nil {
				return err
			}
			prog.done("Explored bases", "towers", len(exp.Candidates))

			fmt.Println(StyleTitle.Render("Candidates"))
			if len(exp.Candidates) > 0 {
				fmt.Println(candidateTable(exp.Candidates, limit))
			}
			if werrors.Is(err, werrors.ErrCodeBuildFailed) {
				printWarning("%s", werrors.UserMessage(err))
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess("Best: base %q, score %s", exp.Best.Word, StyleNumber.Render(fmt.Sprintf("%.2f", exp.Best.Report.Score)))
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "parallel builds (default: number of CPUs)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "rows to show (0 = all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func candidateTable(cs []pipeline.Candidate, limit int) string {
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	rows := make([][]string, len(cs))
	for i, cand := range cs {
		verdict := "valid"
		if !cand.Report.Valid {
			verdict = truncate(cand.Report.InvalidReason, 50)
		}
		rows[i] = []string{
			fmt.Sprintf("%d", cand.Base),
			cand.Word,
			fmt.Sprintf("%d", len(cand.Placements)),
			fmt.Sprintf("%.2f", cand.Report.Score),
			verdict,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("base", "word", "placed", "score", "verdict").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < len(cs) && !cs[row].Report.Valid {
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
