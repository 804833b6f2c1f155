package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit int
		run   string
		best  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List towers recorded by play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				printWarning("History is disabled in the config")
				return nil
			}
			defer store.Close()

			ctx := cmd.Context()
			if best {
				rec, ok, err := store.Best(ctx)
				if err != nil {
					return err
				}
				if !ok {
					printInfo("No valid tower recorded yet")
					return nil
				}
				printSuccess("%s", rec.Summary())
				printDetail("run %s", rec.RunID)
				return nil
			}

			var records []history.Record
			if run != "" {
				records, err = store.Run(ctx, run)
			} else {
				records, err = store.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No towers recorded")
				return nil
			}
			fmt.Println(historyTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of recent towers")
	cmd.Flags().StringVar(&run, "run", "", "show every tower of one run")
	cmd.Flags().BoolVar(&best, "best", false, "show the best valid tower")

	return cmd
}

func historyTable(records []history.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		status := "valid"
		switch {
		case !r.Valid:
			status = "invalid"
		case r.Submitted:
			status = "sent"
		}
		rows[i] = []string{
			fmt.Sprintf("%d", r.ID),
			r.Time.Format("01-02 15:04:05"),
			fmt.Sprintf("%d", r.Turn),
			fmt.Sprintf("%d", len(r.Placements)),
			fmt.Sprintf("%.2f", r.Score),
			status,
			truncate(strings.Join(r.Words, " "), 40),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("id", "time", "turn", "placed", "score", "status", "words").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row < len(records) && !records[row].Valid {
				return StyleDim
			}
			if col == 4 {
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
