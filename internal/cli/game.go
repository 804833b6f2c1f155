package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/gameapi"
)

// wordsCommand creates the words command.
func (c *CLI) wordsCommand() *cobra.Command {
	var (
		save     string
		showUsed bool
	)

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Show the current word inventory",
		Long: `Words fetches the inventory from the game service.

With --save the raw response is written to a file that "build" accepts
as a word list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(nil)
			if err != nil {
				return err
			}
			resp, err := spin(cmd.Context(), "Fetching words...", client.Words)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Inventory"))
			printKeyValue("turn", fmt.Sprintf("%d", resp.Turn))
			printKeyValue("map", fmt.Sprintf("%dx%dx%d", resp.MapSize[0], resp.MapSize[1], resp.MapSize[2]))
			printKeyValue("words", fmt.Sprintf("%d (%d used)", len(resp.Words), len(resp.UsedIndexes)))
			printKeyValue("shuffles left", fmt.Sprintf("%d", resp.ShuffleLeft))
			printKeyValue("next turn", resp.NextTurn().String())
			if resp.RoundEndsAt != "" {
				printKeyValue("round ends", resp.RoundEndsAt)
			}
			printNewline()
			fmt.Println(wordList(resp.Words, resp.UsedIndexes, showUsed))

			if save != "" {
				if err := writeJSONFile(save, resp); err != nil {
					return err
				}
				printFile(save)
				printNextStep("Build from it", fmt.Sprintf("%s build %s", appName, save))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&save, "save", "s", "", "write the response as JSON")
	cmd.Flags().BoolVar(&showUsed, "used", false, "include used words")

	return cmd
}

// shuffleCommand creates the shuffle command.
func (c *CLI) shuffleCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Ask the game service for a new inventory",
		Long: `Shuffle spends one of the limited shuffles of the round to replace the
word inventory. Pass --yes to confirm.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				printWarning("Shuffles are limited per round; rerun with --yes to spend one")
				return nil
			}
			jr, err := c.openJournal("")
			if err != nil {
				return err
			}
			var rec gameapi.Recorder
			if jr != nil {
				defer jr.Close()
				rec = jr
			}
			client, err := c.newClient(rec)
			if err != nil {
				return err
			}
			resp, err := spin(cmd.Context(), "Shuffling...", client.Shuffle)
			if err != nil {
				return err
			}
			printSuccess("Shuffled: %d words, %d shuffles left", len(resp.Words), resp.ShuffleLeft)
			fmt.Println(wordList(resp.Words, nil, true))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the shuffle")

	return cmd
}

// towersCommand creates the towers command.
func (c *CLI) towersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "towers",
		Short: "Show finished towers and the tower under construction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(nil)
			if err != nil {
				return err
			}
			resp, err := spin(cmd.Context(), "Fetching towers...", client.Towers)
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render("Towers"))
			printKeyValue("total score", StyleNumber.Render(fmt.Sprintf("%.2f", resp.Score)))
			printKeyValue("finished", fmt.Sprintf("%d", len(resp.DoneTowers)))
			if len(resp.DoneTowers) > 0 {
				fmt.Println(doneTowerTable(resp.DoneTowers))
			}
			if resp.Tower == nil || len(resp.Tower.Words) == 0 {
				printInfo("No tower under construction")
				return nil
			}
			printNewline()
			printInfo("Current tower: %d words, score %.2f", len(resp.Tower.Words), resp.Tower.Score)
			fmt.Println(towerWordTable(resp.Tower.Words))
			return nil
		},
	}
	return cmd
}

// roundsCommand creates the rounds command.
func (c *CLI) roundsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "Show the round schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(nil)
			if err != nil {
				return err
			}
			resp, err := spin(cmd.Context(), "Fetching rounds...", client.Rounds)
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render("Rounds"))
			printKeyValue("event", resp.EventID)
			printKeyValue("now", resp.Now)
			fmt.Println(roundTable(resp.Rounds))
			return nil
		},
	}
	return cmd
}

// wordList lays out the words five per line with their ids. Used words
// are dimmed, or hidden unless showUsed is set.
func wordList(words []string, used []int, showUsed bool) string {
	isUsed := make(map[int]bool, len(used))
	for _, id := range used {
		isUsed[id] = true
	}
	var b strings.Builder
	col := 0
	for id, w := range words {
		if isUsed[id] && !showUsed {
			continue
		}
		item := fmt.Sprintf("%4d %-14s", id, w)
		if isUsed[id] {
			item = StyleDim.Render(item)
		}
		b.WriteString(item)
		if col++; col%5 == 0 {
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func doneTowerTable(towers []gameapi.DoneTower) string {
	rows := make([][]string, len(towers))
	for i, t := range towers {
		rows[i] = []string{fmt.Sprintf("%d", t.ID), fmt.Sprintf("%.2f", t.Score)}
	}
	return simpleTable([]string{"id", "score"}, rows)
}

func towerWordTable(words []gameapi.TowerWord) string {
	rows := make([][]string, len(words))
	for i, w := range words {
		rows[i] = []string{
			fmt.Sprintf("%d", w.ID),
			w.Text,
			fmt.Sprintf("%d", w.Dir),
			fmt.Sprintf("(%d,%d,%d)", w.Pos[0], w.Pos[1], w.Pos[2]),
		}
	}
	return simpleTable([]string{"id", "word", "dir", "pos"}, rows)
}

func roundTable(rounds []gameapi.Round) string {
	rows := make([][]string, len(rounds))
	for i, r := range rounds {
		rows[i] = []string{r.Name, r.Status, r.StartAt, r.EndAt, fmt.Sprintf("%ds", r.Duration)}
	}
	return simpleTable([]string{"name", "status", "start", "end", "duration"}, rows)
}

func simpleTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			return StyleValue
		}).
		Render()
}

// writeJSONFile writes v as indented JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
