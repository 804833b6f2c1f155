package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtower/pkg/journal"
)

// journalCommand creates the journal command with its subcommands.
func (c *CLI) journalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the exchange journal",
	}

	cmd.AddCommand(c.journalListCommand())
	cmd.AddCommand(c.journalShowCommand())

	return cmd
}

func (c *CLI) journalListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List journal files, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := journal.List(c.Config.Journal.Dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				printInfo("No journal files in %s", c.Config.Journal.Dir)
				return nil
			}
			for _, f := range files {
				info, err := os.Stat(f)
				if err != nil {
					continue
				}
				printFile(fmt.Sprintf("%s  %s", filepath.Base(f), StyleDim.Render(fmt.Sprintf("%d bytes", info.Size()))))
			}
			printDetail("Directory: %s", c.Config.Journal.Dir)
			return nil
		},
	}
}

func (c *CLI) journalShowCommand() *cobra.Command {
	var (
		kind string
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the entries of a journal file",
		Long: `Show decodes a journal file. A bare file name is looked up in the
journal directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); os.IsNotExist(err) {
				path = filepath.Join(c.Config.Journal.Dir, args[0])
			}
			entries, err := journal.ReadFile(path)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if kind != "" && e.Kind != kind {
					continue
				}
				fmt.Println(formatEntry(e, raw))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only show entries of this kind (exchange, event)")
	cmd.Flags().BoolVar(&raw, "raw", false, "include request and response bodies")

	return cmd
}

// formatEntry renders one entry on a line, with bodies indented below
// when raw is set.
func formatEntry(e journal.Entry, raw bool) string {
	head := StyleDim.Render(fmt.Sprintf("%4d %s", e.Seq, e.Time.Format("15:04:05.000")))
	var line string
	switch e.Kind {
	case journal.KindExchange:
		status := StyleValue.Render(fmt.Sprintf("%d", e.Status))
		if e.Status >= 400 || e.Error != "" {
			status = styleInvalid.Render(fmt.Sprintf("%d", e.Status))
		}
		line = fmt.Sprintf("%s %s %s %s %s", head, e.Method, e.Path, status, StyleDim.Render(fmt.Sprintf("%dms", e.Millis)))
		if e.Error != "" {
			line += " " + styleInvalid.Render(e.Error)
		}
	default:
		line = fmt.Sprintf("%s %s %s", head, StyleTitle.Render(e.Message), formatFields(e.Fields))
	}
	if raw {
		if len(e.Request) > 0 {
			line += "\n      > " + string(e.Request)
		}
		if len(e.Response) > 0 {
			line += "\n      < " + string(e.Response)
		}
	}
	return line
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = StyleDim.Render(k+"=") + fmt.Sprint(fields[k])
	}
	return strings.Join(parts, " ")
}
