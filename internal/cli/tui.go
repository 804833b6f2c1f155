package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/wordtower/pkg/history"
	"github.com/matzehuels/wordtower/pkg/render/nodelink"
	"github.com/matzehuels/wordtower/pkg/scorer"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	gridStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// =============================================================================
// RecordListModel - Interactive history selection
// =============================================================================

// RecordListModel is the bubbletea model for picking a recorded tower.
type RecordListModel struct {
	Records  []history.Record
	Cursor   int
	Selected *history.Record
	Height   int
	Offset   int
}

// NewRecordListModel creates a new record list model.
func NewRecordListModel(records []history.Record) RecordListModel {
	return RecordListModel{Records: records, Height: 15}
}

func (m RecordListModel) Init() tea.Cmd {
	return nil
}

func (m RecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Records) == 0 || len(m.Records[m.Cursor].Placements) == 0 {
				return m, nil
			}
			rec := m.Records[m.Cursor]
			m.Selected = &rec
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m RecordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Tower"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		valid := "✓"
		if !r.Valid {
			valid = ""
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", r.ID),
			formatRelativeTime(r.Time),
			fmt.Sprintf("%d", len(r.Placements)),
			valid,
			fmt.Sprintf("%.2f", r.Score),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "When", "Words", "Valid", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Records) {
				return lipgloss.NewStyle()
			}
			r := m.Records[idx]
			base := lipgloss.NewStyle()
			if col == 2 {
				base = base.Foreground(colorDim)
			}
			switch {
			case idx == m.Cursor && r.Valid:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Bold(true)
			case r.Valid:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Records))))

	return b.String()
}

// =============================================================================
// FloorModel - Interactive floor browser
// =============================================================================

// FloorModel is the bubbletea model for stepping through tower floors.
type FloorModel struct {
	Title  string
	Floors []nodelink.FloorView
	Report scorer.Report
	Index  int
}

// NewFloorModel creates a floor browser starting at the base floor.
func NewFloorModel(title string, floors []nodelink.FloorView, report scorer.Report) FloorModel {
	return FloorModel{Title: title, Floors: floors, Report: report}
}

func (m FloorModel) Init() tea.Cmd {
	return nil
}

func (m FloorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "up", "k", "n":
			if m.Index < len(m.Floors)-1 {
				m.Index++
			}
		case "left", "h", "down", "j", "p":
			if m.Index > 0 {
				m.Index--
			}
		case "home", "g":
			m.Index = 0
		case "end", "G":
			m.Index = max(len(m.Floors)-1, 0)
		}
	}
	return m, nil
}

func (m FloorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ floor  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Floors) == 0 {
		b.WriteString(listDimStyle.Render("empty tower"))
		b.WriteString("\n")
		return b.String()
	}

	f := m.Floors[m.Index]
	header := fmt.Sprintf("floor %d/%d  z=%d", m.Index+1, len(m.Floors), f.Z)
	if fr, ok := m.floorReport(f.Z); ok {
		header += fmt.Sprintf("  letters %d  score %.2f", fr.LetterCount, fr.Score)
	}
	b.WriteString(listSelectedStyle.Render(header))
	b.WriteString("\n")

	var grid strings.Builder
	for i, row := range f.Rows {
		if i > 0 {
			grid.WriteByte('\n')
		}
		for _, r := range row {
			if r == nodelink.Empty {
				grid.WriteString(listDimStyle.Render("·"))
			} else {
				grid.WriteString(listNormalStyle.Render(string(r)))
			}
		}
	}
	words := listDimStyle.Render(strings.Join(f.Words, "\n"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, gridStyle.Render(grid.String()), "  ", words))
	b.WriteString("\n\n")

	if m.Report.Valid {
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("valid, score %.2f", m.Report.Score)))
	} else {
		b.WriteString(StyleWarning.Render("invalid: " + m.Report.InvalidReason))
	}
	b.WriteString("\n")
	return b.String()
}

func (m FloorModel) floorReport(z int) (scorer.FloorReport, bool) {
	for _, f := range m.Report.Floors {
		if f.Z == z {
			return f, true
		}
	}
	return scorer.FloorReport{}, false
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
