package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Padding(0, 1)
	summaryCellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	summaryAlertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
	summaryTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
)

// Headers are the digest column titles.
var Headers = []string{"issue", "author", "package", "assignee", "bot advice", "created", "target", "days"}

// Cells returns the row's display cells in column order.
func (r Row) Cells() []string {
	return []string{"#" + strconv.Itoa(r.Number), r.Author, r.Package, r.Assignee, r.Advice, r.Created, r.Target, r.Offset}
}

// Summary renders rows as a terminal table. Rows close to their release
// date are highlighted.
func Summary(rows []Row, skipped int) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers(Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return summaryHeaderStyle
			}
			if row >= 0 && row < len(rows) && rows[row].Offset != "" {
				return summaryAlertStyle
			}
			return summaryCellStyle
		})
	for _, r := range rows {
		t.Row(r.Cells()...)
	}

	title := summaryTitleStyle.Render(fmt.Sprintf("%d issues handled, %d skipped", len(rows), skipped))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String())
}
