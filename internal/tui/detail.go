package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/h0rv/reltriage/internal/report"
)

// Layout constants
const (
	headerHeight = 1
	footerHeight = 1
	borderSize   = 2 // Top + bottom border
	labelWidth   = 10
)

// Detail view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(labelWidth)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")).
				Padding(0, 1)
)

// DetailModel shows every field of one digest row.
type DetailModel struct {
	row     report.Row
	openURL URLOpener

	viewport   viewport.Model
	errorToast string

	width  int
	height int
}

// NewDetailModel creates a detail view for row.
func NewDetailModel(row report.Row, openURL URLOpener) DetailModel {
	vp := viewport.New(60, 10) // Resized on WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := DetailModel{row: row, openURL: openURL, viewport: vp}
	m.updateViewportContent()
	return m
}

// Init requests the terminal size.
func (m DetailModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case openFailedMsg:
		m.errorToast = fmt.Sprintf("Open failed: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// resizeComponents fits the viewport inside the bordered panel.
func (m *DetailModel) resizeComponents() {
	m.viewport.Width = max(m.width-borderSize-2, 20) // -2 for padding
	m.viewport.Height = max(m.height-headerHeight-footerHeight-borderSize, 3)
	m.updateViewportContent()
}

// handleKeyPress processes keyboard input
func (m DetailModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		return m, func() tea.Msg { return closeDetailMsg{} }
	case "o":
		if m.row.URL == "" || m.openURL == nil {
			return m, nil
		}
		url, open := m.row.URL, m.openURL
		return m, func() tea.Msg {
			if err := open(url); err != nil {
				return openFailedMsg{err: err}
			}
			return nil
		}
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d":
		m.viewport.HalfViewDown()
	case "ctrl+u":
		m.viewport.HalfViewUp()
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	}
	return m, nil
}

// View renders the detail screen.
func (m DetailModel) View() string {
	header := dimStyle.Render("[q]back [o]open [j/k]scroll [g/G]top/bottom")

	panel := panelBorderStyle.
		Width(m.viewport.Width + 2).
		Render(m.viewport.View())

	footer := ""
	if m.errorToast != "" {
		footer = ErrorStyle.Render("✗ " + m.errorToast)
	} else if !m.viewport.AtTop() || !m.viewport.AtBottom() {
		footer = dimStyle.Render(fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, panel, footer)
}

// updateViewportContent lays out the row's fields, wrapped to the viewport width.
func (m *DetailModel) updateViewportContent() {
	wrapWidth := max(m.viewport.Width-labelWidth-1, 10)

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(fmt.Sprintf("#%d", m.row.Number)))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		wrapped := wordwrap.String(value, wrapWidth)
		lines := strings.Split(wrapped, "\n")
		for i, line := range lines {
			l := ""
			if i == 0 {
				l = label
			}
			b.WriteString(detailLabelStyle.Render(l))
			b.WriteString(" ")
			b.WriteString(detailValueStyle.Render(line))
			b.WriteString("\n")
		}
	}

	field("issue", m.row.URL)
	field("author", m.row.Author)
	field("package", m.row.Package)
	field("assignee", m.row.Assignee)
	field("created", m.row.Created)
	field("target", m.row.Target)
	if m.row.Offset != "" {
		field("days", m.row.Offset+" (close to release)")
	}
	b.WriteString("\n")
	field("advice", m.row.Advice)

	m.viewport.SetContent(b.String())
}
