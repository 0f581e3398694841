package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/h0rv/reltriage/internal/report"
	"github.com/h0rv/reltriage/internal/store"
)

// Layout constants
const (
	minColumnWidth = 24
	maxColumnWidth = 40
	headerLines    = 2  // Title line + hint line
	cardLines      = 2  // Package line + date/advice line
	pageJumpSize   = 10 // Number of rows to jump with Ctrl+D/U
)

// Styles for the board view - base styles without width/height (set dynamically)
var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedCardStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	urgentCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)
)

// URLOpener opens a link outside the terminal.
type URLOpener func(url string) error

// BoardModel shows digest rows in one column per assignee.
type BoardModel struct {
	store   *store.Store
	openURL URLOpener

	// UI components
	keymap      KeyMap
	help        HelpModel
	filterInput textinput.Model

	// Board state
	columns        []string         // Column keys in order
	filteredRows   map[string][]int // Column key -> issue numbers
	selectedColumn int
	columnOffset   int            // First visible column index
	selectedRow    map[string]int // Column key -> selected index
	scrollOffset   map[string]int // Column key -> first visible index

	// View state
	width        int
	height       int
	showHelp     bool
	filterMode   bool
	filterText   string
	filterMyOnly bool
	urgentOnly   bool
	errorToast   string
}

// NewBoardModel creates a board over the rows in s.
func NewBoardModel(s *store.Store, openURL URLOpener) BoardModel {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Prompt = "/ "

	m := BoardModel{
		store:        s,
		openURL:      openURL,
		keymap:       DefaultKeyMap(),
		help:         NewHelpModel(DefaultKeyMap()),
		filterInput:  ti,
		filteredRows: make(map[string][]int),
		selectedRow:  make(map[string]int),
		scrollOffset: make(map[string]int),
	}
	m.rebuildColumns()
	m.applyFilter()
	return m
}

// Init requests the terminal size.
func (m BoardModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case digestLoadedMsg:
		m.store.Load(msg.rows)
		m.errorToast = ""
		(&m).rebuildColumns()
		(&m).applyFilter()
		return m, nil

	case openFailedMsg:
		m.errorToast = fmt.Sprintf("Open failed: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m BoardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if msg.String() == "?" || msg.String() == "q" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.filterMode {
		switch msg.String() {
		case "enter":
			m.filterMode = false
			m.filterText = m.filterInput.Value()
			m.filterInput.Blur()
			(&m).applyFilter()
			return m, nil
		case "esc":
			m.filterMode = false
			m.filterInput.SetValue(m.filterText)
			m.filterInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "/":
		m.filterMode = true
		return m, m.filterInput.Focus()
	case "h", "left":
		if m.selectedColumn > 0 {
			m.selectedColumn--
			(&m).adjustColumnScroll()
		}
	case "l", "right":
		if m.selectedColumn < len(m.columns)-1 {
			m.selectedColumn++
			(&m).adjustColumnScroll()
		}
	case "j", "down":
		(&m).moveRowSelection(1)
	case "k", "up":
		(&m).moveRowSelection(-1)
	case "g":
		(&m).jumpToRow(0)
	case "G":
		(&m).jumpToRow(-1)
	case "ctrl+d":
		(&m).moveRowSelection(pageJumpSize)
	case "ctrl+u":
		(&m).moveRowSelection(-pageJumpSize)
	case "a":
		m.filterMyOnly = !m.filterMyOnly
		(&m).applyFilter()
	case "u":
		m.urgentOnly = !m.urgentOnly
		(&m).applyFilter()
	case "r":
		return m, func() tea.Msg { return reloadMsg{} }
	case "o":
		if row, ok := m.selected(); ok {
			return m, m.open(row.URL)
		}
	case "enter":
		if row, ok := m.selected(); ok {
			return m, func() tea.Msg { return openDetailMsg{row: row} }
		}
	}

	return m, nil
}

// open returns a command that opens url, reporting failure as a message.
func (m BoardModel) open(url string) tea.Cmd {
	if url == "" || m.openURL == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.openURL(url); err != nil {
			return openFailedMsg{err: err}
		}
		return nil
	}
}

// View renders the board - fills entire terminal exactly
func (m BoardModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	sections := []string{m.renderHeader(width), m.renderSecondHeader(width)}
	if m.filterMode {
		sections = append(sections, m.filterInput.View())
	}

	boardHeight := height - headerLines
	if m.filterMode {
		boardHeight--
	}
	if boardHeight < 5 {
		boardHeight = 5
	}

	var mainContent string
	switch {
	case m.showHelp:
		helpLines := strings.Split(m.help.View(width), "\n")
		if len(helpLines) > boardHeight {
			helpLines = helpLines[:boardHeight]
		}
		mainContent = strings.Join(helpLines, "\n")
	case m.store.Len() == 0:
		mainContent = lipgloss.Place(width, boardHeight, lipgloss.Center, lipgloss.Center,
			"No handled issues in this digest. Press 'r' to reload.")
	default:
		mainContent = m.renderBoard(width, boardHeight)
	}
	sections = append(sections, mainContent)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title on the left and status on the right.
func (m BoardModel) renderHeader(width int) string {
	title := "release requests"
	if src := m.store.Source(); src != "" {
		title += " - " + src
	}

	total := 0
	for _, rows := range m.filteredRows {
		total += len(rows)
	}
	statusParts := []string{fmt.Sprintf("%d/%d issues", total, m.store.Len())}
	if n := len(m.store.Urgent()); n > 0 {
		statusParts = append(statusParts, fmt.Sprintf("%d close to release", n))
	}
	if m.filterMyOnly && m.store.ViewerLogin() != "" {
		statusParts = append(statusParts, "@"+m.store.ViewerLogin())
	}
	if m.urgentOnly {
		statusParts = append(statusParts, "urgent")
	}
	if m.filterText != "" {
		statusParts = append(statusParts, "/"+m.filterText)
	}
	statusParts = append(statusParts, "[?]help")
	status := strings.Join(statusParts, " | ")

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", padding) + dimStyle.Render(status)
}

// renderSecondHeader renders navigation hints and position info
func (m BoardModel) renderSecondHeader(width int) string {
	left := "h/l:col j/k:row o:open enter:view a:mine u:urgent"

	right := ""
	if m.errorToast != "" {
		right = ErrorStyle.Render(m.errorToast)
	} else if len(m.columns) > 0 {
		key := m.columns[m.selectedColumn]
		rows := m.filteredRows[key]
		right = fmt.Sprintf("col %d/%d", m.selectedColumn+1, len(m.columns))
		if len(rows) > 0 {
			right = fmt.Sprintf("%s | row %d/%d", right, m.selectedRow[key]+1, len(rows))
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return dimStyle.Render(left) + strings.Repeat(" ", padding) + right
}

// renderBoard renders the visible columns, scrolling horizontally when
// they do not all fit.
func (m BoardModel) renderBoard(totalWidth, totalHeight int) string {
	numCols := len(m.columns)
	if numCols == 0 {
		return ""
	}

	// Border adds 2 lines to the content height
	colContentHeight := totalHeight - 2
	if colContentHeight < 3 {
		colContentHeight = 3
	}

	visibleCols := totalWidth / minColumnWidth
	if visibleCols < 1 {
		visibleCols = 1
	}
	if visibleCols > numCols {
		visibleCols = numCols
	}

	colWidth := totalWidth / visibleCols
	if colWidth > maxColumnWidth {
		colWidth = maxColumnWidth
	}
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	innerWidth := colWidth - 4

	startCol := m.columnOffset
	endCol := startCol + visibleCols
	if endCol > numCols {
		endCol = numCols
		startCol = max(endCol-visibleCols, 0)
	}

	columnViews := make([]string, 0, visibleCols+2)
	if startCol > 0 {
		columnViews = append(columnViews, scrollIndicator("◀", colContentHeight+2))
	}
	for i := startCol; i < endCol; i++ {
		columnViews = append(columnViews, m.renderColumn(m.columns[i], i == m.selectedColumn, colWidth, colContentHeight, innerWidth))
	}
	if endCol < numCols {
		columnViews = append(columnViews, scrollIndicator("▶", colContentHeight+2))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

func scrollIndicator(arrow string, height int) string {
	return lipgloss.NewStyle().
		Width(2).
		Height(height).
		Foreground(lipgloss.Color("205")).
		Align(lipgloss.Center, lipgloss.Center).
		Render(arrow)
}

// columnTitle returns the display name of a column key.
func columnTitle(key string) string {
	if key == store.UnassignedKey {
		return "Unassigned"
	}
	return "@" + key
}

// renderColumn renders a single column. innerHeight is the content height
// inside the border.
func (m BoardModel) renderColumn(key string, selected bool, width, innerHeight, innerWidth int) string {
	numbers := m.filteredRows[key]
	scrollOffset := m.scrollOffset[key]
	selectedIdx := m.selectedRow[key]

	header := truncate.StringWithTail(fmt.Sprintf("%s (%d)", columnTitle(key), len(numbers)), uint(innerWidth), "…")
	lines := []string{columnHeaderStyle.Render(header)}

	slots := m.visibleRows(innerHeight)
	if scrollOffset > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↑ %d more", scrollOffset)))
	}
	end := min(scrollOffset+slots, len(numbers))
	for i := scrollOffset; i < end; i++ {
		row, err := m.store.Get(numbers[i])
		if err != nil {
			continue
		}
		lines = append(lines, m.renderCard(row, selected && i == selectedIdx, innerWidth))
	}
	if remaining := len(numbers) - end; remaining > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("↓ %d more", remaining)))
	}
	if len(numbers) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}

	borderColor := lipgloss.Color("240")
	if selected {
		borderColor = lipgloss.Color("205")
	}

	// Height sets the content height, the border adds 2 more lines
	return lipgloss.NewStyle().
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}

// renderCard renders a row as two lines: number and package, then target
// date and advice.
func (m BoardModel) renderCard(row report.Row, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	w := uint(max(width-len(prefix), 1))

	pkg := row.Package
	if pkg == "" {
		pkg = "(no package)"
	}
	first := truncate.StringWithTail(fmt.Sprintf("#%d %s", row.Number, pkg), w, "…")

	second := "target " + row.Target
	if row.Offset != "" {
		second += " (" + row.Offset + "d)"
	}
	if row.Advice != "" {
		second += " " + row.Advice
	}
	second = truncate.StringWithTail(second, w, "…")

	style := cardStyle
	switch {
	case selected:
		style = selectedCardStyle
	case row.Offset != "":
		style = urgentCardStyle
	}
	return style.Render(prefix+first) + "\n" + dimStyle.Render("  "+second)
}

// visibleRows returns how many cards fit in a column of innerHeight lines.
func (m BoardModel) visibleRows(innerHeight int) int {
	// Column header plus both scroll indicators
	return max((innerHeight-3)/cardLines, 1)
}

// rebuildColumns reads the column keys from the store.
func (m *BoardModel) rebuildColumns() {
	m.columns = m.store.ColumnKeys()
	if m.selectedColumn >= len(m.columns) {
		m.selectedColumn = 0
		m.columnOffset = 0
	}
}

// applyFilter recomputes the visible rows of every column.
func (m *BoardModel) applyFilter() {
	m.filteredRows = make(map[string][]int, len(m.columns))
	for _, key := range m.columns {
		filtered := []int{}
		for _, number := range m.store.Column(key) {
			row, err := m.store.Get(number)
			if err != nil {
				continue
			}
			if !store.Matches(row, m.filterText) {
				continue
			}
			if m.filterMyOnly && !m.store.Mine(row) {
				continue
			}
			if m.urgentOnly && row.Offset == "" {
				continue
			}
			filtered = append(filtered, number)
		}
		m.filteredRows[key] = filtered
	}

	for key, rows := range m.filteredRows {
		m.scrollOffset[key] = 0
		if m.selectedRow[key] >= len(rows) {
			m.selectedRow[key] = max(len(rows)-1, 0)
		}
	}
}

// selected returns the row under the cursor.
func (m BoardModel) selected() (report.Row, bool) {
	if len(m.columns) == 0 {
		return report.Row{}, false
	}
	key := m.columns[m.selectedColumn]
	rows := m.filteredRows[key]
	idx := m.selectedRow[key]
	if idx < 0 || idx >= len(rows) {
		return report.Row{}, false
	}
	row, err := m.store.Get(rows[idx])
	if err != nil {
		return report.Row{}, false
	}
	return row, true
}

// moveRowSelection moves the row selection up or down by delta
func (m *BoardModel) moveRowSelection(delta int) {
	if len(m.columns) == 0 {
		return
	}
	key := m.columns[m.selectedColumn]
	rows := m.filteredRows[key]
	if len(rows) == 0 {
		return
	}

	idx := m.selectedRow[key] + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.selectedRow[key] = idx
	m.adjustScroll(key)
}

// jumpToRow jumps to a row index. Use -1 to jump to the last row.
func (m *BoardModel) jumpToRow(idx int) {
	if len(m.columns) == 0 {
		return
	}
	key := m.columns[m.selectedColumn]
	rows := m.filteredRows[key]
	if len(rows) == 0 {
		return
	}
	if idx < 0 || idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.selectedRow[key] = idx
	m.adjustScroll(key)
}

// adjustScroll keeps the selected row of a column visible.
func (m *BoardModel) adjustScroll(key string) {
	innerHeight := m.height - headerLines - 2
	if m.filterMode {
		innerHeight--
	}
	visible := m.visibleRows(innerHeight)

	idx := m.selectedRow[key]
	if idx < m.scrollOffset[key] {
		m.scrollOffset[key] = idx
	}
	if idx >= m.scrollOffset[key]+visible {
		m.scrollOffset[key] = idx - visible + 1
	}
}

// adjustColumnScroll keeps the selected column visible.
func (m *BoardModel) adjustColumnScroll() {
	width := m.width
	if width == 0 {
		width = 80
	}
	visibleCols := max(width/minColumnWidth, 1)

	if m.selectedColumn < m.columnOffset {
		m.columnOffset = m.selectedColumn
	}
	if m.selectedColumn >= m.columnOffset+visibleCols {
		m.columnOffset = m.selectedColumn - visibleCols + 1
	}
}
