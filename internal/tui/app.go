package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/h0rv/reltriage/internal/report"
	"github.com/h0rv/reltriage/internal/store"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenBoard AppScreen = iota
	ScreenDetail
)

// Loader re-reads the digest rows, for the reload key.
type Loader func() ([]report.Row, error)

// AppModel is the root Bubble Tea model that switches between the board
// and the detail view of one row.
type AppModel struct {
	store   *store.Store
	load    Loader
	openURL URLOpener

	currentScreen AppScreen
	currentModel  tea.Model
	err           error

	// Cached so board selection survives a visit to the detail view
	boardModel BoardModel
}

// NewAppModel creates the app over the rows already in s. load may be nil
// when the digest cannot be re-read.
func NewAppModel(s *store.Store, load Loader, openURL URLOpener) AppModel {
	board := NewBoardModel(s, openURL)
	return AppModel{
		store:         s,
		load:          load,
		openURL:       openURL,
		currentScreen: ScreenBoard,
		currentModel:  board,
		boardModel:    board,
	}
}

// Init initializes the app model.
func (m AppModel) Init() tea.Cmd {
	return m.currentModel.Init()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.err != nil {
			// Any key dismisses the error
			m.err = nil
			return m, nil
		}

	case reloadMsg:
		return m, m.reload()

	case digestLoadedMsg:
		// Rows always land on the board, even from the detail screen
		board, cmd := m.boardModel.Update(msg)
		m.boardModel = board.(BoardModel)
		if m.currentScreen == ScreenBoard {
			m.currentModel = m.boardModel
		}
		return m, cmd

	case openDetailMsg:
		m.currentScreen = ScreenDetail
		detail := NewDetailModel(msg.row, m.openURL)
		m.currentModel = detail
		return m, detail.Init()

	case closeDetailMsg:
		m.currentScreen = ScreenBoard
		m.currentModel = m.boardModel
		return m, tea.WindowSize()
	}

	var cmd tea.Cmd
	m.currentModel, cmd = m.currentModel.Update(msg)
	if bm, ok := m.currentModel.(BoardModel); ok {
		m.boardModel = bm
	}
	return m, cmd
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress any key to continue", m.err))
	}
	return m.currentModel.View()
}

// reload creates a command that re-reads the digest.
func (m AppModel) reload() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return func() tea.Msg {
		rows, err := load()
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to reload digest: %w", err)}
		}
		return digestLoadedMsg{rows: rows}
	}
}
