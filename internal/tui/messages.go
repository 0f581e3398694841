// Package tui provides Bubble Tea models for browsing a triage digest.
package tui

import "github.com/h0rv/reltriage/internal/report"

// ErrorMsg is emitted when an error occurs.
type ErrorMsg struct {
	Err error
}

// QuitMsg is emitted when the user requests to quit.
type QuitMsg struct{}

// Custom messages for screen transitions and reloads.
type (
	openDetailMsg struct {
		row report.Row
	}

	closeDetailMsg struct{}

	reloadMsg struct{}

	digestLoadedMsg struct {
		rows []report.Row
	}

	openFailedMsg struct {
		err error
	}
)
