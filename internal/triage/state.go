package triage

import (
	"strings"

	"github.com/h0rv/reltriage/internal/domain"
)

// Labels names the guard labels. Their presence on an issue is the only
// state persisted between runs.
type Labels struct {
	Assigned  string
	Parsed    string
	MultiLink string
}

// State is the set of guard labels an issue carries, derived once per run.
type State uint8

// StateNew is an issue that has never been touched by the bot.
const StateNew State = 0

const (
	// StateAssigned means an owner was picked in an earlier run.
	StateAssigned State = 1 << iota
	// StateParsed means the body was parsed (successfully or not) in an earlier run.
	StateParsed
	// StateMultiLink means the link spanned several services and needs a human.
	StateMultiLink
)

// DeriveState reads the guard labels off an issue.
func DeriveState(issue domain.Issue, labels Labels) State {
	s := StateNew
	if issue.HasLabel(labels.Assigned) {
		s |= StateAssigned
	}
	if issue.HasLabel(labels.Parsed) {
		s |= StateParsed
	}
	if issue.HasLabel(labels.MultiLink) {
		s |= StateMultiLink
	}
	return s
}

// Has reports whether every flag in f is set.
func (s State) Has(f State) bool {
	return s&f == f
}

// Advance returns the state after step completes and the label that
// records it on the issue.
func (s State) Advance(step State, labels Labels) (State, string) {
	return s | step, labels.For(step)
}

// For returns the guard label of a single step.
func (l Labels) For(step State) string {
	switch step {
	case StateAssigned:
		return l.Assigned
	case StateParsed:
		return l.Parsed
	case StateMultiLink:
		return l.MultiLink
	default:
		return ""
	}
}

func (s State) String() string {
	if s == StateNew {
		return "new"
	}
	var parts []string
	if s.Has(StateAssigned) {
		parts = append(parts, "assigned")
	}
	if s.Has(StateParsed) {
		parts = append(parts, "parsed")
	}
	if s.Has(StateMultiLink) {
		parts = append(parts, "multi-link")
	}
	return strings.Join(parts, "+")
}
