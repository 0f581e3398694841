package triage

import (
	"context"
	"fmt"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/h0rv/reltriage/internal/report"
)

// Task is the working state of one issue for the length of a run.
type Task struct {
	Issue      domain.Issue
	State      State
	Assignee   string   // owner after the assign step
	TargetTag  string   // readme tag requested in the issue body
	DefaultTag string   // tag the readme currently declares
	ReadmeLink string   // normalized link ending in /resource-manager
	Package    string   // target package name
	TargetDate string   // requested release date as written, or DateFailure
	DayOffset  int      // days from today to TargetDate, SentinelOffset if unparseable
	Advice     []string // advisory flags, in evaluation order

	labels  Labels
	tracker Tracker // handle of the identity acting on the issue
}

func newTask(issue domain.Issue, labels Labels) *Task {
	return &Task{
		Issue:     issue,
		State:     DeriveState(issue, labels),
		Assignee:  issue.Assignee,
		DayOffset: SentinelOffset,
		labels:    labels,
	}
}

// Number is the issue number.
func (t *Task) Number() int {
	return t.Issue.Number
}

func (t *Task) comment(ctx context.Context, message string) error {
	return t.tracker.CreateComment(ctx, t.Issue.Number, message)
}

// advance persists step's guard label and records it locally.
func (t *Task) advance(ctx context.Context, step State) error {
	next, label := t.State.Advance(step, t.labels)
	if err := t.tracker.AddLabel(ctx, t.Issue.Number, label); err != nil {
		return err
	}
	t.State = next
	if !t.Issue.HasLabel(label) {
		t.Issue.Labels = append(t.Issue.Labels, label)
	}
	return nil
}

// refresh re-reads the issue through the current handle.
func (t *Task) refresh(ctx context.Context) error {
	issue, err := t.tracker.GetIssue(ctx, t.Issue.Number)
	if err != nil {
		return fmt.Errorf("failed to refresh issue: %w", err)
	}
	t.Issue = issue
	return nil
}

// Entry converts the task into a digest entry.
func (t *Task) Entry() report.Entry {
	return report.Entry{
		URL:        t.Issue.URL,
		Author:     t.Issue.Author,
		Package:    t.Package,
		Assignee:   t.Assignee,
		Advice:     append([]string(nil), t.Advice...),
		CreatedAt:  t.Issue.CreatedAt,
		TargetDate: t.TargetDate,
		Offset:     t.DayOffset,
		ShowOffset: CloseToRelease(t.DayOffset),
	}
}
