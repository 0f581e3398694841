package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/h0rv/reltriage/internal/domain"
)

var testLabels = Labels{Assigned: "auto-assign", Parsed: "auto-parse", MultiLink: "MultiLink"}

// fakeTracker is an in-memory request repository shared by all identities.
type fakeTracker struct {
	issues map[int]*domain.Issue
	calls  []string // "login:op:arg" in call order
	failOn string   // op name that returns an error
}

func newFakeTracker(issues ...domain.Issue) *fakeTracker {
	f := &fakeTracker{issues: make(map[int]*domain.Issue)}
	for i := range issues {
		issue := issues[i]
		f.issues[issue.Number] = &issue
	}
	return f
}

// as returns a handle acting as login.
func (f *fakeTracker) as(login string) *fakeHandle {
	return &fakeHandle{tracker: f, login: login}
}

func (f *fakeTracker) comments() []string {
	var out []string
	for _, c := range f.calls {
		if strings.Contains(c, ":comment:") {
			out = append(out, c)
		}
	}
	return out
}

type fakeHandle struct {
	tracker *fakeTracker
	login   string
}

func (h *fakeHandle) record(op, arg string) error {
	h.tracker.calls = append(h.tracker.calls, h.login+":"+op+":"+arg)
	if h.tracker.failOn == op {
		return fmt.Errorf("%s failed", op)
	}
	return nil
}

func (h *fakeHandle) issue(number int) (*domain.Issue, error) {
	issue, ok := h.tracker.issues[number]
	if !ok {
		return nil, errors.New("not found")
	}
	return issue, nil
}

func (h *fakeHandle) GetIssue(ctx context.Context, number int) (domain.Issue, error) {
	if err := h.record("get", fmt.Sprint(number)); err != nil {
		return domain.Issue{}, err
	}
	issue, err := h.issue(number)
	if err != nil {
		return domain.Issue{}, err
	}
	copied := *issue
	copied.Labels = append([]string(nil), issue.Labels...)
	copied.Comments = append([]domain.Comment(nil), issue.Comments...)
	return copied, nil
}

func (h *fakeHandle) CreateComment(ctx context.Context, number int, body string) error {
	if err := h.record("comment", body); err != nil {
		return err
	}
	issue, err := h.issue(number)
	if err != nil {
		return err
	}
	issue.Comments = append(issue.Comments, domain.Comment{Author: h.login, Body: body})
	return nil
}

func (h *fakeHandle) AddLabel(ctx context.Context, number int, label string) error {
	if err := h.record("label", label); err != nil {
		return err
	}
	issue, err := h.issue(number)
	if err != nil {
		return err
	}
	if !issue.HasLabel(label) {
		issue.Labels = append(issue.Labels, label)
	}
	return nil
}

func (h *fakeHandle) AddAssignee(ctx context.Context, number int, login string) error {
	if err := h.record("assign", login); err != nil {
		return err
	}
	issue, err := h.issue(number)
	if err != nil {
		return err
	}
	issue.Assignee = login
	return nil
}

func (h *fakeHandle) RemoveAssignee(ctx context.Context, number int, login string) error {
	if err := h.record("unassign", login); err != nil {
		return err
	}
	issue, err := h.issue(number)
	if err != nil {
		return err
	}
	if issue.Assignee == login {
		issue.Assignee = ""
	}
	return nil
}

func (h *fakeHandle) EditBody(ctx context.Context, number int, body string) error {
	if err := h.record("edit", ""); err != nil {
		return err
	}
	issue, err := h.issue(number)
	if err != nil {
		return err
	}
	issue.Body = body
	return nil
}

// fakeSpec is an in-memory specification repository.
type fakeSpec struct {
	pulls   map[int][]domain.ChangedFile
	commits map[string][]domain.ChangedFile
	files   map[string]string // "ref:path" -> content
	reads   []string
}

func newFakeSpec() *fakeSpec {
	return &fakeSpec{
		pulls:   make(map[int][]domain.ChangedFile),
		commits: make(map[string][]domain.ChangedFile),
		files:   make(map[string]string),
	}
}

func (s *fakeSpec) PullRequestFiles(ctx context.Context, number int) ([]domain.ChangedFile, error) {
	s.reads = append(s.reads, fmt.Sprintf("pull:%d", number))
	files, ok := s.pulls[number]
	if !ok {
		return nil, fmt.Errorf("pull request #%d not found", number)
	}
	return files, nil
}

func (s *fakeSpec) CommitFiles(ctx context.Context, sha string) ([]domain.ChangedFile, error) {
	s.reads = append(s.reads, "commit:"+sha)
	files, ok := s.commits[sha]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", sha)
	}
	return files, nil
}

func (s *fakeSpec) FileContent(ctx context.Context, ref, path string) (string, error) {
	s.reads = append(s.reads, "file:"+ref+":"+path)
	content, ok := s.files[ref+":"+path]
	if !ok {
		return "", fmt.Errorf("file %s not found", path)
	}
	return content, nil
}
