// Package triage runs the per-issue release-request pipeline: assign an
// owner, parse the specification link out of the body, extract the target
// date and derive advisory flags.
package triage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/h0rv/reltriage/internal/report"
	"go.uber.org/zap"
)

// Tracker is a handle on the request repository, opened by one identity.
type Tracker interface {
	GetIssue(ctx context.Context, number int) (domain.Issue, error)
	CreateComment(ctx context.Context, number int, body string) error
	AddLabel(ctx context.Context, number int, label string) error
	AddAssignee(ctx context.Context, number int, login string) error
	RemoveAssignee(ctx context.Context, number int, login string) error
	EditBody(ctx context.Context, number int, body string) error
}

// SpecSource reads the specification repository.
type SpecSource interface {
	PullRequestFiles(ctx context.Context, number int) ([]domain.ChangedFile, error)
	CommitFiles(ctx context.Context, sha string) ([]domain.ChangedFile, error)
	FileContent(ctx context.Context, ref, path string) (string, error)
}

// Config holds the pipeline settings.
type Config struct {
	Labels         Labels
	LanguageOwners []string
	SpecRepo       string // owner/name
	DefaultBranch  string
	PackagePrefix  string
}

// Pipeline processes issues one at a time, in order.
type Pipeline struct {
	cfg      Config
	handles  map[string]Tracker // lower-cased login -> handle
	pool     []string           // sorted candidate logins
	resolver LinkResolver
	checker  TagChecker
	rng      *rand.Rand
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRand sets the random source used to pick assignees.
func WithRand(rng *rand.Rand) Option {
	return func(p *Pipeline) {
		p.rng = rng
	}
}

// WithClock sets the clock used for day offsets.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline builds a pipeline. handles maps every assignee candidate to
// the repository handle opened with that candidate's credential; the
// candidate pool is exactly its key set.
func NewPipeline(cfg Config, spec SpecSource, handles map[string]Tracker, opts ...Option) (*Pipeline, error) {
	if len(handles) == 0 {
		return nil, ErrEmptyPool
	}
	if spec == nil {
		return nil, errors.New("specification source is required")
	}

	p := &Pipeline{
		cfg:      cfg,
		handles:  make(map[string]Tracker, len(handles)),
		resolver: LinkResolver{Spec: spec, SpecRepo: cfg.SpecRepo, Branch: cfg.DefaultBranch},
		checker:  TagChecker{Spec: spec, Branch: cfg.DefaultBranch},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for login, h := range handles {
		key := strings.ToLower(login)
		p.handles[key] = h
		p.pool = append(p.pool, key)
	}
	sort.Strings(p.pool)

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Pool returns the candidate logins.
func (p *Pipeline) Pool() []string {
	return append([]string(nil), p.pool...)
}

func (p *Pipeline) handle(login string) (Tracker, error) {
	h, ok := p.handles[strings.ToLower(login)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoHandle, login)
	}
	return h, nil
}

// Run processes issues in order and returns the digest entries of those
// that succeeded. A failing issue is logged and skipped.
func (p *Pipeline) Run(ctx context.Context, issues []domain.Issue) []report.Entry {
	entries := make([]report.Entry, 0, len(issues))
	for i, issue := range issues {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("run interrupted", zap.Int("remaining", len(issues)-i), zap.Error(err))
			break
		}

		task, err := p.Process(ctx, issue)
		if err != nil {
			p.logger.Error("failed to handle issue", zap.Int("issue", issue.Number), zap.Error(err))
			continue
		}
		entries = append(entries, task.Entry())
	}
	return entries
}

// Process runs assign, parse, date extraction and advice on one issue.
// Advice is always computed last; an error in an earlier step aborts the issue.
func (p *Pipeline) Process(ctx context.Context, issue domain.Issue) (*Task, error) {
	t := newTask(issue, p.cfg.Labels)
	log := p.logger.With(zap.Int("issue", issue.Number))
	log.Debug("processing issue", zap.Stringer("state", t.State))

	if err := p.assign(ctx, t, log); err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}
	if err := p.parse(ctx, t, log); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	t.TargetDate, t.DayOffset = TargetDate(t.Issue.BodyLines(), p.now())
	t.Advice = Advise(t.Issue, p.cfg.LanguageOwners, p.cfg.Labels.MultiLink, t.DayOffset)

	log.Debug("processed issue",
		zap.String("assignee", t.Assignee),
		zap.String("package", t.Package),
		zap.Strings("advice", t.Advice))
	return t, nil
}

// assign picks an owner unless an earlier run already did. Either way the
// issue is re-read through the owner's handle so later steps act as them.
func (p *Pipeline) assign(ctx context.Context, t *Task, log *zap.Logger) error {
	if t.State.Has(StateAssigned) {
		h, err := p.handle(t.Assignee)
		if err != nil {
			return err
		}
		t.tracker = h
		return t.refresh(ctx)
	}

	chosen, err := PickAssignee(p.pool, p.rng)
	if err != nil {
		return err
	}
	h, err := p.handle(chosen)
	if err != nil {
		return err
	}
	t.tracker = h
	if err := t.refresh(ctx); err != nil {
		return err
	}

	if !strings.EqualFold(t.Issue.Assignee, chosen) {
		log.Info("reassigning issue", zap.String("from", t.Issue.Assignee), zap.String("to", chosen))
		if t.Issue.Assignee != "" {
			if err := h.RemoveAssignee(ctx, t.Number(), t.Issue.Assignee); err != nil {
				return err
			}
		}
		if err := h.AddAssignee(ctx, t.Number(), chosen); err != nil {
			return err
		}
	}
	t.Assignee = chosen

	if err := t.advance(ctx, StateAssigned); err != nil {
		return err
	}
	return t.refresh(ctx)
}

// parse resolves the link, checks the tag and rewrites the body, once per
// issue. The guard label goes on first, so a failed parse is not retried.
func (p *Pipeline) parse(ctx context.Context, t *Task, log *zap.Logger) error {
	lines := t.Issue.BodyLines()
	if t.State.Has(StateParsed) {
		// The first body line carries the link written by an earlier run
		for _, line := range lines {
			if pkg := PackageName(line, p.cfg.PackagePrefix); pkg != "" {
				t.Package = pkg
				break
			}
		}
		return nil
	}

	if err := t.advance(ctx, StateParsed); err != nil {
		return err
	}

	origin, tag := ExtractOrigin(lines)
	t.TargetTag = tag

	link, err := p.resolver.ResolveLink(ctx, t, origin)
	if err != nil {
		return err
	}
	t.ReadmeLink = link
	t.Package = PackageName(link, p.cfg.PackagePrefix)
	log.Info("resolved readme link", zap.String("link", link), zap.String("tag", tag))

	if err := p.checker.CheckTag(ctx, t); err != nil {
		return err
	}

	body := RewriteBody(lines, link)
	if err := t.tracker.EditBody(ctx, t.Number(), body); err != nil {
		return err
	}
	t.Issue.Body = body
	return nil
}
