package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/h0rv/reltriage/internal/auth"
	"github.com/h0rv/reltriage/internal/config"
	"github.com/h0rv/reltriage/internal/gh"
	"github.com/h0rv/reltriage/internal/report"
	"github.com/h0rv/reltriage/internal/triage"
)

var (
	runSince string
	runSeed  int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process open release requests and write the digest",
	Long: `Lists the open issues of the request repository that carry every
configured label and processes them in creation order. Each issue is
assigned, parsed, dated and advised; issues that fail are logged and left
out of the digest.

Examples:
  reltriage run                           # Use defaults and RELTRIAGE_* variables
  reltriage run -c reltriage.yaml         # Use a config file
  reltriage run --since "2 weeks ago"     # Only issues created recently
  reltriage run --output digest.md -v     # Write elsewhere, with debug logs`,
	Args: cobra.NoArgs,
	RunE: runTriage,
}

func init() {
	runCmd.Flags().String("repo", "", "Request repository (owner/name)")
	runCmd.Flags().StringSlice("label", nil, "Only triage issues carrying all of these labels")
	runCmd.Flags().StringP("output", "o", "", "Digest file to write")
	runCmd.Flags().StringVar(&runSince, "since", "", `Only triage issues created after this date ("2024-05-01", "3 weeks ago")`)
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for assignee selection (0 picks one from the clock)")
}

func runTriage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	since, err := parseSince(runSince, time.Now())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := clientOptions(cfg)

	handles, err := openHandles(cfg, opts)
	if err != nil {
		return err
	}

	lister, err := gh.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w\n\nPlease authenticate using:\n  gh auth login\nor set the GITHUB_TOKEN environment variable", err)
	}
	requests, err := lister.Repository(cfg.RequestRepo)
	if err != nil {
		return err
	}
	spec, err := lister.Repository(cfg.SpecRepo)
	if err != nil {
		return err
	}

	issues, err := requests.ListIssues(ctx, gh.IssueFilter{Labels: cfg.IssueLabels, Since: since})
	if err != nil {
		return err
	}
	logger.Info("listed open issues",
		zap.String("repo", requests.FullName()),
		zap.Strings("labels", cfg.IssueLabels),
		zap.Int("count", len(issues)))

	seed := runSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	pipeline, err := triage.NewPipeline(pipelineConfig(cfg), spec, handles,
		triage.WithRand(rand.New(rand.NewSource(seed))),
		triage.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Debug("assignee pool", zap.Strings("logins", pipeline.Pool()), zap.Int64("seed", seed))

	entries := pipeline.Run(ctx, issues)
	rows, err := report.WriteFile(cfg.Output, entries, logger)
	if err != nil {
		return err
	}
	logger.Info("wrote digest", zap.String("path", cfg.Output), zap.Int("rows", len(rows)))

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary(rows, len(issues)-len(rows)))
	return ctx.Err()
}

// openHandles opens the request repository once per assignee candidate,
// authenticated as that candidate.
func openHandles(cfg *config.Config, opts []gh.Option) (map[string]triage.Tracker, error) {
	creds, err := auth.LoadCredentials(cfg.Assignees)
	if err != nil {
		return nil, err
	}

	handles := make(map[string]triage.Tracker, creds.Len())
	for _, login := range creds.Logins() {
		token, err := creds.Token(login)
		if err != nil {
			return nil, err
		}
		repo, err := gh.NewWithToken(token, opts...).Repository(cfg.RequestRepo)
		if err != nil {
			return nil, err
		}
		handles[login] = repo
	}
	return handles, nil
}

func pipelineConfig(cfg *config.Config) triage.Config {
	return triage.Config{
		Labels: triage.Labels{
			Assigned:  cfg.Labels.Assigned,
			Parsed:    cfg.Labels.Parsed,
			MultiLink: cfg.Labels.MultiLink,
		},
		LanguageOwners: cfg.LanguageOwners,
		SpecRepo:       cfg.SpecRepo,
		DefaultBranch:  cfg.DefaultBranch,
		PackagePrefix:  cfg.PackagePrefix,
	}
}

