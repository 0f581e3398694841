package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/h0rv/reltriage/internal/gh"
	"github.com/h0rv/reltriage/internal/triage"
)

const inspectLinkWidth = 70

var inspectSince string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what a run would read from each open issue, without changing anything",
	Long: `Lists the open release requests and prints, per issue, the guard labels
already present, the current assignee, the specification link and readme
tag found in the body and the target release date. Nothing is written to
GitHub and no digest is produced.

Examples:
  reltriage inspect
  reltriage inspect --label ManagementPlane --since 2024-05-01`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().String("repo", "", "Request repository (owner/name)")
	inspectCmd.Flags().StringSlice("label", nil, "Only show issues carrying all of these labels")
	inspectCmd.Flags().StringVar(&inspectSince, "since", "", "Only show issues created after this date")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	now := time.Now()
	since, err := parseSince(inspectSince, now)
	if err != nil {
		return err
	}

	client, err := gh.New(clientOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	requests, err := client.Repository(cfg.RequestRepo)
	if err != nil {
		return err
	}

	issues, err := requests.ListIssues(cmd.Context(), gh.IssueFilter{Labels: cfg.IssueLabels, Since: since})
	if err != nil {
		return err
	}

	labels := pipelineConfig(cfg).Labels
	fmt.Fprintln(cmd.OutOrStdout(), inspectTable(issues, labels, now))
	return nil
}

// inspectTable renders one line per issue with what the pipeline would read from it.
func inspectTable(issues []domain.Issue, labels triage.Labels, now time.Time) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("issue", "state", "assignee", "link", "tag", "target", "days")

	for _, issue := range issues {
		lines := issue.BodyLines()
		link, tag := triage.ExtractOrigin(lines)
		date, offset := triage.TargetDate(lines, now)

		days := ""
		if offset != triage.SentinelOffset {
			days = strconv.Itoa(offset)
		}
		t.Row(
			"#"+strconv.Itoa(issue.Number),
			triage.DeriveState(issue, labels).String(),
			issue.Assignee,
			truncate.StringWithTail(link, inspectLinkWidth, "…"),
			tag,
			date,
			days,
		)
	}

	return fmt.Sprintf("%d open issues\n%s", len(issues), t.String())
}
