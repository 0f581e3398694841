// Command reltriage triages SDK release-request issues: it assigns an
// owner, resolves the specification readme, checks the readme tag, and
// writes a markdown digest that the view command opens in a terminal UI.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/h0rv/reltriage/internal/config"
	"github.com/h0rv/reltriage/internal/gh"
)

// Global flags
var (
	configPath string
	verbose    bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "reltriage",
	Short: "Triage SDK release-request issues",
	Long: `reltriage processes open release-request issues one at a time.

For each issue it picks an owner, finds the API specification link in the
body, resolves it to a single readme, checks the requested readme tag,
reads the target release date and writes a markdown digest of the result.

Progress is kept on the issues themselves as labels, so a second run skips
the steps already done.

Authentication:
  The listing identity uses 'gh auth token' or GITHUB_TOKEN.
  Every assignee candidate acts with the token in the environment variable
  named for it under "assignees" in the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (defaults and RELTRIAGE_* variables otherwise)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags shared by the
// subcommands that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("repo") {
		cfg.RequestRepo, _ = flags.GetString("repo")
	}
	if flags.Changed("label") {
		cfg.IssueLabels, _ = flags.GetStringSlice("label")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// digestPath returns the digest named on the command line, or the
// configured output.
func digestPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Output
}


// clientOptions returns the GitHub client settings shared by every identity.
func clientOptions(cfg *config.Config) []gh.Option {
	return []gh.Option{
		gh.WithEndpoints(cfg.GraphQLURL, cfg.RESTURL),
		gh.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gh.WithListRetries(cfg.ListRetries),
	}
}
