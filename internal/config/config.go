// Package config loads bot settings from an optional YAML file and
// RELTRIAGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (RELTRIAGE_OUTPUT, ...).
const EnvPrefix = "RELTRIAGE"

// defaultAssignees applies only when no assignees are configured at all;
// viper would otherwise merge a default map into the configured one.
var defaultAssignees = map[string]string{"msyyc": "AZURESDK_BOT_TOKEN"}

// Labels names the guard labels that persist per-issue progress.
type Labels struct {
	Assigned  string `mapstructure:"assigned"`
	Parsed    string `mapstructure:"parsed"`
	MultiLink string `mapstructure:"multi_link"`
}

// Config holds everything a triage run needs.
type Config struct {
	RequestRepo    string            `mapstructure:"request_repo"`    // owner/name of the issue repository
	SpecRepo       string            `mapstructure:"spec_repo"`       // owner/name of the specification repository
	DefaultBranch  string            `mapstructure:"default_branch"`  // branch readme links are pinned to
	IssueLabels    []string          `mapstructure:"issue_labels"`    // only open issues carrying all of these are triaged
	Labels         Labels            `mapstructure:"labels"`          // guard labels
	LanguageOwners []string          `mapstructure:"language_owners"` // logins whose comments count as handled
	Assignees      map[string]string `mapstructure:"assignees"`       // candidate login -> token env var
	PackagePrefix  string            `mapstructure:"package_prefix"`  // prepended to the service name
	Output         string            `mapstructure:"output"`          // digest file path
	GraphQLURL     string            `mapstructure:"graphql_url"`
	RESTURL        string            `mapstructure:"rest_url"`
	ListRetries    uint64            `mapstructure:"list_retries"` // retries of a failed issue listing page
	HTTPTimeout    time.Duration     `mapstructure:"http_timeout"` // per-request GitHub timeout
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("request_repo", "Azure/sdk-release-request")
	v.SetDefault("spec_repo", "Azure/azure-rest-api-specs")
	v.SetDefault("default_branch", "main")
	v.SetDefault("issue_labels", []string{"ManagementPlane"})
	v.SetDefault("labels.assigned", "auto-assign")
	v.SetDefault("labels.parsed", "auto-parse")
	v.SetDefault("labels.multi_link", "MultiLink")
	v.SetDefault("language_owners", []string{"msyyc"})
	v.SetDefault("package_prefix", "azure-mgmt-")
	v.SetDefault("output", "common.md")
	v.SetDefault("graphql_url", "https://api.github.com/graphql")
	v.SetDefault("rest_url", "https://api.github.com")
	v.SetDefault("list_retries", 3)
	v.SetDefault("http_timeout", "30s")
}

// Load reads the config file at path (optional; empty means defaults and
// environment only) and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Assignees) == 0 {
		cfg.Assignees = make(map[string]string, len(defaultAssignees))
		for login, envVar := range defaultAssignees {
			cfg.Assignees[login] = envVar
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if _, _, err := SplitRepo(c.RequestRepo); err != nil {
		return fmt.Errorf("request_repo: %w", err)
	}
	if _, _, err := SplitRepo(c.SpecRepo); err != nil {
		return fmt.Errorf("spec_repo: %w", err)
	}
	if c.DefaultBranch == "" {
		return errors.New("default_branch must not be empty")
	}
	if c.Labels.Assigned == "" || c.Labels.Parsed == "" || c.Labels.MultiLink == "" {
		return errors.New("labels.assigned, labels.parsed and labels.multi_link are required")
	}
	if len(c.Assignees) == 0 {
		return errors.New("assignees must name at least one candidate")
	}
	for login, envVar := range c.Assignees {
		if envVar == "" {
			return fmt.Errorf("assignees.%s: token variable name is empty", login)
		}
	}
	if c.Output == "" {
		return errors.New("output must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout must be positive")
	}
	return nil
}

// SplitRepo splits "owner/name".
func SplitRepo(nameWithOwner string) (owner, name string, err error) {
	parts := strings.Split(nameWithOwner, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", nameWithOwner)
	}
	return parts[0], parts[1], nil
}
