package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Azure/sdk-release-request", cfg.RequestRepo)
	assert.Equal(t, "Azure/azure-rest-api-specs", cfg.SpecRepo)
	assert.Equal(t, "main", cfg.DefaultBranch)
	assert.Equal(t, Labels{Assigned: "auto-assign", Parsed: "auto-parse", MultiLink: "MultiLink"}, cfg.Labels)
	assert.Equal(t, map[string]string{"msyyc": "AZURESDK_BOT_TOKEN"}, cfg.Assignees)
	assert.Equal(t, "common.md", cfg.Output)
	assert.Equal(t, uint64(3), cfg.ListRetries)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reltriage.yaml")
	content := `
request_repo: contoso/release-requests
issue_labels: []
language_owners: [alice, bob]
assignees:
  alice: ALICE_TOKEN
  bob: BOB_TOKEN
labels:
  multi_link: ambiguous
output: digest.md
http_timeout: 45s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "contoso/release-requests", cfg.RequestRepo)
	assert.Empty(t, cfg.IssueLabels)
	assert.Equal(t, []string{"alice", "bob"}, cfg.LanguageOwners)
	assert.Equal(t, map[string]string{"alice": "ALICE_TOKEN", "bob": "BOB_TOKEN"}, cfg.Assignees)
	assert.Equal(t, "ambiguous", cfg.Labels.MultiLink)
	assert.Equal(t, "auto-parse", cfg.Labels.Parsed, "unset nested keys keep defaults")
	assert.Equal(t, "digest.md", cfg.Output)
	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RELTRIAGE_OUTPUT", "from-env.md")
	t.Setenv("RELTRIAGE_DEFAULT_BRANCH", "develop")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env.md", cfg.Output)
	assert.Equal(t, "develop", cfg.DefaultBranch)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidRepo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spec_repo: not-a-repo\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec_repo")
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := SplitRepo("Azure/azure-rest-api-specs")
	require.NoError(t, err)
	assert.Equal(t, "Azure", owner)
	assert.Equal(t, "azure-rest-api-specs", name)

	for _, bad := range []string{"", "Azure", "Azure/", "/x", "a/b/c"} {
		_, _, err := SplitRepo(bad)
		assert.Error(t, err, bad)
	}
}
