package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGhCliProvider_GetToken(t *testing.T) {
	provider := &GhCliProvider{}
	token, err := provider.GetToken()

	// Depends on the local gh CLI, so only the contract is checked
	if err != nil {
		assert.Contains(t, err.Error(), "gh")
	} else {
		assert.NotEmpty(t, token)
	}
}

func TestEnvProvider_GetToken_Default(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test_token_123")

	provider := &EnvProvider{}
	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test_token_123", token)
}

func TestEnvProvider_GetToken_NamedVar(t *testing.T) {
	t.Setenv("AZURESDK_BOT_TOKEN", "  ghp_bot  ")

	provider := &EnvProvider{Var: "AZURESDK_BOT_TOKEN"}
	token, err := provider.GetToken()

	require.NoError(t, err)
	assert.Equal(t, "ghp_bot", token)
}

func TestEnvProvider_GetToken_Missing(t *testing.T) {
	t.Setenv("RELTRIAGE_MISSING_TOKEN", "")

	provider := &EnvProvider{Var: "RELTRIAGE_MISSING_TOKEN"}
	token, err := provider.GetToken()

	assert.Error(t, err)
	assert.Empty(t, token)
	assert.Contains(t, err.Error(), "RELTRIAGE_MISSING_TOKEN")
}

func TestGetToken_FallbackToEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_fallback_token")

	// gh CLI may or may not be present; either way a token comes back
	token, err := GetToken()

	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestTokenProvider_Interface(t *testing.T) {
	var _ TokenProvider = &GhCliProvider{}
	var _ TokenProvider = &EnvProvider{}
}
