// Package auth provides GitHub authentication token management.
// The bot needs two kinds of tokens: one for the read-only listing identity
// (resolved through a provider chain) and one per assignee candidate, which
// the bot uses to act on issues on that candidate's behalf.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultTokenEnv is the environment variable consulted when no other
// variable name is configured.
const DefaultTokenEnv = "GITHUB_TOKEN"

// TokenProvider defines the interface for obtaining a GitHub authentication token.
// Implementations may use different sources (CLI tools, environment variables, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// GhCliProvider obtains tokens by shelling out to the GitHub CLI (`gh auth token`).
type GhCliProvider struct{}

// GetToken shells out to `gh auth token` to retrieve the current token.
// Returns an error if gh CLI is not installed, not authenticated, or the command fails.
func (g *GhCliProvider) GetToken() (string, error) {
	cmd := exec.Command("gh", "auth", "token", "--hostname", "github.com")
	output, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", errors.New("gh CLI not found in PATH")
		}
		return "", fmt.Errorf("gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", errors.New("gh auth token returned empty token")
	}

	return token, nil
}

// EnvProvider obtains tokens from an environment variable.
// Var defaults to GITHUB_TOKEN when empty.
type EnvProvider struct {
	Var string
}

func (e *EnvProvider) name() string {
	if e.Var == "" {
		return DefaultTokenEnv
	}
	return e.Var
}

// GetToken reads the configured environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	name := e.name()
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", fmt.Errorf("%s environment variable not set or empty", name)
	}
	return token, nil
}

// GetToken obtains the token of the listing identity:
// 1. Try gh CLI first
// 2. Fall back to GITHUB_TOKEN
// 3. Return an actionable error if both fail
func GetToken() (string, error) {
	ghCli := &GhCliProvider{}
	token, err := ghCli.GetToken()
	if err == nil {
		return token, nil
	}
	ghErr := err

	envProvider := &EnvProvider{}
	token, err = envProvider.GetToken()
	if err == nil {
		return token, nil
	}

	return "", fmt.Errorf(
		"failed to obtain GitHub token: gh CLI error (%v) and %s not set.\n"+
			"Please either:\n"+
			"  1. Run 'gh auth login' to authenticate with GitHub CLI, or\n"+
			"  2. Set the %s environment variable with a personal access token",
		ghErr, DefaultTokenEnv, DefaultTokenEnv,
	)
}
