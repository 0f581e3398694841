package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoCredential indicates a login has no token in the candidate pool.
	ErrNoCredential = errors.New("no credential for login")
	// ErrEmptyPool indicates the candidate pool has no members.
	ErrEmptyPool = errors.New("candidate pool is empty")
)

// Credentials maps each assignee candidate to the token used to open a
// repository handle on their behalf. It is built once and never mutated.
// Logins are matched case-insensitively, like GitHub logins.
type Credentials struct {
	tokens map[string]string
}

// NewCredentials builds an immutable credential set from login -> token pairs.
// Every login must carry a non-empty token.
func NewCredentials(tokens map[string]string) (Credentials, error) {
	if len(tokens) == 0 {
		return Credentials{}, ErrEmptyPool
	}

	copied := make(map[string]string, len(tokens))
	for login, token := range tokens {
		key := strings.ToLower(strings.TrimSpace(login))
		if key == "" {
			return Credentials{}, errors.New("candidate login must not be empty")
		}
		if strings.TrimSpace(token) == "" {
			return Credentials{}, fmt.Errorf("%w: %s", ErrNoCredential, login)
		}
		copied[key] = token
	}

	return Credentials{tokens: copied}, nil
}

// LoadCredentials resolves each candidate's token from the environment
// variable named for it. The whole pool fails if any variable is unset.
func LoadCredentials(envByLogin map[string]string) (Credentials, error) {
	tokens := make(map[string]string, len(envByLogin))
	for login, envVar := range envByLogin {
		provider := &EnvProvider{Var: envVar}
		token, err := provider.GetToken()
		if err != nil {
			return Credentials{}, fmt.Errorf("%w: %s: %v", ErrNoCredential, login, err)
		}
		tokens[login] = token
	}
	return NewCredentials(tokens)
}

// Token returns the token for login, or ErrNoCredential.
func (c Credentials) Token(login string) (string, error) {
	token, ok := c.tokens[strings.ToLower(login)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoCredential, login)
	}
	return token, nil
}

// Logins returns the candidate logins in sorted order.
func (c Credentials) Logins() []string {
	logins := make([]string, 0, len(c.tokens))
	for login := range c.tokens {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

// Len returns the pool size.
func (c Credentials) Len() int {
	return len(c.tokens)
}
