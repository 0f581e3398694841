// Package gh provides a GitHub client for the release-request bot.
// Issues, labels, assignees and specification files go through the GraphQL
// API; the one call GraphQL cannot answer (files changed by a commit) goes
// through REST.
package gh

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/h0rv/reltriage/internal/auth"
	"github.com/h0rv/reltriage/internal/config"
	"github.com/machinebox/graphql"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	defaultRESTURL    = "https://api.github.com"
)

// Client is an authenticated GitHub API client. One Client exists per identity.
type Client struct {
	gql     *graphql.Client
	http    *http.Client
	restURL string
	token   string
	retries uint64
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	graphqlURL string
	restURL    string
	httpClient *http.Client
	retries    uint64
}

// WithEndpoints overrides the GraphQL and REST base URLs (used by tests and GHES).
func WithEndpoints(graphqlURL, restURL string) Option {
	return func(o *clientOptions) {
		if graphqlURL != "" {
			o.graphqlURL = graphqlURL
		}
		if restURL != "" {
			o.restURL = restURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for both APIs.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithListRetries sets how often a failed issue listing page is retried.
func WithListRetries(n uint64) Option {
	return func(o *clientOptions) {
		o.retries = n
	}
}

// New creates a client for the listing identity.
// It obtains an authentication token using the auth package.
func New(opts ...Option) (*Client, error) {
	token, err := auth.GetToken()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain GitHub token: %w", err)
	}
	return NewWithToken(token, opts...), nil
}

// NewWithToken creates a client authenticated with token.
func NewWithToken(token string, opts ...Option) *Client {
	o := clientOptions{
		graphqlURL: defaultGraphQLURL,
		restURL:    defaultRESTURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		gql:     graphql.NewClient(o.graphqlURL, graphql.WithHTTPClient(o.httpClient)),
		http:    o.httpClient,
		restURL: strings.TrimSuffix(o.restURL, "/"),
		token:   token,
		retries: o.retries,
	}
}

// Repository returns a handle on nameWithOwner ("owner/name") bound to this client's identity.
func (c *Client) Repository(nameWithOwner string) (*Repository, error) {
	owner, name, err := config.SplitRepo(nameWithOwner)
	if err != nil {
		return nil, err
	}
	return &Repository{client: c, Owner: owner, Name: name}, nil
}

// makeRequest executes a GraphQL request with authentication.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.gql.Run(ctx, req, resp)
}

// Repository is a repository handle opened by one identity. Every mutation
// made through it is attributed to that identity.
type Repository struct {
	client *Client
	Owner  string
	Name   string

	nodeIDs map[int]string // issue number -> node ID, for mutations
}

// FullName returns "owner/name".
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
