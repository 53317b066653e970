// Package github fetches repository metadata for the projects cache.
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/agentstation/utc"

	"github.com/metafunctor/mf/internal/transport"
	"github.com/metafunctor/mf/pkg/errors"
)

const defaultBaseURL = "https://api.github.com"

// TokenEnv names the environment variable holding an optional API
// token. Anonymous access works but is rate limited hard.
const TokenEnv = "GITHUB_TOKEN"

// Repo is the cached metadata for one repository.
type Repo struct {
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
	Stargazers  int      `json:"stargazers_count"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Archived    bool     `json:"archived"`
	PushedAt    utc.Time `json:"pushed_at"`
	HTMLURL     string   `json:"html_url"`
}

// Client fetches repository metadata.
type Client struct {
	baseURL string
	http    *transport.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithToken sets the API token explicitly instead of reading it from
// the environment.
func WithToken(token string) Option {
	return func(c *Client) { c.http = transport.New("github", &transport.BearerAuth{Token: token}) }
}

// New returns a GitHub client authenticated from GITHUB_TOKEN when
// set.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    transport.New("github", &transport.BearerAuth{Token: os.Getenv(TokenEnv)}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRepo fetches one repository's metadata. repo is "owner/name".
func (c *Client) FetchRepo(ctx context.Context, repo string) (*Repo, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, errors.NewValidationError("repo", repo, "expected owner/name")
	}

	var out Repo
	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, name)
	if err := c.http.GetJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
