package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/internal/registries/github"
	"github.com/metafunctor/mf/pkg/errors"
)

const fixture = `{
  "full_name": "encode/httpx",
  "description": "A next generation HTTP client for Python.",
  "homepage": "https://www.python-httpx.org",
  "stargazers_count": 13000,
  "language": "Python",
  "topics": ["http", "python"],
  "archived": false,
  "pushed_at": "2024-06-01T10:00:00Z",
  "html_url": "https://github.com/encode/httpx"
}`

func TestFetchRepo(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/repos/encode/httpx", r.URL.Path)
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	c := github.New(github.WithToken("tok"), github.WithBaseURL(srv.URL))
	repo, err := c.FetchRepo(context.Background(), "encode/httpx")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "encode/httpx", repo.FullName)
	assert.Equal(t, 13000, repo.Stargazers)
	assert.Equal(t, []string{"http", "python"}, repo.Topics)
	assert.False(t, repo.Archived)
	assert.Equal(t, 2024, repo.PushedAt.Year())
}

func TestFetchRepoRejectsBareName(t *testing.T) {
	c := github.New()
	_, err := c.FetchRepo(context.Background(), "httpx")
	assert.True(t, errors.IsValidationError(err))
}

func TestFetchRepoNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := github.New(github.WithToken(""), github.WithBaseURL(srv.URL))
	_, err := c.FetchRepo(context.Background(), "ghost/repo")
	assert.True(t, errors.IsNotFound(err))
}
