package projects_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/internal/domain/projects"
	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/registries/github"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/store"
)

func openStores(t *testing.T) (*paths.Paths, *store.Store, *store.Store) {
	t.Helper()
	p := paths.New(t.TempDir())
	require.NoError(t, p.EnsureLayout())

	overrides, err := projects.Open(p, nil)
	require.NoError(t, err)
	cache, err := projects.OpenCache(p, nil)
	require.NoError(t, err)
	return p, overrides, cache
}

func TestSyncCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/me/filters", r.URL.Path)
		w.Write([]byte(`{
			"full_name": "me/filters",
			"description": "Filter library",
			"stargazers_count": 42,
			"language": "Go",
			"topics": ["filters"],
			"archived": false,
			"pushed_at": "2024-06-01T10:00:00Z",
			"html_url": "https://github.com/me/filters"
		}`))
	}))
	defer srv.Close()

	_, overrides, cache := openStores(t)
	require.NoError(t, overrides.Set("filters", store.Entry{"title": "Filters", "repo": "me/filters"}))

	client := github.New(github.WithToken(""), github.WithBaseURL(srv.URL))
	row, err := projects.SyncCache(context.Background(), overrides, cache, client, "filters")
	require.NoError(t, err)

	assert.Equal(t, 42, row["stargazers"])
	cached, ok := cache.Get("filters")
	require.True(t, ok)
	assert.Equal(t, "me/filters", cached["full_name"])
}

func TestSyncCacheErrors(t *testing.T) {
	_, overrides, cache := openStores(t)
	client := github.New(github.WithToken(""))

	_, err := projects.SyncCache(context.Background(), overrides, cache, client, "absent")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, overrides.Set("bare", store.Entry{"title": "Bare"}))
	_, err = projects.SyncCache(context.Background(), overrides, cache, client, "bare")
	assert.True(t, errors.IsValidationError(err))
}

func TestSaveCacheWritesNoBackups(t *testing.T) {
	p, _, cache := openStores(t)
	require.NoError(t, cache.Set("row", store.Entry{"v": 1}))
	require.NoError(t, projects.SaveCache(context.Background(), cache))
	require.NoError(t, projects.SaveCache(context.Background(), cache))

	entries, err := os.ReadDir(p.BackupDir("projects"))
	if err == nil {
		assert.Empty(t, entries)
	}
}
