package packages_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/internal/domain/packages"
	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/store"
)

type fakeAdapter struct {
	meta *registries.Metadata
	err  error
}

func (a *fakeAdapter) Name() string { return "pypi" }

func (a *fakeAdapter) Fetch(context.Context, string) (*registries.Metadata, error) {
	return a.meta, a.err
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	p := paths.New(t.TempDir())
	require.NoError(t, p.EnsureLayout())
	s, err := packages.Open(p, nil)
	require.NoError(t, err)
	return s
}

func TestAdd(t *testing.T) {
	s := openStore(t)

	require.NoError(t, packages.Add(s, "httpx", "", "pypi"))
	entry, ok := s.Get("httpx")
	require.True(t, ok)
	assert.Equal(t, "httpx", entry["name"], "name defaults to the slug")

	assert.True(t, errors.IsAlreadyExists(packages.Add(s, "httpx", "", "pypi")))
	assert.True(t, errors.IsValidationError(packages.Add(s, "left-pad", "", "npm")))
}

func TestSyncMergesFetchedMetadata(t *testing.T) {
	s := openStore(t)
	require.NoError(t, packages.Add(s, "httpx", "", "pypi"))
	require.NoError(t, s.Set("httpx", store.Entry{
		"name":        "httpx",
		"registry":    "pypi",
		"description": "curated description",
		"stars":       4,
	}))

	reg := registries.New()
	require.NoError(t, reg.Register(&fakeAdapter{meta: &registries.Metadata{
		LatestVersion:  "0.27.0",
		InstallCommand: "pip install httpx",
		Description:    "",
	}}))

	entry, err := packages.Sync(context.Background(), s, reg, "httpx")
	require.NoError(t, err)

	assert.Equal(t, "0.27.0", entry["latest_version"])
	assert.Equal(t, "pip install httpx", entry["install_command"])
	assert.Equal(t, "curated description", entry["description"], "empty fetch values never clobber")
	assert.Equal(t, 4, entry["stars"])
	synced, ok := entry["last_synced"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, synced)
	assert.NoError(t, err, "last_synced must be an RFC3339 timestamp")
}

func TestSyncFailedFetchLeavesEntryUntouched(t *testing.T) {
	s := openStore(t)
	require.NoError(t, packages.Add(s, "ghost", "", "pypi"))

	reg := registries.New()
	require.NoError(t, reg.Register(&fakeAdapter{err: errors.ErrNotFound}))

	_, err := packages.Sync(context.Background(), s, reg, "ghost")
	assert.True(t, errors.IsNotFound(err))

	entry, _ := s.Get("ghost")
	_, synced := entry["last_synced"]
	assert.False(t, synced)
}

func TestSyncErrors(t *testing.T) {
	s := openStore(t)
	reg := registries.New()

	_, err := packages.Sync(context.Background(), s, reg, "absent")
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, s.Set("bare", store.Entry{"name": "bare"}))
	_, err = packages.Sync(context.Background(), s, reg, "bare")
	assert.True(t, errors.IsValidationError(err))
}
