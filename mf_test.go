package mf_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/pkg/store"
)

type fakeAdapter struct{}

func (fakeAdapter) Name() string { return "pypi" }

func (fakeAdapter) Fetch(context.Context, string) (*registries.Metadata, error) {
	return &registries.Metadata{LatestVersion: "1.2.3"}, nil
}

func newSite(t *testing.T) *mf.Site {
	t.Helper()
	site, err := mf.New(mf.WithSiteRoot(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, site.Init(context.Background()))
	return site
}

func TestInitCreatesDatabases(t *testing.T) {
	site := newSite(t)
	p := site.Paths()

	for _, path := range []string{
		p.PackagesDB(), p.PapersDB(), p.ProjectsDB(), p.ProjectsCache(), p.SeriesDB(),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestDefaultRegistryAdapters(t *testing.T) {
	site := newSite(t)
	assert.Equal(t, []string{"cran", "pypi"}, site.Registry().Names())
}

func TestStoresAreSingletons(t *testing.T) {
	site := newSite(t)

	a, err := site.Packages()
	require.NoError(t, err)
	b, err := site.Packages()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestSyncPackagePersists(t *testing.T) {
	reg := registries.New()
	require.NoError(t, reg.Register(fakeAdapter{}))

	root := t.TempDir()
	site, err := mf.New(mf.WithSiteRoot(root), mf.WithRegistry(reg))
	require.NoError(t, err)
	require.NoError(t, site.Init(context.Background()))

	pkgs, err := site.Packages()
	require.NoError(t, err)
	require.NoError(t, pkgs.Set("httpx", store.Entry{"name": "httpx", "registry": "pypi"}))

	entry, err := site.SyncPackage(context.Background(), "httpx")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", entry["latest_version"])

	// A fresh Site sees the synced state on disk.
	fresh, err := mf.New(mf.WithSiteRoot(root))
	require.NoError(t, err)
	st, err := fresh.Packages()
	require.NoError(t, err)
	got, ok := st.Get("httpx")
	require.True(t, ok)
	assert.Equal(t, "1.2.3", got["latest_version"])
}

func TestCheckerOverFreshSiteIsClean(t *testing.T) {
	site := newSite(t)
	checker, err := site.Checker()
	require.NoError(t, err)

	report, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Clean())
}
