package cmd_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/cmd/mf/cmd"
)

type testApp struct {
	site *mf.Site
}

func (a *testApp) Site() (*mf.Site, error) { return a.site, nil }

func (a *testApp) SiteAt(root string) (*mf.Site, error) {
	return mf.New(mf.WithSiteRoot(root))
}

func (a *testApp) Logger() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}

// cli runs commands against one shared Site, building a fresh command
// tree per invocation the way each real process does.
type cli struct {
	app *testApp
}

func newCLI(t *testing.T) (*cli, *mf.Site) {
	t.Helper()
	site, err := mf.New(mf.WithSiteRoot(t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, site.Init(context.Background()))
	return &cli{app: &testApp{site: site}}, site
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "mf", SilenceUsage: true, SilenceErrors: true}
	cmd.Register(root, c.app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPackagesAddSetList(t *testing.T) {
	c, site := newCLI(t)

	out, err := c.run(t, "packages", "add", "httpx", "--registry", "pypi")
	require.NoError(t, err)
	assert.Contains(t, out, "added httpx")

	out, err = c.run(t, "packages", "set", "httpx", "stars", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "set httpx.stars: (unset) -> 4")

	out, err = c.run(t, "packages", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "httpx")
	assert.Contains(t, out, "1 entries")

	pkgs, err := site.Packages()
	require.NoError(t, err)
	entry, ok := pkgs.Get("httpx")
	require.True(t, ok)
	assert.Equal(t, 4, entry["stars"])
}

func TestSetRejectsInvalidValue(t *testing.T) {
	c, _ := newCLI(t)

	_, err := c.run(t, "packages", "add", "httpx")
	require.NoError(t, err)

	_, err = c.run(t, "packages", "set", "httpx", "stars", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum")
}

func TestSetDryRunDoesNotPersist(t *testing.T) {
	c, site := newCLI(t)

	_, err := c.run(t, "papers", "set", "my-paper", "title", "A Title")
	require.Error(t, err, "set requires an existing entry")

	pprs, err := site.Papers()
	require.NoError(t, err)
	require.NoError(t, pprs.Set("my-paper", map[string]any{"title": "Old"}))
	require.NoError(t, pprs.Save(context.Background()))

	out, err := c.run(t, "papers", "set", "my-paper", "title", "New", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[dry-run]")

	// The on-disk state still has the old title.
	fresh, err := mf.New(mf.WithSiteRoot(site.Paths().SiteRoot))
	require.NoError(t, err)
	st, err := fresh.Papers()
	require.NoError(t, err)
	entry, _ := st.Get("my-paper")
	assert.Equal(t, "Old", entry["title"])
}

func TestTagsEditAndShow(t *testing.T) {
	c, _ := newCLI(t)

	_, err := c.run(t, "packages", "add", "httpx")
	require.NoError(t, err)

	out, err := c.run(t, "packages", "tags", "httpx", "--add", "python,http")
	require.NoError(t, err)
	assert.Contains(t, out, "[python, http]")

	out, err = c.run(t, "packages", "tags", "httpx")
	require.NoError(t, err)
	assert.Contains(t, out, "[python, http]")
}

func TestSearchFiltersByTag(t *testing.T) {
	c, _ := newCLI(t)

	_, err := c.run(t, "packages", "add", "httpx")
	require.NoError(t, err)
	_, err = c.run(t, "packages", "add", "ggplot2", "--registry", "cran")
	require.NoError(t, err)
	_, err = c.run(t, "packages", "tags", "httpx", "--add", "python")
	require.NoError(t, err)

	out, err := c.run(t, "packages", "search", "--tag", "python")
	require.NoError(t, err)
	assert.Contains(t, out, "httpx")
	assert.NotContains(t, out, "ggplot2")

	out, err = c.run(t, "packages", "search", "--filter", "registry=cran")
	require.NoError(t, err)
	assert.Contains(t, out, "ggplot2")
	assert.NotContains(t, out, "httpx")
}

func TestIntegrityCheckAndFix(t *testing.T) {
	c, site := newCLI(t)

	_, err := c.run(t, "packages", "add", "ghost")
	require.NoError(t, err)

	out, err := c.run(t, "integrity", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "orphan")
	assert.Contains(t, out, "ghost")

	out, err = c.run(t, "integrity", "fix", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[dry-run]")
	pkgs, err := site.Packages()
	require.NoError(t, err)
	assert.True(t, pkgs.Has("ghost"))

	out, err = c.run(t, "integrity", "fix")
	require.NoError(t, err)
	assert.Contains(t, out, "1 fixed")
	assert.False(t, pkgs.Has("ghost"))

	out, err = c.run(t, "integrity", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "no issues found")
}

func TestBackupListAndRollback(t *testing.T) {
	c, _ := newCLI(t)

	_, err := c.run(t, "packages", "add", "first")
	require.NoError(t, err)
	_, err = c.run(t, "packages", "add", "second")
	require.NoError(t, err)

	out, err := c.run(t, "backup", "list", "packages")
	require.NoError(t, err)
	assert.Contains(t, out, "packages")

	out, err = c.run(t, "backup", "rollback", "packages")
	require.NoError(t, err)
	assert.Contains(t, out, "restored packages")
}

func TestInitCreatesLayout(t *testing.T) {
	c := &cli{app: &testApp{}}
	dir := t.TempDir()

	out, err := c.run(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized site at "+dir)
}
