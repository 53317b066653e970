package pypi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/internal/registries/pypi"
	"github.com/metafunctor/mf/pkg/errors"
)

const fixture = `{
  "info": {
    "name": "httpx",
    "version": "0.27.0",
    "summary": "The next generation HTTP client.",
    "license": "BSD-3-Clause",
    "home_page": "",
    "project_urls": {"Homepage": "https://www.python-httpx.org"}
  }
}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pypi/httpx/json", r.URL.Path)
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	a := pypi.New(pypi.WithBaseURL(srv.URL))
	assert.Equal(t, "pypi", a.Name())

	meta, err := a.Fetch(context.Background(), "httpx")
	require.NoError(t, err)
	assert.Equal(t, "httpx", meta.Name)
	assert.Equal(t, "0.27.0", meta.LatestVersion)
	assert.Equal(t, "The next generation HTTP client.", meta.Description)
	assert.Equal(t, "https://www.python-httpx.org", meta.Homepage)
	assert.Equal(t, "https://pypi.org/project/httpx/", meta.RegistryURL)
	assert.Equal(t, "pip install httpx", meta.InstallCommand)
	assert.False(t, meta.FetchedAt.IsZero())
}

func TestFetchUnknownPackage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	a := pypi.New(pypi.WithBaseURL(srv.URL))
	_, err := a.Fetch(context.Background(), "no-such-package")
	assert.True(t, errors.IsNotFound(err))
}
