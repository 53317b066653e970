package cran_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/internal/registries/cran"
	"github.com/metafunctor/mf/pkg/errors"
)

const fixture = `{
  "Package": "ggplot2",
  "Version": "3.5.1",
  "Title": "Create Elegant Data Visualisations Using the Grammar of Graphics",
  "License": "MIT + file LICENSE",
  "URL": "https://ggplot2.tidyverse.org, https://github.com/tidyverse/ggplot2"
}`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ggplot2", r.URL.Path)
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	a := cran.New(cran.WithBaseURL(srv.URL))
	assert.Equal(t, "cran", a.Name())

	meta, err := a.Fetch(context.Background(), "ggplot2")
	require.NoError(t, err)
	assert.Equal(t, "ggplot2", meta.Name)
	assert.Equal(t, "3.5.1", meta.LatestVersion)
	assert.Equal(t, "https://ggplot2.tidyverse.org", meta.Homepage)
	assert.Equal(t, "https://cran.r-project.org/package=ggplot2", meta.RegistryURL)
	assert.Equal(t, `install.packages("ggplot2")`, meta.InstallCommand)
}

func TestFetchUnknownPackage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	a := cran.New(cran.WithBaseURL(srv.URL))
	_, err := a.Fetch(context.Background(), "no-such-package")
	assert.True(t, errors.IsNotFound(err))
}
