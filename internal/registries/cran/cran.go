// Package cran fetches package metadata from the crandb API.
package cran

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentstation/utc"

	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/internal/transport"
)

const defaultBaseURL = "https://crandb.r-pkg.org"

// Adapter implements registries.Adapter for CRAN.
type Adapter struct {
	baseURL string
	client  *transport.Client
}

// Option configures the adapter.
type Option func(*Adapter)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(base string) Option {
	return func(a *Adapter) { a.baseURL = strings.TrimRight(base, "/") }
}

// New returns a CRAN adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		baseURL: defaultBaseURL,
		client:  transport.New("cran", &transport.NoAuth{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements registries.Adapter.
func (a *Adapter) Name() string { return "cran" }

// response mirrors the parts of the crandb document we keep. crandb
// returns the latest published version at the top level.
type response struct {
	Package string `json:"Package"`
	Version string `json:"Version"`
	Title   string `json:"Title"`
	License string `json:"License"`
	URL     string `json:"URL"`
}

// Fetch implements registries.Adapter.
func (a *Adapter) Fetch(ctx context.Context, name string) (*registries.Metadata, error) {
	endpoint := fmt.Sprintf("%s/%s", a.baseURL, url.PathEscape(name))

	var doc response
	if err := a.client.GetJSON(ctx, endpoint, &doc); err != nil {
		return nil, err
	}

	// The URL field can list several addresses, comma or whitespace
	// separated; the first one is the homepage.
	homepage := doc.URL
	if i := strings.IndexAny(homepage, ", \n"); i >= 0 {
		homepage = homepage[:i]
	}

	return &registries.Metadata{
		Name:           doc.Package,
		LatestVersion:  doc.Version,
		Description:    doc.Title,
		Homepage:       homepage,
		RegistryURL:    fmt.Sprintf("https://cran.r-project.org/package=%s", url.QueryEscape(name)),
		License:        doc.License,
		InstallCommand: fmt.Sprintf("install.packages(%q)", name),
		FetchedAt:      utc.Now(),
	}, nil
}
