// Package pypi fetches package metadata from the PyPI JSON API.
package pypi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentstation/utc"

	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/internal/transport"
)

const defaultBaseURL = "https://pypi.org"

// Adapter implements registries.Adapter for PyPI.
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

// New returns a PyPI adapter. The index is public, so no
// authentication is applied.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		baseURL: defaultBaseURL,
		client:  transport.New("pypi", &transport.NoAuth{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements registries.Adapter.
func (a *Adapter) Name() string { return "pypi" }

// response mirrors the parts of the PyPI JSON document we keep.
type response struct {
	Info struct {
		Name        string            `json:"name"`
		Version     string            `json:"version"`
		Summary     string            `json:"summary"`
		License     string            `json:"license"`
		HomePage    string            `json:"home_page"`
		ProjectURLs map[string]string `json:"project_urls"`
	} `json:"info"`
}

// Fetch implements registries.Adapter.
func (a *Adapter) Fetch(ctx context.Context, name string) (*registries.Metadata, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", a.baseURL, url.PathEscape(name))

	var doc response
	if err := a.client.GetJSON(ctx, endpoint, &doc); err != nil {
		return nil, err
	}

	homepage := doc.Info.HomePage
	if homepage == "" {
		for _, key := range []string{"Homepage", "homepage", "Home", "Repository", "Source"} {
			if u, ok := doc.Info.ProjectURLs[key]; ok && u != "" {
				homepage = u
				break
			}
		}
	}

	return &registries.Metadata{
		Name:           doc.Info.Name,
		LatestVersion:  doc.Info.Version,
		Description:    doc.Info.Summary,
		Homepage:       homepage,
		RegistryURL:    fmt.Sprintf("https://pypi.org/project/%s/", url.PathEscape(name)),
		License:        doc.Info.License,
		InstallCommand: "pip install " + name,
		FetchedAt:      utc.Now(),
	}, nil
}
