package mf

import (
	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/internal/registries/github"
)

// Option configures a Site.
type Option func(*config) error

type config struct {
	paths    *paths.Paths
	startDir string
	logger   *zerolog.Logger
	registry *registries.Registry
	github   *github.Client
}

// WithSiteRoot pins the site root instead of resolving it.
func WithSiteRoot(root string) Option {
	return func(c *config) error {
		c.paths = paths.New(root)
		return nil
	}
}

// WithStartDir sets where site root resolution begins walking from.
// Defaults to the working directory.
func WithStartDir(dir string) Option {
	return func(c *config) error {
		c.startDir = dir
		return nil
	}
}

// WithLogger injects the logger the stores log through.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithRegistry replaces the default adapter set (pypi, cran).
func WithRegistry(reg *registries.Registry) Option {
	return func(c *config) error {
		c.registry = reg
		return nil
	}
}

// WithGitHubClient replaces the default GitHub client.
func WithGitHubClient(client *github.Client) Option {
	return func(c *config) error {
		c.github = client
		return nil
	}
}
