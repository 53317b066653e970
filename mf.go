// Package mf manages the JSON databases behind a static site and
// keeps them in sync with external registries and the generated
// content tree. The databases are truth; pages are derived from them.
package mf

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/content"
	"github.com/metafunctor/mf/internal/domain/packages"
	"github.com/metafunctor/mf/internal/domain/papers"
	"github.com/metafunctor/mf/internal/domain/projects"
	"github.com/metafunctor/mf/internal/domain/series"
	"github.com/metafunctor/mf/internal/integrity"
	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/internal/registries/cran"
	"github.com/metafunctor/mf/internal/registries/github"
	"github.com/metafunctor/mf/internal/registries/pypi"
	"github.com/metafunctor/mf/pkg/store"
)

// Site is the handle to one site's databases and collaborators. It is
// built once per invocation; stores load lazily on first use.
type Site struct {
	paths    *paths.Paths
	logger   *zerolog.Logger
	registry *registries.Registry
	github   *github.Client

	packages      *store.Store
	papers        *store.Store
	projects      *store.Store
	projectsCache *store.Store
	series        *store.Store
}

// New constructs a Site. Without WithSiteRoot the root is resolved
// from the environment, the working directory, and the global config.
func New(opts ...Option) (*Site, error) {
	cfg := &config{startDir: "."}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	p := cfg.paths
	if p == nil {
		var err error
		p, err = paths.Resolve(cfg.startDir)
		if err != nil {
			return nil, err
		}
	}

	reg := cfg.registry
	if reg == nil {
		reg = registries.New()
		for _, a := range []registries.Adapter{pypi.New(), cran.New()} {
			if err := reg.Register(a); err != nil {
				return nil, err
			}
		}
	}

	gh := cfg.github
	if gh == nil {
		gh = github.New()
	}

	return &Site{
		paths:    p,
		logger:   cfg.logger,
		registry: reg,
		github:   gh,
	}, nil
}

// Paths returns the resolved site locations.
func (s *Site) Paths() *paths.Paths { return s.paths }

// Registry returns the package registry adapters.
func (s *Site) Registry() *registries.Registry { return s.registry }

// Init creates the managed directory layout and writes each database
// so a fresh site is ready to use.
func (s *Site) Init(ctx context.Context) error {
	if err := s.paths.EnsureLayout(); err != nil {
		return err
	}
	for _, open := range []func() (*store.Store, error){
		s.Packages, s.Papers, s.Projects, s.Series,
	} {
		st, err := open()
		if err != nil {
			return err
		}
		if err := st.Save(ctx, store.NoBackup()); err != nil {
			return err
		}
	}
	cache, err := s.ProjectsCache()
	if err != nil {
		return err
	}
	return projects.SaveCache(ctx, cache)
}

// Packages returns the packages store, loading it on first use.
func (s *Site) Packages() (*store.Store, error) {
	if s.packages == nil {
		st, err := packages.Open(s.paths, s.logger)
		if err != nil {
			return nil, err
		}
		s.packages = st
	}
	return s.packages, nil
}

// Papers returns the papers store, loading it on first use.
func (s *Site) Papers() (*store.Store, error) {
	if s.papers == nil {
		st, err := papers.Open(s.paths, s.logger)
		if err != nil {
			return nil, err
		}
		s.papers = st
	}
	return s.papers, nil
}

// Projects returns the projects overrides store, loading it on first
// use.
func (s *Site) Projects() (*store.Store, error) {
	if s.projects == nil {
		st, err := projects.Open(s.paths, s.logger)
		if err != nil {
			return nil, err
		}
		s.projects = st
	}
	return s.projects, nil
}

// ProjectsCache returns the regenerable GitHub cache store, loading
// it on first use.
func (s *Site) ProjectsCache() (*store.Store, error) {
	if s.projectsCache == nil {
		st, err := projects.OpenCache(s.paths, s.logger)
		if err != nil {
			return nil, err
		}
		s.projectsCache = st
	}
	return s.projectsCache, nil
}

// Series returns the series store, loading it on first use.
func (s *Site) Series() (*store.Store, error) {
	if s.series == nil {
		st, err := series.Open(s.paths, s.logger)
		if err != nil {
			return nil, err
		}
		s.series = st
	}
	return s.series, nil
}

// SyncPackage fetches registry metadata for one package, merges it
// into the entry, and saves the store.
func (s *Site) SyncPackage(ctx context.Context, slug string) (store.Entry, error) {
	st, err := s.Packages()
	if err != nil {
		return nil, err
	}
	entry, err := packages.Sync(ctx, st, s.registry, slug)
	if err != nil {
		return nil, err
	}
	if err := st.Save(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// SyncProject refreshes one project's GitHub cache row and saves the
// cache.
func (s *Site) SyncProject(ctx context.Context, slug string) (store.Entry, error) {
	overrides, err := s.Projects()
	if err != nil {
		return nil, err
	}
	cache, err := s.ProjectsCache()
	if err != nil {
		return nil, err
	}
	row, err := projects.SyncCache(ctx, overrides, cache, s.github, slug)
	if err != nil {
		return nil, err
	}
	if err := projects.SaveCache(ctx, cache); err != nil {
		return nil, err
	}
	return row, nil
}

// Checker builds the integrity checker over all five stores and the
// content tree.
func (s *Site) Checker() (*integrity.Checker, error) {
	pkgs, err := s.Packages()
	if err != nil {
		return nil, err
	}
	pprs, err := s.Papers()
	if err != nil {
		return nil, err
	}
	projs, err := s.Projects()
	if err != nil {
		return nil, err
	}
	cache, err := s.ProjectsCache()
	if err != nil {
		return nil, err
	}
	srs, err := s.Series()
	if err != nil {
		return nil, err
	}

	return integrity.New(integrity.Stores{
		Packages:      pkgs,
		Papers:        pprs,
		Projects:      projs,
		ProjectsCache: cache,
		Series:        srs,
	}, content.NewScanner(s.paths), s.paths), nil
}
