// Package app wires configuration, logging, and the command tree into
// a runnable CLI application.
package app

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/metafunctor/mf"
)

// App is one CLI invocation: config, logger, and a lazily opened
// Site.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger

	site *mf.Site
}

// New creates an App with configuration loaded from the environment,
// .env files, and the config file.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(config)
	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// Config returns the loaded configuration.
func (a *App) Config() *Config { return a.config }

// Site returns the Site handle, constructing it on first use so that
// commands which never touch a site (version, help) work outside one.
func (a *App) Site() (*mf.Site, error) {
	if a.site != nil {
		return a.site, nil
	}

	opts := []mf.Option{mf.WithLogger(a.logger)}
	if a.config.SiteRoot != "" {
		opts = append(opts, mf.WithSiteRoot(a.config.SiteRoot))
	}

	site, err := mf.New(opts...)
	if err != nil {
		return nil, err
	}
	a.site = site
	return site, nil
}

// SiteAt returns a Site pinned to an explicit root, bypassing
// resolution. Used by init, which runs where no site exists yet.
func (a *App) SiteAt(root string) (*mf.Site, error) {
	return mf.New(mf.WithSiteRoot(root), mf.WithLogger(a.logger))
}

// ExitOnError prints an error to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("mf: " + err.Error() + "\n")
		os.Exit(1)
	}
}
