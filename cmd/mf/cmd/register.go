// Package cmd defines the mf command tree.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
)

// App is what commands need from the application shell.
type App interface {
	Site() (*mf.Site, error)
	SiteAt(root string) (*mf.Site, error)
	Logger() *zerolog.Logger
}

// Register attaches every mf command to the root.
func Register(root *cobra.Command, a App) {
	root.AddCommand(newPackagesCommand(a))
	root.AddCommand(newPapersCommand(a))
	root.AddCommand(newProjectsCommand(a))
	root.AddCommand(newSeriesCommand(a))
	root.AddCommand(newIntegrityCommand(a))
	root.AddCommand(newBackupCommand(a))
	root.AddCommand(newInitCommand(a))
}
