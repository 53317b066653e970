package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
)

func newInitCommand(a App) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create the .mf layout and empty databases",
		Long: `Create the .mf directory, backup and cache directories, and empty
databases under dir (default: the current directory, or the resolved
site root when run inside an existing site).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				site *mf.Site
				err  error
			)
			switch {
			case len(args) == 1:
				site, err = a.SiteAt(args[0])
			default:
				site, err = a.Site()
				if err != nil {
					// No resolvable site yet; initialize here.
					site, err = a.SiteAt(".")
				}
			}
			if err != nil {
				return err
			}

			if err := site.Init(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("initialized site at %s\n", site.Paths().SiteRoot)
			return nil
		},
	}
}
