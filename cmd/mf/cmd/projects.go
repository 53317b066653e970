package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/internal/domain/projects"
)

func newProjectsCommand(a App) *cobra.Command {
	b := &binding{
		use:    "projects",
		short:  "Manage the projects database and its GitHub cache",
		schema: projects.Schema(),
		open:   (*mf.Site).Projects,
	}

	cmd := &cobra.Command{
		Use:   b.use,
		Short: b.short,
	}
	cmd.AddCommand(
		newProjectsSyncCommand(a),
		b.newSetCommand(a),
		b.newUnsetCommand(a),
		b.newTagsCommand(a),
		b.newListCommand(a),
		b.newSearchCommand(a),
		b.newFieldsCommand(),
	)
	return cmd
}

func newProjectsSyncCommand(a App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <slug>",
		Short: "Refresh the project's GitHub cache row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			row, err := site.SyncProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("synced %s: %v stars\n", args[0], row["stargazers"])
			return nil
		},
	}
}
