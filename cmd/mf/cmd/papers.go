package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/internal/domain/papers"
)

func newPapersCommand(a App) *cobra.Command {
	b := &binding{
		use:    "papers",
		short:  "Manage the papers database",
		schema: papers.Schema(),
		open:   (*mf.Site).Papers,
	}

	cmd := &cobra.Command{
		Use:   b.use,
		Short: b.short,
	}
	cmd.AddCommand(
		b.newSetCommand(a),
		b.newUnsetCommand(a),
		b.newTagsCommand(a),
		b.newListCommand(a),
		b.newSearchCommand(a),
		b.newFieldsCommand(),
	)
	return cmd
}
