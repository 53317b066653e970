package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/internal/domain/series"
)

func newSeriesCommand(a App) *cobra.Command {
	b := &binding{
		use:    "series",
		short:  "Manage the series database",
		schema: series.Schema(),
		open:   (*mf.Site).Series,
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
		b.newFieldsCommand(),
	)
	return cmd
}
