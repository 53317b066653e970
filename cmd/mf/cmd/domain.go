package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/pkg/fields"
	"github.com/metafunctor/mf/pkg/store"
)

// binding ties one domain's schema and store opener to the generic
// subcommands every domain shares.
type binding struct {
	use    string
	short  string
	schema fields.Schema
	open   func(*mf.Site) (*store.Store, error)
}

func (b *binding) store(a App) (*store.Store, error) {
	site, err := a.Site()
	if err != nil {
		return nil, err
	}
	return b.open(site)
}

// saveUnless persists the store unless the mutation is a dry run.
func saveUnless(ctx context.Context, s *store.Store, dryRun bool) error {
	if dryRun {
		return nil
	}
	return s.Save(ctx)
}

func (b *binding) newSetCommand(a App) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "set <slug> <field> <value>",
		Short: "Set a field, validating and coercing the value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}
			result, err := fields.Set(s, b.schema, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			printChange(cmd, result, dryRun)
			return saveUnless(cmd.Context(), s, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without saving")
	return cmd
}

func (b *binding) newUnsetCommand(a App) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "unset <slug> <field>",
		Short: "Remove a field, or reset it to its declared default",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}
			result, err := fields.Unset(s, b.schema, args[0], args[1])
			if err != nil {
				return err
			}
			printChange(cmd, result, dryRun)
			return saveUnless(cmd.Context(), s, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without saving")
	return cmd
}

func (b *binding) newTagsCommand(a App) *cobra.Command {
	var (
		add     string
		remove  string
		replace string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "tags <slug>",
		Short: "Show or edit an entry's tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}

			edit := fields.ListEdit{
				Add:    splitList(add),
				Remove: splitList(remove),
			}
			if replace != "" {
				edit.Replace = splitList(replace)
			}
			if len(edit.Add) == 0 && len(edit.Remove) == 0 && edit.Replace == nil {
				entry, ok := s.Get(args[0])
				if !ok {
					cmd.Printf("%s: not found\n", args[0])
					return nil
				}
				cmd.Println(formatValue(store.StringList(entry["tags"])))
				return nil
			}

			result, err := fields.ModifyList(s, b.schema, args[0], "tags", edit)
			if err != nil {
				return err
			}
			printChange(cmd, result, dryRun)
			return saveUnless(cmd.Context(), s, dryRun)
		},
	}
	cmd.Flags().StringVar(&add, "add", "", "comma-delimited tags to add")
	cmd.Flags().StringVar(&remove, "remove", "", "comma-delimited tags to remove")
	cmd.Flags().StringVar(&replace, "replace", "", "comma-delimited tags to replace the list with")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without saving")
	return cmd
}

func (b *binding) newListCommand(a App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}
			printItems(cmd, s.Items())
			return nil
		},
	}
}

func (b *binding) newSearchCommand(a App) *cobra.Command {
	var (
		tags    []string
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries by text, tags, and exact filters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}
			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}
			query := store.Query{Tags: tags, Filters: parsed}
			if len(args) > 0 {
				query.Text = args[0]
			}
			printItems(cmd, s.Search(query))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "required tag (repeatable; all must match)")
	cmd.Flags().StringSliceVar(&filters, "filter", nil, "exact filter key=value (repeatable)")
	return cmd
}

func (b *binding) newFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Show the domain's field schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printSchema(cmd, b.schema)
			return nil
		},
	}
}
