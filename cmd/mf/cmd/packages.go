package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/metafunctor/mf"
	"github.com/metafunctor/mf/internal/domain/packages"
)

func newPackagesCommand(a App) *cobra.Command {
	b := &binding{
		use:    "packages",
		short:  "Manage the packages database",
		schema: packages.Schema(),
		open:   (*mf.Site).Packages,
	}

	cmd := &cobra.Command{
		Use:   b.use,
		Short: b.short,
	}
	cmd.AddCommand(
		newPackagesAddCommand(a, b),
		newPackagesSyncCommand(a),
		newPackagesRemoveCommand(a, b),
		b.newSetCommand(a),
		b.newUnsetCommand(a),
		b.newTagsCommand(a),
		b.newListCommand(a),
		b.newSearchCommand(a),
		b.newFieldsCommand(),
	)
	return cmd
}

func newPackagesAddCommand(a App, b *binding) *cobra.Command {
	var (
		name     string
		registry string
	)
	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}
			if err := packages.Add(s, args[0], name, registry); err != nil {
				return err
			}
			cmd.Printf("added %s (%s)\n", args[0], registry)
			return s.Save(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "registry package name (defaults to the slug)")
	cmd.Flags().StringVar(&registry, "registry", "pypi",
		"source registry, one of: "+strings.Join(packages.RegistryChoices, ", "))
	return cmd
}

func newPackagesSyncCommand(a App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <slug>",
		Short: "Fetch registry metadata and merge it into the entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			entry, err := site.SyncPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("synced %s: version %s\n", args[0], entry["latest_version"])
			return nil
		},
	}
}

func newPackagesRemoveCommand(a App, b *binding) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <slug>",
		Aliases: []string{"remove"},
		Short:   "Remove a package",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.store(a)
			if err != nil {
				return err
			}
			if !s.Delete(args[0]) {
				cmd.Printf("%s: not found\n", args[0])
				return nil
			}
			cmd.Printf("removed %s\n", args[0])
			return s.Save(cmd.Context())
		},
	}
}
