package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/safewrite"
	"github.com/metafunctor/mf/pkg/errors"
)

// backupDomains maps the CLI domain argument to each store's database
// file and backup directory.
func backupDomains(p *paths.Paths) map[string]struct{ db, dir string } {
	return map[string]struct{ db, dir string }{
		"packages": {p.PackagesDB(), p.BackupDir("packages")},
		"papers":   {p.PapersDB(), p.BackupDir("papers")},
		"projects": {p.ProjectsDB(), p.BackupDir("projects")},
		"series":   {p.SeriesDB(), p.BackupDir("series")},
	}
}

func resolveDomain(p *paths.Paths, name string) (struct{ db, dir string }, error) {
	domains := backupDomains(p)
	d, ok := domains[name]
	if !ok {
		return d, errors.NewNotFoundError("domain", name)
	}
	return d, nil
}

func newBackupCommand(a App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "List, restore, and prune database backups",
	}
	cmd.AddCommand(
		newBackupListCommand(a),
		newBackupRollbackCommand(a),
		newBackupPruneCommand(a),
	)
	return cmd
}

func newBackupListCommand(a App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [domain]",
		Short: "List backups, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			p := site.Paths()

			names := []string{"packages", "papers", "projects", "series"}
			if len(args) == 1 {
				if _, err := resolveDomain(p, args[0]); err != nil {
					return err
				}
				names = args[:1]
			}

			total := 0
			for _, name := range names {
				d, _ := resolveDomain(p, name)
				backups, err := safewrite.ListBackups(d.dir, "")
				if err != nil {
					return err
				}
				for i, b := range backups {
					cmd.Printf("%-10s %3d  %s  %6d bytes  %.1fd old\n",
						name, i, b.Timestamp.Format("2006-01-02 15:04:05"), b.Size, b.AgeDays())
				}
				total += len(backups)
			}
			cmd.Printf("%d backups\n", total)
			return nil
		},
	}
}

func newBackupRollbackCommand(a App) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "rollback <domain>",
		Short: "Restore a database from a backup",
		Long: `Restore a database from a backup. Index 0 is the newest backup.
The current database state is backed up first, so a rollback can
itself be rolled back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			d, err := resolveDomain(site.Paths(), args[0])
			if err != nil {
				return err
			}
			restored, err := safewrite.Rollback(d.db, d.dir, index)
			if err != nil {
				return err
			}
			cmd.Printf("restored %s from %s\n", args[0], restored)
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "backup to restore, 0 = newest")
	return cmd
}

func newBackupPruneCommand(a App) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune [domain]",
		Short: "Delete old backups beyond the retention count",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			p := site.Paths()

			names := []string{"packages", "papers", "projects", "series"}
			if len(args) == 1 {
				if _, err := resolveDomain(p, args[0]); err != nil {
					return err
				}
				names = args[:1]
			}

			retention := safewrite.Retention{KeepCount: keep, MinKeep: 1}
			total := 0
			for _, name := range names {
				d, _ := resolveDomain(p, name)
				removed, err := safewrite.Rotate(d.dir, "", retention)
				if err != nil {
					return err
				}
				total += len(removed)
			}
			cmd.Printf("removed %d backups\n", total)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", safewrite.DefaultKeepCount, "number of newest backups to keep")
	return cmd
}
