package cmd

import (
	"github.com/spf13/cobra"

	"github.com/metafunctor/mf/internal/integrity"
)

func newIntegrityCommand(a App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Cross-check the databases against the content tree",
	}
	cmd.AddCommand(newIntegrityCheckCommand(a), newIntegrityFixCommand(a))
	return cmd
}

func newIntegrityCheckCommand(a App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report issues without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			checker, err := site.Checker()
			if err != nil {
				return err
			}
			report, err := checker.Check(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}
}

func newIntegrityFixCommand(a App) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply fixes for auto-fixable issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			site, err := a.Site()
			if err != nil {
				return err
			}
			checker, err := site.Checker()
			if err != nil {
				return err
			}
			fix, err := checker.Fix(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			prefix := ""
			if fix.DryRun {
				prefix = "[dry-run] "
			}
			for _, issue := range fix.Fixed {
				cmd.Printf("%sfixed %s %s/%s: %s\n", prefix, issue.Kind, issue.Store, issue.Slug, issue.Detail)
			}
			for _, issue := range fix.Skipped {
				cmd.Printf("reported %s %s/%s: %s\n", issue.Kind, issue.Store, issue.Slug, issue.Detail)
			}
			cmd.Printf("%s%d fixed, %d report-only\n", prefix, len(fix.Fixed), len(fix.Skipped))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be fixed without mutating any store")
	return cmd
}

func printReport(cmd *cobra.Command, report *integrity.Report) {
	for _, issue := range report.Issues {
		marker := " "
		if issue.Fixable {
			marker = "*"
		}
		cmd.Printf("%s %-8s %-20s %s/%s: %s\n",
			marker, issue.Severity, issue.Kind, issue.Store, issue.Slug, issue.Detail)
	}
	if report.Clean() {
		cmd.Println("no issues found")
		return
	}
	cmd.Printf("%d issues (%d fixable, marked *)\n", len(report.Issues), report.FixableCount())
}
