package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/metafunctor/mf/cmd/mf/cmd"
)

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mf",
		Short:   "Static site database manager",
		Version: a.version,
		Long: `mf manages the JSON databases behind a static site (packages,
papers, projects, series) and keeps them in sync with external
registries and the generated content tree.

The databases are truth; generated pages are derived from them.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().String("site-root", "", "site root (overrides resolution)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (warnings only)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: auto, console, json")

	rootCmd.SetVersionTemplate("mf {{.Version}}\n")

	cmd.Register(rootCmd, a)
	return rootCmd
}

// setupCommand applies parsed global flags before any command runs.
func (a *App) setupCommand(c *cobra.Command, _ []string) error {
	siteRoot, _ := c.Flags().GetString("site-root")
	verbose, _ := c.Flags().GetBool("verbose")
	quiet, _ := c.Flags().GetBool("quiet")
	logFormat, _ := c.Flags().GetString("log-format")

	a.config.UpdateFromFlags(siteRoot, verbose, quiet, logFormat)

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}
