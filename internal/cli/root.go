package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagekit",
	Short: "Postprocess and promote an imported staging database",
	Long: `stagekit postprocesses a freshly imported staging copy of a site
database (tables carrying a staging prefix in front of the production
prefix) and atomically swaps the staging tables into production names.

It rewrites site/home URLs, preserves the connection options, merges
active-plugin lists, remaps content ownership to the connection owner,
and executes the table swap inside one transaction.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to database file (overrides STAGEKIT_DB_PATH)")
	rootCmd.PersistentFlags().String("prefix", "", "Production table prefix (overrides STAGEKIT_PREFIX)")
	rootCmd.PersistentFlags().String("staging-prefix", "", "Staging table prefix tag (overrides STAGEKIT_STAGING_PREFIX)")
}
