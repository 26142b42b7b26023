package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List production and staging tables",
	RunE:  runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	staging, err := database.Tables(cfg.StagingPrefix)
	if err != nil {
		return err
	}
	stagingSet := make(map[string]bool, len(staging))
	for _, name := range staging {
		stagingSet[name] = true
	}

	production, err := database.Tables(cfg.Prefix)
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n", database.Path())
	fmt.Printf("Production tables (%s*):\n", cfg.Prefix)
	for _, name := range production {
		if !stagingSet[name] {
			fmt.Printf("  %s\n", name)
		}
	}

	fmt.Printf("Staging tables (%s*):\n", cfg.StagingPrefix)
	for _, name := range staging {
		fmt.Printf("  %s\n", name)
	}

	return nil
}
