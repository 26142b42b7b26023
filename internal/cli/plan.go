package cli

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/stagekit/stagekit/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the table swap plan without executing it",
	Long: `Plan computes the ordered statement list that would promote the
staging tables into production names and prints it.

With --diff, a unified diff of the table set before and after the swap is
printed instead.`,
	RunE: runPlan,
}

var (
	planDiff    bool
	planExclude []string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().BoolVar(&planDiff, "diff", false, "Show a unified diff of the table set instead of statements")
	planCmd.Flags().StringSliceVar(&planExclude, "exclude", nil, "Production tables to leave untouched (default: users, usermeta)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	p := pipeline.New(pipeline.Config{
		DB:         database,
		StagingTag: cfg.StagingPrefix,
	})

	var exclude []string
	if cmd.Flags().Changed("exclude") {
		exclude = planExclude
	}

	if planDiff {
		before, after, err := p.SwapPreview(exclude)
		if err != nil {
			return err
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(joinLines(before)),
			B:        difflib.SplitLines(joinLines(after)),
			FromFile: "tables/current",
			ToFile:   "tables/promoted",
			Context:  3,
		})
		if err != nil {
			return fmt.Errorf("failed to render diff: %w", err)
		}
		fmt.Print(diff)
		return nil
	}

	plan, err := p.PlanSwap(exclude)
	if err != nil {
		return err
	}
	for _, stmt := range plan {
		fmt.Println(stmt)
	}
	return nil
}

func joinLines(names []string) string {
	out := ""
	for _, name := range names {
		out += name + "\n"
	}
	return out
}
