package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagekit/stagekit/internal/cache"
	"github.com/stagekit/stagekit/internal/connection"
	"github.com/stagekit/stagekit/internal/events"
	"github.com/stagekit/stagekit/internal/options"
	"github.com/stagekit/stagekit/internal/pipeline"
	"github.com/stagekit/stagekit/internal/replace"
)

var postprocessCmd = &cobra.Command{
	Use:   "postprocess",
	Short: "Run the full postprocess pipeline and swap staging into production",
	Long: `Postprocess runs the five pipeline stages in order:

  1. rewrite the staging dataset's site/home URLs
  2. preserve the connection options from production
  3. merge the active-plugin lists
  4. remap content ownership to the connection owner
  5. plan and execute the table swap

The first failing stage aborts the run and its failure code is printed.
With --dry-run the swap plan is computed and printed but never executed.`,
	RunE: runPostprocess,
}

var (
	postprocessHomeURL string
	postprocessSiteURL string
	postprocessDryRun  bool
	postprocessExclude []string
)

func init() {
	rootCmd.AddCommand(postprocessCmd)

	postprocessCmd.Flags().StringVar(&postprocessHomeURL, "home-url", "", "Target home URL (required)")
	postprocessCmd.Flags().StringVar(&postprocessSiteURL, "site-url", "", "Target site URL (required)")
	postprocessCmd.Flags().BoolVar(&postprocessDryRun, "dry-run", false, "Compute the swap plan without executing it")
	postprocessCmd.Flags().StringSliceVar(&postprocessExclude, "exclude", nil, "Production tables to leave untouched (default: users, usermeta)")
	postprocessCmd.MarkFlagRequired("home-url")
	postprocessCmd.MarkFlagRequired("site-url")
}

func runPostprocess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	readCache := cache.New()
	prodOptions := options.New(database, cfg.Prefix, readCache)

	var replacer replace.Replacer
	if cfg.SearchReplaceBin != "" {
		replacer = replace.NewExecReplacer(cfg.SearchReplaceBin, logger)
	} else {
		replacer = replace.NewSQLReplacer(database, logger)
	}

	var recorder *events.Recorder
	if cfg.EventsLog != "" {
		recorder, err = events.NewRecorder(cfg.EventsLog, logger)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	p := pipeline.New(pipeline.Config{
		DB:         database,
		StagingTag: cfg.StagingPrefix,
		Prod:       prodOptions,
		Replacer:   replacer,
		Connection: connection.NewOptionsManager(prodOptions),
		Cache:      readCache,
		Events:     recorder,
		Logger:     logger,
	})

	var exclude []string
	if cmd.Flags().Changed("exclude") {
		exclude = postprocessExclude
	}

	result, err := p.Postprocess(pipeline.Options{
		HomeURL: postprocessHomeURL,
		SiteURL: postprocessSiteURL,
		DryRun:  postprocessDryRun,
		Exclude: exclude,
	})
	if err != nil {
		return err
	}

	if result.DryRun {
		fmt.Println("Dry run: swap plan computed but not executed.")
		for _, stmt := range result.Plan {
			fmt.Printf("  %s\n", stmt)
		}
	} else {
		fmt.Printf("Promoted staging tables (%d statements, run %s).\n", len(result.Plan), result.RunID)
	}

	return nil
}
