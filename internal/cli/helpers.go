package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stagekit/stagekit/internal/config"
	"github.com/stagekit/stagekit/internal/db"
)

// loadConfig loads configuration and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v := cmd.Flag("db").Value.String(); v != "" {
		cfg.DBPath = v
	}
	if v := cmd.Flag("prefix").Value.String(); v != "" {
		cfg.Prefix = v
	}
	if v := cmd.Flag("staging-prefix").Value.String(); v != "" {
		cfg.StagingPrefix = v
	}

	return cfg, nil
}

// openDB opens the configured database.
func openDB(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DBPath, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// buildLogger builds a zap logger at the configured level, writing to stderr
// so command output stays pipe-friendly.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}
