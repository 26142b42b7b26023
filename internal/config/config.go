package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DBPath           string `yaml:"db_path"`
	Prefix           string `yaml:"prefix"`
	StagingPrefix    string `yaml:"staging_prefix"`
	SearchReplaceBin string `yaml:"search_replace_bin"`
	EventsLog        string `yaml:"events_log"`
	LogLevel         string `yaml:"log_level"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/stagekit/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		Prefix:        "wp_",
		StagingPrefix: "stg_",
		LogLevel:      "info",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Load ~/.config/stagekit/config.yaml if it exists
	if err := loadYAMLConfig(cfg); err != nil {
		// YAML config is optional, so we don't fail if it doesn't exist
	}

	// Override with environment variables
	if dbPath := getEnvOrFile("STAGEKIT_DB_PATH", "STAGEKIT_DB_PATH_FILE"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if prefix := os.Getenv("STAGEKIT_PREFIX"); prefix != "" {
		cfg.Prefix = prefix
	}
	if staging := os.Getenv("STAGEKIT_STAGING_PREFIX"); staging != "" {
		cfg.StagingPrefix = staging
	}
	if bin := os.Getenv("STAGEKIT_SEARCH_REPLACE_BIN"); bin != "" {
		cfg.SearchReplaceBin = bin
	}
	if eventsLog := os.Getenv("STAGEKIT_EVENTS_LOG"); eventsLog != "" {
		cfg.EventsLog = eventsLog
	}
	if logLevel := os.Getenv("STAGEKIT_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Set defaults if not configured
	if cfg.DBPath == "" {
		// Check for project-local database first
		if _, err := os.Stat(".stagekit/site.db"); err == nil {
			cfg.DBPath = ".stagekit/site.db"
		} else {
			// Fall back to user-global database
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			cfg.DBPath = filepath.Join(homeDir, ".local", "share", "stagekit", "site.db")
		}
	}

	return cfg, nil
}

// loadYAMLConfig loads configuration from ~/.config/stagekit/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "stagekit", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// getEnvOrFile gets an environment variable value, or reads it from a file
// if the _FILE variant is set
func getEnvOrFile(envVar, fileVar string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}

	if filePath := os.Getenv(fileVar); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			return string(data)
		}
	}

	return ""
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, just check cwd
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Clean paths for reliable comparison
	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		// Stop if we've reached home directory
		if dir == homeDir {
			break
		}

		// Get parent directory
		parent := filepath.Dir(dir)

		// Stop if we've reached the filesystem root
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
