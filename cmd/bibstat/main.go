// Package main provides the bibstat CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matsen/bibstat/internal/config"
	"github.com/matsen/bibstat/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	logger      *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibstat",
	Short: "Bibliometric analysis of publication exports",
	Long: `bibstat analyses Web of Science style publication exports.

Core features:
  - Import xlsx, csv and tab-delimited exports into a versionable JSONL store
  - Publication trends, journal, country and citation statistics
  - Keyword frequency, timeline and impact analyses
  - Keyword co-occurrence networks (PNG and interactive HTML)
  - One-shot reports with every chart and a summary workbook

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for AI agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine
		_ = godotenv.Load()

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a repository.
// BIBSTAT_ROOT takes precedence over the working directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv(config.RootEnv); root != "" {
		return config.ExpandPath(root), 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// When the starting directory is not inside a repository, the default_root
// from the global config is tried. Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err == nil {
		return repoRoot
	}
	if root := config.GetDefaultRoot(); root != "" && os.Getenv(config.RootEnv) == "" {
		if repoRoot, err := config.FindRepository(root); err == nil {
			return repoRoot
		}
	}
	if humanOutput {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	exitWithError(ExitConfigError, "%v", err)
	return ""
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration and environment overrides, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		exitWithError(ExitConfigError, "applying environment: %v", err)
	}
	return cfg
}

// mustHaveRecords exits with ExitEmptyDataset when the query layer is empty.
func mustHaveRecords(db *storage.DB) {
	n, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "counting records: %v", err)
	}
	if n == 0 {
		exitWithError(ExitEmptyDataset, "no records in database\n\nRun 'bibstat import <file>' or 'bibstat rebuild' first.")
	}
}

// openAnalysis is the common preamble of analysis commands.
// The caller is responsible for calling Close() on the returned DB.
func openAnalysis() (*config.Config, *storage.DB) {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	mustHaveRecords(db)
	return cfg, db
}

// analysisFilter returns the record filter every analysis applies.
func analysisFilter(cfg *config.Config) storage.Filter {
	return storage.Filter{ExcludeYears: cfg.ExcludeYears}
}
