package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/config"
	"github.com/matsen/bibstat/internal/keyword"
	"github.com/matsen/bibstat/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the JSONL source file.

Use this after pulling changes from git, after changing network.unicode_nfkc,
or if the database becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	count := mustRebuild(db, repoRoot, cfg)

	if humanOutput {
		fmt.Printf("Rebuilt database with %d records\n", count)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Records: count})
	}
	return nil
}

// mustRebuild reloads the query layer from records.jsonl, exits on error.
func mustRebuild(db *storage.DB, repoRoot string, cfg *config.Config) int {
	norm := keyword.Normalizer{NFKC: cfg.Network.UnicodeNFKC}
	count, err := db.RebuildFromJSONL(config.RecordsPath(repoRoot), norm)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}
	logger.Debug("database rebuilt", zap.Int("records", count), zap.Bool("nfkc", norm.NFKC))
	return count
}
