package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibstat/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new bibstat repository",
	Long: `Initialize a new bibstat repository in the current directory.

Creates:
  .bibstat/
  ├── records.jsonl   # Empty file
  ├── config.yml      # Default config
  └── cache/          # Empty directory (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a bibstat repository")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating %s directory: %v", config.BibstatDir, err)
	}

	recordsFile, err := os.Create(config.RecordsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating %s: %v", config.RecordsFile, err)
	}
	recordsFile.Close()

	if err := os.WriteFile(filepath.Join(config.BibstatPath(root), ".gitignore"), []byte(config.CacheDir+"/\n"), 0644); err != nil {
		exitWithError(ExitError, "creating .gitignore: %v", err)
	}

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.ConfigFile, err)
	}

	if humanOutput {
		fmt.Printf("Initialized bibstat repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}
	return nil
}
