package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibstat/internal/config"
	"github.com/matsen/bibstat/internal/importer"
	"github.com/matsen/bibstat/internal/record"
	"github.com/matsen/bibstat/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importFormat string
	importSheet  string
	importDryRun bool
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: xlsx, csv or tsv (default: from file extension)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Worksheet to read from an xlsx file (default: first sheet)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import publication records from a spreadsheet export",
	Long: `Import publication records from a Web of Science style export.

Records are merged into records.jsonl by ID: new records are appended and
existing records are replaced when their fields changed. The query database
is rebuilt afterwards.

Usage:
  bibstat import savedrecs.xlsx
  bibstat import --format tsv savedrecs.txt
  bibstat import export.xlsx --sheet "Sheet 2" --dry-run

Column names are configured under 'columns' in .bibstat/config.yml.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	Parsed  int            `json:"parsed"`
	New     int            `json:"new"`
	Updated int            `json:"updated"`
	Skipped int            `json:"unchanged"`
	Total   int            `json:"total"`
	Errors  []string       `json:"errors"`
	DryRun  bool           `json:"dry_run,omitempty"`
	Details []ImportDetail `json:"details,omitempty"`
}

// ImportDetail describes a single import action.
type ImportDetail struct {
	ID     string `json:"id"`
	Action string `json:"action"` // new, update, unchanged
	Title  string `json:"title"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		exitWithError(ExitError, "reading file: %v", err)
	}

	format := importFormat
	if format == "" {
		var err error
		if format, err = importer.DetectFormat(inputPath); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}
	if !validFormat(format) {
		exitWithError(ExitError, "unknown format: %s (use one of %v)", format, importer.ValidFormats)
	}

	recs, parseErrors := importer.ParseFile(inputPath, format, importSheet, cfg.Columns)
	errStrs := make([]string, len(parseErrors))
	for i, e := range parseErrors {
		errStrs[i] = e.Error()
	}
	if len(recs) == 0 {
		if humanOutput {
			fmt.Fprintln(os.Stderr, "error: failed to parse any records")
			for _, e := range errStrs {
				fmt.Fprintf(os.Stderr, "  - %s\n", e)
			}
			os.Exit(ExitDataError)
		}
		exitWithError(ExitDataError, "failed to parse any records: %v", errStrs)
	}
	logger.Debug("parsed input",
		zap.String("path", inputPath),
		zap.String("format", format),
		zap.Int("records", len(recs)),
		zap.Int("errors", len(parseErrors)))

	recordsPath := config.RecordsPath(repoRoot)
	existing, err := storage.ReadAll(recordsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading existing records: %v", err)
	}

	merged, res := storage.MergeRecords(existing, recs)
	result := ImportResult{
		Parsed:  len(recs),
		New:     res.New,
		Updated: res.Updated,
		Skipped: res.Unchanged,
		Total:   len(merged),
		Errors:  errStrs,
		DryRun:  importDryRun,
	}

	if importDryRun {
		result.Details = classifyImports(existing, recs)
		outputImport(result)
		return nil
	}

	if err := storage.WriteAll(recordsPath, merged); err != nil {
		exitWithError(ExitError, "writing records: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	mustRebuild(db, repoRoot, cfg)

	logger.Info("import complete",
		zap.Int("new", res.New),
		zap.Int("updated", res.Updated),
		zap.Int("total", len(merged)))
	outputImport(result)
	return nil
}

func outputImport(r ImportResult) {
	if !humanOutput {
		outputJSON(r)
		return
	}
	verb := "Imported"
	if r.DryRun {
		verb = "Would import"
		fmt.Println("Dry run - no changes written")
	}
	fmt.Printf("  %s: %d new records\n", verb, r.New)
	fmt.Printf("  Updated:   %d existing records\n", r.Updated)
	fmt.Printf("  Unchanged: %d\n", r.Skipped)
	fmt.Printf("  Total:     %d records in repository\n", r.Total)
	if len(r.Errors) > 0 {
		fmt.Printf("\nSkipped %d rows:\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if r.DryRun {
		for _, d := range r.Details {
			fmt.Printf("  [%s] %s  %s\n", d.Action, d.ID, d.Title)
		}
	}
}

// classifyImports reports what merging incoming into existing would do to each
// incoming record. A repeated ID within incoming is classified once, by its
// last occurrence.
func classifyImports(existing, incoming []record.Record) []ImportDetail {
	last := make(map[string]int, len(incoming))
	for i, rec := range incoming {
		last[rec.ID] = i
	}

	var details []ImportDetail
	for i, rec := range incoming {
		if last[rec.ID] != i {
			continue
		}
		action := "new"
		if idx, ok := storage.FindByID(existing, rec.ID); ok {
			action = "update"
			if _, res := storage.MergeRecords(existing[idx:idx+1], incoming[i:i+1]); res.Unchanged == 1 {
				action = "unchanged"
			}
		}
		details = append(details, ImportDetail{
			ID:     rec.ID,
			Action: action,
			Title:  truncateString(rec.Title, ImportTitleMaxLen),
		})
	}
	return details
}

func validFormat(format string) bool {
	for _, f := range importer.ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
