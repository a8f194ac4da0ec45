package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibstat/internal/export"
	"github.com/matsen/bibstat/internal/record"
	"github.com/spf13/cobra"
)

var (
	exportBibTeX bool
	exportOutput string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibTeX, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [id...]",
	Short: "Export records to other formats",
	Long: `Export records to other formats.

Examples:
  bibstat export --bibtex
  bibstat export --bibtex WOS:000123456700001 WOS:000123456700002
  bibstat export --bibtex -o records.bib`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportBibTeX {
		exitWithError(ExitError, "specify an export format (--bibtex)")
	}

	cfg, db := openAnalysis()
	defer db.Close()

	var recs []record.Record
	if len(args) == 0 {
		all, err := db.AllRecords(analysisFilter(cfg))
		if err != nil {
			exitWithError(ExitError, "loading records: %v", err)
		}
		recs = all
	} else {
		for _, id := range args {
			rec, err := db.GetByID(id)
			if err != nil {
				exitWithError(ExitError, "getting record %s: %v", id, err)
			}
			if rec == nil {
				exitWithError(ExitError, "record not found: %s", id)
			}
			recs = append(recs, *rec)
		}
	}

	bib := export.ToBibTeXList(recs)
	if exportOutput == "" {
		fmt.Print(bib)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(bib), 0644); err != nil {
		exitWithError(ExitError, "writing output file: %v", err)
	}
	if humanOutput {
		fmt.Printf("Exported %d records to %s\n", len(recs), exportOutput)
	} else {
		outputJSON(StatusResponse{Status: "exported", Path: exportOutput})
	}
	return nil
}
