package main

import (
	"fmt"
	"path/filepath"

	"github.com/matsen/bibstat/internal/report"
	"github.com/spf13/cobra"
)

var reportOut string

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output directory (default: charts.dir from config)")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every analysis and write all charts and tables",
	Long: `Run every analysis and write the results into one directory:

  annual_trend.png           journal_impact.png       journal_gravity.png
  keyword_timeline.png       keyword_impact.png       citation_distribution.png
  country_impact.png         keyword_stream.png       keyword_network.png
  keyword_network.html       summary.xlsx             records.bib
  manifest.json

Charts without data are skipped and listed in the manifest.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	mustHaveRecords(db)

	outDir := reportOut
	if outDir == "" {
		outDir = cfg.ChartsPath(repoRoot)
	}

	m, err := report.NewRunner(db, report.OptionsFromConfig(*cfg, outDir), logger).Run()
	if err != nil {
		exitWithError(ExitError, "generating report: %v", err)
	}

	if !humanOutput {
		outputJSON(m)
		return nil
	}
	fmt.Printf("Report for %d records written to %s\n", m.Records, m.OutDir)
	for _, a := range m.Artifacts {
		fmt.Printf("  %-6s %s\n", a.Kind, filepath.Base(a.Path))
	}
	for _, s := range m.Skipped {
		fmt.Printf("  skipped %s (no data)\n", s)
	}
	return nil
}
