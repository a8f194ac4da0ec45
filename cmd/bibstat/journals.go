package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/chart"
	"github.com/spf13/cobra"
)

var (
	journalsTop   int
	journalsChart string
)

func init() {
	journalsCmd.Flags().IntVar(&journalsTop, "top", 0, "Number of journals (default: journals.top_n from config)")
	journalsCmd.Flags().StringVar(&journalsChart, "chart", "", "Write a bubble chart to this PNG path")
	rootCmd.AddCommand(journalsCmd)
}

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Rank journals by publication count",
	Long: `Rank journals by publication count with mean citations and mean five-year
impact factor.

Journals whose mean citations or mean impact factor is undefined are dropped.
Ties are broken by journal name.`,
	Args: cobra.NoArgs,
	RunE: runJournals,
}

func runJournals(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	top := cfg.Journals.TopN
	if cmd.Flags().Changed("top") {
		top = journalsTop
	}

	stats, err := db.JournalStats(analysisFilter(cfg), top)
	if err != nil {
		exitWithError(ExitError, "querying journals: %v", err)
	}

	req := chartRequest(cfg, "Impact Landscape of Top Journals", "Average 5-Year Impact Factor", "Average Citations")
	path := writeChart(journalsChart, req, func(r chart.Request) error { return chart.JournalImpact(r, stats) })

	emitAnalysis(path, stats, func() {
		fmt.Printf("%-50s %6s %10s %8s\n", "Journal", "Pubs", "Citations", "5Y IF")
		for _, s := range stats {
			fmt.Printf("%-50s %6d %10.1f %8.2f\n",
				truncateString(s.Journal, JournalMaxLen), s.Publications, s.AvgCitations, s.AvgImpactFactor)
		}
	})
	return nil
}
