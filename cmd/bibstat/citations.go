package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/chart"
	"github.com/spf13/cobra"
)

var citationsChart string

func init() {
	citationsCmd.Flags().StringVar(&citationsChart, "chart", "", "Write box plots to this PNG path")
	rootCmd.AddCommand(citationsCmd)
}

var citationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Summarize the citation distribution per publication year",
	Long: `Summarize the citation distribution of each publication year as box plot
statistics (min, quartiles, max, mean).

Records missing a year or a citation count are ignored.`,
	Args: cobra.NoArgs,
	RunE: runCitations,
}

func runCitations(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	values, err := db.CitationsByYear(analysisFilter(cfg))
	if err != nil {
		exitWithError(ExitError, "querying citations: %v", err)
	}
	groups := analysis.GroupByYear(values)

	req := chartRequest(cfg, "Distribution of Citations by Publication Year", "Year", "Total Citations")
	path := writeChart(citationsChart, req, func(r chart.Request) error { return chart.CitationBoxes(r, groups) })

	emitAnalysis(path, groups, func() {
		fmt.Printf("%-6s %5s %8s %8s %8s %8s %8s %8s\n", "Year", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean")
		for _, g := range groups {
			b := g.Box
			fmt.Printf("%-6d %5d %8.1f %8.1f %8.1f %8.1f %8.1f %8.1f\n",
				g.Year, b.N, b.Min, b.Q1, b.Median, b.Q3, b.Max, b.Mean)
		}
	})
	return nil
}
