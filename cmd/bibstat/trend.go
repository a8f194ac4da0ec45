package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/chart"
	"github.com/spf13/cobra"
)

var trendChart string

func init() {
	trendCmd.Flags().StringVar(&trendChart, "chart", "", "Write a line chart to this PNG path")
	rootCmd.AddCommand(trendCmd)
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Count publications per year",
	Long: `Count publications per year, ascending by year.

Records without a year are not counted. Years listed in exclude_years are
dropped.`,
	Args: cobra.NoArgs,
	RunE: runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	counts, err := db.PublicationsByYear(analysisFilter(cfg))
	if err != nil {
		exitWithError(ExitError, "counting publications: %v", err)
	}

	req := chartRequest(cfg, "Annual Publication Trend", "Year", "Number of Publications")
	path := writeChart(trendChart, req, func(r chart.Request) error { return chart.AnnualTrend(r, counts) })

	emitAnalysis(path, counts, func() {
		fmt.Printf("%-6s %s\n", "Year", "Publications")
		for _, c := range counts {
			fmt.Printf("%-6d %d\n", c.Year, c.Count)
		}
	})
	return nil
}
