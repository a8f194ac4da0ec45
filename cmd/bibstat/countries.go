package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/chart"
	"github.com/spf13/cobra"
)

var (
	countriesChart      string
	countriesByVelocity bool
)

func init() {
	countriesCmd.Flags().StringVar(&countriesChart, "chart", "", "Write a bubble chart to this PNG path")
	countriesCmd.Flags().BoolVar(&countriesByVelocity, "by-velocity", false, "Order by citation velocity instead of publication count")
	rootCmd.AddCommand(countriesCmd)
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "Compare countries by output, impact and citation velocity",
	Long: `Compare countries by publication count, mean citations and mean publication
year. Citation velocity is mean citations divided by the years elapsed between
the mean publication year and current_year (at least one year).

Override the reference year with BIBSTAT_CURRENT_YEAR.`,
	Args: cobra.NoArgs,
	RunE: runCountries,
}

func runCountries(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	stats, err := db.CountryStats(analysisFilter(cfg))
	if err != nil {
		exitWithError(ExitError, "querying countries: %v", err)
	}
	analysis.ApplyVelocity(stats, cfg.CurrentYear)
	if countriesByVelocity {
		stats = analysis.RankByVelocity(stats)
	}

	req := chartRequest(cfg, "Country Impact Landscape", "Publications", "Average Citations")
	path := writeChart(countriesChart, req, func(r chart.Request) error { return chart.CountryImpact(r, stats) })

	emitAnalysis(path, stats, func() {
		fmt.Printf("%-24s %6s %10s %8s %9s\n", "Country", "Pubs", "Citations", "Year", "Velocity")
		for _, s := range stats {
			fmt.Printf("%-24s %6d %10.1f %8.1f %9.2f\n",
				truncateString(s.Country, 24), s.Publications, s.AvgCitations, s.AvgYear, s.Velocity)
		}
	})
	return nil
}
