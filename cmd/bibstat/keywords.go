package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/chart"
	"github.com/spf13/cobra"
)

var (
	keywordsTop   int
	keywordsChart string
)

func init() {
	for _, c := range []*cobra.Command{keywordsTopCmd, keywordsTimelineCmd, keywordsSummaryCmd} {
		c.Flags().IntVar(&keywordsTop, "top", 0, "Number of keywords (default: from config)")
		keywordsCmd.AddCommand(c)
	}
	keywordsTimelineCmd.Flags().StringVar(&keywordsChart, "chart", "", "Write a heatmap to this PNG path")
	keywordsSummaryCmd.Flags().StringVar(&keywordsChart, "chart", "", "Write a bubble chart to this PNG path")
	rootCmd.AddCommand(keywordsCmd)
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Keyword frequency analyses",
	Long: `Keyword frequency analyses over normalized author keywords.

Keywords are split on ';', trimmed and lower-cased. Every occurrence counts,
so a record listing a keyword twice contributes two occurrences.`,
}

var keywordsTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most frequent keywords",
	Args:  cobra.NoArgs,
	RunE:  runKeywordsTop,
}

var keywordsTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Count the top keywords per publication year",
	Long: `Count the occurrences of the most frequent keywords per publication year.

The result is a keyword by year matrix with missing combinations filled
with zero. Occurrences without a year are not counted.`,
	Args: cobra.NoArgs,
	RunE: runKeywordsTimeline,
}

var keywordsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize first appearance and impact of the top keywords",
	Long: `Report, for the most frequent keywords, the first year each appears, the
mean citations of the records using it and its frequency.`,
	Args: cobra.NoArgs,
	RunE: runKeywordsSummary,
}

// topOrDefault returns the --top flag value when set, otherwise def.
func topOrDefault(cmd *cobra.Command, def int) int {
	if cmd.Flags().Changed("top") {
		return keywordsTop
	}
	return def
}

func runKeywordsTop(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	counts, err := db.TopKeywords(analysisFilter(cfg), topOrDefault(cmd, cfg.Keywords.TopN))
	if err != nil {
		exitWithError(ExitError, "querying keywords: %v", err)
	}

	emitAnalysis("", counts, func() {
		for i, c := range counts {
			fmt.Printf("%3d. %-40s %d\n", i+1, truncateString(c.Keyword, KeywordMaxLen), c.Count)
		}
	})
	return nil
}

func runKeywordsTimeline(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	cells, err := db.KeywordYearCounts(analysisFilter(cfg), topOrDefault(cmd, cfg.Keywords.TopN))
	if err != nil {
		exitWithError(ExitError, "querying keyword timeline: %v", err)
	}
	m := analysis.NewKeywordYearMatrix(cells)

	req := chartRequest(cfg, "Temporal Evolution of Top Keywords", "Year", "Keyword")
	path := writeChart(keywordsChart, req, func(r chart.Request) error { return chart.KeywordHeatmap(r, m) })

	emitAnalysis(path, m, func() { printMatrix(m) })
	return nil
}

func runKeywordsSummary(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	summaries, err := db.KeywordSummaries(analysisFilter(cfg), topOrDefault(cmd, cfg.Keywords.SummaryTopN))
	if err != nil {
		exitWithError(ExitError, "querying keyword summaries: %v", err)
	}

	req := chartRequest(cfg, "Keyword Impact Space", "First Appearance Year", "Average Citations")
	path := writeChart(keywordsChart, req, func(r chart.Request) error { return chart.KeywordImpact(r, summaries) })

	emitAnalysis(path, summaries, func() {
		fmt.Printf("%-40s %6s %10s %6s\n", "Keyword", "First", "Citations", "Freq")
		for _, s := range summaries {
			fmt.Printf("%-40s %6d %10.1f %6d\n",
				truncateString(s.Keyword, KeywordMaxLen), s.FirstYear, s.AvgCitations, s.Frequency)
		}
	})
	return nil
}

func printMatrix(m analysis.KeywordYearMatrix) {
	fmt.Printf("%-30s", "Keyword")
	for _, y := range m.Years {
		fmt.Printf(" %5d", y)
	}
	fmt.Println()
	for i, kw := range m.Keywords {
		fmt.Printf("%-30s", truncateString(kw, 30))
		for _, c := range m.Counts[i] {
			fmt.Printf(" %5d", c)
		}
		fmt.Println()
	}
}
