package main

import (
	"fmt"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/chart"
	"github.com/matsen/bibstat/internal/keyword"
	"github.com/spf13/cobra"
)

var (
	streamKeywords []string
	streamChart    string
)

func init() {
	streamCmd.Flags().StringArrayVar(&streamKeywords, "keyword", nil, "Topic keyword to track (repeatable; default: stream.keywords from config)")
	streamCmd.Flags().StringVar(&streamChart, "chart", "", "Write a stacked area chart to this PNG path")
	rootCmd.AddCommand(streamCmd)
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Track topic keywords over time",
	Long: `Count, for each year, the publications mentioning each topic keyword.

A publication counts once per keyword per year however many times it lists
the keyword. Keywords are matched after normalization, so "GLP-1" and
" glp-1" are the same topic.

Examples:
  bibstat stream
  bibstat stream --keyword obesity --keyword semaglutide --chart stream.png`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	topics := cfg.Stream.Keywords
	if len(streamKeywords) > 0 {
		topics = streamKeywords
	}
	norm := keyword.Normalizer{NFKC: cfg.Network.UnicodeNFKC}

	cells, err := db.StreamCounts(analysisFilter(cfg), norm.Tokens(topics))
	if err != nil {
		exitWithError(ExitError, "querying keyword stream: %v", err)
	}
	table := analysis.NewStreamTable(cells)

	req := chartRequest(cfg, "Conceptual Evolution Stream", "Year", "Number of Publications")
	path := writeChart(streamChart, req, func(r chart.Request) error { return chart.Stream(r, table) })

	emitAnalysis(path, table, func() {
		fmt.Printf("%-6s", "Year")
		for _, kw := range table.Keywords {
			fmt.Printf(" %14s", truncateString(kw, 14))
		}
		fmt.Println()
		for i, y := range table.Years {
			fmt.Printf("%-6d", y)
			for _, c := range table.Counts[i] {
				fmt.Printf(" %14d", c)
			}
			fmt.Println()
		}
	})
	return nil
}
