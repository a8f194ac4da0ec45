package main

import (
	"fmt"
	"os"

	"github.com/matsen/bibstat/internal/chart"
	"github.com/matsen/bibstat/internal/cooccur"
	"github.com/matsen/bibstat/internal/keyword"
	"github.com/matsen/bibstat/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	networkTop       int
	networkDedupe    bool
	networkHTML      string
	networkPNG       string
	networkLayout    string
	networkOffline   bool
	networkLibrary   string
	networkFullGraph bool
)

func init() {
	networkCmd.Flags().IntVar(&networkTop, "top", 0, "Keep the N highest-degree keywords (default: network.top_n from config)")
	networkCmd.Flags().BoolVar(&networkDedupe, "dedupe", false, "Count each keyword pair at most once per record")
	networkCmd.Flags().StringVar(&networkHTML, "html", "", "Write an interactive HTML page to this path")
	networkCmd.Flags().StringVar(&networkPNG, "png", "", "Write a static network chart to this PNG path")
	networkCmd.Flags().StringVar(&networkLayout, "layout", "force", "HTML layout algorithm: force, circle, or grid")
	networkCmd.Flags().BoolVar(&networkOffline, "offline", false, "Bundle Cytoscape.js inline for offline use (requires --cytoscape-js)")
	networkCmd.Flags().StringVar(&networkLibrary, "cytoscape-js", "", "Path to a local cytoscape.min.js for --offline")
	networkCmd.Flags().BoolVar(&networkFullGraph, "all", false, "Skip top-N selection and keep the full graph")
	rootCmd.AddCommand(networkCmd)
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build the keyword co-occurrence network",
	Long: `Build the keyword co-occurrence network and keep its highest-degree keywords.

Two keywords are linked when they appear in the same record; the edge weight
counts how many times that happened. Degree is the number of distinct
neighbors. The kept subgraph contains the top N keywords by degree (ties
broken by first appearance) and every edge between them.

Examples:
  bibstat network --human
  bibstat network --top 40 --html network.html
  bibstat network --png network.png --dedupe
  bibstat network --html network.html --offline --cytoscape-js ./cytoscape.min.js`,
	Args: cobra.NoArgs,
	RunE: runNetwork,
}

// NetworkResult is the response for the network command.
type NetworkResult struct {
	FullNodes int            `json:"full_nodes"`
	FullEdges int            `json:"full_edges"`
	HTML      string         `json:"html,omitempty"`
	Chart     string         `json:"chart,omitempty"`
	Graph     *viz.GraphData `json:"graph"`
}

func runNetwork(cmd *cobra.Command, args []string) error {
	cfg, db := openAnalysis()
	defer db.Close()

	opts := cooccur.Options{
		Normalizer:  keyword.Normalizer{NFKC: cfg.Network.UnicodeNFKC},
		DedupePairs: cfg.Network.DedupePairs || networkDedupe,
	}
	top := cfg.Network.TopN
	if cmd.Flags().Changed("top") {
		top = networkTop
	}

	htmlOpts := viz.DefaultOptions()
	htmlOpts.Layout = networkLayout
	htmlOpts.Offline = networkOffline
	if networkOffline && networkLibrary != "" {
		lib, err := os.ReadFile(networkLibrary)
		if err != nil {
			exitWithError(ExitError, "reading Cytoscape.js: %v", err)
		}
		htmlOpts.Library = string(lib)
	}

	recs, err := db.AllRecords(analysisFilter(cfg))
	if err != nil {
		exitWithError(ExitError, "loading records: %v", err)
	}

	full := cooccur.Build(recs, opts)
	g := full
	if !networkFullGraph {
		g = cooccur.TopDegree(full, top)
	}
	logger.Debug("network built",
		zap.Int("records", len(recs)),
		zap.Int("nodes", full.NodeCount()),
		zap.Int("edges", full.EdgeCount()),
		zap.Int("kept", g.NodeCount()))

	result := NetworkResult{
		FullNodes: full.NodeCount(),
		FullEdges: full.EdgeCount(),
		Graph:     viz.FromGraph(g),
	}

	if networkHTML != "" {
		html, err := viz.GenerateHTML(result.Graph, htmlOpts)
		if err != nil {
			exitWithError(ExitError, "generating HTML: %v", err)
		}
		if err := os.WriteFile(networkHTML, []byte(html), 0644); err != nil {
			exitWithError(ExitError, "writing output file: %v", err)
		}
		result.HTML = networkHTML
	}

	req := chartRequest(cfg, "Keyword Co-occurrence Network", "", "")
	result.Chart = writeChart(networkPNG, req, func(r chart.Request) error { return chart.Network(r, g) })

	if !humanOutput {
		outputJSON(result)
		return nil
	}

	fmt.Printf("Full network: %d keywords, %d links\n", result.FullNodes, result.FullEdges)
	fmt.Printf("Kept: %d keywords, %d links\n\n", g.NodeCount(), g.EdgeCount())
	for i, d := range selectedDegrees(full, g) {
		fmt.Printf("%3d. %-40s degree %3d  weighted %4d\n",
			i+1, truncateString(d.Keyword, KeywordMaxLen), d.Degree, d.WeightedDegree)
	}
	if result.HTML != "" {
		fmt.Printf("\nVisualization written to %s\n", result.HTML)
	}
	if result.Chart != "" {
		fmt.Printf("Chart written to %s\n", result.Chart)
	}
	return nil
}

// selectedDegrees lists the kept nodes with their degrees in the full graph,
// in the order they were selected.
func selectedDegrees(full, kept *cooccur.Graph) []cooccur.NodeDegree {
	var out []cooccur.NodeDegree
	for _, d := range full.RankedDegrees() {
		if kept.HasNode(d.Keyword) {
			out = append(out, d)
		}
	}
	return out
}
