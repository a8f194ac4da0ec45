package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/matsen/bibstat/internal/chart"
	"github.com/matsen/bibstat/internal/config"
	"go.uber.org/zap"
)

// Constants for output formatting.
const (
	ImportTitleMaxLen = 60 // Used in import dry-run details
	KeywordMaxLen     = 40 // Used in keyword tables
	JournalMaxLen     = 50 // Used in journal tables
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	if logger != nil {
		_ = logger.Sync()
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalysisResponse wraps an analysis table with the chart written for it, if any.
type AnalysisResponse struct {
	Chart string      `json:"chart,omitempty"`
	Rows  interface{} `json:"rows"`
}

// writeChart renders a chart when path is set. Empty data is reported as a
// warning rather than a failure; the empty path means no chart was requested.
func writeChart(path string, req chart.Request, render func(chart.Request) error) string {
	if path == "" {
		return ""
	}
	req.Path = path
	err := render(req)
	if errors.Is(err, chart.ErrNoData) {
		logger.Warn("chart skipped, no data", zap.String("path", path))
		return ""
	}
	if err != nil {
		exitWithError(ExitError, "rendering chart: %v", err)
	}
	logger.Debug("chart written", zap.String("path", path))
	return path
}

// emitAnalysis prints rows as JSON, or calls human for text output.
func emitAnalysis(chartPath string, rows interface{}, human func()) {
	if humanOutput {
		human()
		if chartPath != "" {
			fmt.Printf("\nChart written to %s\n", chartPath)
		}
		return
	}
	outputJSON(AnalysisResponse{Chart: chartPath, Rows: rows})
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// chartRequest builds a chart request sized from configuration.
func chartRequest(cfg *config.Config, title, xLabel, yLabel string) chart.Request {
	return chart.Request{
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Width:  chart.Inches(cfg.Charts.WidthIn),
		Height: chart.Inches(cfg.Charts.HeightIn),
	}
}
