// Package report runs every analysis against the query layer and writes the
// full set of charts, the network page and the summary workbook.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/chart"
	"github.com/matsen/bibstat/internal/config"
	"github.com/matsen/bibstat/internal/cooccur"
	"github.com/matsen/bibstat/internal/export"
	"github.com/matsen/bibstat/internal/keyword"
	"github.com/matsen/bibstat/internal/record"
	"github.com/matsen/bibstat/internal/storage"
	"github.com/matsen/bibstat/internal/viz"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// GravityTopN is the number of journals in the wide journal landscape.
const GravityTopN = 25

// Output file names.
const (
	FileTrend         = "annual_trend.png"
	FileJournals      = "journal_impact.png"
	FileGravity       = "journal_gravity.png"
	FileHeatmap       = "keyword_timeline.png"
	FileKeywordImpact = "keyword_impact.png"
	FileCitations     = "citation_distribution.png"
	FileCountries     = "country_impact.png"
	FileStream        = "keyword_stream.png"
	FileNetworkPNG    = "keyword_network.png"
	FileNetworkHTML   = "keyword_network.html"
	FileWorkbook      = "summary.xlsx"
	FileBibTeX        = "records.bib"
	FileManifest      = "manifest.json"
)

// Source is the query layer the report reads from. *storage.DB implements it.
type Source interface {
	AllRecords(f storage.Filter) ([]record.Record, error)
	PublicationsByYear(f storage.Filter) ([]analysis.YearCount, error)
	JournalStats(f storage.Filter, limit int) ([]analysis.JournalStat, error)
	CountryStats(f storage.Filter) ([]analysis.CountryStat, error)
	TopKeywords(f storage.Filter, n int) ([]analysis.KeywordCount, error)
	KeywordYearCounts(f storage.Filter, n int) ([]analysis.KeywordYearCount, error)
	KeywordSummaries(f storage.Filter, n int) ([]analysis.KeywordSummary, error)
	StreamCounts(f storage.Filter, keywords []string) ([]analysis.StreamCell, error)
	CitationsByYear(f storage.Filter) ([]analysis.YearValue, error)
}

// Options configures a report run.
type Options struct {
	OutDir         string
	Filter         storage.Filter
	CurrentYear    int
	JournalsTopN   int
	KeywordsTopN   int
	SummaryTopN    int
	StreamKeywords []string
	NetworkTopN    int
	Network        cooccur.Options
	Width, Height  vg.Length
	HTML           viz.HTMLOptions
}

// OptionsFromConfig derives report options from repository configuration.
func OptionsFromConfig(cfg config.Config, outDir string) Options {
	norm := keyword.Normalizer{NFKC: cfg.Network.UnicodeNFKC}
	return Options{
		OutDir:         outDir,
		Filter:         storage.Filter{ExcludeYears: cfg.ExcludeYears},
		CurrentYear:    cfg.CurrentYear,
		JournalsTopN:   cfg.Journals.TopN,
		KeywordsTopN:   cfg.Keywords.TopN,
		SummaryTopN:    cfg.Keywords.SummaryTopN,
		StreamKeywords: norm.Tokens(cfg.Stream.Keywords),
		NetworkTopN:    cfg.Network.TopN,
		Network: cooccur.Options{
			Normalizer:  norm,
			DedupePairs: cfg.Network.DedupePairs,
		},
		Width:  chart.Inches(cfg.Charts.WidthIn),
		Height: chart.Inches(cfg.Charts.HeightIn),
		HTML:   viz.DefaultOptions(),
	}
}

// Artifact is one written file.
type Artifact struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Manifest lists what a report run produced.
type Manifest struct {
	OutDir    string     `json:"out_dir"`
	Records   int        `json:"records"`
	Artifacts []Artifact `json:"artifacts"`
	Skipped   []string   `json:"skipped,omitempty"` // charts with no data
}

// Runner produces reports.
type Runner struct {
	src    Source
	opts   Options
	logger *zap.Logger
}

// NewRunner creates a Runner. A nil logger discards log output.
func NewRunner(src Source, opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{src: src, opts: opts, logger: logger}
}

// Compute runs every analysis and returns the tables without rendering them.
func (r *Runner) Compute() (export.Summary, []record.Record, error) {
	var s export.Summary
	var err error
	f := r.opts.Filter

	if s.Trend, err = r.src.PublicationsByYear(f); err != nil {
		return s, nil, err
	}
	if s.Journals, err = r.src.JournalStats(f, r.opts.JournalsTopN); err != nil {
		return s, nil, err
	}
	if s.Keywords, err = r.src.TopKeywords(f, r.opts.KeywordsTopN); err != nil {
		return s, nil, err
	}
	cells, err := r.src.KeywordYearCounts(f, r.opts.KeywordsTopN)
	if err != nil {
		return s, nil, err
	}
	s.Timeline = analysis.NewKeywordYearMatrix(cells)
	if s.Summaries, err = r.src.KeywordSummaries(f, r.opts.SummaryTopN); err != nil {
		return s, nil, err
	}
	values, err := r.src.CitationsByYear(f)
	if err != nil {
		return s, nil, err
	}
	s.Citations = analysis.GroupByYear(values)
	if s.Countries, err = r.src.CountryStats(f); err != nil {
		return s, nil, err
	}
	analysis.ApplyVelocity(s.Countries, r.opts.CurrentYear)
	stream, err := r.src.StreamCounts(f, r.opts.StreamKeywords)
	if err != nil {
		return s, nil, err
	}
	s.Stream = analysis.NewStreamTable(stream)

	recs, err := r.src.AllRecords(f)
	if err != nil {
		return s, nil, err
	}
	full := cooccur.Build(recs, r.opts.Network)
	s.Network = cooccur.TopDegree(full, r.opts.NetworkTopN)

	r.logger.Debug("analyses computed",
		zap.Int("records", len(recs)),
		zap.Int("years", len(s.Trend)),
		zap.Int("network_nodes", full.NodeCount()),
		zap.Int("network_edges", full.EdgeCount()))

	return s, recs, nil
}

// Run computes every analysis and writes all outputs to the output directory.
func (r *Runner) Run() (*Manifest, error) {
	if err := os.MkdirAll(r.opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	s, recs, err := r.Compute()
	if err != nil {
		return nil, err
	}

	m := &Manifest{OutDir: r.opts.OutDir, Records: len(recs)}

	charts := []struct {
		file   string
		req    chart.Request
		render func(chart.Request) error
	}{
		{FileTrend, r.request("Annual Publication Trend", "Year", "Number of Publications"),
			func(q chart.Request) error { return chart.AnnualTrend(q, s.Trend) }},
		{FileJournals, r.request("Impact Landscape of Top Journals", "Average 5-Year Impact Factor", "Average Citations"),
			func(q chart.Request) error { return chart.JournalImpact(q, s.Journals) }},
		{FileGravity, r.request("Research Gravity Map: Journals", "Impact Factor", "Average Citations"),
			func(q chart.Request) error {
				gravity, err := r.src.JournalStats(r.opts.Filter, GravityTopN)
				if err != nil {
					return err
				}
				return chart.JournalImpact(q, gravity)
			}},
		{FileHeatmap, r.request("Temporal Evolution of Top Keywords", "Year", "Keyword"),
			func(q chart.Request) error { return chart.KeywordHeatmap(q, s.Timeline) }},
		{FileKeywordImpact, r.request("Keyword Impact Space", "First Appearance Year", "Average Citations"),
			func(q chart.Request) error { return chart.KeywordImpact(q, s.Summaries) }},
		{FileCitations, r.request("Distribution of Citations by Publication Year", "Year", "Total Citations"),
			func(q chart.Request) error { return chart.CitationBoxes(q, s.Citations) }},
		{FileCountries, r.request("Country Impact Landscape", "Publications", "Average Citations"),
			func(q chart.Request) error { return chart.CountryImpact(q, s.Countries) }},
		{FileStream, r.request("Conceptual Evolution Stream", "Year", "Number of Publications"),
			func(q chart.Request) error { return chart.Stream(q, s.Stream) }},
		{FileNetworkPNG, r.request("Keyword Co-occurrence Network", "", ""),
			func(q chart.Request) error { return chart.Network(q, s.Network) }},
	}

	for _, c := range charts {
		c.req.Path = filepath.Join(r.opts.OutDir, c.file)
		err := c.render(c.req)
		if errors.Is(err, chart.ErrNoData) {
			r.logger.Warn("chart skipped, no data", zap.String("chart", c.file))
			m.Skipped = append(m.Skipped, c.file)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", c.file, err)
		}
		r.logger.Info("chart written", zap.String("path", c.req.Path))
		m.Artifacts = append(m.Artifacts, Artifact{Kind: "chart", Path: c.req.Path})
	}

	htmlPath := filepath.Join(r.opts.OutDir, FileNetworkHTML)
	html, err := viz.GenerateHTML(viz.FromGraph(s.Network), r.opts.HTML)
	if err != nil {
		return nil, fmt.Errorf("generating network page: %w", err)
	}
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return nil, fmt.Errorf("writing network page: %w", err)
	}
	r.logger.Info("network page written", zap.String("path", htmlPath), zap.Int("nodes", s.Network.NodeCount()))
	m.Artifacts = append(m.Artifacts, Artifact{Kind: "html", Path: htmlPath})

	bookPath := filepath.Join(r.opts.OutDir, FileWorkbook)
	if err := export.WriteWorkbook(bookPath, s); err != nil {
		return nil, err
	}
	r.logger.Info("workbook written", zap.String("path", bookPath))
	m.Artifacts = append(m.Artifacts, Artifact{Kind: "xlsx", Path: bookPath})

	bibPath := filepath.Join(r.opts.OutDir, FileBibTeX)
	if err := os.WriteFile(bibPath, []byte(export.ToBibTeXList(recs)), 0644); err != nil {
		return nil, fmt.Errorf("writing BibTeX: %w", err)
	}
	r.logger.Info("bibtex written", zap.String("path", bibPath), zap.Int("entries", len(recs)))
	m.Artifacts = append(m.Artifacts, Artifact{Kind: "bibtex", Path: bibPath})

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.opts.OutDir, FileManifest), append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	return m, nil
}

func (r *Runner) request(title, xLabel, yLabel string) chart.Request {
	return chart.Request{
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Width:  r.opts.Width,
		Height: r.opts.Height,
	}
}
