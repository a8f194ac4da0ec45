package chart

import (
	"github.com/matsen/bibstat/internal/analysis"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// bubble is one labelled point of a bubble chart.
type bubble struct {
	x, y, size float64
	label      string
}

// JournalImpact draws journals by mean impact factor (x) and mean citations
// (y), bubbles sized by publication count.
func JournalImpact(req Request, stats []analysis.JournalStat) error {
	bubbles := make([]bubble, len(stats))
	for i, s := range stats {
		bubbles[i] = bubble{x: s.AvgImpactFactor, y: s.AvgCitations, size: float64(s.Publications), label: s.Journal}
	}
	return bubbleChart(req, bubbles)
}

// CountryImpact draws countries by publication count (x) and mean citations
// (y), bubbles sized by citation velocity.
func CountryImpact(req Request, stats []analysis.CountryStat) error {
	bubbles := make([]bubble, len(stats))
	for i, s := range stats {
		bubbles[i] = bubble{x: float64(s.Publications), y: s.AvgCitations, size: s.Velocity, label: s.Country}
	}
	return bubbleChart(req, bubbles)
}

// KeywordImpact draws keywords by first appearance year (x) and mean
// citations (y), bubbles sized by frequency.
func KeywordImpact(req Request, summaries []analysis.KeywordSummary) error {
	bubbles := make([]bubble, len(summaries))
	for i, s := range summaries {
		bubbles[i] = bubble{x: float64(s.FirstYear), y: s.AvgCitations, size: float64(s.Frequency), label: s.Keyword}
	}
	return bubbleChart(req, bubbles)
}

func bubbleChart(req Request, bubbles []bubble) error {
	if len(bubbles) == 0 {
		return ErrNoData
	}

	p := req.newPlot()

	points := make(plotter.XYs, len(bubbles))
	sizes := make([]float64, len(bubbles))
	labels := make([]string, len(bubbles))
	for i, b := range bubbles {
		points[i].X = b.x
		points[i].Y = b.y
		sizes[i] = b.size
		labels[i] = b.label
	}
	lo, hi := extent(sizes)

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return err
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  seriesColor(i, 200),
			Radius: bubbleRadius(sizes[i], lo, hi, vg.Points(6), vg.Points(20)),
			Shape:  draw.CircleGlyph{},
		}
	}

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
	if err != nil {
		return err
	}
	for i := range names.TextStyle {
		names.TextStyle[i].Font.Size = vg.Points(8)
	}

	addGrid(p)
	p.Add(scatter, names)

	// Leave room for the largest bubbles at the edges.
	p.X.Padding = vg.Points(24)
	p.Y.Padding = vg.Points(24)

	return req.save(p)
}
