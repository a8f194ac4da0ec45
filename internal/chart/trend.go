package chart

import (
	"github.com/matsen/bibstat/internal/analysis"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// AnnualTrend draws publication counts per year as a line with point markers.
func AnnualTrend(req Request, counts []analysis.YearCount) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	p := req.newPlot()

	points := make(plotter.XYs, len(counts))
	for i, c := range counts {
		points[i].X = float64(c.Year)
		points[i].Y = float64(c.Count)
	}

	line, scatter, err := plotter.NewLinePoints(points)
	if err != nil {
		return err
	}
	line.Color = navyLine
	line.Width = vg.Points(2)
	scatter.GlyphStyle.Color = navyLine
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	addGrid(p)
	p.Add(line, scatter)
	p.Y.Min = 0
	p.X.Tick.Marker = yearTicks{}

	return req.save(p)
}
