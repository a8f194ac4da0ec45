package chart

import (
	"strconv"

	"github.com/matsen/bibstat/internal/analysis"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// CitationBoxes draws one box plot of citation counts per publication year.
func CitationBoxes(req Request, groups []analysis.YearCitations) error {
	var years []string
	p := req.newPlot()
	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(14), float64(len(years)), plotter.Values(g.Values))
		if err != nil {
			return err
		}
		box.FillColor = seriesColor(len(years), 160)
		p.Add(box)
		years = append(years, strconv.Itoa(g.Year))
	}
	if len(years) == 0 {
		return ErrNoData
	}

	p.NominalX(years...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = draw.XRight

	return req.save(p)
}
