package chart

import (
	"github.com/matsen/bibstat/internal/analysis"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Stream draws the year by keyword table as stacked areas, one band per keyword.
func Stream(req Request, t analysis.StreamTable) error {
	if t.IsEmpty() {
		return ErrNoData
	}

	p := req.newPlot()

	base := make([]float64, len(t.Years))
	for k, kw := range t.Keywords {
		top := make([]float64, len(t.Years))
		for y := range t.Years {
			top[y] = base[y] + float64(t.Counts[y][k])
		}

		// Upper edge left to right, then lower edge back.
		ring := make(plotter.XYs, 0, 2*len(t.Years))
		for y, year := range t.Years {
			ring = append(ring, plotter.XY{X: float64(year), Y: top[y]})
		}
		for y := len(t.Years) - 1; y >= 0; y-- {
			ring = append(ring, plotter.XY{X: float64(t.Years[y]), Y: base[y]})
		}

		band, err := plotter.NewPolygon(ring)
		if err != nil {
			return err
		}
		band.Color = seriesColor(k, 215)
		band.LineStyle.Width = vg.Points(0.5)
		band.LineStyle.Color = seriesColor(k, 255)
		p.Add(band)
		p.Legend.Add(kw, band)

		base = top
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.Y.Min = 0
	p.X.Tick.Marker = yearTicks{}

	return req.save(p)
}
