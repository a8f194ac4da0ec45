package chart

import (
	"image/color"
	"strconv"

	"github.com/matsen/bibstat/internal/analysis"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// matrixGrid adapts a keyword/year matrix to plotter.GridXYZ. Columns are
// years by index, rows are keywords by index.
type matrixGrid struct {
	m analysis.KeywordYearMatrix
}

func (g matrixGrid) Dims() (c, r int)   { return len(g.m.Years), len(g.m.Keywords) }
func (g matrixGrid) Z(c, r int) float64 { return float64(g.m.Counts[r][c]) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// KeywordHeatmap draws keyword occurrence counts per year.
func KeywordHeatmap(req Request, m analysis.KeywordYearMatrix) error {
	if m.IsEmpty() {
		return ErrNoData
	}

	p := req.newPlot()

	pal := heatPalette()
	hm := plotter.NewHeatMap(matrixGrid{m: m}, pal)
	// A uniform matrix would divide by a zero range when picking colors.
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	years := make([]string, len(m.Years))
	for i, y := range m.Years {
		years[i] = strconv.Itoa(y)
	}
	p.NominalX(years...)
	p.NominalY(m.Keywords...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = draw.XRight

	// Legend strip with the count range.
	thumbs := plotter.PaletteThumbnailers(pal)
	for i := len(thumbs) - 1; i >= 0; i-- {
		var label string
		switch i {
		case len(thumbs) - 1:
			label = strconv.Itoa(int(hm.Max))
		case 0:
			label = strconv.Itoa(int(hm.Min))
		}
		p.Legend.Add(label, thumbs[i])
	}
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(40)
	p.Legend.ThumbnailWidth = vg.Points(10)

	return req.save(p)
}

// heatPalette returns a perceptually ordered palette from light to dark.
func heatPalette() palette.Palette {
	cmap := moreland.ExtendedBlackBody()
	cmap.SetMin(0)
	cmap.SetMax(1)
	pal := cmap.Palette(12)
	colors := pal.Colors()
	// Reverse so that zero counts are light.
	rev := make([]color.Color, len(colors))
	for i, c := range colors {
		rev[len(colors)-1-i] = c
	}
	return staticPalette(rev)
}

type staticPalette []color.Color

func (p staticPalette) Colors() []color.Color { return p }
