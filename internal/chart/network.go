package chart

import (
	"math"

	"github.com/matsen/bibstat/internal/cooccur"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// CircleLayout places n nodes evenly on the unit circle, starting at the top
// and proceeding clockwise.
func CircleLayout(n int) plotter.XYs {
	pos := make(plotter.XYs, n)
	for i := range pos {
		theta := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
		pos[i].X = math.Cos(theta)
		pos[i].Y = math.Sin(theta)
	}
	return pos
}

// Network draws a keyword co-occurrence graph on a circle layout. Node size
// follows degree and edge width follows weight.
func Network(req Request, g *cooccur.Graph) error {
	if g == nil || g.IsEmpty() {
		return ErrNoData
	}

	p := req.newPlot()
	p.HideAxes()

	nodes := g.Nodes()
	pos := CircleLayout(len(nodes))
	index := make(map[string]int, len(nodes))
	for i, kw := range nodes {
		index[kw] = i
	}

	edges := g.Edges()
	weights := make([]float64, len(edges))
	for i, e := range edges {
		weights[i] = float64(e.Weight)
	}
	wLo, wHi := extent(weights)
	for i, e := range edges {
		seg, err := plotter.NewLine(plotter.XYs{pos[index[e.Source]], pos[index[e.Target]]})
		if err != nil {
			return err
		}
		seg.Color = gray
		seg.Width = bubbleRadius(weights[i], wLo, wHi, vg.Points(0.5), vg.Points(4))
		p.Add(seg)
	}

	degrees := g.Degrees()
	sizes := make([]float64, len(degrees))
	for i, d := range degrees {
		sizes[i] = float64(d.Degree)
	}
	dLo, dHi := extent(sizes)

	dots, err := plotter.NewScatter(pos)
	if err != nil {
		return err
	}
	dots.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  skyBlue,
			Radius: bubbleRadius(sizes[i], dLo, dHi, vg.Points(6), vg.Points(16)),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(dots)

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: pos, Labels: nodes})
	if err != nil {
		return err
	}
	for i := range names.TextStyle {
		names.TextStyle[i].Font.Size = vg.Points(9)
		names.TextStyle[i].XAlign = draw.XCenter
		names.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(names)

	// Room for labels outside the circle.
	p.X.Min, p.X.Max = -1.3, 1.3
	p.Y.Min, p.Y.Max = -1.3, 1.3

	return req.save(p)
}
