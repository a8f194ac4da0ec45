// Package chart renders analysis tables as PNG (or SVG/PDF, by extension)
// images with gonum/plot.
//
// Every renderer takes an explicit Request describing the figure and writes
// exactly one file. There is no shared figure state between calls.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Default figure size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to render")

// Request describes one figure to render.
type Request struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length // DefaultWidth when zero
	Height vg.Length // DefaultHeight when zero
	Path   string    // output file; the extension selects the image format
}

// Inches converts a size in inches to a vg.Length.
func Inches(in float64) vg.Length {
	return vg.Length(in) * vg.Inch
}

func (r Request) size() (vg.Length, vg.Length) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// newPlot creates a plot with the request's title and axis labels.
func (r Request) newPlot() *plot.Plot {
	p := plot.New()
	p.Title.Text = r.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = r.XLabel
	p.Y.Label.Text = r.YLabel
	return p
}

// save writes p to the request path, creating the parent directory.
func (r Request) save(p *plot.Plot) error {
	if r.Path == "" {
		return fmt.Errorf("chart %q: output path is empty", r.Title)
	}
	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
	}
	w, h := r.size()
	if err := p.Save(w, h, r.Path); err != nil {
		return fmt.Errorf("saving chart %s: %w", r.Path, err)
	}
	return nil
}

// bubbleRadius maps v in [lo, hi] linearly onto [minR, maxR].
func bubbleRadius(v, lo, hi float64, minR, maxR vg.Length) vg.Length {
	if hi <= lo || math.IsNaN(v) {
		return (minR + maxR) / 2
	}
	frac := (v - lo) / (hi - lo)
	return minR + vg.Length(frac)*(maxR-minR)
}

func extent(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// seriesColor returns the i-th color of the default plotutil palette with the given alpha.
func seriesColor(i int, alpha uint8) color.Color {
	r, g, b, _ := plotutil.Color(i).RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

var (
	skyBlue  = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	gray     = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	navyLine = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

func addGrid(p *plot.Plot) {
	g := plotter.NewGrid()
	g.Vertical.Color = color.Gray{Y: 220}
	g.Horizontal.Color = color.Gray{Y: 220}
	p.Add(g)
}

// yearTicks labels whole years, thinning labels so that at most a dozen appear.
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	first, last := int(math.Ceil(lo)), int(math.Floor(hi))
	if last < first {
		return nil
	}
	step := 1
	for (last-first)/step > 12 {
		step++
	}
	var ticks []plot.Tick
	for y := first; y <= last; y++ {
		t := plot.Tick{Value: float64(y)}
		if (y-first)%step == 0 {
			t.Label = strconv.Itoa(y)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
