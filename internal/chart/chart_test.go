package chart

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/cooccur"
	"gonum.org/v1/plot/vg"
)

type kwField string

func (f kwField) KeywordField() any { return string(f) }

func request(t *testing.T, name string) Request {
	t.Helper()
	return Request{
		Title:  name,
		XLabel: "x",
		YLabel: "y",
		Width:  4 * vg.Inch,
		Height: 3 * vg.Inch,
		Path:   filepath.Join(t.TempDir(), "out", name+".png"),
	}
}

func assertImage(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("chart %s is empty", path)
	}
}

func TestRenderers(t *testing.T) {
	graph := cooccur.Build([]kwField{"glp-1; obesity; diabetes", "obesity; gip", "glp-1; obesity"}, cooccur.Options{})

	tests := []struct {
		name   string
		render func(Request) error
	}{
		{"trend", func(r Request) error {
			return AnnualTrend(r, []analysis.YearCount{{Year: 2019, Count: 3}, {Year: 2020, Count: 5}, {Year: 2022, Count: 4}})
		}},
		{"journals", func(r Request) error {
			return JournalImpact(r, []analysis.JournalStat{
				{Journal: "Lancet", Publications: 12, AvgCitations: 40, AvgImpactFactor: 60},
				{Journal: "Diabetes Care", Publications: 5, AvgCitations: 22, AvgImpactFactor: 15},
			})
		}},
		{"countries", func(r Request) error {
			return CountryImpact(r, []analysis.CountryStat{
				{Country: "USA", Publications: 30, AvgCitations: 50, AvgYear: 2015, Velocity: 4.5},
				{Country: "Denmark", Publications: 9, AvgCitations: 70, AvgYear: 2012, Velocity: 5},
			})
		}},
		{"keywords", func(r Request) error {
			return KeywordImpact(r, []analysis.KeywordSummary{
				{Keyword: "glp-1", FirstYear: 2005, AvgCitations: 33, Frequency: 40},
			})
		}},
		{"heatmap", func(r Request) error {
			return KeywordHeatmap(r, analysis.NewKeywordYearMatrix([]analysis.KeywordYearCount{
				{Keyword: "glp-1", Year: 2019, Count: 2},
				{Keyword: "obesity", Year: 2020, Count: 5},
			}))
		}},
		{"heatmap-uniform", func(r Request) error {
			return KeywordHeatmap(r, analysis.NewKeywordYearMatrix([]analysis.KeywordYearCount{
				{Keyword: "glp-1", Year: 2019, Count: 2},
			}))
		}},
		{"citations", func(r Request) error {
			return CitationBoxes(r, analysis.GroupByYear([]analysis.YearValue{
				{Year: 2019, Value: 1}, {Year: 2019, Value: 9}, {Year: 2019, Value: 4}, {Year: 2020, Value: 7},
			}))
		}},
		{"stream", func(r Request) error {
			return Stream(r, analysis.NewStreamTable([]analysis.StreamCell{
				{Year: 2018, Keyword: "obesity", Count: 2},
				{Year: 2019, Keyword: "obesity", Count: 3},
				{Year: 2019, Keyword: "semaglutide", Count: 1},
			}))
		}},
		{"network", func(r Request) error {
			return Network(r, graph)
		}},
		{"network-single", func(r Request) error {
			return Network(r, cooccur.TopDegree(graph, 1))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(t, tt.name)
			if err := tt.render(req); err != nil {
				t.Fatalf("render error = %v", err)
			}
			assertImage(t, req.Path)
		})
	}
}

func TestRenderers_NoData(t *testing.T) {
	tests := []struct {
		name   string
		render func(Request) error
	}{
		{"trend", func(r Request) error { return AnnualTrend(r, nil) }},
		{"journals", func(r Request) error { return JournalImpact(r, nil) }},
		{"countries", func(r Request) error { return CountryImpact(r, nil) }},
		{"keywords", func(r Request) error { return KeywordImpact(r, nil) }},
		{"heatmap", func(r Request) error { return KeywordHeatmap(r, analysis.KeywordYearMatrix{}) }},
		{"citations", func(r Request) error { return CitationBoxes(r, nil) }},
		{"stream", func(r Request) error { return Stream(r, analysis.StreamTable{}) }},
		{"network", func(r Request) error { return Network(r, cooccur.Build([]kwField{"solo"}, cooccur.Options{})) }},
		{"network-nil", func(r Request) error { return Network(r, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(t, tt.name)
			if err := tt.render(req); !errors.Is(err, ErrNoData) {
				t.Errorf("error = %v, want ErrNoData", err)
			}
			if _, err := os.Stat(req.Path); !os.IsNotExist(err) {
				t.Error("no file should be written when there is no data")
			}
		})
	}
}

func TestSave_EmptyPath(t *testing.T) {
	err := AnnualTrend(Request{Title: "t"}, []analysis.YearCount{{Year: 2020, Count: 1}})
	if err == nil {
		t.Error("expected error for empty output path")
	}
}

func TestCircleLayout(t *testing.T) {
	pos := CircleLayout(4)
	want := [][2]float64{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	for i, w := range want {
		if math.Abs(pos[i].X-w[0]) > 1e-9 || math.Abs(pos[i].Y-w[1]) > 1e-9 {
			t.Errorf("pos[%d] = (%v, %v), want %v", i, pos[i].X, pos[i].Y, w)
		}
	}
}

func TestBubbleRadius(t *testing.T) {
	if r := bubbleRadius(5, 0, 10, 2, 4); r != 3 {
		t.Errorf("bubbleRadius midpoint = %v, want 3", r)
	}
	if r := bubbleRadius(7, 7, 7, 2, 4); r != 3 {
		t.Errorf("bubbleRadius degenerate range = %v, want 3", r)
	}
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(1999.5, 2003.2)
	if len(ticks) != 4 {
		t.Fatalf("got %d ticks, want 4 (2000 through 2003)", len(ticks))
	}
	if ticks[0].Label != "2000" || ticks[3].Label != "2003" {
		t.Errorf("labels = %q, %q; want 2000, 2003", ticks[0].Label, ticks[3].Label)
	}

	wide := yearTicks{}.Ticks(1980, 2025)
	labelled := 0
	for _, tk := range wide {
		if tk.Label != "" {
			labelled++
		}
	}
	if labelled > 13 {
		t.Errorf("got %d labelled ticks, want at most 13", labelled)
	}
}
