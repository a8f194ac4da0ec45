package export

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/cooccur"
	"github.com/xuri/excelize/v2"
)

type kwField string

func (f kwField) KeywordField() any { return string(f) }

func readSheet(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s) error = %v", sheet, err)
	}
	return rows
}

func TestWriteWorkbook(t *testing.T) {
	s := Summary{
		Trend:    []analysis.YearCount{{Year: 2019, Count: 2}, {Year: 2020, Count: 5}},
		Journals: []analysis.JournalStat{{Journal: "Lancet", Publications: 2, AvgCitations: 15, AvgImpactFactor: 6.5}},
		Keywords: []analysis.KeywordCount{{Keyword: "obesity", Count: 3}},
		Timeline: analysis.NewKeywordYearMatrix([]analysis.KeywordYearCount{
			{Keyword: "obesity", Year: 2019, Count: 1},
			{Keyword: "obesity", Year: 2020, Count: 2},
		}),
		Summaries: []analysis.KeywordSummary{{Keyword: "obesity", FirstYear: 2019, AvgCitations: 20, Frequency: 3}},
		Citations: analysis.GroupByYear([]analysis.YearValue{{Year: 2019, Value: 12}}),
		Countries: []analysis.CountryStat{{Country: "USA", Publications: 2, AvgCitations: 20, AvgYear: 2020, Velocity: 3.5}},
		Stream: analysis.NewStreamTable([]analysis.StreamCell{
			{Year: 2019, Keyword: "obesity", Count: 1},
			{Year: 2020, Keyword: "gip", Count: 1},
		}),
		Network: cooccur.Build([]kwField{"glp-1; obesity", "glp-1; obesity; gip"}, cooccur.Options{}),
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := WriteWorkbook(path, s); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	wantSheets := []string{
		SheetTrend, SheetJournals, SheetKeywords, SheetTimeline, SheetSummary,
		SheetCitations, SheetCountries, SheetStream, SheetNetworkNodes, SheetNetworkEdges,
	}
	if diff := cmp.Diff(wantSheets, f.GetSheetList()); diff != "" {
		t.Errorf("sheet list mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		sheet string
		want  [][]string
	}{
		{SheetTrend, [][]string{{"Year", "Publications"}, {"2019", "2"}, {"2020", "5"}}},
		{SheetJournals, [][]string{
			{"Journal", "Publications", "Avg Citations", "Avg 5-Year IF"},
			{"Lancet", "2", "15", "6.5"},
		}},
		{SheetTimeline, [][]string{{"Keyword", "2019", "2020"}, {"obesity", "1", "2"}}},
		{SheetCitations, [][]string{
			{"Year", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"},
			{"2019", "1", "12", "12", "12", "12", "12", "12"},
		}},
		{SheetStream, [][]string{{"Year", "gip", "obesity"}, {"2019", "0", "1"}, {"2020", "1", "0"}}},
		{SheetNetworkNodes, [][]string{
			{"Keyword", "Degree", "Weighted Degree"},
			{"glp-1", "2", "3"},
			{"obesity", "2", "3"},
			{"gip", "2", "2"},
		}},
		{SheetNetworkEdges, [][]string{
			{"Source", "Target", "Weight"},
			{"glp-1", "obesity", "2"},
			{"glp-1", "gip", "1"},
			{"obesity", "gip", "1"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, readSheet(t, f, tt.sheet)); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", tt.sheet, diff)
			}
		})
	}
}

func TestWriteWorkbook_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := WriteWorkbook(path, Summary{}); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	if len(f.GetSheetList()) != 10 {
		t.Errorf("got %d sheets, want 10", len(f.GetSheetList()))
	}
	rows := readSheet(t, f, SheetNetworkEdges)
	if diff := cmp.Diff([][]string{{"Source", "Target", "Weight"}}, rows); diff != "" {
		t.Errorf("empty edges sheet mismatch (-want +got):\n%s", diff)
	}
}
