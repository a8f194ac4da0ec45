package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/bibstat/internal/config"
	"github.com/matsen/bibstat/internal/record"
	"github.com/matsen/bibstat/internal/storage"
	"github.com/xuri/excelize/v2"
)

var wosHeader = []string{
	"UT (Unique WOS ID)", "Article Title", "Year", "Author Keywords",
	"Journal Name", "Country", "Total Citations (All)", "5-Year IF", "DOI",
}

func TestParseRows_WoSExport(t *testing.T) {
	rows := [][]string{
		wosHeader,
		{"WOS:0001", "GLP-1 and obesity", "2019", "GLP-1; Obesity", "Diabetes Care", "USA", "120", "17.2", "10.1/a"},
		{"WOS:0002", "GIP revisited", "2021.0", "", "Diabetologia", "Denmark", "n/a", "", ""},
	}

	recs, errs := ParseRows(rows, config.DefaultColumns())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []record.Record{
		{
			ID: "WOS:0001", DOI: "10.1/a", Title: "GLP-1 and obesity",
			Journal: "Diabetes Care", Country: "USA", Keywords: "GLP-1; Obesity",
			Year: record.Int(2019), Citations: record.Float(120), ImpactFactor: record.Float(17.2),
		},
		{
			ID: "WOS:0002", Title: "GIP revisited", Journal: "Diabetologia", Country: "Denmark",
			Year: record.Int(2021),
		},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRows_Coercion(t *testing.T) {
	rows := [][]string{
		{"Year", "Total Citations (All)", "5-Year IF"},
		{"2019.5", "12", "abc"},
		{"soon", "", "3.1"},
		{"", "NaN", "Inf"},
	}

	recs, errs := ParseRows(rows, config.DefaultColumns())
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2 (fractional and non-numeric years): %v", len(errs), errs)
	}

	if recs[0].Year != nil {
		t.Errorf("fractional year should be missing, got %d", *recs[0].Year)
	}
	if recs[0].Citations == nil || *recs[0].Citations != 12 {
		t.Errorf("Citations = %v, want 12", recs[0].Citations)
	}
	if recs[0].ImpactFactor != nil {
		t.Error("non-numeric impact factor should be missing")
	}
	if recs[1].Year != nil || recs[1].Citations != nil {
		t.Error("non-numeric year and empty citations should be missing")
	}
	if recs[2].Citations != nil || recs[2].ImpactFactor != nil {
		t.Error("NaN and Inf should be treated as missing")
	}
}

func TestParseRows_ContentIDs(t *testing.T) {
	rows := [][]string{
		{"Year", "Author Keywords"},
		{"2020", "a; b"},
		{"", ""},
		{"2021", "c"},
		{"2020", "a;  B"},
	}

	recs, _ := ParseRows(rows, config.DefaultColumns())
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3 (blank row skipped)", len(recs))
	}
	for _, rec := range recs {
		if !strings.HasPrefix(rec.ID, "auto:") {
			t.Errorf("ID = %q, want auto: prefix", rec.ID)
		}
	}
	if recs[0].ID == recs[1].ID {
		t.Errorf("different rows share ID %q", recs[0].ID)
	}
	// Same content up to case and spacing: second occurrence is suffixed.
	if recs[2].ID != recs[0].ID+"-2" {
		t.Errorf("duplicate row ID = %q, want %q", recs[2].ID, recs[0].ID+"-2")
	}

	// Reordering rows must not change IDs.
	reordered, _ := ParseRows([][]string{rows[0], rows[3], rows[1]}, config.DefaultColumns())
	if reordered[0].ID != recs[1].ID || reordered[1].ID != recs[0].ID {
		t.Errorf("IDs changed with row order: %q, %q", reordered[0].ID, reordered[1].ID)
	}
}

func TestContentID(t *testing.T) {
	base := record.Record{Title: "GLP-1 and Obesity", Year: record.Int(2019), Journal: "Lancet"}

	refreshed := base
	refreshed.Title = "  glp-1 AND obesity "
	refreshed.Citations = record.Float(99)
	if ContentID(base) != ContentID(refreshed) {
		t.Error("ContentID should ignore case, spacing and citation counts")
	}

	other := base
	other.Year = record.Int(2020)
	if ContentID(base) == ContentID(other) {
		t.Error("ContentID should differ when the year differs")
	}

	withDOI := base
	withDOI.DOI = " 10.1000/ABC "
	if got := ContentID(withDOI); got != "doi:10.1000/abc" {
		t.Errorf("ContentID with DOI = %q, want doi:10.1000/abc", got)
	}
}

func TestParseRows_MergeAcrossExports(t *testing.T) {
	header := []string{"Article Title", "Year", "Journal Name"}
	first, _ := ParseRows([][]string{
		header,
		{"Paper A1", "2019", "Lancet"},
		{"Paper A2", "2020", "Cell"},
	}, config.DefaultColumns())
	second, _ := ParseRows([][]string{
		header,
		{"Paper B1", "2021", "Nature"},
	}, config.DefaultColumns())

	merged, result := storage.MergeRecords(first, second)

	if diff := cmp.Diff(storage.MergeResult{New: 1}, result); diff != "" {
		t.Errorf("MergeResult mismatch (-want +got):\n%s", diff)
	}
	var titles []string
	for _, rec := range merged {
		titles = append(titles, rec.Title)
	}
	if diff := cmp.Diff([]string{"Paper A1", "Paper A2", "Paper B1"}, titles); diff != "" {
		t.Errorf("merged titles mismatch (-want +got):\n%s", diff)
	}

	// Re-importing the first export sorted differently changes nothing.
	resorted, _ := ParseRows([][]string{
		header,
		{"Paper A2", "2020", "Cell"},
		{"Paper A1", "2019", "Lancet"},
	}, config.DefaultColumns())
	_, result = storage.MergeRecords(merged, resorted)
	if diff := cmp.Diff(storage.MergeResult{Unchanged: 2}, result); diff != "" {
		t.Errorf("re-import MergeResult mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRows_HeaderMatching(t *testing.T) {
	rows := [][]string{
		{"\ufeffyear ", " AUTHOR KEYWORDS", "Year"},
		{"2018", "Incretin", "1999"},
	}

	recs, errs := ParseRows(rows, config.DefaultColumns())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if recs[0].YearValue() != 2018 {
		t.Errorf("Year = %d, want 2018 (first matching column wins)", recs[0].YearValue())
	}
	if recs[0].Keywords != "Incretin" {
		t.Errorf("Keywords = %q, want Incretin", recs[0].Keywords)
	}
}

func TestParseRows_ShortRows(t *testing.T) {
	rows := [][]string{
		wosHeader,
		{"WOS:9", "Truncated", "2022"},
	}

	recs, _ := ParseRows(rows, config.DefaultColumns())
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Keywords != "" || recs[0].Citations != nil {
		t.Error("missing trailing cells should be empty")
	}
}

func TestParseRows_Errors(t *testing.T) {
	if _, errs := ParseRows(nil, config.DefaultColumns()); len(errs) == 0 {
		t.Error("expected error for empty input")
	}

	_, errs := ParseRows([][]string{{"Title"}, {"x"}}, config.DefaultColumns())
	if len(errs) != 1 || !errors.Is(errs[0], ErrNoYearColumn) {
		t.Errorf("expected ErrNoYearColumn, got %v", errs)
	}
}

func TestParseRows_CustomColumns(t *testing.T) {
	cols := config.DefaultColumns()
	cols.Year = "PY"
	cols.Keywords = "DE"

	rows := [][]string{
		{"PY", "DE"},
		{"2017", "DPP-4; GLP-1"},
	}
	recs, errs := ParseRows(rows, cols)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if recs[0].YearValue() != 2017 || recs[0].Keywords != "DPP-4; GLP-1" {
		t.Errorf("unexpected record %+v", recs[0])
	}
}

func TestParseDelimited(t *testing.T) {
	csvInput := "Year,Author Keywords,Journal Name\n" +
		"2020,\"GLP-1; Obesity\",Lancet\n" +
		"2021,,\"Cell \"\"Metabolism\"\"\"\n"

	recs, errs := ParseDelimited(strings.NewReader(csvInput), ',', config.DefaultColumns())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Keywords != "GLP-1; Obesity" {
		t.Errorf("Keywords = %q", recs[0].Keywords)
	}
	if recs[1].Journal != `Cell "Metabolism"` {
		t.Errorf("Journal = %q", recs[1].Journal)
	}

	tsvInput := "PY\tDE\tSO\n2016\tincretin; gip\tDiabetes\n"
	cols := config.DefaultColumns()
	cols.Year, cols.Keywords, cols.Journal = "PY", "DE", "SO"
	recs, errs = ParseDelimited(strings.NewReader(tsvInput), '\t', cols)
	if len(errs) != 0 || len(recs) != 1 {
		t.Fatalf("TSV parse: %d records, errors %v", len(recs), errs)
	}
	if recs[0].Journal != "Diabetes" || recs[0].YearValue() != 2016 {
		t.Errorf("unexpected TSV record %+v", recs[0])
	}
}

func writeTestWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet() error = %v", err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "wos.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	return path
}

func TestParseXLSX(t *testing.T) {
	path := writeTestWorkbook(t, "Sheet1", [][]string{
		wosHeader,
		{"WOS:1", "A", "2020", "GLP-1; Obesity", "Lancet", "UK", "10", "5.5", ""},
		{"WOS:2", "B", "2026", "GIP", "Lancet", "UK", "1", "5.5", ""},
	})

	recs, errs := ParseXLSX(path, "", config.DefaultColumns())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[1].YearValue() != 2026 || recs[0].Keywords != "GLP-1; Obesity" {
		t.Errorf("unexpected records %+v", recs)
	}
	if recs[0].ImpactFactor == nil || *recs[0].ImpactFactor != 5.5 {
		t.Errorf("ImpactFactor = %v, want 5.5", recs[0].ImpactFactor)
	}
}

func TestParseXLSX_NamedSheet(t *testing.T) {
	path := writeTestWorkbook(t, "savedrecs", [][]string{
		{"Year", "Author Keywords"},
		{"2015", "incretin"},
	})

	recs, errs := ParseXLSX(path, "savedrecs", config.DefaultColumns())
	if len(errs) != 0 || len(recs) != 1 {
		t.Fatalf("got %d records, errors %v", len(recs), errs)
	}

	if _, errs := ParseXLSX(path, "missing", config.DefaultColumns()); len(errs) == 0 {
		t.Error("expected error for a missing sheet")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "savedrecs.txt")
	if err := os.WriteFile(path, []byte("Year\tAuthor Keywords\n2019\ta; b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	format, err := DetectFormat(path)
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	recs, errs := ParseFile(path, format, "", config.DefaultColumns())
	if len(errs) != 0 || len(recs) != 1 {
		t.Fatalf("got %d records, errors %v", len(recs), errs)
	}

	if _, errs := ParseFile(path, "json", "", config.DefaultColumns()); len(errs) == 0 {
		t.Error("expected error for unknown format")
	}
	if _, errs := ParseFile(filepath.Join(dir, "nope.csv"), FormatCSV, "", config.DefaultColumns()); len(errs) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"Wos Dataset.xlsx", FormatXLSX, false},
		{"export.CSV", FormatCSV, false},
		{"savedrecs.txt", FormatTSV, false},
		{"data.tsv", FormatTSV, false},
		{"refs.json", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
