package export

import (
	"fmt"

	"github.com/matsen/bibstat/internal/analysis"
	"github.com/matsen/bibstat/internal/cooccur"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the summary workbook, in order.
const (
	SheetTrend        = "Trend"
	SheetJournals     = "Journals"
	SheetKeywords     = "Top Keywords"
	SheetTimeline     = "Keyword Timeline"
	SheetSummary      = "Keyword Summary"
	SheetCitations    = "Citations"
	SheetCountries    = "Countries"
	SheetStream       = "Stream"
	SheetNetworkNodes = "Network Nodes"
	SheetNetworkEdges = "Network Edges"
)

// Summary holds every analysis table written to the workbook.
type Summary struct {
	Trend     []analysis.YearCount
	Journals  []analysis.JournalStat
	Keywords  []analysis.KeywordCount
	Timeline  analysis.KeywordYearMatrix
	Summaries []analysis.KeywordSummary
	Citations []analysis.YearCitations
	Countries []analysis.CountryStat
	Stream    analysis.StreamTable
	Network   *cooccur.Graph
}

// WriteWorkbook writes s to an XLSX file at path, one sheet per table.
// Empty tables still get a sheet with their header row.
func WriteWorkbook(path string, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTrend); err != nil {
		return fmt.Errorf("renaming first sheet: %w", err)
	}
	w, err := newSheetWriter(f)
	if err != nil {
		return err
	}

	rows := [][]interface{}{}
	for _, yc := range s.Trend {
		rows = append(rows, []interface{}{yc.Year, yc.Count})
	}
	w.table(SheetTrend, []string{"Year", "Publications"}, rows)

	rows = rows[:0]
	for _, js := range s.Journals {
		rows = append(rows, []interface{}{js.Journal, js.Publications, js.AvgCitations, js.AvgImpactFactor})
	}
	w.table(SheetJournals, []string{"Journal", "Publications", "Avg Citations", "Avg 5-Year IF"}, rows)

	rows = rows[:0]
	for _, kc := range s.Keywords {
		rows = append(rows, []interface{}{kc.Keyword, kc.Count})
	}
	w.table(SheetKeywords, []string{"Keyword", "Occurrences"}, rows)

	header := []string{"Keyword"}
	for _, y := range s.Timeline.Years {
		header = append(header, fmt.Sprint(y))
	}
	rows = rows[:0]
	for i, kw := range s.Timeline.Keywords {
		row := []interface{}{kw}
		for _, c := range s.Timeline.Counts[i] {
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	w.table(SheetTimeline, header, rows)

	rows = rows[:0]
	for _, ks := range s.Summaries {
		rows = append(rows, []interface{}{ks.Keyword, ks.FirstYear, ks.AvgCitations, ks.Frequency})
	}
	w.table(SheetSummary, []string{"Keyword", "First Year", "Avg Citations", "Frequency"}, rows)

	rows = rows[:0]
	for _, yc := range s.Citations {
		b := yc.Box
		rows = append(rows, []interface{}{yc.Year, b.N, b.Min, b.Q1, b.Median, b.Q3, b.Max, b.Mean})
	}
	w.table(SheetCitations, []string{"Year", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"}, rows)

	rows = rows[:0]
	for _, cs := range s.Countries {
		rows = append(rows, []interface{}{cs.Country, cs.Publications, cs.AvgCitations, cs.AvgYear, cs.Velocity})
	}
	w.table(SheetCountries, []string{"Country", "Publications", "Avg Citations", "Avg Year", "Velocity"}, rows)

	header = append([]string{"Year"}, s.Stream.Keywords...)
	rows = rows[:0]
	for i, y := range s.Stream.Years {
		row := []interface{}{y}
		for _, c := range s.Stream.Counts[i] {
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	w.table(SheetStream, header, rows)

	var nodeRows, edgeRows [][]interface{}
	if s.Network != nil {
		for _, d := range s.Network.Degrees() {
			nodeRows = append(nodeRows, []interface{}{d.Keyword, d.Degree, d.WeightedDegree})
		}
		for _, e := range s.Network.Edges() {
			edgeRows = append(edgeRows, []interface{}{e.Source, e.Target, e.Weight})
		}
	}
	w.table(SheetNetworkNodes, []string{"Keyword", "Degree", "Weighted Degree"}, nodeRows)
	w.table(SheetNetworkEdges, []string{"Source", "Target", "Weight"}, edgeRows)

	if w.err != nil {
		return w.err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// sheetWriter writes tables into a workbook, keeping the first error.
type sheetWriter struct {
	f      *excelize.File
	header int // bold style ID
	err    error
}

func newSheetWriter(f *excelize.File) (*sheetWriter, error) {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	return &sheetWriter{f: f, header: style}, nil
}

// table writes a header row and data rows to sheet, creating it if needed.
func (w *sheetWriter) table(sheet string, header []string, rows [][]interface{}) {
	if w.err != nil {
		return
	}
	if idx, _ := w.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			w.err = fmt.Errorf("creating sheet %s: %w", sheet, err)
			return
		}
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := w.f.SetSheetRow(sheet, "A1", &cells); err != nil {
		w.err = fmt.Errorf("writing %s header: %w", sheet, err)
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := w.f.SetCellStyle(sheet, "A1", last, w.header); err != nil {
		w.err = fmt.Errorf("styling %s header: %w", sheet, err)
		return
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := w.f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		w.err = fmt.Errorf("sizing %s columns: %w", sheet, err)
		return
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := row
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			w.err = fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
			return
		}
	}
}
