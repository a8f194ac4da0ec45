// Package importer reads publication records from spreadsheet exports.
package importer

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matsen/bibstat/internal/config"
	"github.com/matsen/bibstat/internal/record"
	"github.com/xuri/excelize/v2"
)

// Supported input formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
)

// ValidFormats lists the supported input formats.
var ValidFormats = []string{FormatXLSX, FormatCSV, FormatTSV}

// ErrNoYearColumn is returned when the header has no year column.
var ErrNoYearColumn = errors.New("year column not found in header")

// DetectFormat infers the input format from a file extension.
// WoS tab-delimited exports are saved as .txt.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".txt", ".tab":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("cannot infer format from %q (use one of %v)", filepath.Base(path), ValidFormats)
	}
}

// ParseFile reads records from path in the given format. sheet selects the
// worksheet of an xlsx file; empty means the first sheet.
func ParseFile(path, format, sheet string, cols config.Columns) ([]record.Record, []error) {
	switch format {
	case FormatXLSX:
		return ParseXLSX(path, sheet, cols)
	case FormatCSV, FormatTSV:
		return parseDelimitedFile(path, format, cols)
	default:
		return nil, []error{fmt.Errorf("unknown format: %s", format)}
	}
}

// ParseXLSX reads records from an Excel workbook.
func ParseXLSX(path, sheet string, cols config.Columns) ([]record.Record, []error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("opening workbook: %w", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, []error{fmt.Errorf("workbook has no sheets")}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, []error{fmt.Errorf("reading sheet %q: %w", sheet, err)}
	}
	return ParseRows(rows, cols)
}

func parseDelimitedFile(path, format string, cols config.Columns) ([]record.Record, []error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, []error{fmt.Errorf("opening input: %w", err)}
	}
	defer f.Close()

	comma := ','
	if format == FormatTSV {
		comma = '\t'
	}
	return ParseDelimited(f, comma, cols)
}

// ParseDelimited reads records from CSV or tab-delimited text.
func ParseDelimited(r io.Reader, comma rune, cols config.Columns) ([]record.Record, []error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, []error{fmt.Errorf("reading delimited input: %w", err)}
	}
	return ParseRows(rows, cols)
}

// ParseRows converts a header row followed by data rows into records.
// Blank rows are skipped; per-row problems are collected and the row is kept
// with the offending value treated as missing.
func ParseRows(rows [][]string, cols config.Columns) ([]record.Record, []error) {
	if len(rows) == 0 {
		return nil, []error{fmt.Errorf("input has no header row")}
	}

	h := newHeader(rows[0], cols)
	if h.year < 0 {
		return nil, []error{fmt.Errorf("%w (expected %q)", ErrNoYearColumn, cols.Year)}
	}

	var records []record.Record
	var errs []error
	seen := make(map[string]int)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowNum := i + 2 // 1-based, after the header

		rec := record.Record{
			ID:       h.text(row, h.id),
			DOI:      h.text(row, h.doi),
			Title:    h.text(row, h.title),
			Journal:  h.text(row, h.journal),
			Country:  h.text(row, h.country),
			Keywords: h.raw(row, h.keywords),
		}
		rec.Year = parseYear(h.text(row, h.year))
		rec.Citations = parseNumber(h.text(row, h.citations))
		rec.ImpactFactor = parseNumber(h.text(row, h.impact))

		if rec.ID == "" {
			id := ContentID(rec)
			seen[id]++
			if n := seen[id]; n > 1 {
				id = fmt.Sprintf("%s-%d", id, n)
			}
			rec.ID = id
		}
		if rec.Year == nil && h.text(row, h.year) != "" {
			errs = append(errs, fmt.Errorf("row %d (%s): non-numeric year %q treated as missing", rowNum, rec.ID, h.text(row, h.year)))
		}

		records = append(records, rec)
	}

	return records, errs
}

// ContentID derives a stable ID for a record whose export has no accession
// number. It hashes the bibliographic fields that do not change between
// exports, so the same paper gets the same ID regardless of row position.
// Citation counts and impact factors are left out because they are refreshed.
func ContentID(rec record.Record) string {
	if doi := strings.ToLower(strings.TrimSpace(rec.DOI)); doi != "" {
		return "doi:" + doi
	}

	year := ""
	if rec.Year != nil {
		year = strconv.Itoa(*rec.Year)
	}
	h := sha256.New()
	for _, field := range []string{rec.Title, year, rec.Journal, rec.Country, rec.Keywords} {
		h.Write([]byte(foldSpace(field)))
		h.Write([]byte{0x1f})
	}
	return "auto:" + hex.EncodeToString(h.Sum(nil))[:16]
}

// foldSpace lowercases s and collapses runs of whitespace.
func foldSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// header maps field names to column positions; -1 means absent.
type header struct {
	id, doi, title, year, keywords, journal, country, citations, impact int
}

func newHeader(names []string, cols config.Columns) header {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		key := normalizeHeader(n)
		if _, ok := pos[key]; !ok {
			pos[key] = i
		}
	}
	find := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := pos[normalizeHeader(name)]; ok {
			return i
		}
		return -1
	}
	return header{
		id:        find(cols.ID),
		doi:       find(cols.DOI),
		title:     find(cols.Title),
		year:      find(cols.Year),
		keywords:  find(cols.Keywords),
		journal:   find(cols.Journal),
		country:   find(cols.Country),
		citations: find(cols.Citations),
		impact:    find(cols.ImpactFactor),
	}
}

// normalizeHeader makes header matching case-insensitive and tolerant of a
// UTF-8 byte order mark on the first column.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

// text returns the trimmed cell value, or "" when the column is absent or short.
func (h header) text(row []string, col int) string {
	return strings.TrimSpace(h.raw(row, col))
}

// raw returns the untrimmed cell value.
func (h header) raw(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber coerces a cell to a float. Empty or non-numeric cells are missing.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseYear coerces a cell to an integral year. "2019" and "2019.0" are accepted.
func parseYear(s string) *int {
	v := parseNumber(s)
	if v == nil || *v != math.Trunc(*v) {
		return nil
	}
	y := int(*v)
	return &y
}
