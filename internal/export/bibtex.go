// Package export writes imported records and analysis results to files
// other tools can read: BibTeX for reference managers and an XLSX summary
// workbook for spreadsheets.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/bibstat/internal/keyword"
	"github.com/matsen/bibstat/internal/record"
)

// ToBibTeX converts a record to a BibTeX entry.
func ToBibTeX(rec record.Record) string {
	entryType := determineEntryType(rec)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, citationKey(rec.ID)))

	// Title
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(rec.Title)))

	// Venue
	if rec.Journal != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(rec.Journal)))
	}

	if rec.Year != nil {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", *rec.Year))
	}

	if rec.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", rec.DOI))
	}

	if kws := keyword.Normalize(rec.Keywords); len(kws) > 0 {
		b.WriteString(fmt.Sprintf("  keywords = {%s},\n", escapeLatex(strings.Join(keyword.Dedupe(kws), ", "))))
	}

	if rec.Country != "" {
		b.WriteString(fmt.Sprintf("  address = {%s},\n", escapeLatex(rec.Country)))
	}

	if rec.Citations != nil {
		b.WriteString(fmt.Sprintf("  note = {Times cited: %g},\n", *rec.Citations))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX format.
func ToBibTeXList(recs []record.Record) string {
	var entries []string
	for _, rec := range recs {
		entries = append(entries, ToBibTeX(rec))
	}
	return strings.Join(entries, "\n")
}

// determineEntryType returns the BibTeX entry type for a record.
func determineEntryType(rec record.Record) string {
	venue := strings.ToLower(rec.Journal)

	// Conference proceedings
	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Default to article
	return "article"
}

// citationKey makes an ID usable as a BibTeX key. Commas, braces and
// whitespace end a key in most parsers.
func citationKey(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '{', '}', ' ', '\t', '\n', '"', '#', '%', '\'', '(', ')', '=':
			return '_'
		}
		return r
	}, id)
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
