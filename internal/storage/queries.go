package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/bibstat/internal/analysis"
)

// noLimit is SQLite's "all rows" LIMIT value.
const noLimit = -1

func limitArg(n int) int {
	if n <= 0 {
		return noLimit
	}
	return n
}

// PublicationsByYear counts records per year, ascending. Records without a
// year are not counted.
func (d *DB) PublicationsByYear(f Filter) ([]analysis.YearCount, error) {
	where, args := f.clause("year")
	rows, err := d.db.Query(`
		SELECT year, COUNT(*)
		FROM records
		WHERE year IS NOT NULL AND `+where+`
		GROUP BY year
		ORDER BY year
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying publications by year: %w", err)
	}
	defer rows.Close()

	var out []analysis.YearCount
	for rows.Next() {
		var yc analysis.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, err
		}
		out = append(out, yc)
	}
	return out, rows.Err()
}

// JournalStats summarizes journals by publication count. Publications counts
// records with a title; journals lacking either mean are dropped. limit <= 0
// returns every journal.
func (d *DB) JournalStats(f Filter, limit int) ([]analysis.JournalStat, error) {
	where, args := f.clause("year")
	args = append(args, limitArg(limit))
	rows, err := d.db.Query(`
		SELECT journal, COUNT(title), AVG(citations), AVG(impact_factor)
		FROM records
		WHERE journal IS NOT NULL AND `+where+`
		GROUP BY journal
		HAVING AVG(citations) IS NOT NULL AND AVG(impact_factor) IS NOT NULL
		ORDER BY COUNT(title) DESC, journal
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal stats: %w", err)
	}
	defer rows.Close()

	var out []analysis.JournalStat
	for rows.Next() {
		var js analysis.JournalStat
		if err := rows.Scan(&js.Journal, &js.Publications, &js.AvgCitations, &js.AvgImpactFactor); err != nil {
			return nil, err
		}
		out = append(out, js)
	}
	return out, rows.Err()
}

// CountryStats summarizes countries. Countries lacking mean citations or a
// mean year are dropped. Velocity is left for analysis.ApplyVelocity.
func (d *DB) CountryStats(f Filter) ([]analysis.CountryStat, error) {
	where, args := f.clause("year")
	rows, err := d.db.Query(`
		SELECT country, COUNT(title), AVG(citations), AVG(year)
		FROM records
		WHERE country IS NOT NULL AND `+where+`
		GROUP BY country
		HAVING AVG(citations) IS NOT NULL AND AVG(year) IS NOT NULL
		ORDER BY COUNT(title) DESC, country
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying country stats: %w", err)
	}
	defer rows.Close()

	var out []analysis.CountryStat
	for rows.Next() {
		var cs analysis.CountryStat
		if err := rows.Scan(&cs.Country, &cs.Publications, &cs.AvgCitations, &cs.AvgYear); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// TopKeywords returns the n most frequent keywords by occurrence, ties by
// name. n <= 0 returns every keyword.
func (d *DB) TopKeywords(f Filter, n int) ([]analysis.KeywordCount, error) {
	where, args := f.clause("r.year")
	args = append(args, limitArg(n))
	rows, err := d.db.Query(`
		SELECT k.keyword, COUNT(*)
		FROM record_keywords k
		JOIN records r ON r.seq = k.record_seq
		WHERE `+where+`
		GROUP BY k.keyword
		ORDER BY COUNT(*) DESC, k.keyword
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top keywords: %w", err)
	}
	defer rows.Close()

	var out []analysis.KeywordCount
	for rows.Next() {
		var kc analysis.KeywordCount
		if err := rows.Scan(&kc.Keyword, &kc.Count); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}

// KeywordYearCounts counts occurrences per (keyword, year) for the n most
// frequent keywords. Occurrences without a year are not counted.
func (d *DB) KeywordYearCounts(f Filter, n int) ([]analysis.KeywordYearCount, error) {
	top, err := d.TopKeywords(f, n)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, nil
	}
	keywords := make([]string, len(top))
	for i, kc := range top {
		keywords[i] = kc.Keyword
	}

	where, args := f.clause("r.year")
	in, inArgs := inList(keywords)
	args = append(args, inArgs...)
	rows, err := d.db.Query(`
		SELECT k.keyword, r.year, COUNT(*)
		FROM record_keywords k
		JOIN records r ON r.seq = k.record_seq
		WHERE r.year IS NOT NULL AND `+where+` AND k.keyword IN (`+in+`)
		GROUP BY k.keyword, r.year
		ORDER BY k.keyword, r.year
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying keyword timeline: %w", err)
	}
	defer rows.Close()

	var out []analysis.KeywordYearCount
	for rows.Next() {
		var c analysis.KeywordYearCount
		if err := rows.Scan(&c.Keyword, &c.Year, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// KeywordSummaries reports first year, mean citations and frequency per
// keyword, most frequent first. Keywords lacking a first year or mean
// citations are dropped. n <= 0 returns every keyword.
func (d *DB) KeywordSummaries(f Filter, n int) ([]analysis.KeywordSummary, error) {
	where, args := f.clause("r.year")
	args = append(args, limitArg(n))
	rows, err := d.db.Query(`
		SELECT k.keyword, MIN(r.year), AVG(r.citations), COUNT(*)
		FROM record_keywords k
		JOIN records r ON r.seq = k.record_seq
		WHERE `+where+`
		GROUP BY k.keyword
		HAVING MIN(r.year) IS NOT NULL AND AVG(r.citations) IS NOT NULL
		ORDER BY COUNT(*) DESC, k.keyword
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying keyword summaries: %w", err)
	}
	defer rows.Close()

	var out []analysis.KeywordSummary
	for rows.Next() {
		var ks analysis.KeywordSummary
		if err := rows.Scan(&ks.Keyword, &ks.FirstYear, &ks.AvgCitations, &ks.Frequency); err != nil {
			return nil, err
		}
		out = append(out, ks)
	}
	return out, rows.Err()
}

// StreamCounts counts, per year, the records carrying each of keywords.
// A record mentioning a keyword twice counts once. Only keywords that occur
// produce cells.
func (d *DB) StreamCounts(f Filter, keywords []string) ([]analysis.StreamCell, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	where, args := f.clause("r.year")
	in, inArgs := inList(keywords)
	args = append(args, inArgs...)
	rows, err := d.db.Query(`
		SELECT r.year, k.keyword, COUNT(DISTINCT r.seq)
		FROM record_keywords k
		JOIN records r ON r.seq = k.record_seq
		WHERE r.year IS NOT NULL AND `+where+` AND k.keyword IN (`+in+`)
		GROUP BY r.year, k.keyword
		ORDER BY r.year, k.keyword
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying keyword stream: %w", err)
	}
	defer rows.Close()

	var out []analysis.StreamCell
	for rows.Next() {
		var c analysis.StreamCell
		if err := rows.Scan(&c.Year, &c.Keyword, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CitationsByYear returns every (year, citations) observation where both are present.
func (d *DB) CitationsByYear(f Filter) ([]analysis.YearValue, error) {
	where, args := f.clause("year")
	rows, err := d.db.Query(`
		SELECT year, citations
		FROM records
		WHERE year IS NOT NULL AND citations IS NOT NULL AND `+where+`
		ORDER BY year, seq
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var out []analysis.YearValue
	for rows.Next() {
		var yv analysis.YearValue
		if err := rows.Scan(&yv.Year, &yv.Value); err != nil {
			return nil, err
		}
		out = append(out, yv)
	}
	return out, rows.Err()
}

// KeywordTokens returns the stored keyword tokens of one record in position order.
func (d *DB) KeywordTokens(id string) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT k.keyword
		FROM record_keywords k
		JOIN records r ON r.seq = k.record_seq
		WHERE r.id = ?
		ORDER BY k.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying keyword tokens: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var kw sql.NullString
		if err := rows.Scan(&kw); err != nil {
			return nil, err
		}
		out = append(out, kw.String)
	}
	return out, rows.Err()
}

func inList(values []string) (string, []interface{}) {
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return strings.Join(placeholders, ", "), args
}
