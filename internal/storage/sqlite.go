package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/matsen/bibstat/internal/keyword"
	"github.com/matsen/bibstat/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectRecordFields contains the standard field list for SELECT queries.
const selectRecordFields = `id, doi, title, journal, country, keywords,
	year, citations, impact_factor`

// Filter restricts which records an aggregate query sees.
type Filter struct {
	// ExcludeYears drops records published in these years. Records without a
	// year are never excluded.
	ExcludeYears []int
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	// Create schema if needed
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per publication, seq preserves import order
		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			doi TEXT,
			title TEXT,
			journal TEXT,
			country TEXT,
			keywords TEXT,
			year INTEGER,
			citations REAL,
			impact_factor REAL
		);

		CREATE INDEX IF NOT EXISTS idx_records_year ON records(year);

		-- Normalized author keywords, one row per position (duplicates kept)
		CREATE TABLE IF NOT EXISTS record_keywords (
			record_seq INTEGER NOT NULL REFERENCES records(seq),
			position INTEGER NOT NULL,
			keyword TEXT NOT NULL,
			PRIMARY KEY (record_seq, position)
		);

		CREATE INDEX IF NOT EXISTS idx_record_keywords_keyword ON record_keywords(keyword);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// Keyword fields are split into tokens with norm.
func (d *DB) RebuildFromJSONL(jsonlPath string, norm keyword.Normalizer) (int, error) {
	recs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	if err := d.Load(recs, norm); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Load replaces the database contents with recs.
func (d *DB) Load(recs []record.Record, norm keyword.Normalizer) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM record_keywords"); err != nil {
		return fmt.Errorf("clearing record_keywords table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records table: %w", err)
	}

	recStmt, err := tx.Prepare(`
		INSERT INTO records (
			seq, id, doi, title, journal, country, keywords,
			year, citations, impact_factor
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	kwStmt, err := tx.Prepare(`
		INSERT INTO record_keywords (record_seq, position, keyword)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing keyword insert: %w", err)
	}
	defer kwStmt.Close()

	for i, rec := range recs {
		seq := i + 1
		_, err := recStmt.Exec(
			seq, rec.ID, nullableStringValue(rec.DOI), nullableStringValue(rec.Title),
			nullableStringValue(rec.Journal), nullableStringValue(rec.Country),
			nullableStringValue(rec.Keywords),
			nullableInt(rec.Year), nullableFloat(rec.Citations), nullableFloat(rec.ImpactFactor),
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}

		for pos, kw := range norm.Normalize(rec.Keywords) {
			if _, err := kwStmt.Exec(seq, pos, kw); err != nil {
				return fmt.Errorf("inserting keyword for %s: %w", rec.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// GetByID retrieves a record by its ID. It returns nil, nil when absent.
func (d *DB) GetByID(id string) (*record.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectRecordFields+` FROM records WHERE id = ?`, id)
	return scanRecord(row)
}

// AllRecords returns every record that passes f, in import order.
func (d *DB) AllRecords(f Filter) ([]record.Record, error) {
	where, args := f.clause("year")
	rows, err := d.db.Query(`SELECT `+selectRecordFields+` FROM records WHERE `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var recs []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// clause returns a WHERE fragment applying the filter to the given year column.
func (f Filter) clause(yearCol string) (string, []interface{}) {
	if len(f.ExcludeYears) == 0 {
		return "1 = 1", nil
	}
	placeholders := make([]string, len(f.ExcludeYears))
	args := make([]interface{}, len(f.ExcludeYears))
	for i, y := range f.ExcludeYears {
		placeholders[i] = "?"
		args[i] = y
	}
	return fmt.Sprintf("(%s IS NULL OR %s NOT IN (%s))", yearCol, yearCol, strings.Join(placeholders, ", ")), args
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*record.Record, error) {
	var rec record.Record
	var doi, title, journal, country, keywords sql.NullString
	var year sql.NullInt64
	var citations, impact sql.NullFloat64

	err := s.Scan(
		&rec.ID, &doi, &title, &journal, &country, &keywords,
		&year, &citations, &impact,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.DOI = doi.String
	rec.Title = title.String
	rec.Journal = journal.String
	rec.Country = country.String
	rec.Keywords = keywords.String

	if year.Valid {
		rec.Year = record.Int(int(year.Int64))
	}
	if citations.Valid {
		rec.Citations = record.Float(citations.Float64)
	}
	if impact.Valid {
		rec.ImpactFactor = record.Float(impact.Float64)
	}

	return &rec, nil
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
