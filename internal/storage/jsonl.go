// Package storage handles data persistence in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/bibstat/internal/record"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// MergeResult summarizes the effect of merging imported records.
type MergeResult struct {
	New       int `json:"new"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// ReadAll reads all records from a JSONL file.
func ReadAll(path string) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Missing file returns empty slice
		}
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	var recs []record.Record
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var rec record.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		recs = append(recs, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}

	return recs, nil
}

// WriteAll writes all records to a JSONL file, replacing existing content.
func WriteAll(path string, recs []record.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating records file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing records file: %w", err)
	}
	return nil
}

// FindByID searches for a record by ID.
func FindByID(recs []record.Record, id string) (int, bool) {
	for i, rec := range recs {
		if rec.ID == id {
			return i, true
		}
	}
	return -1, false
}

// MergeRecords folds incoming records into existing ones by ID. Existing
// records keep their position; updates replace them in place and new records
// are appended in input order. A later incoming duplicate of the same ID wins,
// and each ID is counted once in the result, judged by its final value.
func MergeRecords(existing, incoming []record.Record) ([]record.Record, MergeResult) {
	merged := make([]record.Record, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, rec := range merged {
		index[rec.ID] = i
	}

	var result MergeResult
	var touched []int
	seen := make(map[string]bool)
	for _, rec := range incoming {
		i, ok := index[rec.ID]
		if !ok {
			index[rec.ID] = len(merged)
			seen[rec.ID] = true
			merged = append(merged, rec)
			result.New++
			continue
		}
		merged[i] = rec
		if !seen[rec.ID] {
			seen[rec.ID] = true
			if i < len(existing) {
				touched = append(touched, i)
			}
		}
	}

	for _, i := range touched {
		if sameRecord(existing[i], merged[i]) {
			result.Unchanged++
		} else {
			result.Updated++
		}
	}

	return merged, result
}

// sameRecord compares two records by their JSON encoding.
func sameRecord(a, b record.Record) bool {
	da, errA := json.Marshal(a)
	db, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(da) == string(db)
}
