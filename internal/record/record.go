// Package record defines the core domain type for imported publication records.
package record

// Record represents one row of a bibliographic export (one publication).
type Record struct {
	// Identity
	ID  string `json:"id"`            // WoS accession number (UT), or a content ID when the export has none
	DOI string `json:"doi,omitempty"` // Digital Object Identifier

	// Metadata
	Title   string `json:"title,omitempty"`
	Journal string `json:"journal,omitempty"`
	Country string `json:"country,omitempty"`

	// Keywords is the raw author keyword field, semicolon separated.
	Keywords string `json:"keywords,omitempty"`

	// Numeric fields are nil when the source cell was empty or not a number.
	Year         *int     `json:"year,omitempty"`
	Citations    *float64 `json:"citations,omitempty"`
	ImpactFactor *float64 `json:"impact_factor,omitempty"` // Five-year journal impact factor
}

// KeywordField returns the raw keyword field, or nil when the record has none.
func (r Record) KeywordField() any {
	if r.Keywords == "" {
		return nil
	}
	return r.Keywords
}

// HasYear reports whether the record carries a publication year.
func (r Record) HasYear() bool {
	return r.Year != nil
}

// YearValue returns the publication year, or 0 when missing.
func (r Record) YearValue() int {
	if r.Year == nil {
		return 0
	}
	return *r.Year
}

// Int returns a pointer to v. Convenience for building records in code.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v. Convenience for building records in code.
func Float(v float64) *float64 {
	return &v
}
