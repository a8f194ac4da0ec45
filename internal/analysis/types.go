// Package analysis defines the aggregate tables produced from publication records
// and the small derivations computed on top of them.
//
// Grouping and averaging run in the SQLite query layer (see internal/storage);
// this package shapes those rows into the tables handed to chart, viz and export.
package analysis

// YearCount is the number of publications in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// JournalStat summarizes one journal.
type JournalStat struct {
	Journal         string  `json:"journal"`
	Publications    int     `json:"publications"`
	AvgCitations    float64 `json:"avg_citations"`
	AvgImpactFactor float64 `json:"avg_impact_factor"`
}

// KeywordCount is the number of occurrences of a keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// KeywordYearCount is the number of occurrences of a keyword in one year.
type KeywordYearCount struct {
	Keyword string `json:"keyword"`
	Year    int    `json:"year"`
	Count   int    `json:"count"`
}

// KeywordSummary describes a keyword's first appearance, reach and impact.
type KeywordSummary struct {
	Keyword      string  `json:"keyword"`
	FirstYear    int     `json:"first_year"`
	AvgCitations float64 `json:"avg_citations"`
	Frequency    int     `json:"frequency"`
}

// YearValue is a single numeric observation tagged with its year.
type YearValue struct {
	Year  int
	Value float64
}

// CountryStat summarizes one country.
type CountryStat struct {
	Country      string  `json:"country"`
	Publications int     `json:"publications"`
	AvgCitations float64 `json:"avg_citations"`
	AvgYear      float64 `json:"avg_year"`
	Velocity     float64 `json:"velocity"` // mean citations per year since the mean publication year
}

// StreamCell counts records of one year that carry one topic keyword.
type StreamCell struct {
	Year    int    `json:"year"`
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}
