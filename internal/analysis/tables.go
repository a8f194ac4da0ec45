package analysis

import "sort"

// KeywordYearMatrix is a keyword by year count table.
type KeywordYearMatrix struct {
	Keywords []string `json:"keywords"` // row labels, alphabetical
	Years    []int    `json:"years"`    // column labels, ascending
	Counts   [][]int  `json:"counts"`   // Counts[row][col]
}

// NewKeywordYearMatrix pivots keyword/year cells into a matrix. Rows are the
// keywords that appear in cells; missing combinations are zero.
func NewKeywordYearMatrix(cells []KeywordYearCount) KeywordYearMatrix {
	kwIdx := make(map[string]int)
	yearIdx := make(map[int]int)
	var m KeywordYearMatrix
	for _, c := range cells {
		if _, ok := kwIdx[c.Keyword]; !ok {
			kwIdx[c.Keyword] = 0
			m.Keywords = append(m.Keywords, c.Keyword)
		}
		if _, ok := yearIdx[c.Year]; !ok {
			yearIdx[c.Year] = 0
			m.Years = append(m.Years, c.Year)
		}
	}
	sort.Strings(m.Keywords)
	sort.Ints(m.Years)
	for i, kw := range m.Keywords {
		kwIdx[kw] = i
	}
	for i, y := range m.Years {
		yearIdx[y] = i
	}

	m.Counts = make([][]int, len(m.Keywords))
	for i := range m.Counts {
		m.Counts[i] = make([]int, len(m.Years))
	}
	for _, c := range cells {
		m.Counts[kwIdx[c.Keyword]][yearIdx[c.Year]] += c.Count
	}
	return m
}

// IsEmpty reports whether the matrix has no cells.
func (m KeywordYearMatrix) IsEmpty() bool {
	return len(m.Keywords) == 0 || len(m.Years) == 0
}

// Max returns the largest count in the matrix.
func (m KeywordYearMatrix) Max() int {
	top := 0
	for _, row := range m.Counts {
		for _, v := range row {
			if v > top {
				top = v
			}
		}
	}
	return top
}

// StreamTable is a year by topic-keyword count table.
type StreamTable struct {
	Years    []int    `json:"years"`    // ascending
	Keywords []string `json:"keywords"` // alphabetical, only keywords that occur
	Counts   [][]int  `json:"counts"`   // Counts[year][keyword]
}

// NewStreamTable pivots stream cells into a table.
func NewStreamTable(cells []StreamCell) StreamTable {
	pivot := NewKeywordYearMatrix(toKeywordYear(cells))
	t := StreamTable{Years: pivot.Years, Keywords: pivot.Keywords}
	t.Counts = make([][]int, len(t.Years))
	for y := range t.Years {
		t.Counts[y] = make([]int, len(t.Keywords))
		for k := range t.Keywords {
			t.Counts[y][k] = pivot.Counts[k][y]
		}
	}
	return t
}

func toKeywordYear(cells []StreamCell) []KeywordYearCount {
	out := make([]KeywordYearCount, len(cells))
	for i, c := range cells {
		out[i] = KeywordYearCount{Keyword: c.Keyword, Year: c.Year, Count: c.Count}
	}
	return out
}

// IsEmpty reports whether the table has no cells.
func (t StreamTable) IsEmpty() bool {
	return len(t.Years) == 0 || len(t.Keywords) == 0
}

// Column returns the per-year counts of one keyword, or nil if it does not occur.
func (t StreamTable) Column(kw string) []int {
	k := -1
	for i, name := range t.Keywords {
		if name == kw {
			k = i
			break
		}
	}
	if k < 0 {
		return nil
	}
	col := make([]int, len(t.Years))
	for y := range t.Years {
		col[y] = t.Counts[y][k]
	}
	return col
}

// Totals returns the per-year sum across keywords.
func (t StreamTable) Totals() []int {
	out := make([]int, len(t.Years))
	for y, row := range t.Counts {
		for _, v := range row {
			out[y] += v
		}
	}
	return out
}
