package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BoxStats is the five-number summary of a sample plus its mean.
type BoxStats struct {
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Summarize computes box statistics for values. An empty sample yields the zero value.
func Summarize(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return BoxStats{
		N:      len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.LinInterp, sorted, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
	}
}

// YearCitations holds the citation counts of one publication year.
type YearCitations struct {
	Year   int       `json:"year"`
	Values []float64 `json:"-"`
	Box    BoxStats  `json:"box"`
}

// GroupByYear groups observations by year, ascending, and summarizes each group.
func GroupByYear(rows []YearValue) []YearCitations {
	byYear := make(map[int][]float64)
	var years []int
	for _, r := range rows {
		if _, ok := byYear[r.Year]; !ok {
			years = append(years, r.Year)
		}
		byYear[r.Year] = append(byYear[r.Year], r.Value)
	}
	sort.Ints(years)

	out := make([]YearCitations, 0, len(years))
	for _, y := range years {
		out = append(out, YearCitations{Year: y, Values: byYear[y], Box: Summarize(byYear[y])})
	}
	return out
}

// Velocity returns mean citations per year elapsed since the mean publication
// year, counting the current year. The divisor is floored at one year so that
// countries whose mean year is at or past currentYear keep a finite velocity.
func Velocity(avgCitations, avgYear float64, currentYear int) float64 {
	years := float64(currentYear) - avgYear + 1
	if years < 1 {
		years = 1
	}
	return avgCitations / years
}

// ApplyVelocity fills in the Velocity field of every country.
func ApplyVelocity(stats []CountryStat, currentYear int) {
	for i := range stats {
		stats[i].Velocity = Velocity(stats[i].AvgCitations, stats[i].AvgYear, currentYear)
	}
}

// RankByVelocity returns a copy of stats ordered by velocity descending, ties by name.
func RankByVelocity(stats []CountryStat) []CountryStat {
	out := make([]CountryStat, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Velocity != out[j].Velocity {
			return out[i].Velocity > out[j].Velocity
		}
		return out[i].Country < out[j].Country
	})
	return out
}
