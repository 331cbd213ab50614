package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/edareport/internal/table"
)

// NamedCount pairs a column with a count.
type NamedCount struct {
	Column string
	Count  int
}

// NamedType pairs a column with its declared type label.
type NamedType struct {
	Column string
	Type   string
}

// NullCounts returns the number of missing values of every column.
func NullCounts(t *table.Table) []NamedCount {
	cols := t.Columns()
	out := make([]NamedCount, len(cols))
	for i, c := range cols {
		out[i] = NamedCount{Column: c.Name, Count: c.NullCount()}
	}
	return out
}

// DeclaredTypes returns one type label per column.
func DeclaredTypes(t *table.Table) []NamedType {
	cols := t.Columns()
	out := make([]NamedType, len(cols))
	for i, c := range cols {
		out[i] = NamedType{Column: c.Name, Type: c.Type.String()}
	}
	return out
}

// StatisticNames are the summary rows, in order.
var StatisticNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe holds the descriptive statistics of one numerical column. Fields
// other than Count are NaN when they are undefined for the sample size.
type Describe struct {
	Count                    int
	Mean, Std                float64
	Min, Q1, Median, Q3, Max float64
}

// Values returns the statistics in StatisticNames order.
func (d Describe) Values() []float64 {
	return []float64{float64(d.Count), d.Mean, d.Std, d.Min, d.Q1, d.Median, d.Q3, d.Max}
}

// Summary is a statistics table: one row per statistic, one column per
// numerical field.
type Summary struct {
	Columns []string
	Stats   []Describe
}

// SummaryStatistics describes the numerical columns of t. ok is false when t
// has no numerical column; callers render a notice instead of a table.
func SummaryStatistics(t *table.Table) (s Summary, ok bool) {
	for _, c := range t.Columns() {
		if c.Kind != table.Numerical {
			continue
		}
		s.Columns = append(s.Columns, c.Name)
		s.Stats = append(s.Stats, DescribeValues(c.Numbers()))
	}
	return s, len(s.Columns) > 0
}

// DescribeValues computes count, mean, sample standard deviation, extremes
// and linearly interpolated quartiles.
func DescribeValues(vals []float64) Describe {
	nan := math.NaN()
	d := Describe{Count: len(vals), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(vals) == 0 {
		return d
	}
	// Welford update
	var mean, m2 float64
	for i, x := range vals {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	d.Mean = mean
	if len(vals) > 1 {
		d.Std = math.Sqrt(m2 / float64(len(vals)-1))
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	d.Min = sorted[0]
	d.Max = sorted[len(sorted)-1]
	d.Q1 = quantile(sorted, 0.25)
	d.Median = quantile(sorted, 0.5)
	d.Q3 = quantile(sorted, 0.75)
	return d
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// ValueCount is one distinct value and its frequency.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts counts the distinct non-null values of c, most frequent first;
// equal counts keep the order in which values first appear.
func ValueCounts(c table.Column) []ValueCount {
	index := make(map[string]int)
	var out []ValueCount
	for _, cell := range c.Cells {
		if !cell.Valid {
			continue
		}
		key := distinctKey(c, cell)
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, ValueCount{Value: cell.Text, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
