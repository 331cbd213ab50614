package charts

import (
	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/table"
)

// Kind names a chart type; it is also the file name suffix of the artifact.
type Kind string

const (
	KindBar       Kind = "bar_chart"
	KindHistogram Kind = "histogram"
	KindPie       Kind = "pie_chart"
)

// MaxProportionCategories is the largest cardinality that still gets a pie chart.
const MaxProportionCategories = 5

// Spec is a chart request for one column: Frequencies for bar and pie
// charts, Values for histograms.
type Spec struct {
	Column      string
	Kind        Kind
	Frequencies []analysis.ValueCount
	Values      []float64
}

// Select decides which charts to draw: a bar chart per categorical column,
// a histogram per numerical column, then a pie chart per categorical column
// with 1 to MaxProportionCategories distinct values. Other columns get nothing.
func Select(t *table.Table, profiles []analysis.ColumnProfile) []Spec {
	cardinality := make(map[string]int, len(profiles))
	for _, p := range profiles {
		cardinality[p.Name] = p.Cardinality
	}
	cols := t.Columns()

	var specs []Spec
	for _, c := range cols {
		if c.Kind == table.Categorical {
			specs = append(specs, Spec{Column: c.Name, Kind: KindBar, Frequencies: analysis.ValueCounts(c)})
		}
	}
	for _, c := range cols {
		if c.Kind == table.Numerical {
			specs = append(specs, Spec{Column: c.Name, Kind: KindHistogram, Values: c.Numbers()})
		}
	}
	for _, c := range cols {
		if c.Kind != table.Categorical {
			continue
		}
		if n := cardinality[c.Name]; n > 0 && n <= MaxProportionCategories {
			specs = append(specs, Spec{Column: c.Name, Kind: KindPie, Frequencies: analysis.ValueCounts(c)})
		}
	}
	return specs
}
