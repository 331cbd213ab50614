package analysis

import "github.com/KaramelBytes/edareport/internal/table"

// Classification partitions the column names of a table by kind. Each list
// keeps table order and every column appears in exactly one list.
type Classification struct {
	Numerical   []string
	Categorical []string
	Other       []string
}

// Classify sorts the columns of t into their categories.
func Classify(t *table.Table) Classification {
	var c Classification
	for _, col := range t.Columns() {
		switch col.Kind {
		case table.Numerical:
			c.Numerical = append(c.Numerical, col.Name)
		case table.Categorical:
			c.Categorical = append(c.Categorical, col.Name)
		default:
			c.Other = append(c.Other, col.Name)
		}
	}
	return c
}

// ColumnProfile is the derived, per-column summary used for chart selection.
type ColumnProfile struct {
	Name        string
	Type        table.DataType
	Kind        table.Kind
	Nulls       int
	Cardinality int
}

// Profile computes one ColumnProfile per column in table order.
func Profile(t *table.Table) []ColumnProfile {
	cols := t.Columns()
	out := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnProfile{
			Name:        c.Name,
			Type:        c.Type,
			Kind:        c.Kind,
			Nulls:       c.NullCount(),
			Cardinality: cardinality(c),
		})
	}
	return out
}

func cardinality(c table.Column) int {
	seen := make(map[string]struct{})
	for _, cell := range c.Cells {
		if !cell.Valid {
			continue
		}
		seen[distinctKey(c, cell)] = struct{}{}
	}
	return len(seen)
}

// distinctKey compares numerical cells by value so "1" and "1.0" collapse.
func distinctKey(c table.Column, cell table.Cell) string {
	if c.Kind == table.Numerical {
		return formatFloat(cell.Num)
	}
	return cell.Text
}
