package table

import (
	"errors"
	"fmt"
)

// ErrMalformed reports a table whose shape cannot be profiled (ragged columns,
// duplicate names, rows wider than the header).
var ErrMalformed = errors.New("malformed table")

// Kind is the semantic category every downstream stage works with.
type Kind int

const (
	Other Kind = iota
	Numerical
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numerical:
		return "numerical"
	case Categorical:
		return "categorical"
	default:
		return "other"
	}
}

// DataType is the declared type of a column.
type DataType int

const (
	TypeUnknown DataType = iota
	TypeInteger
	TypeFloat
	TypeText
	TypeBoolean
	TypeDatetime
)

func (t DataType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	case TypeBoolean:
		return "boolean"
	case TypeDatetime:
		return "datetime"
	default:
		return "unknown"
	}
}

// Kind maps a declared type onto its category.
func (t DataType) Kind() Kind {
	switch t {
	case TypeInteger, TypeFloat:
		return Numerical
	case TypeText:
		return Categorical
	default:
		return Other
	}
}

// Cell is one value. Num is set for numerical columns, Text holds the
// original representation for every column.
type Cell struct {
	Valid bool
	Num   float64
	Text  string
}

// Null is the missing cell.
var Null = Cell{}

// Column is an ordered sequence of cells sharing one declared type.
type Column struct {
	Name  string
	Type  DataType
	Kind  Kind
	Cells []Cell
}

// NewColumn fixes the column kind from its declared type.
func NewColumn(name string, typ DataType, cells []Cell) Column {
	return Column{Name: name, Type: typ, Kind: typ.Kind(), Cells: cells}
}

// Len returns the number of rows.
func (c Column) Len() int { return len(c.Cells) }

// NullCount counts missing cells.
func (c Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Valid {
			n++
		}
	}
	return n
}

// Numbers returns the non-null numeric values in row order.
func (c Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Valid {
			out = append(out, cell.Num)
		}
	}
	return out
}

// Texts returns the non-null values as text in row order.
func (c Column) Texts() []string {
	out := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Valid {
			out = append(out, cell.Text)
		}
	}
	return out
}

// Table is an immutable, rectangular set of named columns.
type Table struct {
	name string
	cols []Column
	rows int
}

// New validates the shape of cols and builds a Table.
func New(name string, cols []Column) (*Table, error) {
	t := &Table{name: name}
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrMalformed, c.Name)
		}
		seen[c.Name] = struct{}{}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrMalformed, c.Name, c.Len(), t.rows)
		}
		if c.Kind != c.Type.Kind() {
			c.Kind = c.Type.Kind()
		}
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Name is the source name the table was read from.
func (t *Table) Name() string { return t.name }

// Rows returns the shared row count.
func (t *Table) Rows() int { return t.rows }

// Columns returns a copy of the column headers and cells in order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
