package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseOptions controls how raw text cells are interpreted.
type ParseOptions struct {
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing when set; 0 means the
	// values carry no grouping.
	ThousandsSeparator rune
}

// DefaultParseOptions returns dot-decimal parsing.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{DecimalSeparator: '.'}
}

var nullTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NULL": {}, "null": {}, "NaN": {},
	"nan": {}, "None": {}, "#N/A": {}, "-NaN": {}, "<NA>": {},
}

// IsNullToken reports whether a raw value is treated as missing.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

// ParseNumber parses s using the separators in opt.
func ParseNumber(s string, opt ParseOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		if thou == ' ' {
			raw = strings.ReplaceAll(raw, "\u00A0", " ")
		}
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseTime tries the common date layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// InferType picks the narrowest type every non-null value fits. A column
// without any value is declared float.
func InferType(values []string, opt ParseOptions) DataType {
	var n, ints, nums, bools, dates int
	for _, v := range values {
		v = strings.TrimSpace(v)
		if IsNullToken(v) {
			continue
		}
		n++
		if f, ok := ParseNumber(v, opt); ok {
			nums++
			if f == math.Trunc(f) && !math.IsInf(f, 0) {
				ints++
			}
			continue
		}
		if _, ok := parseBool(v); ok {
			bools++
			continue
		}
		if _, ok := ParseTime(v); ok {
			dates++
		}
	}
	switch {
	case n == 0:
		return TypeFloat
	case ints == n:
		return TypeInteger
	case nums == n:
		return TypeFloat
	case bools == n:
		return TypeBoolean
	case dates == n:
		return TypeDatetime
	default:
		return TypeText
	}
}

// BuildColumn converts raw text into typed cells. When typ is TypeUnknown
// the type is inferred; a forced type that some value does not fit falls
// back to inference.
func BuildColumn(name string, values []string, typ DataType, opt ParseOptions) Column {
	if typ == TypeUnknown || !fits(values, typ, opt) {
		typ = InferType(values, opt)
	}
	cells := make([]Cell, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if IsNullToken(v) {
			continue
		}
		cell := Cell{Valid: true, Text: v}
		if typ.Kind() == Numerical {
			cell.Num, _ = ParseNumber(v, opt)
		}
		cells[i] = cell
	}
	return NewColumn(name, typ, cells)
}

func fits(values []string, typ DataType, opt ParseOptions) bool {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if IsNullToken(v) {
			continue
		}
		switch typ {
		case TypeInteger:
			if f, ok := ParseNumber(v, opt); !ok || f != math.Trunc(f) {
				return false
			}
		case TypeFloat:
			if _, ok := ParseNumber(v, opt); !ok {
				return false
			}
		case TypeBoolean:
			if _, ok := parseBool(v); !ok {
				return false
			}
		case TypeDatetime:
			if _, ok := ParseTime(v); !ok {
				return false
			}
		}
	}
	return true
}

// UniqueHeaders names blank headers "Unnamed: <i>" and suffixes repeats
// with ".1", ".2", ...
func UniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", h, n+1)
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

// FromRecords builds a table from a header and rows of raw text. Short rows
// are padded with nulls; a row wider than the header is malformed.
func FromRecords(name string, header []string, records [][]string, types []DataType, opt ParseOptions) (*Table, error) {
	names := UniqueHeaders(header)
	ncol := len(names)
	raw := make([][]string, ncol)
	for j := range raw {
		raw[j] = make([]string, len(records))
	}
	for i, rec := range records {
		if len(rec) > ncol {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformed, i+1, len(rec), ncol)
		}
		for j, v := range rec {
			raw[j][i] = v
		}
	}
	cols := make([]Column, ncol)
	for j, n := range names {
		typ := TypeUnknown
		if j < len(types) {
			typ = types[j]
		}
		cols[j] = BuildColumn(n, raw[j], typ, opt)
	}
	return New(name, cols)
}
