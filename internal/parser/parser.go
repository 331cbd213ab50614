package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/edareport/internal/table"
)

// ErrSourceUnavailable indicates the input file is missing or unreadable.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported input format")

// Options controls how sources are read.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; SheetIndex (1-based) is used otherwise.
	SheetName  string
	SheetIndex int
	// SQLiteTable selects the table of a SQLite file; the first user table by name if empty.
	SQLiteTable string
	Parse       table.ParseOptions
}

// DefaultOptions returns options for the first sheet/table and dot decimals.
func DefaultOptions() Options {
	return Options{SheetIndex: 1, Parse: table.DefaultParseOptions()}
}

// Reader turns a file into a typed table.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*table.Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ParseFile selects a reader by filename and loads the table.
func ParseFile(path string, opt Options) (*table.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file not found at '%s'", ErrSourceUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is a directory", ErrSourceUnavailable, path)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// ParseDelimiter maps a delimiter name to its rune. The empty name picks the
// delimiter from the file extension.
func ParseDelimiter(s string) (rune, error) {
	if s == "\t" {
		return '\t', nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'|'|'tab')", s)
}

// ParseNumberFormat maps decimal and thousands separator names to parse
// options. Empty names keep dot decimals without grouping.
func ParseNumberFormat(decimal, thousands string) (table.ParseOptions, error) {
	opt := table.DefaultParseOptions()
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case "", ".", "dot":
	case ",", "comma":
		opt.DecimalSeparator = ','
	default:
		return opt, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(thousands) {
	case "":
	case ",", "comma":
		opt.ThousandsSeparator = ','
	case ".", "dot":
		opt.ThousandsSeparator = '.'
	case " ", "space":
		opt.ThousandsSeparator = ' '
	case "'", "apostrophe":
		opt.ThousandsSeparator = '\''
	default:
		return opt, fmt.Errorf("unsupported thousands separator: %s (use ','|'.'|'space')", thousands)
	}
	if opt.ThousandsSeparator == opt.DecimalSeparator {
		return opt, fmt.Errorf("thousands separator must differ from decimal separator")
	}
	return opt, nil
}

// Prefix is the base name of path without its extension.
func Prefix(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return b, nil
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(sqliteReader{})
}
