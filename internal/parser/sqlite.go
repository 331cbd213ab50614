package parser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/edareport/internal/table"

	// sqlite driver for .db/.sqlite inputs.
	_ "modernc.org/sqlite"
)

type sqliteReader struct{}

func (sqliteReader) CanRead(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Read profiles one table of a SQLite database opened read-only.
func (sqliteReader) Read(path string, opt Options) (*table.Table, error) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", ErrSourceUnavailable, err)
	}
	defer func() { _ = db.Close() }()

	name := opt.SQLiteTable
	if name == "" {
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name LIMIT 1`).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			return table.New(filepath.Base(path), nil)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list tables: %v", ErrSourceUnavailable, err)
		}
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, strings.ReplaceAll(name, `"`, `""`)))
	if err != nil {
		return nil, fmt.Errorf("%w: query table %q: %v", ErrSourceUnavailable, name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}
	header := make([]string, len(cols))
	types := make([]table.DataType, len(cols))
	for i, c := range cols {
		header[i] = c.Name()
		types[i] = declaredType(c.DatabaseTypeName())
	}

	var records [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(records)+1, err)
		}
		rec := make([]string, len(cols))
		for i, v := range values {
			rec[i] = formatSQLValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return table.FromRecords(fmt.Sprintf("%s (table: %s)", filepath.Base(path), name), header, records, types, opt.Parse)
}

// declaredType follows SQLite type affinity rules on the declared column type.
func declaredType(decl string) table.DataType {
	d := strings.ToUpper(decl)
	switch {
	case d == "":
		return table.TypeUnknown
	case strings.Contains(d, "BOOL"):
		return table.TypeBoolean
	case strings.Contains(d, "DATE"), strings.Contains(d, "TIME"):
		return table.TypeDatetime
	case strings.Contains(d, "INT"):
		return table.TypeInteger
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return table.TypeText
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"),
		strings.Contains(d, "NUMERIC"), strings.Contains(d, "DECIMAL"):
		return table.TypeFloat
	}
	return table.TypeUnknown
}

func formatSQLValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
