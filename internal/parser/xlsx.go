package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edareport/internal/table"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read loads one sheet: by name if opt.SheetName is set, else by 1-based
// opt.SheetIndex (Sheet1 == 1). The first row is the header; cells right of
// the last header become "Unnamed: <i>" columns.
func (xlsxReader) Read(p string, opt Options) (*table.Table, error) {
	b, err := readFile(p)
	if err != nil {
		return nil, err
	}
	file := filepath.Base(p)
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrSourceUnavailable, err)
	}

	var wb xlsxWorkbook
	if err := unmarshalZipFile(zr, "xl/workbook.xml", &wb); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", table.ErrMalformed, file, err)
	}
	var rels xlsxRelationships
	if err := unmarshalZipFile(zr, "xl/_rels/workbook.xml.rels", &rels); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", table.ErrMalformed, file, err)
	}
	target, err := resolveSheet(wb.Sheets, rels.targets(), opt.SheetName, opt.SheetIndex, file)
	if err != nil {
		return nil, err
	}
	sheetXML := readZipFile(zr, target)
	if sheetXML == nil {
		return nil, fmt.Errorf("%w: worksheet %s missing from %s", table.ErrMalformed, target, file)
	}
	var ws xlsxWorksheet
	if err := xml.Unmarshal(sheetXML, &ws); err != nil {
		return nil, fmt.Errorf("%w: %s: decode %s: %v", table.ErrMalformed, file, target, err)
	}
	var sst xlsxSharedStrings
	if err := unmarshalZipFile(zr, "xl/sharedStrings.xml", &sst); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", table.ErrMalformed, file, err)
	}

	rows := ws.records(sst.values())
	if len(rows) == 0 {
		return table.New(file, nil)
	}
	header, records := widenHeader(rows[0], rows[1:])
	if len(header) == 0 {
		return table.New(file, nil)
	}
	return table.FromRecords(file, header, records, nil, opt.Parse)
}

// widenHeader pads the header with blank names up to the widest row so
// stray cells become their own columns. Trailing empty cells do not count.
func widenHeader(header []string, records [][]string) ([]string, [][]string) {
	width := len(trimTrailingBlanks(header))
	for i, rec := range records {
		records[i] = trimTrailingBlanks(rec)
		width = max(width, len(records[i]))
	}
	out := make([]string, width)
	copy(out, header)
	return out, records
}

func trimTrailingBlanks(row []string) []string {
	n := len(row)
	for n > 0 && strings.TrimSpace(row[n-1]) == "" {
		n--
	}
	return row[:n]
}

type xlsxWorkbook struct {
	Sheets []wbSheet `xml:"sheets>sheet"`
}

type wbSheet struct {
	Name    string `xml:"name,attr"`
	SheetID int    `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"` // r:id
}

type xlsxRelationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func (r xlsxRelationships) targets() map[string]string {
	out := make(map[string]string, len(r.Items))
	for _, it := range r.Items {
		if it.ID != "" && it.Target != "" {
			out[it.ID] = it.Target
		}
	}
	return out
}

// xlsxText is either plain <t> text or a list of rich-text runs.
type xlsxText struct {
	Text string `xml:"t"`
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func (t xlsxText) String() string {
	if len(t.Runs) == 0 {
		return t.Text
	}
	var sb strings.Builder
	for _, r := range t.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

type xlsxSharedStrings struct {
	Items []xlsxText `xml:"si"`
}

func (s xlsxSharedStrings) values() []string {
	out := make([]string, len(s.Items))
	for i, it := range s.Items {
		out[i] = it.String()
	}
	return out
}

type xlsxWorksheet struct {
	Rows []struct {
		Cells []xlsxCell `xml:"c"`
	} `xml:"sheetData>row"`
}

type xlsxCell struct {
	Ref    string   `xml:"r,attr"`
	Type   string   `xml:"t,attr"`
	Value  string   `xml:"v"`
	Inline xlsxText `xml:"is"`
}

// records lays every row out by cell reference; cells without a reference
// follow the previous one.
func (ws xlsxWorksheet) records(shared []string) [][]string {
	out := make([][]string, 0, len(ws.Rows))
	for _, row := range ws.Rows {
		var rec []string
		for _, c := range row.Cells {
			col := colIndexFromRef(c.Ref)
			if col < 0 {
				col = len(rec)
			}
			for len(rec) <= col {
				rec = append(rec, "")
			}
			rec[col] = c.text(shared)
		}
		out = append(out, rec)
	}
	return out
}

func (c xlsxCell) text(shared []string) string {
	switch c.Type {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		return shared[i]
	case "inlineStr":
		return c.Inline.String()
	case "b":
		if strings.TrimSpace(c.Value) == "1" {
			return "true"
		}
		return "false"
	}
	return c.Value
}

func resolveSheet(sheets []wbSheet, rels map[string]string, sheetName string, sheetIndex int, file string) (string, error) {
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.Name, sheetName) {
				if rel, ok := rels[s.RID]; ok {
					return normalizeRelPath(rel), nil
				}
				break
			}
		}
		available := make([]string, len(sheets))
		for i, s := range sheets {
			available[i] = s.Name
		}
		return "", fmt.Errorf("%w: sheet '%s' not found in workbook '%s' (available sheets: %s)",
			ErrSourceUnavailable, sheetName, file, strings.Join(available, ", "))
	}
	idx := max(sheetIndex, 1)
	for _, s := range sheets {
		if s.SheetID == idx {
			if rel, ok := rels[s.RID]; ok {
				return normalizeRelPath(rel), nil
			}
			break
		}
	}
	return path.Join("xl", "worksheets", fmt.Sprintf("sheet%d.xml", idx)), nil
}

// unmarshalZipFile decodes an XML part into v; a missing part leaves v empty.
func unmarshalZipFile(zr *zip.Reader, name string, v any) error {
	data := readZipFile(zr, name)
	if len(data) == 0 {
		return nil
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func readZipFile(zr *zip.Reader, name string) []byte {
	f, err := zr.Open(name)
	if err != nil {
		return nil
	}
	defer f.Close()
	b, _ := io.ReadAll(f)
	return b
}

// colIndexFromRef maps refs like "C12" to a 0-based column index, -1 when
// the reference has no column letters.
func colIndexFromRef(ref string) int {
	idx := 0
	for _, c := range strings.ToUpper(ref) {
		if c < 'A' || c > 'Z' {
			break
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

// normalizeRelPath converts relationship targets to ZIP entry names.
// Targets may carry a leading slash ("/xl/worksheets/sheet1.xml"); ZIP
// entries never do.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
