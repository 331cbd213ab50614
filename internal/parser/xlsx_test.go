package parser

import (
	"encoding/xml"
	"reflect"
	"testing"
)

// Relationship targets may use absolute ("/xl/worksheets/sheet1.xml") or
// relative paths; ZIP entries never carry the leading slash.
func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"styles.xml", "xl/styles.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	cases := map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA10": 26, "": -1}
	for ref, want := range cases {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}

func TestResolveSheetFallsBackToWorksheetPath(t *testing.T) {
	got, err := resolveSheet(nil, nil, "", 3, "book.xlsx")
	if err != nil {
		t.Fatalf("resolveSheet: %v", err)
	}
	if got != "xl/worksheets/sheet3.xml" {
		t.Fatalf("target = %q", got)
	}
}

func TestWorksheetRecordsResolvesCellTypes(t *testing.T) {
	var sst xlsxSharedStrings
	if err := xml.Unmarshal([]byte(`<sst><si><t>plain</t></si><si><r><t>ri</t></r><r><t>ch</t></r></si></sst>`), &sst); err != nil {
		t.Fatalf("unmarshal sst: %v", err)
	}
	var ws xlsxWorksheet
	sheet := `<worksheet><sheetData>
		<row r="1"><c r="A1" t="s"><v>0</v></c><c r="C1" t="s"><v>1</v></c></row>
		<row r="2"><c r="B2" t="b"><v>1</v></c><c t="inlineStr"><is><t>next</t></is></c></row>
	</sheetData></worksheet>`
	if err := xml.Unmarshal([]byte(sheet), &ws); err != nil {
		t.Fatalf("unmarshal sheet: %v", err)
	}
	got := ws.records(sst.values())
	want := [][]string{{"plain", "", "rich"}, {"", "true", "next"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records = %q, want %q", got, want)
	}
}

func TestWidenHeaderCoversStrayCells(t *testing.T) {
	header, records := widenHeader([]string{"a", "b", ""}, [][]string{{"1", "x"}, {"2", "y", "note"}, {"3", "z", "", " "}})
	if !reflect.DeepEqual(header, []string{"a", "b", ""}) {
		t.Fatalf("header = %q", header)
	}
	if len(records[2]) != 2 {
		t.Fatalf("trailing blanks kept: %q", records[2])
	}

	header, _ = widenHeader([]string{"a", "b", "", ""}, [][]string{{"1"}})
	if len(header) != 2 {
		t.Fatalf("blank trailing headers kept: %q", header)
	}
}
