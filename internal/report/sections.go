package report

import (
	"html/template"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/edareport/internal/analysis"
)

// Section titles used by the standard profile.
const (
	TitleNullCounts = "Null Value Counts"
	TitleDataTypes  = "Column Data Types"
	TitleSummary    = "Summary Statistics (Numerical Columns)"
)

// NoNumericalNotice replaces the statistics table when nothing is numerical.
const NoNumericalNotice template.HTML = "<p>No numerical columns found.</p>"

var numbers = message.NewPrinter(language.English)

// NullCountsSection tabulates missing values per column.
func NullCountsSection(counts []analysis.NamedCount) Section {
	rows := make([]table.Row, len(counts))
	for i, c := range counts {
		rows[i] = table.Row{c.Column, numbers.Sprint(c.Count)}
	}
	return Section{Title: TitleNullCounts, Content: htmlTable(table.Row{"Column", "Null Count"}, rows)}
}

// DataTypesSection tabulates the declared type of every column.
func DataTypesSection(types []analysis.NamedType) Section {
	rows := make([]table.Row, len(types))
	for i, t := range types {
		rows[i] = table.Row{t.Column, t.Type}
	}
	return Section{Title: TitleDataTypes, Content: htmlTable(table.Row{"Column", "Data Type"}, rows)}
}

// SummarySection lays out the statistics with one row per statistic and one
// column per numerical field. ok is the flag returned by
// analysis.SummaryStatistics.
func SummarySection(s analysis.Summary, ok bool) Section {
	if !ok {
		return Section{Title: TitleSummary, Content: NoNumericalNotice}
	}
	header := table.Row{""}
	for _, c := range s.Columns {
		header = append(header, c)
	}
	rows := make([]table.Row, len(analysis.StatisticNames))
	for i, name := range analysis.StatisticNames {
		rows[i] = table.Row{name}
	}
	for _, d := range s.Stats {
		for i, v := range d.Values() {
			if i == 0 {
				rows[i] = append(rows[i], numbers.Sprint(d.Count))
				continue
			}
			rows[i] = append(rows[i], formatStat(v))
		}
	}
	return Section{Title: TitleSummary, Content: htmlTable(header, rows)}
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return numbers.Sprintf("%.6f", v)
}

// htmlTable renders with go-pretty; cell text is HTML-escaped by the writer.
func htmlTable(header table.Row, rows []table.Row) template.HTML {
	t := table.NewWriter()
	t.SetStyle(table.StyleDefault)
	t.Style().Format.Header = text.FormatDefault
	t.Style().HTML.CSSClass = "stats"
	t.Style().HTML.EscapeText = true
	t.AppendHeader(header)
	t.AppendRows(rows)
	return template.HTML(t.RenderHTML())
}
