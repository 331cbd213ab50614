package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/edareport/internal/analysis"
)

func TestArtifactLabel(t *testing.T) {
	a := ArtifactRef{Path: filepath.Join("reports", "people_city_bar_chart.png")}
	assert.Equal(t, "people city bar chart", a.Label())
	assert.Equal(t, "people_city_bar_chart.png", a.Src())

	b := ArtifactRef{Path: "data.v2_age_histogram.svg"}
	assert.Equal(t, "data.v2 age histogram", b.Label())
}

func TestHTMLSectionsAndArtifactsInOrder(t *testing.T) {
	for _, tc := range []struct{ sections, artifacts int }{{0, 0}, {3, 0}, {2, 4}, {0, 1}} {
		t.Run(fmt.Sprintf("%d_sections_%d_artifacts", tc.sections, tc.artifacts), func(t *testing.T) {
			r := New("EDA Report for people.csv")
			for i := 0; i < tc.sections; i++ {
				r.AddSection(Section{Title: fmt.Sprintf("Section %d", i), Content: "<p>body</p>"})
			}
			for i := 0; i < tc.artifacts; i++ {
				r.AddArtifact(filepath.Join("out", fmt.Sprintf("people_col%d_histogram.png", i)))
			}
			require.Len(t, r.Sections(), tc.sections)
			for i, s := range r.Sections() {
				assert.Equal(t, fmt.Sprintf("Section %d", i), s.Title)
			}
			require.Len(t, r.Artifacts(), tc.artifacts)
			for i, a := range r.Artifacts() {
				assert.Equal(t, fmt.Sprintf("people_col%d_histogram.png", i), a.Src())
			}

			b, err := r.HTML()
			require.NoError(t, err)
			doc := string(b)

			assert.Contains(t, doc, "<h1>EDA Report for people.csv</h1>")
			assert.Equal(t, tc.artifacts, strings.Count(doc, "<img "))
			if tc.artifacts == 0 {
				assert.NotContains(t, doc, "Visualizations")
				assert.Equal(t, tc.sections, strings.Count(doc, `<div class="section">`))
			} else {
				assert.Contains(t, doc, "<h2>Visualizations</h2>")
				assert.Equal(t, tc.sections+1, strings.Count(doc, `<div class="section">`))
			}

			last := -1
			for i := 0; i < tc.sections; i++ {
				at := strings.Index(doc, fmt.Sprintf("<h2>Section %d</h2>", i))
				require.Greater(t, at, last)
				last = at
			}
			for i := 0; i < tc.artifacts; i++ {
				at := strings.Index(doc, fmt.Sprintf(`src="people_col%d_histogram.png"`, i))
				require.Greater(t, at, last)
				last = at
			}
		})
	}
}

func TestHTMLEscapesTitle(t *testing.T) {
	b, err := New("<script>x</script>").HTML()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "<script>")
}

func TestStandardSections(t *testing.T) {
	nulls := NullCountsSection([]analysis.NamedCount{{"age", 1}, {"<city>", 0}})
	assert.Equal(t, TitleNullCounts, nulls.Title)
	assert.Contains(t, string(nulls.Content), "Null Count")
	assert.Contains(t, string(nulls.Content), "&lt;city&gt;")

	types := DataTypesSection([]analysis.NamedType{{"age", "integer"}})
	assert.Contains(t, string(types.Content), "Data Type")
	assert.Contains(t, string(types.Content), "integer")

	summary := SummarySection(analysis.Summary{
		Columns: []string{"age"},
		Stats:   []analysis.Describe{analysis.DescribeValues([]float64{25, 30, 25})},
	}, true)
	assert.Equal(t, TitleSummary, summary.Title)
	for _, name := range analysis.StatisticNames {
		assert.Contains(t, string(summary.Content), name)
	}
	assert.Contains(t, string(summary.Content), "26.666667")

	empty := SummarySection(analysis.Summary{}, false)
	assert.Equal(t, NoNumericalNotice, empty.Content)
}

func TestSummarySectionFormatsUndefinedStats(t *testing.T) {
	s := SummarySection(analysis.Summary{
		Columns: []string{"n"},
		Stats:   []analysis.Describe{analysis.DescribeValues([]float64{1234.5})},
	}, true)
	assert.Contains(t, string(s.Content), "NaN")
	assert.Contains(t, string(s.Content), "1,234.500000")
}

func TestWrite(t *testing.T) {
	r := New("t")
	r.AddSection(SummarySection(analysis.Summary{}, false))
	path := filepath.Join(t.TempDir(), "t_report.html")
	require.NoError(t, r.Write(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "No numerical columns found.")
	assert.NoFileExists(t, path+".tmp")
}
