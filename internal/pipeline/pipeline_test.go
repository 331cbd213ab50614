package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/edareport/internal/charts"
	"github.com/KaramelBytes/edareport/internal/parser"
	"github.com/KaramelBytes/edareport/internal/table"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func options(src, out string) Options {
	return Options{Source: src, OutputDir: out, Reader: parser.DefaultOptions(), Format: charts.FormatPNG, Width: 500, Height: 300}
}

func readReport(t *testing.T, res *Result) string {
	t.Helper()
	b, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	return string(b)
}

func TestRunPeople(t *testing.T) {
	src := writeSource(t, "people.csv", "age,city\n25,NYC\n30,LA\n25,NYC\n,NYC\n")
	out := filepath.Join(t.TempDir(), "reports")

	res, err := Run(testContext(t), options(src, out))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "people_report.html"), res.ReportPath)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Failures)

	want := []string{"people_city_bar_chart.png", "people_age_histogram.png", "people_city_pie_chart.png"}
	require.Len(t, res.Artifacts, len(want))
	for i, a := range res.Artifacts {
		assert.Equal(t, filepath.Join(out, want[i]), a.Path)
		assert.FileExists(t, a.Path)
	}

	doc := readReport(t, res)
	assert.Contains(t, doc, "EDA Report for people.csv")
	last := -1
	for _, marker := range []string{"Null Value Counts", "Column Data Types", "Summary Statistics (Numerical Columns)", "Visualizations"} {
		at := strings.Index(doc, marker)
		require.Greater(t, at, last, marker)
		last = at
	}
	assert.Contains(t, doc, "26.666667")
	for _, name := range want {
		at := strings.Index(doc, `src="`+name+`"`)
		require.Greater(t, at, last, name)
		last = at
	}
}

func TestRunIsolatesChartFailures(t *testing.T) {
	src := writeSource(t, "mixed.csv", "age,city,empty\n25,NYC,\n30,LA,\n25,NYC,\n")
	out := t.TempDir()

	res, err := Run(testContext(t), Options{Source: src, OutputDir: out, Reader: parser.DefaultOptions(), Workers: 3})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "empty", res.Failures[0].Column)
	assert.Equal(t, charts.KindHistogram, res.Failures[0].Kind)
	assert.ErrorIs(t, res.Failures[0], charts.ErrEmptySeries)
	assert.Len(t, res.Artifacts, 3)

	doc := readReport(t, res)
	assert.Contains(t, doc, "empty")
	assert.NotContains(t, doc, "mixed_empty_histogram")
	_, err = os.Stat(filepath.Join(out, "mixed_empty_histogram.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunWithoutNumericalColumns(t *testing.T) {
	src := writeSource(t, "colors.csv", "color\nred\nblue\nred\ngreen\nred\nteal\nnavy\nplum\nlime\n")
	res, err := Run(testContext(t), options(src, t.TempDir()))
	require.NoError(t, err)

	doc := readReport(t, res)
	assert.Contains(t, doc, "No numerical columns found.")
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "colors_color_bar_chart.png", filepath.Base(res.Artifacts[0].Path))
}

func TestRunOnlyOtherColumnsOmitsVisualizations(t *testing.T) {
	src := writeSource(t, "dates.csv", "day\n2024-01-01\n2024-01-02\n")
	res, err := Run(testContext(t), options(src, t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, res.Artifacts)
	assert.NotContains(t, readReport(t, res), "Visualizations")
}

func TestRunMissingSourceWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports")
	_, err := Run(testContext(t), options(filepath.Join(t.TempDir(), "nope.csv"), out))
	require.ErrorIs(t, err, parser.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "file not found at")
	assert.NoDirExists(t, out)
}

func TestRunMalformedTableAborts(t *testing.T) {
	src := writeSource(t, "bad.csv", "a,b\n1,2\n3,4,5\n")
	out := filepath.Join(t.TempDir(), "reports")
	_, err := Run(testContext(t), options(src, out))
	require.ErrorIs(t, err, table.ErrMalformed)
	assert.NoDirExists(t, out)
}

func TestRunCancelledWritesNoReport(t *testing.T) {
	src := writeSource(t, "people.csv", "age\n1\n2\n")
	out := t.TempDir()
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()
	_, err := Run(ctx, options(src, out))
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(out, "people_report.html"))
}
