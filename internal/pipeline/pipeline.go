// Package pipeline profiles one source file into an HTML report with charts.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KaramelBytes/edareport/internal/analysis"
	"github.com/KaramelBytes/edareport/internal/charts"
	"github.com/KaramelBytes/edareport/internal/logging"
	"github.com/KaramelBytes/edareport/internal/parser"
	"github.com/KaramelBytes/edareport/internal/report"
	"github.com/KaramelBytes/edareport/internal/table"
	"github.com/KaramelBytes/edareport/internal/utils"
)

// Options configures a run.
type Options struct {
	Source    string
	OutputDir string
	Reader    parser.Options

	Format  charts.Format
	Width   int
	Height  int
	Bins    int
	Workers int
}

// Result describes what a run wrote.
type Result struct {
	RunID      string
	ReportPath string
	Table      *table.Table
	Artifacts  []charts.Artifact
	Failures   []*charts.RenderError
}

// Run reads the source, profiles it, renders its charts and writes
// <prefix>_report.html into OutputDir. Read and shape errors abort before
// anything is written; chart failures are logged and left out of the report.
func Run(ctx context.Context, opt Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	ctx = logging.WithFields(ctx, "run_id", res.RunID)
	logger := zerolog.Ctx(ctx)

	t, err := parser.ParseFile(opt.Source, opt.Reader)
	if err != nil {
		return nil, err
	}
	res.Table = t
	logger.Info().Str("source", t.Name()).Int("rows", t.Rows()).Int("columns", len(t.Columns())).Msg("loaded table")

	outDir := opt.OutputDir
	if outDir == "" {
		outDir = "reports"
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return nil, err
	}

	classes := analysis.Classify(t)
	logger.Debug().
		Strs("numerical", classes.Numerical).
		Strs("categorical", classes.Categorical).
		Strs("other", classes.Other).
		Msg("classified columns")

	rep := report.New("EDA Report for " + filepath.Base(opt.Source))
	rep.RunID = res.RunID
	rep.Description = fmt.Sprintf("%s: %d rows, %d columns (%d numerical, %d categorical, %d other)",
		t.Name(), t.Rows(), len(t.Columns()), len(classes.Numerical), len(classes.Categorical), len(classes.Other))
	rep.AddSection(report.NullCountsSection(analysis.NullCounts(t)))
	rep.AddSection(report.DataTypesSection(analysis.DeclaredTypes(t)))
	rep.AddSection(report.SummarySection(analysis.SummaryStatistics(t)))

	prefix := parser.Prefix(opt.Source)
	specs := charts.Select(t, analysis.Profile(t))
	logger.Debug().Int("charts", len(specs)).Msg("selected charts")

	renderer := &charts.Renderer{
		Dir:     outDir,
		Prefix:  prefix,
		Format:  opt.Format,
		Width:   opt.Width,
		Height:  opt.Height,
		Bins:    opt.Bins,
		Workers: opt.Workers,
	}
	for _, o := range renderer.RenderAll(ctx, specs) {
		if o.Err != nil {
			res.Failures = append(res.Failures, o.Err)
			continue
		}
		res.Artifacts = append(res.Artifacts, o.Artifact)
		rep.AddArtifact(o.Artifact.Path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.ReportPath = filepath.Join(outDir, prefix+"_report.html")
	if err := rep.Write(res.ReportPath); err != nil {
		return nil, err
	}
	logger.Info().
		Str("path", res.ReportPath).
		Int("charts", len(res.Artifacts)).
		Int("failed", len(res.Failures)).
		Msg("report written")
	return res, nil
}
