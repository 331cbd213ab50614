package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/edareport/internal/utils"
)

var (
	// ErrEmptySeries is returned for a chart with nothing to draw.
	ErrEmptySeries = errors.New("no values to plot")
	// ErrNonFinite is returned when a numeric series holds NaN or ±Inf.
	ErrNonFinite = errors.New("series contains non-finite values")
)

// defaultFont loads go-chart's bundled font once. Charts left with a nil
// Font parse it lazily into a shared global, which races across workers.
var defaultFont = sync.OnceValues(chart.GetDefaultFont)

// Format is the image encoding of artifacts.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates an image format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	case "":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported image format: %s (use png or svg)", s)
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

// Artifact is a chart image written to disk.
type Artifact struct {
	Path   string
	Column string
	Kind   Kind
}

// RenderError reports a chart that could not be produced.
type RenderError struct {
	Column string
	Kind   Kind
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("could not generate %s for %s: %v", strings.ReplaceAll(string(e.Kind), "_", " "), e.Column, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Outcome is the result of rendering one Spec: either Artifact or Err is set.
type Outcome struct {
	Spec     Spec
	Artifact Artifact
	Err      *RenderError
}

// Renderer draws chart specs into image files under Dir.
type Renderer struct {
	Dir     string
	Prefix  string
	Format  Format
	Width   int
	Height  int
	Bins    int // histogram bins; 0 uses Sturges' rule
	Workers int
}

// Path is the deterministic artifact path for a column and chart kind.
func (r *Renderer) Path(column string, kind Kind) string {
	return r.path(safeFileName(column), kind)
}

func (r *Renderer) path(name string, kind Kind) string {
	format := r.Format
	if format == "" {
		format = FormatPNG
	}
	return filepath.Join(r.Dir, fmt.Sprintf("%s_%s_%s.%s", r.Prefix, name, kind, format))
}

// Paths assigns one artifact path per spec, in order. Columns whose
// sanitized names clash ("a/b" and "a-b", or names differing only in case)
// get "-2", "-3", ... appended after the first.
func (r *Renderer) Paths(specs []Spec) []string {
	out := make([]string, len(specs))
	used := make(map[string]bool, len(specs))
	for i, spec := range specs {
		name := safeFileName(spec.Column)
		p := r.path(name, spec.Kind)
		for n := 2; used[strings.ToLower(p)]; n++ {
			p = r.path(name+"-"+strconv.Itoa(n), spec.Kind)
		}
		used[strings.ToLower(p)] = true
		out[i] = p
	}
	return out
}

// Render draws one spec and writes it to Path. Nothing is written on failure.
func (r *Renderer) Render(ctx context.Context, spec Spec) (Artifact, error) {
	return r.renderTo(ctx, spec, r.Path(spec.Column, spec.Kind))
}

func (r *Renderer) renderTo(ctx context.Context, spec Spec, path string) (Artifact, error) {
	logger := zerolog.Ctx(ctx)
	fail := func(err error) (Artifact, error) {
		rerr := &RenderError{Column: spec.Column, Kind: spec.Kind, Err: err}
		logger.Warn().Str("column", spec.Column).Str("kind", string(spec.Kind)).Err(err).Msg("could not generate chart")
		return Artifact{}, rerr
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	var buf bytes.Buffer
	if err := r.draw(spec, &buf); err != nil {
		return fail(err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fail(err)
	}
	logger.Info().Str("column", spec.Column).Str("kind", string(spec.Kind)).Str("path", path).Msg("saved chart")
	return Artifact{Path: path, Column: spec.Column, Kind: spec.Kind}, nil
}

// RenderAll renders every spec, Workers at a time, and returns one Outcome
// per spec in input order. A failed spec never affects the others, and no
// two specs share a file (see Paths).
func (r *Renderer) RenderAll(ctx context.Context, specs []Spec) []Outcome {
	out := make([]Outcome, len(specs))
	paths := r.Paths(specs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Workers))
	for i, spec := range specs {
		g.Go(func() error {
			art, err := r.renderTo(gctx, spec, paths[i])
			out[i] = Outcome{Spec: spec, Artifact: art}
			var rerr *RenderError
			if errors.As(err, &rerr) {
				out[i].Err = rerr
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// draw renders into w with a canvas owned by this call. Panics raised by
// the plotting library are returned as errors.
func (r *Renderer) draw(spec Spec, w *bytes.Buffer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("plotting failed: %v", p)
		}
	}()
	font, err := defaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	width, height := r.size()
	switch spec.Kind {
	case KindBar:
		return r.drawBar(spec, font, width, height, w)
	case KindHistogram:
		return r.drawHistogram(spec, font, width, height, w)
	case KindPie:
		return r.drawPie(spec, font, min(width, height), w)
	}
	return fmt.Errorf("unknown chart kind %q", spec.Kind)
}

func (r *Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = 1000
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

func (r *Renderer) drawBar(spec Spec, font *truetype.Font, width, height int, w *bytes.Buffer) error {
	if len(spec.Frequencies) == 0 {
		return ErrEmptySeries
	}
	bars := make([]chart.Value, len(spec.Frequencies))
	for i, f := range spec.Frequencies {
		bars[i] = chart.Value{Label: f.Value, Value: float64(f.Count)}
	}
	return barChart("Value Counts for "+spec.Column, "Count", font, bars, width, height).Render(r.Format.provider(), w)
}

func (r *Renderer) drawHistogram(spec Spec, font *truetype.Font, width, height int, w *bytes.Buffer) error {
	if len(spec.Values) == 0 {
		return ErrEmptySeries
	}
	for _, v := range spec.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
	}
	bins := Histogram(spec.Values, r.Bins)
	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{Label: b.Label(), Value: float64(b.Count)}
	}
	return barChart("Distribution of "+spec.Column, "Frequency", font, bars, width, height).Render(r.Format.provider(), w)
}

func (r *Renderer) drawPie(spec Spec, font *truetype.Font, size int, w *bytes.Buffer) error {
	if len(spec.Frequencies) == 0 {
		return ErrEmptySeries
	}
	total := 0
	for _, f := range spec.Frequencies {
		total += f.Count
	}
	values := make([]chart.Value, len(spec.Frequencies))
	for i, f := range spec.Frequencies {
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", f.Value, 100*float64(f.Count)/float64(total)),
			Value: float64(f.Count),
		}
	}
	pie := chart.PieChart{
		Title:      "Proportions for " + spec.Column,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Font:       font,
		Width:      size,
		Height:     size,
		Values:     values,
	}
	return pie.Render(r.Format.provider(), w)
}

func barChart(title, yName string, font *truetype.Font, bars []chart.Value, width, height int) chart.BarChart {
	top := 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	// go-chart substitutes its own defaults for zero width/spacing.
	slot := max(5, (width-120)/len(bars))
	barWidth := min(80, slot*3/4)
	return chart.BarChart{
		Title:        title,
		Background:   chart.Style{Padding: chart.Box{Top: 40}},
		Font:         font,
		Width:        width,
		Height:       height,
		BarWidth:     barWidth,
		BarSpacing:   max(1, slot-barWidth),
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
}

func safeFileName(s string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(s)
}
