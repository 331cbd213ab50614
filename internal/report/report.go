package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/edareport/internal/utils"
)

//go:embed report.html.tmpl
var pageTemplate string

var page = template.Must(template.New("report").Parse(pageTemplate))

// Section is a titled block of already rendered HTML.
type Section struct {
	Title   string
	Content template.HTML
}

// ArtifactRef points at a persisted chart image.
type ArtifactRef struct {
	Path string
}

// Src is the reference used by the document; images live next to the report.
func (a ArtifactRef) Src() string { return filepath.Base(a.Path) }

// Label is the file name with underscores as spaces and the extension removed.
func (a ArtifactRef) Label() string {
	base := filepath.Base(a.Path)
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), "_", " ")
}

// Report is an ordered list of sections followed by chart artifacts.
type Report struct {
	Title       string
	Description string
	RunID       string
	Generated   time.Time

	sections  []Section
	artifacts []ArtifactRef
}

// New creates an empty report.
func New(title string) *Report {
	return &Report{Title: title, Generated: time.Now()}
}

// AddSection appends a section; sections render in insertion order.
func (r *Report) AddSection(s Section) { r.sections = append(r.sections, s) }

// AddArtifact appends a chart reference.
func (r *Report) AddArtifact(path string) { r.artifacts = append(r.artifacts, ArtifactRef{Path: path}) }

// Sections returns the sections in order.
func (r *Report) Sections() []Section { return append([]Section(nil), r.sections...) }

// Artifacts returns the artifact references in order.
func (r *Report) Artifacts() []ArtifactRef { return append([]ArtifactRef(nil), r.artifacts...) }

// HTML renders the document. The Visualizations block is present only when
// the report has artifacts.
func (r *Report) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders the report and atomically writes it to path.
func (r *Report) Write(path string) error {
	b, err := r.HTML()
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
