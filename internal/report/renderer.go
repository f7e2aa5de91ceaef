package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"pgha-inspect/internal/model"
	"pgha-inspect/pkg/utils"
)

const TimestampLayout = "2006-01-02 15:04:05"

// Captured values are emitted into the markup verbatim, so the page is built
// with text/template rather than html/template.
//
//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html.tmpl"))

type Renderer struct {
	format Format
	now    func() time.Time
	runID  string
}

type Option func(*Renderer)

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithRunID prints the run identifier under the analysis timestamp.
func WithRunID(id string) Option {
	return func(r *Renderer) {
		r.runID = id
	}
}

func NewRenderer(format Format, opts ...Option) (*Renderer, error) {
	if format.IsUnknown() {
		return nil, utils.NewValidationError("format (must be html or text)", format)
	}

	r := &Renderer{
		format: format,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Renderer) Format() Format {
	return r.format
}

type nodeView struct {
	Host     string
	Sections []model.Section
}

type reportView struct {
	Timestamp string
	RunID     string
	Nodes     []nodeView
}

func (r *Renderer) view(records []*model.NodeRecord) reportView {
	v := reportView{
		Timestamp: r.now().Format(TimestampLayout),
		RunID:     r.runID,
		Nodes:     make([]nodeView, 0, len(records)),
	}
	for _, rec := range records {
		v.Nodes = append(v.Nodes, nodeView{Host: rec.Host, Sections: rec.Sections()})
	}
	return v
}

// Render writes the report for records, in the given order.
func (r *Renderer) Render(w io.Writer, records []*model.NodeRecord) error {
	v := r.view(records)

	var err error
	switch r.format {
	case FormatText:
		_, err = io.WriteString(w, renderText(v))
	default:
		err = htmlTemplate.Execute(w, v)
	}
	if err != nil {
		return utils.NewRenderError(err)
	}
	return nil
}

func (r *Renderer) Bytes(records []*model.NodeRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the report and replaces path atomically.
func (r *Renderer) WriteFile(path string, records []*model.NodeRecord) error {
	data, err := r.Bytes(records)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return utils.NewRenderError(fmt.Errorf("write %s: %w", path, err))
	}
	return nil
}

func renderText(v reportView) string {
	var sb strings.Builder

	sb.WriteString("Analysis of PG HA Cluster\n")
	sb.WriteString(fmt.Sprintf("Time of Analysis: %s\n", v.Timestamp))
	if v.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run ID: %s\n", v.RunID))
	}
	sb.WriteString("\n")

	for _, node := range v.Nodes {
		sb.WriteString(fmt.Sprintf("Node: %s\n", node.Host))
		for _, s := range node.Sections {
			sb.WriteString(s.Label + ":\n")
			sb.WriteString(s.Value + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
