// Package report assembles rendered charts and summary figures into a
// single self-contained HTML page.
package report

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tmdbreport/internal/charts"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
	"tmdbreport/pkg/contracts/domain"
)

//go:embed templates/report.html
var reportTemplate string

var page = template.Must(template.New("report").Parse(reportTemplate))

// Section is one chart block of the page.
type Section struct {
	Name  string
	Title string
	// Image is a data URI; empty when the chart could not be drawn.
	Image   template.URL
	Missing string
}

// Page is the template input.
type Page struct {
	Title       string
	GeneratedAt time.Time
	RunID       string
	Version     string
	Stats       domain.LoadStats
	Sections    []Section
	Summary     []string
}

// Meta identifies a report run.
type Meta struct {
	Title       string
	RunID       string
	Version     string
	GeneratedAt time.Time
}

// NewPage builds the template input from rendered charts and a summary.
func NewPage(meta Meta, rendered []charts.Chart, summary domain.Summary) Page {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}
	p := Page{
		Title:       meta.Title,
		GeneratedAt: meta.GeneratedAt,
		RunID:       meta.RunID,
		Version:     meta.Version,
		Stats:       summary.Stats,
		Sections:    make([]Section, 0, len(rendered)),
		Summary:     SummaryLines(summary),
	}
	for _, c := range rendered {
		s := Section{Name: c.Name, Title: c.Title}
		if c.Err == nil && len(c.PNG) > 0 {
			s.Image = DataURI(c.PNG)
		} else {
			s.Missing = "Not enough data to draw this chart."
		}
		p.Sections = append(p.Sections, s)
	}
	return p
}

// DataURI embeds a PNG image inline.
func DataURI(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// Render executes the page template into w.
func Render(w io.Writer, p Page) error {
	if err := page.Execute(w, p); err != nil {
		return apperrors.NewRenderError("failed to render report", err)
	}
	return nil
}

// Writer persists reports to disk.
type Writer struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewWriter creates a report writer. tracer and metrics may be nil.
func NewWriter(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		logger:  infrastructure.WithComponent(logger, "report_writer"),
		tracer:  tracer,
		metrics: metrics,
	}
}

// Write renders p and replaces the file at path. The page is rendered in
// memory first so a template failure never leaves a partial file.
func (w *Writer) Write(ctx context.Context, path string, p Page) error {
	ctx, span := infrastructure.StartSpan(ctx, w.tracer, "report.write",
		attribute.String("report.path", path),
		attribute.Int("report.sections", len(p.Sections)))
	defer span.End()

	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		appErr := apperrors.NewStorageError("failed to write report", err).WithContext("path", path)
		infrastructure.RecordError(ctx, appErr)
		infrastructure.WithError(w.logger, err).ErrorContext(ctx, "report write failed",
			slog.String("path", path))
		return appErr
	}

	w.metrics.RecordArtifact(ctx, "report")
	w.logger.InfoContext(ctx, "report written",
		slog.String("path", path),
		slog.Int("bytes", buf.Len()),
		slog.Int("sections", len(p.Sections)))
	return nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.html")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
