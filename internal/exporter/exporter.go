package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tmdbreport/internal/config"
	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
)

// Format names accepted by Export.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Options selects what Export writes.
type Options struct {
	Dir     string
	Formats []string
	TopN    int
	WithBOM bool
}

// Exporter writes the dataset views as CSV files and an XLSX workbook.
type Exporter struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// New creates an exporter. tracer and metrics may be nil.
func New(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger:  infrastructure.WithComponent(logger, "exporter"),
		tracer:  tracer,
		metrics: metrics,
	}
}

// Export writes every requested format into opts.Dir and returns the
// written file paths. Any write failure aborts the export.
func (e *Exporter) Export(ctx context.Context, ds *dataprocessing.Dataset, opts Options) ([]string, error) {
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, e.tracer, "export.write",
		attribute.StringSlice("export.formats", opts.Formats))
	defer span.End()

	views := BuildViews(ds, opts.TopN)
	var written []string

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		switch format {
		case FormatCSV:
			w := NewCSVWriter(opts.Dir, e.logger)
			for _, view := range views {
				records := make([][]string, len(view.Rows))
				for i, row := range view.Rows {
					records[i] = formatRow(row)
				}
				path, err := w.WriteCSV(view.File, WriteOptions{
					Headers:   view.Headers,
					Records:   records,
					BOMPrefix: opts.WithBOM,
				})
				if err != nil {
					return written, e.fail(ctx, view.File, err)
				}
				written = append(written, path)
				e.metrics.RecordArtifact(ctx, FormatCSV)
			}

		case FormatXLSX:
			path := filepath.Join(opts.Dir, config.WorkbookName)
			if err := WriteWorkbook(path, views); err != nil {
				return written, e.fail(ctx, path, err)
			}
			written = append(written, path)
			e.metrics.RecordArtifact(ctx, FormatXLSX)

		default:
			return written, apperrors.NewAppValidationError(
				fmt.Sprintf("unsupported export format %q", format), nil)
		}
	}

	span.SetAttributes(attribute.Int("export.files", len(written)))
	e.logger.InfoContext(ctx, "export complete",
		slog.String("dir", opts.Dir),
		slog.Int("files", len(written)),
		slog.Int("rows", ds.Len()),
		slog.Duration("duration", time.Since(start)))

	return written, nil
}

func (e *Exporter) fail(ctx context.Context, path string, err error) error {
	appErr := apperrors.NewStorageError("export failed", err).WithContext("path", path)
	infrastructure.RecordError(ctx, appErr)
	infrastructure.WithError(e.logger, err).ErrorContext(ctx, "export failed",
		slog.String("path", path))
	return appErr
}
