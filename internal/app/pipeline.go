package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tmdbreport/internal/charts"
	"tmdbreport/internal/config"
	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/exporter"
	"tmdbreport/internal/infrastructure"
	"tmdbreport/internal/report"
	"tmdbreport/internal/validation"
	"tmdbreport/pkg/contracts"
)

// Pipeline wires the dataset preparer, chart renderer, report writer and
// exporter for one command run.
type Pipeline struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	Metrics   *infrastructure.PipelineMetrics
	RunID     string
}

// NewPipeline creates a pipeline. providers may be nil, in which case
// telemetry is disabled.
func NewPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Pipeline, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if providers == nil {
		providers = infrastructure.NoopProviders(logger)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	runID := uuid.NewString()
	return &Pipeline{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger.With(slog.String("run_id", runID)),
		Providers: providers,
		Metrics:   metrics,
		RunID:     runID,
	}, nil
}

// Context tags ctx with the run ID so every log record carries it.
func (p *Pipeline) Context(ctx context.Context) context.Context {
	return infrastructure.WithTraceID(ctx, p.RunID)
}

// Prepare loads and cleans the configured input. A directory input
// resolves to the newest dataset file it holds.
func (p *Pipeline) Prepare(ctx context.Context) (*dataprocessing.Dataset, error) {
	if p.Paths.InputFile == "" {
		return nil, apperrors.NewConfigError("no input file given", nil).
			WithContext("env", config.EnvPrefix+"_INPUT_PATH")
	}

	input, err := validation.NewFileValidator(p.Logger).ResolveInput(p.Paths.InputFile)
	if err != nil {
		return nil, err
	}

	preparer := dataprocessing.NewPreparer(p.Logger,
		dataprocessing.PreparerConfig{
			Delimiter: p.Config.Delimiter(),
			Sheet:     p.Config.Input.Sheet,
		},
		dataprocessing.WithTracer(p.Providers.Tracer),
		dataprocessing.WithMetrics(p.Metrics),
	)
	return preparer.LoadFile(ctx, input)
}

// Renderer returns a chart renderer configured from the report section.
func (p *Pipeline) Renderer() *charts.Renderer {
	rc := p.Config.Report
	return charts.NewRenderer(p.Logger, charts.Options{
		TopN:          rc.TopN,
		LabelWidth:    rc.LabelWidth,
		HistogramBins: rc.HistogramBins,
		Width:         rc.ChartWidth,
		Height:        rc.ChartHeight,
	}, p.Providers.Tracer, p.Metrics)
}

// Report renders every chart and writes the HTML report. It returns the
// report path.
func (p *Pipeline) Report(ctx context.Context, ds *dataprocessing.Dataset) (string, error) {
	rendered, err := p.Renderer().RenderAll(ctx, ds)
	if err != nil {
		return "", err
	}

	page := report.NewPage(report.Meta{
		Title:   p.Config.Report.Title,
		RunID:   p.RunID,
		Version: contracts.GetVersionString(),
	}, rendered, ds.Summarize(p.Config.Report.TopN))

	if err := p.Paths.EnsureReportDir(); err != nil {
		return "", apperrors.NewStorageError("failed to create report directory", err).
			WithContext("path", p.Paths.ReportFile)
	}
	if err := report.NewWriter(p.Logger, p.Providers.Tracer, p.Metrics).Write(ctx, p.Paths.ReportFile, page); err != nil {
		return "", err
	}
	return p.Paths.ReportFile, nil
}

// Export writes the configured export formats and returns the file paths.
func (p *Pipeline) Export(ctx context.Context, ds *dataprocessing.Dataset) ([]string, error) {
	if err := p.Paths.EnsureExportDir(); err != nil {
		return nil, apperrors.NewStorageError("failed to create export directory", err).
			WithContext("path", p.Paths.ExportDir)
	}
	return exporter.New(p.Logger, p.Providers.Tracer, p.Metrics).Export(ctx, ds, exporter.Options{
		Dir:     p.Paths.ExportDir,
		Formats: p.Config.Export.Formats,
		TopN:    p.Config.Report.TopN,
		WithBOM: p.Config.Export.WithBOM,
	})
}

// Shutdown flushes telemetry.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	return p.Providers.Shutdown(ctx)
}
