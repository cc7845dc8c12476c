package charts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
)

// Renderer draws charts from a dataset. It holds no per-dataset state and
// is safe for concurrent use.
type Renderer struct {
	logger  *slog.Logger
	opts    Options
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewRenderer creates a chart renderer. tracer and metrics may be nil.
func NewRenderer(logger *slog.Logger, opts Options, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultOptions()
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = def.LabelWidth
	}
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = def.HistogramBins
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	return &Renderer{
		logger:  infrastructure.WithComponent(logger, "chart_renderer"),
		opts:    opts,
		tracer:  tracer,
		metrics: metrics,
	}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// RenderAll draws every chart concurrently and returns them in Names
// order. A chart without data, or one the plotting library panicked on,
// carries its error in Chart.Err; any other failure aborts the whole run.
func (r *Renderer) RenderAll(ctx context.Context, ds *dataprocessing.Dataset) ([]Chart, error) {
	ctx, span := infrastructure.StartSpan(ctx, r.tracer, "charts.render",
		attribute.Int("charts.count", len(Names)),
		attribute.Int("dataset.rows", ds.Len()))
	defer span.End()

	out := make([]Chart, len(Names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range Names {
		g.Go(func() error {
			chart, err := r.Render(gctx, ds, name)
			if err != nil && !errors.Is(err, ErrNoData) && !errors.Is(err, ErrRenderPanic) {
				return err
			}
			out[i] = chart
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return out, nil
}

// Render draws a single chart. Views with nothing to plot return a RENDER
// error wrapping ErrNoData together with a Chart whose Err is set.
func (r *Renderer) Render(ctx context.Context, ds *dataprocessing.Dataset, name string) (Chart, error) {
	chart := Chart{Name: name, Title: Title(name, r.opts.TopN)}
	if !Known(name) {
		return chart, apperrors.NewNotFoundError(fmt.Sprintf("chart %q", name)).
			WithContext("chart", name)
	}
	if err := ctx.Err(); err != nil {
		return chart, err
	}

	start := time.Now()
	png, err := r.draw(ds, name)
	r.metrics.RecordChart(ctx, name, time.Since(start), err)
	if err != nil {
		chart.Err = apperrors.NewRenderError(fmt.Sprintf("failed to render %s", name), err).
			WithContext("chart", name)
		if errors.Is(err, ErrNoData) {
			r.logger.WarnContext(ctx, "chart skipped",
				slog.String("chart", name),
				slog.String("reason", err.Error()))
		} else {
			infrastructure.WithError(r.logger, err).ErrorContext(ctx, "chart render failed",
				slog.String("chart", name))
		}
		return chart, chart.Err
	}

	chart.PNG = png
	r.logger.DebugContext(ctx, "chart rendered",
		slog.String("chart", name),
		slog.Int("bytes", len(png)),
		slog.Duration("duration", time.Since(start)))
	return chart, nil
}

func (r *Renderer) draw(ds *dataprocessing.Dataset, name string) (png []byte, err error) {
	defer capturePanic(&err)

	p, err := build(ds, name, r.opts)
	if err != nil {
		return nil, err
	}
	return r.encode(p)
}

// encode writes p as a PNG of the configured size.
func (r *Renderer) encode(p *plot.Plot) (png []byte, err error) {
	defer capturePanic(&err)

	writer, err := p.WriterTo(vg.Length(r.opts.Width)*vg.Inch, vg.Length(r.opts.Height)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write plot: %w", err)
	}
	return buf.Bytes(), nil
}

// capturePanic turns a panic raised by the plotting library into an error
// wrapping ErrRenderPanic.
func capturePanic(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("%w: %v", ErrRenderPanic, rec)
	}
}
