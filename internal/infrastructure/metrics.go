package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"tmdbreport/pkg/contracts/domain"
)

// PipelineMetrics counts what the dataset pipeline does.
type PipelineMetrics struct {
	RowsRead         metric.Int64Counter
	Retained         metric.Int64Counter
	Dropped          metric.Int64Counter
	UnparsableDates  metric.Int64Counter
	ChartsRendered   metric.Int64Counter
	ChartDuration    metric.Float64Histogram
	ArtifactsWritten metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.RowsRead, err = meter.Int64Counter(
		"movies_rows_read_total",
		metric.WithDescription("Data rows read from the movie dataset"),
	); err != nil {
		return nil, err
	}
	if m.Retained, err = meter.Int64Counter(
		"movies_retained_total",
		metric.WithDescription("Rows kept after dropping incomplete records"),
	); err != nil {
		return nil, err
	}
	if m.Dropped, err = meter.Int64Counter(
		"movies_dropped_total",
		metric.WithDescription("Rows dropped for a missing title, rating or release date"),
	); err != nil {
		return nil, err
	}
	if m.UnparsableDates, err = meter.Int64Counter(
		"movies_unparsable_dates_total",
		metric.WithDescription("Retained rows whose release date could not be parsed"),
	); err != nil {
		return nil, err
	}
	if m.ChartsRendered, err = meter.Int64Counter(
		"charts_rendered_total",
		metric.WithDescription("Charts rendered, by chart and outcome"),
	); err != nil {
		return nil, err
	}
	if m.ChartDuration, err = meter.Float64Histogram(
		"chart_render_duration_seconds",
		metric.WithDescription("Chart rendering duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.ArtifactsWritten, err = meter.Int64Counter(
		"artifacts_written_total",
		metric.WithDescription("Report and export files written, by kind"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordLoad adds one dataset preparation to the counters.
func (m *PipelineMetrics) RecordLoad(ctx context.Context, stats domain.LoadStats) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(stats.RowsRead))
	m.Retained.Add(ctx, int64(stats.Retained))
	m.Dropped.Add(ctx, int64(stats.Dropped))
	m.UnparsableDates.Add(ctx, int64(stats.UnparsableDates))
}

// RecordChart records one chart rendering attempt.
func (m *PipelineMetrics) RecordChart(ctx context.Context, chart string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("chart", chart),
		attribute.String("status", status),
	)
	m.ChartsRendered.Add(ctx, 1, attrs)
	m.ChartDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordArtifact counts one written output file.
func (m *PipelineMetrics) RecordArtifact(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.ArtifactsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// HTTPMetrics instruments the explorer server.
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics registers the HTTP instruments on meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		RequestsTotal:   requests,
		RequestDuration: duration,
		ActiveRequests:  active,
	}, nil
}
