package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"tmdbreport/internal/config"
	"tmdbreport/internal/shared/testutil"
	"tmdbreport/pkg/contracts/domain"
)

func TestInitializeOTel_Defaults(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(nil, logger)
	require.NoError(t, err)

	// default telemetry: no tracing, prometheus metrics
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	cfg := OTelConfigFrom(config.Default().Telemetry)
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &buf
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	assert.Nil(t, providers.PrometheusHTTP)

	ctx, span := StartSpan(context.Background(), providers.Tracer, "dataset.load")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("missing columns"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "dataset.load")
	assert.Contains(t, buf.String(), "missing columns")
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := OTelConfigFrom(config.Default().Telemetry)
	cfg.TraceExporter = "zipkin"

	_, err := InitializeOTel(cfg, nil)
	assert.Error(t, err)
}

func TestInitializeOTel_IndependentRegistries(t *testing.T) {
	// Each call owns its registry, so repeated initialization must not
	// fail with duplicate registration.
	for i := 0; i < 2; i++ {
		p, err := InitializeOTel(nil, nil)
		require.NoError(t, err)
		require.NoError(t, p.Shutdown(context.Background()))
	}
}

func TestNoopProviders(t *testing.T) {
	p := NoopProviders(nil)

	ctx, span := StartSpan(context.Background(), p.Tracer, "noop")
	span.End()
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.NoError(t, p.Shutdown(context.Background()))

	m, err := NewPipelineMetrics(p.Meter)
	require.NoError(t, err)
	m.RecordLoad(ctx, domain.LoadStats{RowsRead: 1})
}

func collectSums(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if s, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func TestPipelineMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	m, err := NewPipelineMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordLoad(ctx, domain.LoadStats{RowsRead: 6, Retained: 5, Dropped: 1, UnparsableDates: 1})
	m.RecordChart(ctx, "top-popular", 10*time.Millisecond, nil)
	m.RecordChart(ctx, "per-year", time.Millisecond, errors.New("no data"))
	m.RecordArtifact(ctx, "report")

	sums := collectSums(t, reader)
	assert.Equal(t, int64(6), sums["movies_rows_read_total"])
	assert.Equal(t, int64(5), sums["movies_retained_total"])
	assert.Equal(t, int64(1), sums["movies_dropped_total"])
	assert.Equal(t, int64(1), sums["movies_unparsable_dates_total"])
	assert.Equal(t, int64(2), sums["charts_rendered_total"])
	assert.Equal(t, int64(1), sums["artifacts_written_total"])

	var nilMetrics *PipelineMetrics
	nilMetrics.RecordLoad(ctx, domain.LoadStats{})
	nilMetrics.RecordChart(ctx, "x", 0, nil)
	nilMetrics.RecordArtifact(ctx, "x")
}

func TestPrometheusEndpointExposesPipelineMetrics(t *testing.T) {
	providers, err := InitializeOTel(nil, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	m, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)
	m.RecordLoad(context.Background(), domain.LoadStats{RowsRead: 4, Retained: 3, Dropped: 1})

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "movies_rows_read_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	m, err := NewHTTPMetrics(meter)
	require.NoError(t, err)

	m.RequestsTotal.Add(context.Background(), 3)
	assert.Equal(t, int64(3), collectSums(t, reader)["http_requests_total"])
}
