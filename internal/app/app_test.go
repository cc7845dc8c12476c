package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
	"tmdbreport/internal/shared/testutil"
)

func newTestApplication(t *testing.T, configure func(*Pipeline)) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "tmdbreport-test",
		TraceExporter: "none",
		EnableMetrics: true,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	p := newTestPipeline(t, providers)
	if configure != nil {
		configure(p)
	}

	ds, err := p.Prepare(context.Background())
	require.NoError(t, err)

	a, err := NewApplication(p, ds)
	require.NoError(t, err)
	return a
}

func get(a *Application, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApplication(t, nil)

	tests := []struct {
		target      string
		wantStatus  int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/charts/rating_distribution.png", http.StatusOK, "image/png"},
		{"/api/health", http.StatusOK, "application/json"},
		{"/api/summary", http.StatusOK, "application/json"},
		{"/api/movies/top?by=vote_average&n=2", http.StatusOK, "application/json"},
		{"/api/movies/per-year", http.StatusOK, "application/json"},
		{"/api/movies/histogram?bins=5", http.StatusOK, "application/json"},
		{"/metrics", http.StatusOK, "text/plain"},
		{"/charts/pie.png", http.StatusNotFound, "application/json"},
		{"/api/movies/top?by=budget", http.StatusBadRequest, "application/json"},
		{"/nowhere", http.StatusNotFound, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(a, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestApplication_TopMovies(t *testing.T) {
	a := newTestApplication(t, nil)

	rec := get(a, "/api/movies/top?by=vote_average&n=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		By     string `json:"by"`
		Movies []struct {
			Title       string `json:"title"`
			ReleaseYear *int   `json:"release_year"`
		} `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "vote_average", body.By)
	require.Len(t, body.Movies, 2)
	assert.Equal(t, "Beta", body.Movies[0].Title)
	assert.Equal(t, "Alpha", body.Movies[1].Title)
	require.NotNil(t, body.Movies[0].ReleaseYear)
	assert.Equal(t, 1999, *body.Movies[0].ReleaseYear)
}

func TestApplication_IndexPage(t *testing.T) {
	a := newTestApplication(t, nil)

	rec := get(a, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Find("section.chart").Length())
	assert.Equal(t, 6, doc.Find("section.chart img").Length())
	assert.Equal(t, rec.Header().Get("X-Request-ID"), doc.Find("code.run-id").Text())
}

func TestApplication_MethodNotAllowed(t *testing.T) {
	a := newTestApplication(t, nil)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApplication_MetricsExposeRequests(t *testing.T) {
	a := newTestApplication(t, nil)

	get(a, "/api/health")
	get(a, "/api/movies/per-year")

	rec := get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests")
	assert.Contains(t, body, "movies_rows_read")
}

func TestApplication_RateLimit(t *testing.T) {
	a := newTestApplication(t, func(p *Pipeline) {
		p.Config.Security.RateLimit.Enabled = true
		p.Config.Security.RateLimit.RPS = 0.001
		p.Config.Security.RateLimit.Burst = 1
	})

	assert.Equal(t, http.StatusOK, get(a, "/api/health").Code)

	rec := get(a, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeRateLimit)

	// /metrics is not rate limited.
	assert.Equal(t, http.StatusOK, get(a, "/metrics").Code)
}

func TestApplication_StartStop(t *testing.T) {
	a := newTestApplication(t, nil)
	ctx := context.Background()

	require.NoError(t, a.Start(ctx))
	assert.False(t, strings.HasSuffix(a.Addr(), ":0"))

	resp, err := http.Get("http://" + a.Addr() + "/api/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	require.NoError(t, a.Stop(ctx))

	_, err = http.Get("http://" + a.Addr() + "/api/health")
	assert.Error(t, err)
}

func TestApplication_RunStopsWhenContextDone(t *testing.T) {
	a := newTestApplication(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
}

func TestApplication_StartFailsOnBusyAddress(t *testing.T) {
	first := newTestApplication(t, nil)
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second := newTestApplication(t, nil)
	second.Server.Addr = first.Addr()
	assert.Error(t, second.Start(context.Background()))
}
