package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tmdbreport/internal/charts"
	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/report"
	"tmdbreport/pkg/contracts/domain"
)

// SummaryView is the JSON shape of the closing conclusions.
type SummaryView struct {
	domain.Summary
	Lines []string `json:"lines"`
}

// MovieService answers explorer queries against one prepared dataset.
// The dataset never changes, so rendered charts are cached after the
// first successful render.
type MovieService struct {
	ds       *dataprocessing.Dataset
	renderer *charts.Renderer
	logger   *slog.Logger
	topN     int

	mu       sync.Mutex
	rendered []charts.Chart
}

// NewMovieService creates a movie service over ds.
func NewMovieService(ds *dataprocessing.Dataset, renderer *charts.Renderer, logger *slog.Logger) (*MovieService, error) {
	if ds == nil {
		return nil, ErrDatasetMissing
	}
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = charts.NewRenderer(logger, charts.DefaultOptions(), nil, nil)
	}

	logger.Info("MovieService initialized",
		slog.Int("movies", ds.Len()),
		slog.Int("top_n", renderer.Options().TopN))

	return &MovieService{
		ds:       ds,
		renderer: renderer,
		logger:   logger.With(slog.String("service", "movies")),
		topN:     renderer.Options().TopN,
	}, nil
}

// Stats returns the load statistics of the dataset.
func (s *MovieService) Stats() domain.LoadStats {
	return s.ds.Stats()
}

// Top returns the n highest movies by field. A non-positive n uses the
// configured top-N.
func (s *MovieService) Top(ctx context.Context, field string, n int) ([]domain.MovieView, error) {
	rf, err := dataprocessing.ParseRankField(field)
	if err != nil {
		return nil, apperrors.NewAppValidationError("unsupported ranking field", errors.Join(ErrInvalidInput, err)).
			WithContext("field", field)
	}
	if n <= 0 {
		n = s.topN
	}

	movies, err := s.ds.RankBy(rf, n)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "ranked movies",
		slog.String("field", field),
		slog.Int("requested", n),
		slog.Int("returned", len(movies)))

	views := make([]domain.MovieView, len(movies))
	for i, m := range movies {
		views[i] = m.View()
	}
	return views, nil
}

// PerYear returns release counts per year in ascending year order.
func (s *MovieService) PerYear(ctx context.Context) []domain.YearCount {
	counts := s.ds.CountsPerYear()
	if counts == nil {
		counts = []domain.YearCount{}
	}
	return counts
}

// Histogram returns the rating distribution. A non-positive bins uses the
// renderer's configured bin count.
func (s *MovieService) Histogram(ctx context.Context, bins int) []domain.HistogramBin {
	if bins <= 0 {
		bins = s.renderer.Options().HistogramBins
	}
	hist := s.ds.RatingHistogram(bins)
	if hist == nil {
		hist = []domain.HistogramBin{}
	}
	return hist
}

// Summary returns the headline figures and their prose form.
func (s *MovieService) Summary(ctx context.Context) SummaryView {
	sum := s.ds.Summarize(s.topN)
	return SummaryView{Summary: sum, Lines: report.SummaryLines(sum)}
}

// Charts returns every chart in display order, rendering them on first use.
func (s *MovieService) Charts(ctx context.Context) ([]charts.Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rendered != nil {
		return s.rendered, nil
	}

	rendered, err := s.renderer.RenderAll(ctx, s.ds)
	if err != nil {
		return nil, err
	}
	s.rendered = rendered
	s.logger.InfoContext(ctx, "charts cached", slog.Int("charts", len(rendered)))
	return rendered, nil
}

// Chart returns the PNG bytes of one chart.
func (s *MovieService) Chart(ctx context.Context, name string) ([]byte, error) {
	if !charts.Known(name) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("chart %q", name)).
			WithContext("chart", name)
	}

	all, err := s.Charts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Name != name {
			continue
		}
		if c.Err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound,
				fmt.Sprintf("chart %q has nothing to plot", name), errors.Join(ErrChartNoData, c.Err)).
				WithContext("chart", name)
		}
		return c.PNG, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("chart %q", name))
}

// Page assembles the HTML explorer page.
func (s *MovieService) Page(ctx context.Context, meta report.Meta) (report.Page, error) {
	all, err := s.Charts(ctx)
	if err != nil {
		return report.Page{}, err
	}
	return report.NewPage(meta, all, s.ds.Summarize(s.topN)), nil
}
