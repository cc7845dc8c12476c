package http

import (
	"context"

	"tmdbreport/internal/report"
	"tmdbreport/internal/services"
	"tmdbreport/pkg/contracts/domain"
)

// MovieServiceInterface defines the queries the explorer serves
type MovieServiceInterface interface {
	Top(ctx context.Context, field string, n int) ([]domain.MovieView, error)
	PerYear(ctx context.Context) []domain.YearCount
	Histogram(ctx context.Context, bins int) []domain.HistogramBin
	Summary(ctx context.Context) services.SummaryView
	Chart(ctx context.Context, name string) ([]byte, error)
	Page(ctx context.Context, meta report.Meta) (report.Page, error)
}

// HealthServiceInterface defines the health query
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
}
