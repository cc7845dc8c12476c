package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"tmdbreport/pkg/contracts/domain"
)

// HealthStatus represents the health status of the explorer
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    float64           `json:"uptime_seconds"`
	Input     string            `json:"input,omitempty"`
	Dataset   *domain.LoadStats `json:"dataset,omitempty"`
	Runtime   map[string]any    `json:"runtime,omitempty"`
}

// StatsSource provides the load statistics of the served dataset.
type StatsSource interface {
	Stats() domain.LoadStats
}

// HealthService reports process and dataset health.
type HealthService struct {
	version   string
	input     string
	stats     StatsSource
	startTime time.Time
	logger    *slog.Logger
	now       func() time.Time
}

// NewHealthService creates a new health service. stats may be nil.
func NewHealthService(version, input string, stats StatsSource, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("input", input))

	return &HealthService{
		version:   version,
		input:     input,
		stats:     stats,
		startTime: time.Now(),
		logger:    logger,
		now:       time.Now,
	}
}

// HealthCheck returns overall health status. The status is "degraded"
// when the dataset retained no movies.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	now := hs.now()
	status := HealthStatus{
		Status:    "ok",
		Timestamp: now,
		Version:   hs.version,
		Uptime:    now.Sub(hs.startTime).Seconds(),
		Input:     hs.input,
		Runtime: map[string]any{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}

	if hs.stats != nil {
		st := hs.stats.Stats()
		status.Dataset = &st
		if st.Retained == 0 {
			status.Status = "degraded"
		}
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.Float64("uptime", status.Uptime))

	return status
}
