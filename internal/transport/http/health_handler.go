package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	mw "tmdbreport/internal/middleware"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.HealthCheck(r.Context())
	if status.Status != "ok" {
		h.logger.WarnContext(r.Context(), "health degraded",
			slog.String("status", status.Status),
			slog.String("request_id", mw.GetRequestID(r.Context())))
	}
	render.JSON(w, r, status)
}
