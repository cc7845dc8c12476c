package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "tmdbreport/internal/errors"
	mw "tmdbreport/internal/middleware"
	"tmdbreport/internal/report"
)

// ChartHandler serves the HTML explorer page and individual chart images
type ChartHandler struct {
	service      MovieServiceInterface
	title        string
	version      string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service MovieServiceInterface, title, version string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		title:        title,
		version:      version,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Index handles GET /
func (h *ChartHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context(), report.Meta{
		Title:   h.title,
		RunID:   mw.GetRequestID(r.Context()),
		Version: h.version,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render explorer page",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ChartPNG handles GET /charts/{name}.png
func (h *ChartHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, err := h.service.Chart(r.Context(), name)
	if err != nil {
		h.logger.WarnContext(r.Context(), "chart unavailable",
			slog.String("chart", name),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
