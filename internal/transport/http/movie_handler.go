package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "tmdbreport/internal/errors"
	mw "tmdbreport/internal/middleware"
)

// Query parameter rules for the movie endpoints.
const (
	rankByRule = "oneof=popularity vote_average"
	topNRule   = "min=1,max=500"
	binsRule   = "min=1,max=100"
)

// MovieHandler serves the JSON views of the dataset with RFC 7807 errors
type MovieHandler struct {
	service      MovieServiceInterface
	validator    *mw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(service MovieServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MovieHandler {
	return &MovieHandler{
		service:      service,
		validator:    mw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "movie_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the movie routes, mounted under /api/movies
func (h *MovieHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/top", h.GetTop)
	r.Get("/per-year", h.GetPerYear)
	r.Get("/histogram", h.GetHistogram)
	return r
}

// GetTop handles GET /api/movies/top?by=popularity&n=10
func (h *MovieHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	by, ok := h.validator.String(w, r, "by", rankByRule, "popularity")
	if !ok {
		return
	}
	n, ok := h.validator.Int(w, r, "n", topNRule, 0)
	if !ok {
		return
	}

	movies, err := h.service.Top(r.Context(), by, n)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to rank movies",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("by", by))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"by":     by,
		"count":  len(movies),
		"movies": movies,
	})
}

// GetPerYear handles GET /api/movies/per-year
func (h *MovieHandler) GetPerYear(w http.ResponseWriter, r *http.Request) {
	counts := h.service.PerYear(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"years": counts,
	})
}

// GetHistogram handles GET /api/movies/histogram?bins=20
func (h *MovieHandler) GetHistogram(w http.ResponseWriter, r *http.Request) {
	bins, ok := h.validator.Int(w, r, "bins", binsRule, 0)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"bins": h.service.Histogram(r.Context(), bins),
	})
}

// GetSummary handles GET /api/summary
func (h *MovieHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Summary(r.Context()))
}
