package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"tmdbreport/internal/config"
	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/infrastructure"
	customMiddleware "tmdbreport/internal/middleware"
	"tmdbreport/internal/services"
	handlers "tmdbreport/internal/transport/http"
	"tmdbreport/pkg/contracts"
)

// Application is the explorer server container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	MovieService  *services.MovieService
	HealthService *services.HealthService

	errorHandler *apperrors.ErrorHandler
	listener     net.Listener
	serveErr     chan error
}

// NewApplication builds the explorer around a prepared dataset.
func NewApplication(p *Pipeline, ds *dataprocessing.Dataset) (*Application, error) {
	movieService, err := services.NewMovieService(ds, p.Renderer(), p.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize movie service: %w", err)
	}

	app := &Application{
		Config:        p.Config,
		Logger:        p.Logger,
		OTelProviders: p.Providers,
		MovieService:  movieService,
		HealthService: services.NewHealthService(contracts.Version, p.Paths.InputFile, movieService, p.Logger),
		errorHandler:  apperrors.NewErrorHandler(p.Logger, false),
	}

	if err := app.setupRouter(); err != nil {
		return nil, err
	}
	app.createServer()
	return app, nil
}

func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		rl := a.Config.Security.RateLimit
		if rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.errorHandler).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		a.setupHTMLRoutes(r)
		a.setupAPIRoutes(r)
	})

	a.Router = r
	return nil
}

func (a *Application) setupHTMLRoutes(r chi.Router) {
	charts := handlers.NewChartHandler(a.MovieService, a.Config.Report.Title,
		contracts.GetVersionString(), a.Logger, a.errorHandler)
	r.Get("/", charts.Index)
	r.Get("/charts/{name}.png", charts.ChartPNG)
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	movieHandler := handlers.NewMovieHandler(a.MovieService, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/summary", movieHandler.GetSummary)
		r.Mount("/movies", movieHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.ListenAddr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start binds the listen address and serves in the background.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	a.serveErr = make(chan error, 1)

	go func() {
		defer close(a.serveErr)
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serveErr <- err
		}
	}()

	a.Logger.InfoContext(ctx, "explorer started",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("version", contracts.Version),
		slog.Bool("rate_limit", a.Config.Security.RateLimit.Enabled))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Stop shuts the server down, waiting at most the configured shutdown
// timeout for in-flight requests.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down explorer")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "explorer shutdown complete")
	return nil
}

// Run serves until ctx is done, SIGINT or SIGTERM arrives, or the server
// fails, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "shutdown requested")
	case err := <-a.serveErr:
		if err != nil {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			return err
		}
	}

	return a.Stop(context.WithoutCancel(ctx))
}
