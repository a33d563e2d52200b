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
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"gddpanel/internal/config"
	apierrors "gddpanel/internal/errors"
	"gddpanel/internal/infrastructure"
	customMiddleware "gddpanel/internal/middleware"
	"gddpanel/internal/services"
	handlers "gddpanel/internal/transport/http"
	"gddpanel/pkg/contracts"
)

// Application represents the report server container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	HealthService *services.HealthService
	ReportService *services.ReportService
}

// NewApplication loads configuration from the environment, initializes
// logging and telemetry, and wires the report server.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	rt, err := Bootstrap(cfg)
	if err != nil {
		return nil, err
	}

	return New(rt.Config, rt.Logger, rt.OTel)
}

// New wires an Application from already initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, otelProviders *infrastructure.OTelProviders) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	paths.LogPathResolution(logger)

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, err
	}

	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.HealthService = services.NewHealthService(contracts.Version, a.Paths, a.Logger)
	a.ReportService = services.NewReportService(a.Paths, a.Config.Analysis, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	var groupErr error
	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → RateLimit
		if a.OTelProviders != nil {
			otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
			if err != nil {
				groupErr = fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
				return
			}
			r.Use(otelMiddleware.Handler)
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(errorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if rl := a.Config.Server.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, errorHandler).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})
	if groupErr != nil {
		return groupErr
	}

	// Prometheus scrape endpoint stays outside the throttled group
	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		reportHandler := handlers.NewReportHandler(a.ReportService, a.Logger, errorHandler)
		r.Mount("/v1", reportHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run listens on the configured port and serves until ctx is cancelled or
// the process receives SIGINT or SIGTERM.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	panel := a.HealthService.Panel(ctx)
	a.Logger.InfoContext(ctx, "Starting report server",
		slog.String("version", contracts.Version),
		slog.String("address", ln.Addr().String()),
		slog.Bool("panel_exists", panel.Exists),
		slog.String("panel", panel.Path))
	if !panel.Exists {
		a.Logger.WarnContext(ctx, "Panel artifact not found; report endpoints answer 404 until ingestion runs")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop drains in-flight requests and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down report server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Report server shutdown complete")
	return nil
}
