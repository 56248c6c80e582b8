// Package app assembles the dashboard server: configuration, logger,
// pipeline services and the HTTP router, with graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salescli/internal/cache"
	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
	"salescli/internal/metrics"
	"salescli/internal/middleware"
	"salescli/internal/report"
	"salescli/internal/services"
	"salescli/internal/sheets"
	transport "salescli/internal/transport/http"
	"salescli/pkg/contracts"
	"salescli/pkg/contracts/domain"
)

// Application is the dependency container for the dashboard server.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Dashboard *services.DashboardService
}

// NewApplication wires the application from configuration. Caches and asset
// stores are constructed once here and injected into their consumers; no
// package-level singletons.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	logger.Info("application starting",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version),
		slog.String("tab", cfg.Source.TabName),
		slog.Duration("cache_ttl", cfg.Cache.TTL))

	sheetClient := sheets.NewClient(logger)
	normalizer := dataprocessing.NewNormalizer(logger)
	datasetCache := cache.NewDatasetCache(
		newDatasetLoader(sheetClient, normalizer),
		cfg.Cache.TTL,
		logger,
	)

	assets := report.NewAssets(cfg.Branding.LogoPath, cfg.Branding.FontDir, logger)
	builder := report.NewBuilder(report.DefaultBranding(), assets, logger)
	xlsxWriter := exporter.NewXLSXWriter(logger)

	key := cache.Key{SheetID: cfg.Source.SheetID, TabName: cfg.Source.TabName}
	dashboard := services.NewDashboardService(datasetCache, key, builder, xlsxWriter, logger)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Dashboard: dashboard,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// newDatasetLoader composes fetch-and-normalize into the cache loader and
// feeds the pipeline counters.
func newDatasetLoader(client *sheets.Client, normalizer *dataprocessing.Normalizer) cache.Loader {
	return func(ctx context.Context, key cache.Key) (domain.Dataset, error) {
		raw, err := client.Fetch(ctx, key.SheetID, key.TabName)
		if err != nil {
			metrics.DatasetRefreshes.WithLabelValues("error").Inc()
			return domain.Dataset{}, err
		}

		dataset, err := normalizer.Normalize(raw)
		if err != nil {
			metrics.DatasetRefreshes.WithLabelValues("error").Inc()
			return domain.Dataset{}, err
		}

		metrics.DatasetRefreshes.WithLabelValues("success").Inc()
		metrics.RowsLoaded.Add(float64(dataset.LoadedRows))
		metrics.RowsDropped.Add(float64(dataset.DroppedRows))
		return dataset, nil
	}
}

func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(a.Logger))
	r.Use(middleware.Recoverer(a.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Compress(5))

	rateLimiter := middleware.NewRateLimiter(
		a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst, a.Logger)

	sessions := transport.NewSessionStore(a.Config.Auth.SessionTTL)
	authHandler := transport.NewAuthHandler(a.Config.Auth.Password, sessions, a.Logger)
	dashboardHandler := transport.NewDashboardHandler(a.Dashboard, a.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]interface{}{
			"status":  "ok",
			"version": contracts.GetVersionInfo(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)
		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(authHandler.RequireSession)
			r.Mount("/", dashboardHandler.Routes())
		})
	})

	return r
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	a.Logger.Info("server stopped")
	return nil
}
