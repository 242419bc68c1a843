// Package main RELECOV Metadata API
// @title RELECOV Metadata API
// @version 1.0
// @description Validation and cross-schema mapping of pathogen sample metadata
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/DjordjeVuckovic/relecov-tools/docs"
	"github.com/DjordjeVuckovic/relecov-tools/internal/api/router"
	"github.com/DjordjeVuckovic/relecov-tools/internal/api/server"
	"github.com/DjordjeVuckovic/relecov-tools/internal/catalog"
	"github.com/DjordjeVuckovic/relecov-tools/internal/observability"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/relecov-tools/pkg/server"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	cfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.LoadDir(cfg.CatalogDir)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err, "dir", cfg.CatalogDir)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "schemas", cat.SchemaIDs(), "mappings", cat.MappingNames())

	// The API does not persist records; the backend only backs /health.
	backend, err := factory.NewIndexer(context.Background(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage backend", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewPromObserver(reg)

	health := pkgserver.All(
		backend.Health,
		pkgserver.HealthCheckerFunc(func(context.Context) bool { return len(cat.SchemaIDs()) > 0 }),
	)

	s := server.New(sCfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*").
		SetupMetrics("/metrics", reg)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "RELECOV Metadata API is running")
	})

	router.NewMetadataRouter(s.Echo, cat,
		router.WithWorkers(cfg.Workers),
		router.WithObserver(metrics),
	).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		backend.Close()
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
