package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/factory"
)

type AppConfig struct {
	// CatalogDir holds the schema and mapping documents served by the API
	CatalogDir string
	Workers    int
	factory.StorageConfig
}

func LoadAppConfig() (*AppConfig, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	dir := os.Getenv("CATALOG_DIR")
	if dir == "" {
		dir = "schemas"
	}

	workers, err := strconv.Atoi(os.Getenv("WORKERS"))
	if err != nil || workers <= 0 {
		workers = 4
	}

	return &AppConfig{
		CatalogDir:    dir,
		Workers:       workers,
		StorageConfig: *storageCfg,
	}, nil
}
