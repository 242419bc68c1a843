package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/factory"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type ImportConfig struct {
	SchemaPath string
	// MappingPath and TargetSchemaPath are both set or both empty
	MappingPath      string
	TargetSchemaPath string

	DatasetPath   string
	DatasetFormat string
	ListSeparator string

	RecordIDField string
	StrictUnknown bool
	Workers       int
	MaxRejected   int

	ReportPath   string
	RejectedPath string
	MappedPath   string

	LogLevel    slog.Level
	BulkOptions *struct {
		Enabled bool
		Size    int
	}
	factory.StorageConfig
}

func (as *AppConfig) Load() (*ImportConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/metadata_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	schemaPath := os.Getenv("SCHEMA_PATH")
	if schemaPath == "" {
		slog.Error("SCHEMA_PATH environment variable is not set")
		return nil, fmt.Errorf("SCHEMA_PATH environment variable is not set")
	}

	dsPath := os.Getenv("DATASET_PATH")
	if dsPath == "" {
		slog.Error("DATASET_PATH environment variable is not set")
		return nil, fmt.Errorf("DATASET_PATH environment variable is not set")
	}

	mappingPath := os.Getenv("MAPPING_PATH")
	targetPath := os.Getenv("TARGET_SCHEMA_PATH")
	if (mappingPath == "") != (targetPath == "") {
		return nil, fmt.Errorf("MAPPING_PATH and TARGET_SCHEMA_PATH must be set together")
	}

	workers, err := strconv.Atoi(os.Getenv("WORKERS"))
	if err != nil || workers <= 0 {
		workers = 4
	}

	maxRejected, err := strconv.Atoi(os.Getenv("MAX_REJECTED"))
	if err != nil || maxRejected < 0 {
		maxRejected = 0
	}

	bulkSize, err := strconv.Atoi(os.Getenv("BULK_SIZE"))
	if err != nil {
		bulkSize = 1_000
	}

	cfg := &ImportConfig{
		SchemaPath:       schemaPath,
		MappingPath:      mappingPath,
		TargetSchemaPath: targetPath,
		DatasetPath:      dsPath,
		DatasetFormat:    os.Getenv("DATASET_FORMAT"),
		ListSeparator:    os.Getenv("LIST_SEPARATOR"),
		RecordIDField:    os.Getenv("RECORD_ID_FIELD"),
		StrictUnknown:    os.Getenv("STRICT_UNKNOWN_FIELDS") == "true",
		Workers:          workers,
		MaxRejected:      maxRejected,
		ReportPath:       os.Getenv("REPORT_PATH"),
		RejectedPath:     os.Getenv("REJECTED_PATH"),
		MappedPath:       os.Getenv("MAPPED_PATH"),
		LogLevel:         parseLevel(os.Getenv("LOG_LEVEL")),
		BulkOptions: &struct {
			Enabled bool
			Size    int
		}{
			Enabled: os.Getenv("BULK_ENABLED") == "true",
			Size:    bulkSize,
		},
		StorageConfig: *storageCfg,
	}

	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
