package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_PATH", t.TempDir()+"/missing.env")
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("SCHEMA_PATH", "schemas/relecov.yaml")
	t.Setenv("DATASET_PATH", "samples.csv")
	t.Setenv("MAPPING_PATH", "")
	t.Setenv("TARGET_SCHEMA_PATH", "")
	t.Setenv("WORKERS", "")
	t.Setenv("MAX_REJECTED", "")
	t.Setenv("BULK_ENABLED", "")
	t.Setenv("BULK_SIZE", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := (&AppConfig{ENV: "test"}).Load()
	require.NoError(t, err)

	assert.Equal(t, storage.None, cfg.StorageConfig.Type)
	assert.Equal(t, 4, cfg.Workers)
	assert.Zero(t, cfg.MaxRejected)
	assert.False(t, cfg.BulkOptions.Enabled)
	assert.Equal(t, 1_000, cfg.BulkOptions.Size)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAPPING_PATH", "schemas/relecov-to-ena.yaml")
	t.Setenv("TARGET_SCHEMA_PATH", "schemas/ena.yaml")
	t.Setenv("WORKERS", "8")
	t.Setenv("MAX_REJECTED", "3")
	t.Setenv("BULK_ENABLED", "true")
	t.Setenv("BULK_SIZE", "250")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STRICT_UNKNOWN_FIELDS", "true")

	cfg, err := (&AppConfig{ENV: "test"}).Load()
	require.NoError(t, err)

	assert.Equal(t, "schemas/ena.yaml", cfg.TargetSchemaPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRejected)
	assert.True(t, cfg.BulkOptions.Enabled)
	assert.Equal(t, 250, cfg.BulkOptions.Size)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.StrictUnknown)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing schema", env: map[string]string{"SCHEMA_PATH": ""}},
		{name: "missing dataset", env: map[string]string{"DATASET_PATH": ""}},
		{name: "mapping without target", env: map[string]string{"MAPPING_PATH": "m.yaml"}},
		{name: "bad storage type", env: map[string]string{"STORAGE_TYPE": "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := (&AppConfig{ENV: "test"}).Load()
			assert.Error(t, err)
		})
	}
}
