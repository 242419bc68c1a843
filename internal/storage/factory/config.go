package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/es"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/pg"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/utils"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
}

// LoadEnv reads the storage backend from STORAGE_TYPE. An unset value
// selects "none", so a run only produces its report.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Info("STORAGE_TYPE is not set, accepted records will not be persisted")
		storageType = storage.None
	}
	if !slices.Contains(storage.Types, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses:  utils.SplitNonEmpty(os.Getenv("ES_ADDRESSES"), ","),
			IndexName:  os.Getenv("ES_INDEX_NAME"),
			Username:   os.Getenv("ES_USERNAME"),
			Password:   os.Getenv("ES_PASSWORD"),
			APIKey:     os.Getenv("ES_API_KEY"),
			MaxRetries: intEnv("ES_MAX_RETRIES", 3),
		}
		if len(cfg.Es.Addresses) == 0 || cfg.Es.IndexName == "" {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses, "indexName", cfg.Es.IndexName)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
		}
	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr:  os.Getenv("PG_CONNECTION_STRING"),
			MaxConns: int32(intEnv("PG_MAX_CONNS", 0)),
			MinConns: int32(intEnv("PG_MIN_CONNS", 0)),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	return cfg, nil
}

func intEnv(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
