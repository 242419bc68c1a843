package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/es"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/pg"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/server"
)

// Backend is a ready indexer plus its health check and cleanup.
type Backend struct {
	Indexer storage.Indexer
	Health  server.HealthChecker
	Close   func()
}

// NewIndexer creates the indexer selected by cfg.
func NewIndexer(ctx context.Context, cfg *StorageConfig) (*Backend, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		idx, err := pg.NewIndexer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{Indexer: idx, Health: pg.NewHealthChecker(pool), Close: pool.Close}, nil

	case storage.ES:
		idx, err := es.NewIndexer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return &Backend{Indexer: idx, Health: idx, Close: func() {}}, nil

	case storage.InMem:
		return &Backend{Indexer: in_mem.NewInMemIndexer(), Health: server.NewOkHealthChecker(), Close: func() {}}, nil

	case storage.None:
		return &Backend{Indexer: in_mem.NoopIndexer{}, Health: server.NewOkHealthChecker(), Close: func() {}}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
