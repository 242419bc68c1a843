package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/in_mem"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    storage.Type
		wantErr string
	}{
		{name: "unset", env: map[string]string{}, want: storage.None},
		{name: "in memory", env: map[string]string{"STORAGE_TYPE": "in_mem"}, want: storage.InMem},
		{name: "pg", env: map[string]string{"STORAGE_TYPE": "pg", "PG_CONNECTION_STRING": "postgres://x", "PG_MAX_CONNS": "8"}, want: storage.PG},
		{name: "pg without dsn", env: map[string]string{"STORAGE_TYPE": "pg"}, wantErr: "connection string"},
		{name: "es", env: map[string]string{"STORAGE_TYPE": "es", "ES_ADDRESSES": "http://a:9200, http://b:9200", "ES_INDEX_NAME": "samples"}, want: storage.ES},
		{name: "es without index", env: map[string]string{"STORAGE_TYPE": "es", "ES_ADDRESSES": "http://a:9200"}, wantErr: "incomplete"},
		{name: "unknown", env: map[string]string{"STORAGE_TYPE": "solr"}, wantErr: "invalid STORAGE_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"STORAGE_TYPE", "PG_CONNECTION_STRING", "PG_MAX_CONNS", "ES_ADDRESSES", "ES_INDEX_NAME", "ES_MAX_RETRIES"} {
				t.Setenv(k, tt.env[k])
			}

			cfg, err := LoadEnv()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Type)
			switch tt.want {
			case storage.ES:
				assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Es.Addresses)
				assert.Equal(t, 3, cfg.Es.MaxRetries)
			case storage.PG:
				assert.Equal(t, int32(8), cfg.Pg.MaxConns)
				assert.Zero(t, cfg.Pg.MinConns)
			}
		})
	}
}

func TestNewIndexer_InProcess(t *testing.T) {
	b, err := NewIndexer(t.Context(), &StorageConfig{Type: storage.InMem})
	require.NoError(t, err)
	defer b.Close()
	assert.IsType(t, &in_mem.InMemIndexer{}, b.Indexer)
	assert.True(t, b.Health.Healthy(t.Context()))

	b, err = NewIndexer(t.Context(), &StorageConfig{Type: storage.None})
	require.NoError(t, err)
	assert.IsType(t, in_mem.NoopIndexer{}, b.Indexer)

	_, err = NewIndexer(t.Context(), &StorageConfig{Type: "solr"})
	assert.Error(t, err)
}
