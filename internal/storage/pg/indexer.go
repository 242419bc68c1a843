package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
)

var sampleColumns = []string{"id", "schema_id", "record_key", "run_id", "record", "imported_at"}

const upsertSample = `
	INSERT INTO samples (id, schema_id, record_key, run_id, record, imported_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (schema_id, record_key) DO UPDATE
	SET run_id = EXCLUDED.run_id, record = EXCLUDED.record, imported_at = EXCLUDED.imported_at
	RETURNING id;
`

const upsertFromStaging = `
	INSERT INTO samples (id, schema_id, record_key, run_id, record, imported_at)
	SELECT id, schema_id, record_key, run_id, record, imported_at FROM samples_staging
	ON CONFLICT (schema_id, record_key) DO UPDATE
	SET run_id = EXCLUDED.run_id, record = EXCLUDED.record, imported_at = EXCLUDED.imported_at;
`

type Indexer struct {
	db *pgxpool.Pool
}

func NewIndexer(pool *ConnectionPool) (*Indexer, error) {
	return &Indexer{db: pool.conn}, nil
}

func (s *Indexer) Save(ctx context.Context, doc storage.Document) (uuid.UUID, error) {
	doc.Prepare(time.Now())

	recordJSON, err := json.Marshal(doc.Record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRow(
		ctx,
		upsertSample,
		doc.ID,
		doc.Schema,
		doc.RecordKey,
		doc.RunID,
		recordJSON,
		doc.ImportedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert sample: %w", err)
	}

	return id, nil
}

// SaveBulk copies the batch into a transaction-scoped staging table and
// upserts from there. Later documents win over earlier ones with the same key.
func (s *Indexer) SaveBulk(ctx context.Context, docs []storage.Document) error {
	if len(docs) == 0 {
		return nil
	}

	rows, err := stagingRows(docs, time.Now())
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `CREATE TEMP TABLE samples_staging (LIKE samples INCLUDING DEFAULTS) ON COMMIT DROP`); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"samples_staging"}, sampleColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("failed to bulk copy samples: %w", err)
	}

	if _, err := tx.Exec(ctx, upsertFromStaging); err != nil {
		return fmt.Errorf("failed to upsert staged samples: %w", err)
	}

	return tx.Commit(ctx)
}

func stagingRows(docs []storage.Document, now time.Time) ([][]any, error) {
	type docKey struct{ schema, recordKey string }

	pos := make(map[docKey]int, len(docs))
	rows := make([][]any, 0, len(docs))
	for i, d := range docs {
		d.Prepare(now)

		recordJSON, err := json.Marshal(d.Record)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record %d: %w", i, err)
		}
		row := []any{d.ID, d.Schema, d.RecordKey, d.RunID, recordJSON, d.ImportedAt}

		k := docKey{d.Schema, d.RecordKey}
		if at, ok := pos[k]; ok {
			rows[at] = row
			continue
		}
		pos[k] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}
