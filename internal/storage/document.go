package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// Document is a record accepted by a run, ready to be persisted.
type Document struct {
	ID         uuid.UUID     `json:"id"`
	Schema     string        `json:"schema"`
	RecordKey  string        `json:"record_key"`
	RunID      uuid.UUID     `json:"run_id"`
	Record     record.Record `json:"record"`
	ImportedAt time.Time     `json:"imported_at"`
}

// Prepare fills the generated fields of a document that has none yet.
func (d *Document) Prepare(now time.Time) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.RecordKey == "" {
		d.RecordKey = d.ID.String()
	}
	if d.ImportedAt.IsZero() {
		d.ImportedAt = now
	}
}
