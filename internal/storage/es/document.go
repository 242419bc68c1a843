package es

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
)

// SampleDocument is the indexed form of a storage.Document. The record body
// is stored as a flattened object so heterogeneous schemas share one index.
type SampleDocument struct {
	ID         string         `json:"id"`
	Schema     string         `json:"schema"`
	RecordKey  string         `json:"record_key"`
	RunID      string         `json:"run_id"`
	Record     map[string]any `json:"record"`
	ImportedAt time.Time      `json:"imported_at"`
	IndexedAt  time.Time      `json:"indexed_at"`
}

// documentID is deterministic so re-importing a record replaces it.
func documentID(doc storage.Document) string {
	return doc.Schema + ":" + doc.RecordKey
}

func toSampleDocument(doc storage.Document, now time.Time) SampleDocument {
	return SampleDocument{
		ID:         doc.ID.String(),
		Schema:     doc.Schema,
		RecordKey:  doc.RecordKey,
		RunID:      doc.RunID.String(),
		Record:     doc.Record.ToMap(),
		ImportedAt: doc.ImportedAt,
		IndexedAt:  now,
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"schema":      types.NewKeywordProperty(),
			"record_key":  types.NewKeywordProperty(),
			"run_id":      types.NewKeywordProperty(),
			"record":      types.NewFlattenedProperty(),
			"imported_at": types.NewDateProperty(),
			"indexed_at":  types.NewDateProperty(),
		},
	}
}
