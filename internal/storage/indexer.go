package storage

import (
	"context"

	"github.com/google/uuid"
)

// Indexer persists accepted records. Saving a document whose schema and
// record key already exist replaces the stored record.
type Indexer interface {
	Save(ctx context.Context, doc Document) (uuid.UUID, error)
	SaveBulk(ctx context.Context, docs []Document) error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
	None  Type = "none"
)

// Types lists every supported storage backend.
var Types = []Type{ES, PG, InMem, None}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
