package in_mem

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
)

type key struct {
	schema    string
	recordKey string
}

// InMemIndexer keeps documents in memory, keyed by schema and record key.
type InMemIndexer struct {
	storageLock sync.RWMutex
	storage     map[key]storage.Document
}

func NewInMemIndexer() *InMemIndexer {
	return &InMemIndexer{
		storage: make(map[key]storage.Document),
	}
}

func (s *InMemIndexer) Save(ctx context.Context, doc storage.Document) (uuid.UUID, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	return s.put(doc, time.Now()), nil
}

func (s *InMemIndexer) SaveBulk(ctx context.Context, docs []storage.Document) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	now := time.Now()
	for _, doc := range docs {
		s.put(doc, now)
	}
	slog.Debug("Saved documents to in-memory storage", "count", len(docs))
	return nil
}

func (s *InMemIndexer) put(doc storage.Document, now time.Time) uuid.UUID {
	doc.Prepare(now)
	k := key{schema: doc.Schema, recordKey: doc.RecordKey}
	if prev, ok := s.storage[k]; ok {
		doc.ID = prev.ID
	}
	doc.Record = doc.Record.Clone()
	s.storage[k] = doc
	return doc.ID
}

// Get returns the stored document for a schema and record key.
func (s *InMemIndexer) Get(schema, recordKey string) (storage.Document, bool) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	doc, ok := s.storage[key{schema: schema, recordKey: recordKey}]
	return doc, ok
}

func (s *InMemIndexer) Len() int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	return len(s.storage)
}

// NoopIndexer discards every document; used for runs that only report.
type NoopIndexer struct{}

func (NoopIndexer) Save(ctx context.Context, doc storage.Document) (uuid.UUID, error) {
	doc.Prepare(time.Now())
	return doc.ID, nil
}

func (NoopIndexer) SaveBulk(ctx context.Context, docs []storage.Document) error { return nil }
