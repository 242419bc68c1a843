package es

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
)

type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	idx := &Indexer{
		client:    client,
		indexName: config.IndexName,
	}

	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

func (e *Indexer) Save(ctx context.Context, doc storage.Document) (uuid.UUID, error) {
	doc.Prepare(time.Now())
	body := toSampleDocument(doc, time.Now())

	res, err := e.client.Index(e.indexName).Id(documentID(doc)).Document(body).Do(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to index document: %w", err)
	}

	slog.Debug("document indexed", "id", res.Id_, "index", e.indexName, "result", res.Result)
	return doc.ID, nil
}

func (e *Indexer) SaveBulk(ctx context.Context, docs []storage.Document) error {
	if len(docs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    4,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := time.Now()

	for _, doc := range docs {
		doc.Prepare(now)
		id := documentID(doc)

		body, err := json.Marshal(toSampleDocument(doc, now))
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "id", id)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(body),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", id)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(docs),
		"index", e.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d documents", n, len(docs))
	}
	return nil
}

func (e *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	mappings := buildMapping()
	res, err := e.client.Indices.Create(e.indexName).Mappings(&mappings).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

// Healthy pings the cluster.
func (e *Indexer) Healthy(ctx context.Context) bool {
	ok, err := e.client.Ping().Do(ctx)
	return err == nil && ok
}
