package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
	"github.com/DjordjeVuckovic/relecov-tools/internal/collector"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage"
)

const defaultBatchSize = 1000

// Pipeline defines the interface for metadata import pipelines
type Pipeline interface {
	// Run collects, checks and persists one input and reports the outcome
	Run(ctx context.Context) (*batch.Report, error)

	// Stop releases the pipeline's resources
	Stop()
}

// BulkOptions defines bulk persistence configuration
type BulkOptions struct {
	Enabled bool
	Size    int
}

// PipelineConfig defines configuration for pipelines
type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
	// RequireSuccess skips persistence when the run is not successful.
	RequireSuccess bool
}

// MetadataPipeline reads sample records, runs them through validation and
// mapping, and stores the accepted ones.
type MetadataPipeline struct {
	collector    collector.Collector[record.Record]
	orchestrator *batch.Orchestrator
	indexer      storage.Indexer
	config       *PipelineConfig
	inputs       []record.Record
}

type PipelineOption func(pipeline *MetadataPipeline)

// WithBulk configures bulk persistence with specified batch size
func WithBulk(size int) PipelineOption {
	return func(pipeline *MetadataPipeline) {
		if pipeline.config.Bulk == nil {
			pipeline.config.Bulk = &BulkOptions{}
		}
		pipeline.config.Bulk.Enabled = true
		if size > 0 {
			pipeline.config.Bulk.Size = size
		}
	}
}

// WithConfig sets custom pipeline configuration
func WithConfig(config *PipelineConfig) PipelineOption {
	return func(pipeline *MetadataPipeline) {
		pipeline.config = config
	}
}

// WithRequireSuccess persists nothing from a run that exceeds its rejection budget.
func WithRequireSuccess() PipelineOption {
	return func(pipeline *MetadataPipeline) {
		pipeline.config.RequireSuccess = true
	}
}

func NewPipeline(c collector.Collector[record.Record], o *batch.Orchestrator, indexer storage.Indexer, opts ...PipelineOption) *MetadataPipeline {
	p := &MetadataPipeline{
		collector:    c,
		orchestrator: o,
		indexer:      indexer,
		config: &PipelineConfig{
			Name: "metadata-pipeline",
			Bulk: &BulkOptions{
				Enabled: false,
				Size:    defaultBatchSize,
			},
		},
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.config.Bulk == nil {
		p.config.Bulk = &BulkOptions{Size: defaultBatchSize}
	}

	return p
}

// Run executes the pipeline. Rows that could not be read are left out of the
// report; the returned error joins their failures while the report still
// covers every row that was read.
func (p *MetadataPipeline) Run(ctx context.Context) (*batch.Report, error) {
	start := time.Now()
	slog.Info("🛫 Starting pipeline run",
		"pipeline", p.config.Name,
		"bulk_enabled", p.config.Bulk.Enabled,
		"batch_size", p.config.Bulk.Size,
		"time", start,
	)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error collecting records", "error", err, "pipeline", p.config.Name)
		return nil, err
	}

	records, readErr := p.collect(ctx, results)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.inputs = records
	rep := p.orchestrator.Run(records)

	var storeErr error
	if p.config.RequireSuccess && !rep.Success {
		slog.Warn("Run rejected too many records, nothing persisted",
			"pipeline", p.config.Name,
			"rejected", rep.Counts.Rejected(),
		)
	} else {
		docs := documents(rep, records)
		if p.config.Bulk.Enabled {
			storeErr = p.processBatch(ctx, docs)
		} else {
			storeErr = p.processBasic(ctx, docs)
		}
	}

	slog.Info("Pipeline run completed",
		"pipeline", p.config.Name,
		"run_id", rep.RunID,
		"total", rep.Counts.Total,
		"accepted", rep.Counts.Total-rep.Counts.Rejected(),
		"rejected", rep.Counts.Rejected(),
		"success", rep.Success,
		"duration", time.Since(start),
	)

	return rep, errors.Join(readErr, storeErr)
}

// collect drains the collector and restores input order.
func (p *MetadataPipeline) collect(ctx context.Context, results <-chan collector.Result[record.Record]) ([]record.Record, error) {
	var items []collector.Result[record.Record]
	var errs []error

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection",
				"pipeline", p.config.Name,
				"collected", len(items),
			)
			return nil, ctx.Err()
		case res, ok := <-results:
			if !ok {
				sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
				records := make([]record.Record, len(items))
				for i, it := range items {
					records[i] = it.Result
				}
				return records, errors.Join(errs...)
			}
			if res.Err != nil {
				slog.Error("Error reading record", "error", res.Err, "index", res.Index, "pipeline", p.config.Name)
				errs = append(errs, fmt.Errorf("row %d: %w", res.Index+1, res.Err))
				continue
			}
			items = append(items, res)
		}
	}
}

// documents turns the accepted outcomes into storage documents. A mapping
// run stores target records, a validation run stores the input records.
func documents(rep *batch.Report, records []record.Record) []storage.Document {
	schemaID := rep.Source
	if rep.Target != "" {
		schemaID = rep.Target
	}

	docs := make([]storage.Document, 0, len(records))
	for _, o := range rep.Outcomes {
		if !o.OK() {
			continue
		}
		r := records[o.Index]
		if o.Mapping != nil {
			r = o.Mapping.Record
		}
		docs = append(docs, storage.Document{
			Schema:    schemaID,
			RecordKey: o.RecordID,
			RunID:     rep.RunID,
			Record:    r,
		})
	}
	return docs
}

func (p *MetadataPipeline) processBasic(ctx context.Context, docs []storage.Document) error {
	saved := 0
	var errs []error

	for _, doc := range docs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		id, err := p.indexer.Save(ctx, doc)
		if err != nil {
			slog.Error("Error saving record",
				"error", err,
				"pipeline", p.config.Name,
				"record_key", doc.RecordKey,
			)
			errs = append(errs, err)
			continue
		}
		slog.Debug("Record saved successfully",
			"id", id,
			"record_key", doc.RecordKey,
			"pipeline", p.config.Name,
		)
		saved++
	}

	slog.Info("Pipeline persistence completed",
		"pipeline", p.config.Name,
		"total_saved", saved,
		"total_errors", len(errs),
	)
	return errors.Join(errs...)
}

func (p *MetadataPipeline) processBatch(ctx context.Context, docs []storage.Document) error {
	batchCount := 0
	saved := 0
	var errs []error

	for start := 0; start < len(docs); start += p.config.Bulk.Size {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		end := min(start+p.config.Bulk.Size, len(docs))
		if err := p.indexer.SaveBulk(ctx, docs[start:end]); err != nil {
			slog.Error("Error saving bulk records",
				"error", err,
				"count", end-start,
				"pipeline", p.config.Name,
			)
			errs = append(errs, err)
			continue
		}
		batchCount++
		saved += end - start
		slog.Debug("Bulk records saved successfully",
			"count", end-start,
			"pipeline", p.config.Name,
			"batch", batchCount,
		)
	}

	slog.Info("Pipeline batch persistence completed",
		"pipeline", p.config.Name,
		"total_saved", saved,
		"total_errors", len(errs),
		"total_batches", batchCount,
	)
	return errors.Join(errs...)
}

// Inputs returns the records of the last run in input order; report
// outcome indexes point into it.
func (p *MetadataPipeline) Inputs() []record.Record {
	return p.inputs
}

// Stop releases the pipeline's references
func (p *MetadataPipeline) Stop() {
	slog.Info("Stopping pipeline...", "pipeline", p.config.Name)
	p.indexer = nil
	p.collector = nil
	slog.Info("Pipeline stopped", "pipeline", p.config.Name)
}
