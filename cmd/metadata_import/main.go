package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
	"github.com/DjordjeVuckovic/relecov-tools/internal/collector"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/loader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/processor"
	"github.com/DjordjeVuckovic/relecov-tools/internal/reader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/report"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/factory"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

func main() {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, err := loader.LoadSchemaFile(cfg.SchemaPath)
	if err != nil {
		slog.Error("failed to load schema", "error", err, "path", cfg.SchemaPath)
		os.Exit(1)
	}

	orchestrator, err := newOrchestrator(cfg, source)
	if err != nil {
		slog.Error("failed to set up batch run", "error", err)
		os.Exit(1)
	}

	dataFile, err := os.Open(cfg.DatasetPath)
	if err != nil {
		slog.Error("failed to open dataset", "error", err, "path", cfg.DatasetPath)
		os.Exit(1)
	}
	defer dataFile.Close()

	format, err := collector.ParseFormat(cfg.DatasetFormat, cfg.DatasetPath)
	if err != nil {
		slog.Error("failed to detect dataset format", "error", err)
		os.Exit(1)
	}
	var decoderOpts []reader.DecoderOption
	if cfg.ListSeparator != "" {
		decoderOpts = append(decoderOpts, reader.WithListSeparator(cfg.ListSeparator))
	}
	c, err := collector.ForDataset(dataFile, format, source, decoderOpts...)
	if err != nil {
		slog.Error("failed to read dataset", "error", err)
		os.Exit(1)
	}

	backend, err := factory.NewIndexer(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("failed to create storer", "error", err, "storageType", cfg.StorageConfig.Type)
		os.Exit(1)
	}
	defer backend.Close()

	var opts []processor.PipelineOption
	if cfg.BulkOptions.Enabled {
		opts = append(opts, processor.WithBulk(cfg.BulkOptions.Size))
	}
	pipeline := processor.NewPipeline(c, orchestrator, backend.Indexer, opts...)
	defer pipeline.Stop()

	rep, runErr := pipeline.Run(ctx)
	if rep == nil {
		slog.Error("failed to run pipeline", "error", runErr)
		os.Exit(1)
	}
	if runErr != nil {
		slog.Error("pipeline finished with errors", "error", runErr)
	}

	if err := writeOutputs(cfg, rep, pipeline.Inputs()); err != nil {
		slog.Error("failed to write reports", "error", err)
		os.Exit(1)
	}

	if runErr != nil || !rep.Success {
		os.Exit(1)
	}
}

func newOrchestrator(cfg *ImportConfig, source *schema.Schema) (*batch.Orchestrator, error) {
	policy := validate.UnknownIgnore
	if cfg.StrictUnknown {
		policy = validate.UnknownReport
	}
	v := validate.New(validate.WithUnknownFields(policy))

	opts := []batch.Option{
		batch.WithValidator(v),
		batch.WithWorkers(cfg.Workers),
		batch.WithMaxInvalid(cfg.MaxRejected),
	}
	if cfg.RecordIDField != "" {
		opts = append(opts, batch.WithRecordID(cfg.RecordIDField))
	}

	if cfg.MappingPath != "" {
		spec, err := loader.LoadMappingFile(cfg.MappingPath)
		if err != nil {
			return nil, err
		}
		target, err := loader.LoadSchemaFile(cfg.TargetSchemaPath)
		if err != nil {
			return nil, err
		}
		m, err := mapping.NewMapper(spec, source, target, mapping.WithValidator(v))
		if err != nil {
			return nil, err
		}
		for _, gap := range mapping.CheckTranslations(spec, source, target) {
			slog.Warn("mapping translation gap",
				"source", gap.Source,
				"target", gap.Target,
				"value", gap.Value,
				"reason", gap.Reason,
			)
		}
		opts = append(opts, batch.WithMapper(m))
	}

	return batch.NewOrchestrator(source, opts...)
}

func writeOutputs(cfg *ImportConfig, rep *batch.Report, inputs []record.Record) error {
	if err := report.WriteTable(rep, os.Stdout); err != nil {
		return err
	}
	if cfg.ReportPath != "" {
		if err := report.WriteJSONFile(rep, cfg.ReportPath); err != nil {
			return err
		}
		slog.Info("report written", "path", cfg.ReportPath)
	}
	if cfg.RejectedPath != "" {
		if err := report.WriteJSONFile(report.Rejected(rep, inputs), cfg.RejectedPath); err != nil {
			return err
		}
		slog.Info("rejected records written", "path", cfg.RejectedPath)
	}
	if cfg.MappedPath != "" && rep.Target != "" {
		if err := report.WriteJSONFile(rep.MappedRecords(), cfg.MappedPath); err != nil {
			return err
		}
		slog.Info("mapped records written", "path", cfg.MappedPath)
	}
	return nil
}
