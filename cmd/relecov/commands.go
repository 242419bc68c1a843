package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
	"github.com/DjordjeVuckovic/relecov-tools/internal/collector"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/loader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/processor"
	"github.com/DjordjeVuckovic/relecov-tools/internal/reader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/report"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

// runFlags are shared by the commands that process a dataset.
type runFlags struct {
	format        string
	listSeparator string
	recordID      string
	strict        bool
	workers       int
	maxRejected   int
	reportPath    string
	rejectedPath  string
	quiet         bool
}

func (rf *runFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&rf.format, "format", "", "dataset format: csv, tsv or json (default: from extension)")
	fs.StringVar(&rf.listSeparator, "list-sep", "", "separator for list cells in spreadsheets (default \",\")")
	fs.StringVar(&rf.recordID, "id", "", "field that identifies a record in reports")
	fs.BoolVar(&rf.strict, "strict", false, "report fields the schema does not declare")
	fs.IntVar(&rf.workers, "workers", 4, "number of concurrent workers")
	fs.IntVar(&rf.maxRejected, "max-rejected", 0, "rejected records tolerated before the run fails")
	fs.StringVar(&rf.reportPath, "report", "", "write the full JSON report to this file")
	fs.StringVar(&rf.rejectedPath, "rejected", "", "write rejected input records to this file")
	fs.BoolVar(&rf.quiet, "q", false, "do not print the summary table")
}

func (rf *runFlags) validator() *validate.Validator {
	if rf.strict {
		return validate.New(validate.WithUnknownFields(validate.UnknownReport))
	}
	return validate.New()
}

func (rf *runFlags) orchestratorOptions(v *validate.Validator) []batch.Option {
	opts := []batch.Option{
		batch.WithValidator(v),
		batch.WithWorkers(rf.workers),
		batch.WithMaxInvalid(rf.maxRejected),
	}
	if rf.recordID != "" {
		opts = append(opts, batch.WithRecordID(rf.recordID))
	}
	return opts
}

func datasetArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one dataset path, got %d", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

func runValidate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "schema file (.yaml or JSON Schema .json)")
	var rf runFlags
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return errors.New("validate: -schema is required")
	}
	dataset, err := datasetArg(fs)
	if err != nil {
		return err
	}

	source, err := loader.LoadSchemaFile(*schemaPath)
	if err != nil {
		return err
	}
	o, err := batch.NewOrchestrator(source, rf.orchestratorOptions(rf.validator())...)
	if err != nil {
		return err
	}
	return execute(ctx, &rf, source, o, dataset, "", stdout)
}

func runMap(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	mappingPath := fs.String("mapping", "", "mapping spec file")
	sourcePath := fs.String("source", "", "source schema file")
	targetPath := fs.String("target", "", "target schema file")
	outPath := fs.String("out", "", "write mapped records to this file (default: stdout when -q)")
	var rf runFlags
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mappingPath == "" || *sourcePath == "" || *targetPath == "" {
		return errors.New("map: -mapping, -source and -target are required")
	}
	dataset, err := datasetArg(fs)
	if err != nil {
		return err
	}

	m, err := loadMapper(*mappingPath, *sourcePath, *targetPath, mapping.WithValidator(rf.validator()))
	if err != nil {
		return err
	}
	opts := append(rf.orchestratorOptions(rf.validator()), batch.WithMapper(m))
	o, err := batch.NewOrchestrator(m.Source(), opts...)
	if err != nil {
		return err
	}
	out := *outPath
	if out == "" && rf.quiet {
		out = "-"
	}
	return execute(ctx, &rf, m.Source(), o, dataset, out, stdout)
}

func runLint(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	mappingPath := fs.String("mapping", "", "mapping spec file")
	sourcePath := fs.String("source", "", "source schema file")
	targetPath := fs.String("target", "", "target schema file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mappingPath == "" || *sourcePath == "" || *targetPath == "" {
		return errors.New("lint: -mapping, -source and -target are required")
	}

	m, err := loadMapper(*mappingPath, *sourcePath, *targetPath)
	if err != nil {
		return err
	}
	gaps := mapping.CheckTranslations(m.Spec(), m.Source(), m.Target())
	if len(gaps) == 0 {
		fmt.Fprintf(stdout, "%s: every enum value has a translation\n", m.Spec().Name)
		return nil
	}
	for _, g := range gaps {
		fmt.Fprintf(stdout, "%s -> %s: %q %s\n", g.Source, g.Target, g.Value, g.Reason)
	}
	return errUnsuccessful
}

func runExport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "schema file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return errors.New("export: -schema is required")
	}
	s, err := loader.LoadSchemaFile(*schemaPath)
	if err != nil {
		return err
	}
	return report.WriteJSON(loader.ExportJSONSchema(s), stdout)
}

func loadMapper(mappingPath, sourcePath, targetPath string, opts ...mapping.Option) (*mapping.Mapper, error) {
	spec, err := loader.LoadMappingFile(mappingPath)
	if err != nil {
		return nil, err
	}
	source, err := loader.LoadSchemaFile(sourcePath)
	if err != nil {
		return nil, err
	}
	target, err := loader.LoadSchemaFile(targetPath)
	if err != nil {
		return nil, err
	}
	return mapping.NewMapper(spec, source, target, opts...)
}

// execute reads the dataset and runs it through o. Nothing is persisted.
func execute(ctx context.Context, rf *runFlags, source *schema.Schema, o *batch.Orchestrator, dataset, mappedOut string, stdout io.Writer) error {
	f, err := os.Open(dataset)
	if err != nil {
		return err
	}
	defer f.Close()

	format, err := collector.ParseFormat(rf.format, dataset)
	if err != nil {
		return err
	}
	var decoderOpts []reader.DecoderOption
	if rf.listSeparator != "" {
		decoderOpts = append(decoderOpts, reader.WithListSeparator(rf.listSeparator))
	}
	c, err := collector.ForDataset(f, format, source, decoderOpts...)
	if err != nil {
		return err
	}

	p := processor.NewPipeline(c, o, in_mem.NoopIndexer{}, processor.WithConfig(&processor.PipelineConfig{
		Name: "relecov-" + source.ID(),
		Bulk: &processor.BulkOptions{Enabled: true, Size: 1000},
	}))
	rep, runErr := p.Run(ctx)
	if rep == nil {
		return runErr
	}
	if runErr != nil {
		slog.Warn("some rows could not be read", "error", runErr)
	}

	if err := writeResults(rf, rep, p.Inputs(), mappedOut, stdout); err != nil {
		return err
	}
	if runErr != nil || !rep.Success {
		return errUnsuccessful
	}
	return nil
}

func writeResults(rf *runFlags, rep *batch.Report, inputs []record.Record, mappedOut string, stdout io.Writer) error {
	if !rf.quiet {
		if err := report.WriteTable(rep, stdout); err != nil {
			return err
		}
	}
	if rf.reportPath != "" {
		if err := report.WriteJSONFile(rep, rf.reportPath); err != nil {
			return err
		}
	}
	if rf.rejectedPath != "" {
		if err := report.WriteJSONFile(report.Rejected(rep, inputs), rf.rejectedPath); err != nil {
			return err
		}
	}
	switch mappedOut {
	case "":
	case "-":
		return report.WriteMapped(rep, stdout)
	default:
		return report.WriteJSONFile(rep.MappedRecords(), mappedOut)
	}
	return nil
}
