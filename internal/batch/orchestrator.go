// Package batch drives collections of records through validation and mapping.
package batch

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

// Observer is notified of every outcome and every finished run.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOutcome(o Outcome)
	ObserveRun(r *Report)
}

type Orchestrator struct {
	source     *schema.Schema
	mapper     *mapping.Mapper
	validator  *validate.Validator
	workers    int
	idField    string
	maxInvalid int
	observers  []Observer
}

type Option func(*Orchestrator)

// WithMapper adds the mapping stage. Without it a run only validates.
func WithMapper(m *mapping.Mapper) Option {
	return func(o *Orchestrator) {
		o.mapper = m
	}
}

func WithValidator(v *validate.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithWorkers bounds the number of records processed at once.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithRecordID names the field copied into Outcome.RecordID.
func WithRecordID(field string) Option {
	return func(o *Orchestrator) {
		o.idField = field
	}
}

// WithMaxInvalid sets how many rejected records a run tolerates and still succeeds.
func WithMaxInvalid(n int) Option {
	return func(o *Orchestrator) {
		o.maxInvalid = n
	}
}

func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func NewOrchestrator(source *schema.Schema, opts ...Option) (*Orchestrator, error) {
	if source == nil {
		return nil, apperr.NewContract("batch: source schema is nil")
	}

	o := &Orchestrator{
		source:    source,
		validator: validate.New(),
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.mapper != nil && o.mapper.Source().ID() != source.ID() {
		return nil, apperr.NewContract("batch: mapper source %q does not match schema %q", o.mapper.Source().ID(), source.ID())
	}
	return o, nil
}

// Run processes records concurrently and reports them in input order.
// A failing record never stops the batch.
func (o *Orchestrator) Run(records []record.Record) *Report {
	rep := &Report{
		RunID:     uuid.New(),
		Source:    o.source.ID(),
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]Outcome, len(records)),
	}
	if o.mapper != nil {
		rep.Target = o.mapper.Target().ID()
		rep.Mapping = o.mapper.Spec().Name
	}

	workers := min(o.workers, len(records))
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out := o.process(i, records[i])
				// each worker owns distinct indices
				rep.Outcomes[i] = out
				for _, obs := range o.observers {
					obs.ObserveOutcome(out)
				}
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	rep.FinishedAt = time.Now().UTC()
	rep.tally()
	rep.Success = rep.Counts.Rejected() <= o.maxInvalid

	slog.Debug("batch run finished",
		"run_id", rep.RunID,
		"source", rep.Source,
		"target", rep.Target,
		"total", rep.Counts.Total,
		"valid", rep.Counts.Valid,
		"mapped", rep.Counts.Mapped,
		"rejected", rep.Counts.Rejected(),
		"duration", rep.Duration(),
	)
	for _, obs := range o.observers {
		obs.ObserveRun(rep)
	}
	return rep
}

func (o *Orchestrator) process(i int, r record.Record) Outcome {
	out := Outcome{Index: i, RecordID: o.recordID(r)}

	// the source schema is non-nil, so Validate cannot fail
	res, _ := o.validator.Validate(o.source, r)
	out.Validation = res
	if !res.Valid() {
		out.FailedStage = StageValidation
		return out
	}
	if o.mapper == nil {
		return out
	}

	mres := o.mapper.Apply(r)
	out.Mapping = &mres
	if !mres.Mapped() {
		out.FailedStage = StageMapping
		if len(mres.Violations) > 0 && mres.Violations[0].Kind == mapping.PostMapInvalid {
			out.FailedStage = StagePostMap
		}
	}
	return out
}

func (o *Orchestrator) recordID(r record.Record) string {
	if o.idField == "" {
		return ""
	}
	v, ok := r.Lookup(o.idField)
	if !ok {
		return ""
	}
	return v.String()
}
