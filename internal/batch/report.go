package batch

import (
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

// Stage names the first check a record failed.
type Stage string

const (
	StageNone       Stage = ""
	StageValidation Stage = "validation"
	StageMapping    Stage = "mapping"
	StagePostMap    Stage = "post_map"
)

// Outcome is the result of driving one input record through the run.
// Mapping is nil when validation failed or the run has no mapper.
type Outcome struct {
	Index       int             `json:"index"`
	RecordID    string          `json:"recordId,omitempty"`
	FailedStage Stage           `json:"failedStage,omitempty"`
	Validation  validate.Result `json:"validation"`
	Mapping     *mapping.Result `json:"mapping,omitempty"`
}

func (o Outcome) OK() bool { return o.FailedStage == StageNone }

type Counts struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Invalid  int `json:"invalid"`
	Mapped   int `json:"mapped"`
	Unmapped int `json:"unmapped"`
}

// Rejected is the number of records in the invalid-or-unmapped bucket.
func (c Counts) Rejected() int { return c.Invalid + c.Unmapped }

// Report aggregates a batch. Outcomes are in input order.
type Report struct {
	RunID      uuid.UUID `json:"runId"`
	Source     string    `json:"source"`
	Target     string    `json:"target,omitempty"`
	Mapping    string    `json:"mapping,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Counts     Counts    `json:"counts"`
	Success    bool      `json:"success"`
	Outcomes   []Outcome `json:"outcomes"`
}

func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// MappedRecords returns the target records of successful outcomes, in input order.
// For a validation-only run it is empty.
func (r *Report) MappedRecords() []record.Record {
	out := make([]record.Record, 0, r.Counts.Mapped)
	for _, o := range r.Outcomes {
		if o.OK() && o.Mapping != nil {
			out = append(out, o.Mapping.Record)
		}
	}
	return out
}

// Rejected returns the failed outcomes, in input order.
func (r *Report) Rejected() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

func (r *Report) tally() {
	c := Counts{Total: len(r.Outcomes)}
	for _, o := range r.Outcomes {
		if !o.Validation.Valid() {
			c.Invalid++
			continue
		}
		c.Valid++
		if o.Mapping == nil {
			continue
		}
		if o.Mapping.Mapped() {
			c.Mapped++
		} else {
			c.Unmapped++
		}
	}
	r.Counts = c
}
