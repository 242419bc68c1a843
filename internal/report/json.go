package report

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// RejectedRecord pairs a rejected input with the reason it was rejected.
type RejectedRecord struct {
	Index    int           `json:"index"`
	RecordID string        `json:"recordId,omitempty"`
	Stage    batch.Stage   `json:"stage"`
	Issues   []string      `json:"issues"`
	Record   record.Record `json:"record"`
}

// Rejected collects the original input of every rejected outcome, in input order.
func Rejected(r *batch.Report, inputs []record.Record) []RejectedRecord {
	out := make([]RejectedRecord, 0, r.Counts.Rejected())
	for _, o := range r.Rejected() {
		rr := RejectedRecord{
			Index:    o.Index,
			RecordID: o.RecordID,
			Stage:    o.FailedStage,
			Issues:   issues(o),
		}
		if o.Index < len(inputs) {
			rr.Record = inputs[o.Index]
		}
		out = append(out, rr)
	}
	return out
}

func issues(o batch.Outcome) []string {
	var out []string
	if o.FailedStage == batch.StageValidation {
		for _, v := range o.Validation.Violations {
			out = append(out, v.String())
		}
		return out
	}
	if o.Mapping != nil {
		for _, v := range o.Mapping.Violations {
			out = append(out, v.String())
		}
	}
	return out
}

// WriteJSON writes v as indented JSON, indenting the compact encoding.
func WriteJSON(v any, w io.Writer) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent report: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func WriteJSONFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(v, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRejected writes only the rejected inputs, so they can be corrected and resubmitted.
func WriteRejected(r *batch.Report, inputs []record.Record, w io.Writer) error {
	return WriteJSON(Rejected(r, inputs), w)
}

// WriteMapped writes the target records of a mapping run as a JSON array.
func WriteMapped(r *batch.Report, w io.Writer) error {
	return WriteJSON(r.MappedRecords(), w)
}
