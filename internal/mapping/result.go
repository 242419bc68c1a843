package mapping

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

type Kind string

const (
	UnmappedRequired    Kind = "unmapped_required"
	UntranslatableValue Kind = "untranslatable_value"
	TransformFailed     Kind = "transform_failed"
	PostMapInvalid      Kind = "post_map_invalid"
)

// Violation describes why one target field could not be produced.
// For post_map_invalid, Cause carries the target-schema violation.
type Violation struct {
	Kind      Kind                `json:"kind"`
	Target    string              `json:"target"`
	Source    string              `json:"source,omitempty"`
	Value     record.Value        `json:"value"`
	Transform string              `json:"transform,omitempty"`
	Detail    string              `json:"detail,omitempty"`
	Cause     *validate.Violation `json:"cause,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case UnmappedRequired:
		return fmt.Sprintf("%s(%s <- %s)", v.Kind, v.Target, v.Source)
	case UntranslatableValue:
		return fmt.Sprintf("%s(%s, %q)", v.Kind, v.Source, v.Value.String())
	case TransformFailed:
		return fmt.Sprintf("%s(%s, %s): %s", v.Kind, v.Source, v.Transform, v.Detail)
	case PostMapInvalid:
		if v.Cause != nil {
			return fmt.Sprintf("%s: %s", v.Kind, v.Cause.String())
		}
	}
	return fmt.Sprintf("%s(%s): %s", v.Kind, v.Target, v.Detail)
}

type Status string

const (
	StatusMapped Status = "mapped"
	StatusFailed Status = "failed"
)

// Result holds the mapped record on success, violations otherwise.
type Result struct {
	Status     Status        `json:"status"`
	Record     record.Record `json:"record,omitempty"`
	Violations []Violation   `json:"violations"`
}

func (r Result) Mapped() bool { return r.Status == StatusMapped }

func (r Result) Error() string {
	if r.Mapped() {
		return ""
	}
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

func mapped(r record.Record) Result {
	return Result{Status: StatusMapped, Record: r, Violations: []Violation{}}
}

func failed(vs []Violation) Result {
	return Result{Status: StatusFailed, Violations: vs}
}
