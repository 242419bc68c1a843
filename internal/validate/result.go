package validate

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// Kind classifies a field violation.
type Kind string

const (
	MissingRequired  Kind = "missing_required"
	TypeMismatch     Kind = "type_mismatch"
	InvalidEnumValue Kind = "invalid_enum_value"
	UnexpectedField  Kind = "unexpected_field"
)

// Violation is a single inconsistency between a field and its definition.
// Path uses dot-notation with list indices, e.g. "samples[3].collection_date".
type Violation struct {
	Path     string       `json:"path"`
	Kind     Kind         `json:"kind"`
	Value    record.Value `json:"value"`
	Expected string       `json:"expected,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case MissingRequired, UnexpectedField:
		return fmt.Sprintf("%s(%s)", v.Kind, v.Path)
	default:
		return fmt.Sprintf("%s(%s, %q): expected %s", v.Kind, v.Path, v.Value.String(), v.Expected)
	}
}

type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Result is the outcome of validating one record.
type Result struct {
	Status     Status      `json:"status"`
	Violations []Violation `json:"violations"`
}

func newResult(vs []Violation) Result {
	if len(vs) == 0 {
		return Result{Status: StatusValid, Violations: []Violation{}}
	}
	return Result{Status: StatusInvalid, Violations: vs}
}

func (r Result) Valid() bool { return r.Status == StatusValid }

// Error summarizes the first few violations, like an issue list would.
func (r Result) Error() string {
	if r.Valid() {
		return ""
	}
	const maxShown = 3
	parts := make([]string, 0, maxShown)
	for i, v := range r.Violations {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("... (total %d)", len(r.Violations)))
			break
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}
