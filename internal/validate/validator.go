package validate

import (
	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

// UnknownFieldPolicy controls how fields absent from the schema are treated.
type UnknownFieldPolicy int

const (
	UnknownIgnore UnknownFieldPolicy = iota // Permit fields the schema does not declare.
	UnknownReport                           // Report each one as unexpected_field.
)

// Validator checks records against a schema. It holds no per-record state,
// so one instance can serve concurrent callers.
type Validator struct {
	unknown UnknownFieldPolicy
}

type Option func(*Validator)

func WithUnknownFields(p UnknownFieldPolicy) Option {
	return func(v *Validator) {
		v.unknown = p
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{unknown: UnknownIgnore}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) UnknownFields() UnknownFieldPolicy { return v.unknown }

// Validate checks r against s. Every data problem is reported as a Violation;
// the only error is a nil schema.
func (v *Validator) Validate(s *schema.Schema, r record.Record) (Result, error) {
	if s == nil {
		return Result{}, apperr.NewContract("validate: schema is nil")
	}

	var out []Violation
	v.checkRecord(s, r, "", &out)
	return newResult(out), nil
}

func (v *Validator) checkRecord(s *schema.Schema, r record.Record, prefix string, out *[]Violation) {
	for _, f := range s.Fields() {
		path := record.JoinField(prefix, f.Name)
		val, ok := r[f.Name]
		if !ok || val.IsNull() {
			if f.Required {
				*out = append(*out, Violation{
					Path:     path,
					Kind:     MissingRequired,
					Expected: f.Expected(),
				})
			}
			continue
		}
		v.checkValue(f, val, path, out)
	}

	if v.unknown != UnknownReport {
		return
	}
	for _, k := range r.Keys() {
		if _, declared := s.Field(k); declared {
			continue
		}
		*out = append(*out, Violation{
			Path:  record.JoinField(prefix, k),
			Kind:  UnexpectedField,
			Value: r[k],
		})
	}
}

func (v *Validator) checkValue(f schema.Field, val record.Value, path string, out *[]Violation) {
	if !schema.Conforms(f.Type, val) {
		*out = append(*out, Violation{
			Path:     path,
			Kind:     TypeMismatch,
			Value:    val,
			Expected: f.Expected(),
		})
		return
	}

	switch f.Type {
	case schema.TypeEnum:
		s, _ := val.AsString()
		if !f.Allows(s) {
			*out = append(*out, Violation{
				Path:     path,
				Kind:     InvalidEnumValue,
				Value:    val,
				Expected: f.Expected(),
			})
		}
	case schema.TypeNested:
		nested, _ := val.AsRecord()
		v.checkRecord(f.Nested, nested, path, out)
	case schema.TypeList:
		items, _ := val.AsList()
		for i, item := range items {
			v.checkValue(*f.Items, item, record.JoinIndex(path, i), out)
		}
	}
}
