package mapping

import (
	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

type compiledField struct {
	FieldMapping
	src       record.Path
	dst       record.Path
	required  bool
	target    schema.Field
	transform Transform
}

// Mapper applies a Spec between two bound schemas. It is read-only after
// construction and safe for concurrent use.
type Mapper struct {
	spec       *Spec
	source     *schema.Schema
	target     *schema.Schema
	validator  *validate.Validator
	transforms *Registry
	coerce     bool
	fields     []compiledField
}

type Option func(*Mapper)

func WithTransforms(r *Registry) Option {
	return func(m *Mapper) {
		m.transforms = r
	}
}

// WithValidator sets the validator used for the post-map check.
func WithValidator(v *validate.Validator) Option {
	return func(m *Mapper) {
		m.validator = v
	}
}

// WithoutCoercion writes transformed values as-is instead of converting
// them to the target field type.
func WithoutCoercion() Option {
	return func(m *Mapper) {
		m.coerce = false
	}
}

// NewMapper binds spec to its schemas. Any mismatch between them is a
// ContractError: wrong schema ids, unknown paths or unknown transforms.
func NewMapper(spec *Spec, source, target *schema.Schema, opts ...Option) (*Mapper, error) {
	if source == nil || target == nil {
		return nil, apperr.NewContract("mapper: source and target schemas are required")
	}
	if err := spec.Validate(); err != nil {
		return nil, apperr.NewContract("mapper: %v", err)
	}
	if !source.Matches(spec.Source) {
		return nil, apperr.NewContract("mapper: spec %q expects source %q, got %q", spec.Name, spec.Source, source.ID())
	}
	if !target.Matches(spec.Target) {
		return nil, apperr.NewContract("mapper: spec %q expects target %q, got %q", spec.Name, spec.Target, target.ID())
	}

	m := &Mapper{
		spec:       spec,
		source:     source,
		target:     target,
		validator:  validate.New(),
		transforms: DefaultRegistry(),
		coerce:     true,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.fields = make([]compiledField, 0, len(spec.Fields))
	for i, fm := range spec.Fields {
		cf := compiledField{FieldMapping: fm}
		if fm.Source != "" {
			if _, ok := source.Lookup(fm.Source); !ok {
				return nil, apperr.NewContract("mapper: fields[%d]: source %q is not in %s", i, fm.Source, source.ID())
			}
			cf.src = record.MustParsePath(fm.Source)
		}
		tf, ok := target.Lookup(fm.Target)
		if !ok {
			return nil, apperr.NewContract("mapper: fields[%d]: target %q is not in %s", i, fm.Target, target.ID())
		}
		cf.target = tf
		cf.dst = record.MustParsePath(fm.Target)
		cf.required = target.Requires(fm.Target)
		if fm.Transform != "" {
			fn, ok := m.transforms.Get(fm.Transform)
			if !ok {
				return nil, apperr.NewContract("mapper: fields[%d]: unknown transform %q", i, fm.Transform)
			}
			cf.transform = fn
		}
		m.fields = append(m.fields, cf)
	}

	return m, nil
}

func (m *Mapper) Spec() *Spec            { return m.spec }
func (m *Mapper) Source() *schema.Schema { return m.source }
func (m *Mapper) Target() *schema.Schema { return m.target }

// Apply maps one source record. Only fields named by the spec reach the
// output; the result is then validated against the target schema.
func (m *Mapper) Apply(r record.Record) Result {
	out := make(record.Record, len(m.fields))
	var vs []Violation

	for _, cf := range m.fields {
		val, v, ok := m.resolve(cf, r)
		if !ok {
			if v != nil {
				vs = append(vs, *v)
			}
			continue
		}
		if err := out.Set(cf.dst, val); err != nil {
			vs = append(vs, Violation{
				Kind:   TransformFailed,
				Target: cf.Target,
				Source: cf.Source,
				Value:  val,
				Detail: err.Error(),
			})
		}
	}
	if len(vs) > 0 {
		return failed(vs)
	}

	m.fillDefaults(out)

	res, err := m.validator.Validate(m.target, out)
	if err != nil {
		// unreachable: target is non-nil after NewMapper
		return failed([]Violation{{Kind: PostMapInvalid, Detail: err.Error()}})
	}
	if !res.Valid() {
		for i := range res.Violations {
			cause := res.Violations[i]
			vs = append(vs, Violation{
				Kind:   PostMapInvalid,
				Target: cause.Path,
				Value:  cause.Value,
				Cause:  &cause,
			})
		}
		return failed(vs)
	}

	return mapped(out)
}

// resolve produces the value for one field mapping. ok=false with a nil
// violation means the field is simply left out.
func (m *Mapper) resolve(cf compiledField, r record.Record) (record.Value, *Violation, bool) {
	var (
		val     record.Value
		present bool
	)
	if cf.src != nil {
		val, present = r.Get(cf.src)
	}
	if !present {
		if cf.Default != nil {
			return m.convert(cf, cf.Default.Clone()), nil, true
		}
		if cf.required {
			return record.Value{}, &Violation{
				Kind:   UnmappedRequired,
				Target: cf.Target,
				Source: cf.Source,
			}, false
		}
		return record.Value{}, nil, false
	}

	// nested values share storage with r; out.Set must never write through them
	val = val.Clone()
	original := val
	if cf.Translate != nil {
		to, ok := cf.Translate[val.String()]
		if !ok {
			return record.Value{}, &Violation{
				Kind:   UntranslatableValue,
				Target: cf.Target,
				Source: cf.Source,
				Value:  original,
			}, false
		}
		val = record.String(to)
	}
	if cf.transform != nil {
		nv, err := cf.transform(val)
		if err != nil {
			return record.Value{}, &Violation{
				Kind:      TransformFailed,
				Target:    cf.Target,
				Source:    cf.Source,
				Value:     original,
				Transform: cf.Transform,
				Detail:    err.Error(),
			}, false
		}
		val = nv
	}
	return m.convert(cf, val), nil, true
}

func (m *Mapper) convert(cf compiledField, v record.Value) record.Value {
	if !m.coerce {
		return v
	}
	if cv, ok := schema.Coerce(cf.target, v); ok {
		return cv
	}
	return v
}

// fillDefaults sets top-level target defaults the mapping left absent.
func (m *Mapper) fillDefaults(out record.Record) {
	for _, f := range m.target.Fields() {
		if f.Default == nil {
			continue
		}
		if v, ok := out[f.Name]; ok && !v.IsNull() {
			continue
		}
		out[f.Name] = f.Default.Clone()
	}
}
