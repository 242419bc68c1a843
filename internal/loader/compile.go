// Package loader turns declarative schema and mapping documents into the
// in-memory models used by the validator and the mapper.
package loader

import (
	"fmt"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/mappingdoc"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/schemadoc"
)

// CompileSchema builds a Schema from a validated document. Definitions are
// compiled once and shared by every field that references them.
func CompileSchema(doc *schemadoc.Schema) (*schema.Schema, error) {
	c := &schemaCompiler{
		version: doc.SchemaVersion,
		defs:    doc.Definitions,
		built:   make(map[string]*schema.Schema),
		active:  make(map[string]bool),
	}
	fields, err := c.fields(doc.Name, doc.Fields)
	if err != nil {
		return nil, err
	}
	return schema.New(doc.Name, doc.SchemaVersion, fields...)
}

type schemaCompiler struct {
	version string
	defs    map[string]schemadoc.Definition
	built   map[string]*schema.Schema
	active  map[string]bool
}

func (c *schemaCompiler) fields(owner string, docs []schemadoc.Field) ([]schema.Field, error) {
	out := make([]schema.Field, 0, len(docs))
	for _, fd := range docs {
		f, err := c.field(owner, fd)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *schemaCompiler) field(owner string, fd schemadoc.Field) (schema.Field, error) {
	t, err := schema.ParseType(fd.Type)
	if err != nil {
		return schema.Field{}, fmt.Errorf("%s.%s: %w", owner, fd.Name, err)
	}
	f := schema.Field{
		Name:        fd.Name,
		Type:        t,
		Required:    fd.Required,
		Enum:        fd.Enum,
		Label:       fd.Label,
		Description: fd.Description,
	}

	switch t {
	case schema.TypeNested:
		f.Nested, err = c.nested(fd.Name, fd.Ref, fd.Fields)
	case schema.TypeList:
		if fd.Items == nil {
			return schema.Field{}, fmt.Errorf("%s.%s: list field has no items", owner, fd.Name)
		}
		f.Items, err = c.item(fd.Name, *fd.Items)
	}
	if err != nil {
		return schema.Field{}, fmt.Errorf("%s.%s: %w", owner, fd.Name, err)
	}

	if fd.Default != nil {
		def, err := compileDefault(f, fd.Default)
		if err != nil {
			return schema.Field{}, fmt.Errorf("%s.%s: %w", owner, fd.Name, err)
		}
		f.Default = &def
	}
	return f, nil
}

func (c *schemaCompiler) item(name string, it schemadoc.Item) (*schema.Field, error) {
	t, err := schema.ParseType(it.Type)
	if err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}
	f := &schema.Field{Name: name + "[]", Type: t, Enum: it.Enum}
	switch t {
	case schema.TypeNested:
		f.Nested, err = c.nested(name, it.Ref, it.Fields)
	case schema.TypeList:
		if it.Items == nil {
			return nil, fmt.Errorf("items: nested list has no items")
		}
		f.Items, err = c.item(name, *it.Items)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (c *schemaCompiler) nested(name, ref string, inline []schemadoc.Field) (*schema.Schema, error) {
	if ref == "" {
		if len(inline) == 0 {
			return nil, fmt.Errorf("nested field needs a ref or inline fields")
		}
		fields, err := c.fields(name, inline)
		if err != nil {
			return nil, err
		}
		return schema.New(name, c.version, fields...)
	}

	if s, ok := c.built[ref]; ok {
		return s, nil
	}
	if c.active[ref] {
		return nil, fmt.Errorf("ref %q is recursive", ref)
	}
	def, ok := c.defs[ref]
	if !ok {
		return nil, fmt.Errorf("unknown ref %q", ref)
	}

	c.active[ref] = true
	defer delete(c.active, ref)

	fields, err := c.fields(ref, def.Fields)
	if err != nil {
		return nil, err
	}
	s, err := schema.New(ref, c.version, fields...)
	if err != nil {
		return nil, err
	}
	c.built[ref] = s
	return s, nil
}

// compileDefault converts a decoded default to the field's type.
func compileDefault(f schema.Field, raw any) (record.Value, error) {
	v, err := record.FromAny(raw)
	if err != nil {
		return record.Value{}, fmt.Errorf("default: %w", err)
	}
	cv, ok := schema.Coerce(f, v)
	if !ok || !schema.Conforms(f.Type, cv) {
		return record.Value{}, fmt.Errorf("default %s is not a valid %s", v, f.Type)
	}
	if s, isStr := cv.AsString(); isStr && f.Type == schema.TypeEnum && !f.Allows(s) {
		return record.Value{}, fmt.Errorf("default %q is not one of %v", s, f.Enum)
	}
	return cv, nil
}

// CompileMapping builds a mapping Spec from a validated document.
func CompileMapping(doc *mappingdoc.MappingSpec) (*mapping.Spec, error) {
	spec := &mapping.Spec{
		Name:   doc.Metadata.Name,
		Source: doc.Source,
		Target: doc.Target,
		Fields: make([]mapping.FieldMapping, 0, len(doc.FieldMappings)),
	}
	for i, fm := range doc.FieldMappings {
		out := mapping.FieldMapping{
			Source:    fm.Source,
			Target:    fm.Target,
			Translate: fm.Translate,
			Transform: fm.Transform,
		}
		if fm.Default != nil {
			v, err := record.FromAny(fm.Default)
			if err != nil {
				return nil, fmt.Errorf("fieldMappings[%d].default: %w", i, err)
			}
			out.Default = &v
		}
		spec.Fields = append(spec.Fields, out)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
