package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	jsonschema "github.com/DjordjeVuckovic/relecov-tools/pkg/schema"
)

// SchemaFromJSONSchema imports a JSON Schema document. Supported keywords:
// type, format (date, date-time), enum, required, properties, items, default,
// $ref into $defs or definitions, and the "label" extension. Properties keep
// the order of x-property-order when present, otherwise they are sorted.
func SchemaFromJSONSchema(data []byte) (*schema.Schema, error) {
	doc, err := jsonschema.Parse(data)
	if err != nil {
		return nil, err
	}
	name := doc.Title
	if name == "" {
		name = strings.TrimSuffix(lastSegment(doc.ID), ".json")
	}
	if name == "" {
		return nil, fmt.Errorf("JSON schema needs a title or $id")
	}

	im := &importer{
		root:    doc,
		version: doc.Version,
		built:   make(map[string]*schema.Schema),
		active:  make(map[string]bool),
	}
	fields, err := im.properties(name, doc)
	if err != nil {
		return nil, err
	}
	return schema.New(name, doc.Version, fields...)
}

type importer struct {
	root    *jsonschema.JSONSchema
	version string
	built   map[string]*schema.Schema
	active  map[string]bool
}

func (im *importer) properties(owner string, obj *jsonschema.JSONSchema) ([]schema.Field, error) {
	required := make(map[string]bool, len(obj.Required))
	for _, r := range obj.Required {
		required[r] = true
	}

	fields := make([]schema.Field, 0, len(obj.Properties))
	for _, name := range propertyOrder(obj) {
		prop, ok := obj.Properties[name]
		if !ok {
			return nil, fmt.Errorf("%s: x-property-order names unknown property %q", owner, name)
		}
		f, err := im.field(name, prop)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", owner, err)
		}
		f.Required = required[name]
		if prop.Default != nil {
			def, err := compileDefault(f, prop.Default)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", owner, name, err)
			}
			f.Default = &def
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func propertyOrder(obj *jsonschema.JSONSchema) []string {
	if len(obj.PropertyOrder) > 0 {
		return obj.PropertyOrder
	}
	names := make([]string, 0, len(obj.Properties))
	for name := range obj.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (im *importer) field(name string, prop *jsonschema.JSONSchema) (schema.Field, error) {
	f := schema.Field{
		Name:        name,
		Label:       prop.Label,
		Description: prop.Description,
	}

	if prop.Ref != "" {
		nested, err := im.ref(prop.Ref)
		if err != nil {
			return schema.Field{}, fmt.Errorf("%s: %w", name, err)
		}
		f.Type = schema.TypeNested
		f.Nested = nested
		return f, nil
	}

	switch prop.Type {
	case "string", "":
		switch {
		case len(prop.Enum) > 0:
			f.Type = schema.TypeEnum
			f.Enum = enumStrings(prop.Enum)
		case prop.Format == "date" || prop.Format == "date-time":
			f.Type = schema.TypeDate
		case prop.Type == "" && len(prop.Properties) > 0:
			return im.object(f, prop)
		default:
			f.Type = schema.TypeString
		}
	case "integer":
		f.Type = schema.TypeInteger
	case "number":
		f.Type = schema.TypeFloat
	case "boolean":
		f.Type = schema.TypeBoolean
	case "object":
		return im.object(f, prop)
	case "array":
		if prop.Items == nil {
			return schema.Field{}, fmt.Errorf("%s: array without items", name)
		}
		item, err := im.field(name+"[]", prop.Items)
		if err != nil {
			return schema.Field{}, err
		}
		f.Type = schema.TypeList
		f.Items = &item
	default:
		return schema.Field{}, fmt.Errorf("%s: unsupported type %q", name, prop.Type)
	}
	return f, nil
}

func (im *importer) object(f schema.Field, prop *jsonschema.JSONSchema) (schema.Field, error) {
	fields, err := im.properties(f.Name, prop)
	if err != nil {
		return schema.Field{}, err
	}
	nested, err := schema.New(strings.TrimSuffix(f.Name, "[]"), im.version, fields...)
	if err != nil {
		return schema.Field{}, err
	}
	f.Type = schema.TypeNested
	f.Nested = nested
	return f, nil
}

func (im *importer) ref(ref string) (*schema.Schema, error) {
	if s, ok := im.built[ref]; ok {
		return s, nil
	}
	if im.active[ref] {
		return nil, fmt.Errorf("$ref %q is recursive", ref)
	}

	var (
		def  *jsonschema.JSONSchema
		name string
	)
	switch {
	case strings.HasPrefix(ref, "#/$defs/"):
		name = strings.TrimPrefix(ref, "#/$defs/")
		def = im.root.Defs[name]
	case strings.HasPrefix(ref, "#/definitions/"):
		name = strings.TrimPrefix(ref, "#/definitions/")
		def = im.root.Definitions[name]
	default:
		return nil, fmt.Errorf("unsupported $ref %q", ref)
	}
	if def == nil {
		return nil, fmt.Errorf("unresolved $ref %q", ref)
	}

	im.active[ref] = true
	defer delete(im.active, ref)

	fields, err := im.properties(name, def)
	if err != nil {
		return nil, err
	}
	s, err := schema.New(name, im.version, fields...)
	if err != nil {
		return nil, err
	}
	im.built[ref] = s
	return s, nil
}

func enumStrings(values []interface{}) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func lastSegment(id string) string {
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// ExportJSONSchema renders s as a draft 2020-12 document. Nested schemas are
// inlined; x-property-order records declaration order.
func ExportJSONSchema(s *schema.Schema) *jsonschema.JSONSchema {
	out := exportObject(s)
	out.Schema = jsonschema.SchemaRef
	out.ID = s.ID()
	out.Title = s.Name
	out.Version = s.Version
	return out
}

func exportObject(s *schema.Schema) *jsonschema.JSONSchema {
	obj := &jsonschema.JSONSchema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.JSONSchema, len(s.Fields())),
	}
	for _, f := range s.Fields() {
		obj.Properties[f.Name] = exportField(f)
		obj.PropertyOrder = append(obj.PropertyOrder, f.Name)
		if f.Required {
			obj.Required = append(obj.Required, f.Name)
		}
	}
	return obj
}

func exportField(f schema.Field) *jsonschema.JSONSchema {
	var out *jsonschema.JSONSchema
	switch f.Type {
	case schema.TypeNested:
		out = exportObject(f.Nested)
	case schema.TypeList:
		out = &jsonschema.JSONSchema{Type: "array", Items: exportField(*f.Items)}
	case schema.TypeEnum:
		out = &jsonschema.JSONSchema{Type: "string", Enum: make([]interface{}, len(f.Enum))}
		for i, e := range f.Enum {
			out.Enum[i] = e
		}
	case schema.TypeDate:
		out = &jsonschema.JSONSchema{Type: "string", Format: "date"}
	case schema.TypeFloat:
		out = &jsonschema.JSONSchema{Type: "number"}
	default:
		out = &jsonschema.JSONSchema{Type: jsonschema.TypeName(f.Type)}
	}
	out.Label = f.Label
	out.Description = f.Description
	if f.Default != nil {
		out.Default = f.Default.ToAny()
	}
	return out
}
