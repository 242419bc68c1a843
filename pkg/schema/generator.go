package schema

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// JSONSchema represents a JSON Schema document
type JSONSchema struct {
	Schema               string                 `json:"$schema,omitempty"`
	ID                   string                 `json:"$id,omitempty"`
	Ref                  string                 `json:"$ref,omitempty"`
	Title                string                 `json:"title,omitempty"`
	Version              string                 `json:"version,omitempty"`
	Description          string                 `json:"description,omitempty"`
	Type                 TypeName               `json:"type,omitempty"`
	Format               string                 `json:"format,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	AdditionalProperties *JSONSchema            `json:"additionalProperties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Enum                 []interface{}          `json:"enum,omitempty"`
	Default              interface{}            `json:"default,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	MinLength            *int                   `json:"minLength,omitempty"`
	MaxLength            *int                   `json:"maxLength,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	MaxItems             *int                   `json:"maxItems,omitempty"`
	Examples             []interface{}          `json:"examples,omitempty"`
	Defs                 map[string]*JSONSchema `json:"$defs,omitempty"`
	Definitions          map[string]*JSONSchema `json:"definitions,omitempty"`

	// Label is the column header used in lab spreadsheets
	Label string `json:"label,omitempty"`

	// PropertyOrder keeps declaration order, which a JSON object cannot carry
	PropertyOrder []string `json:"x-property-order,omitempty"`
}

// TypeName is the "type" keyword. Documents may carry a list such as
// ["string", "null"]; the first non-null entry is kept.
type TypeName string

func (t *TypeName) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = TypeName(one)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("type must be a string or a list of strings: %w", err)
	}
	for _, s := range many {
		if s != "null" {
			*t = TypeName(s)
			return nil
		}
	}
	*t = ""
	return nil
}

const SchemaRef = "https://json-schema.org/draft/2020-12/schema"

// Generator generates JSON schemas from Go structs
type Generator struct {
	group string
	// structs currently being expanded; recursive references stop there
	visiting map[reflect.Type]bool
}

// NewGenerator creates a new schema generator; group is used to build $id values
func NewGenerator(group string) *Generator {
	return &Generator{
		group:    group,
		visiting: make(map[reflect.Type]bool),
	}
}

// GenerateSchema generates a JSON schema from a Go type
func (g *Generator) GenerateSchema(t reflect.Type) (*JSONSchema, error) {
	return g.generateSchemaForType(t, true)
}

func (g *Generator) generateSchemaForType(t reflect.Type, isRoot bool) (*JSONSchema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := &JSONSchema{}

	switch t.Kind() {
	case reflect.Struct:
		if g.visiting[t] {
			schema.Type = "object"
			return schema, nil
		}
		return g.generateStructSchema(t, isRoot)
	case reflect.Slice:
		return g.generateSliceSchema(t)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key: %s", t.Key().Kind())
		}
		values, err := g.generateSchemaForType(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		schema.Type = "object"
		schema.AdditionalProperties = values
	case reflect.Interface:
		// any value
	case reflect.String:
		schema.Type = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		schema.Type = "integer"
	case reflect.Float32, reflect.Float64:
		schema.Type = "number"
	case reflect.Bool:
		schema.Type = "boolean"
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}

	return schema, nil
}

func (g *Generator) generateStructSchema(t reflect.Type, isRoot bool) (*JSONSchema, error) {
	g.visiting[t] = true
	defer delete(g.visiting, t)

	schema := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}

	if isRoot {
		schema.Schema = SchemaRef
		schema.Title = t.Name()
		schema.ID = fmt.Sprintf("https://schemas.%s/%s", g.group, strings.ToLower(t.Name()))
	}

	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := g.getFieldName(field)
		if fieldName == "" {
			continue
		}

		fieldSchema, err := g.generateSchemaForType(field.Type, false)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}

		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema.Description = desc
		}
		if schemaTag := field.Tag.Get("schema"); schemaTag != "" {
			parseSchemaTag(schemaTag, fieldSchema)
		}

		schema.Properties[fieldName] = fieldSchema
		schema.PropertyOrder = append(schema.PropertyOrder, fieldName)

		if isFieldRequired(field) {
			required = append(required, fieldName)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}

	return schema, nil
}

func (g *Generator) generateSliceSchema(t reflect.Type) (*JSONSchema, error) {
	itemSchema, err := g.generateSchemaForType(t.Elem(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for array items: %w", err)
	}
	return &JSONSchema{
		Type:  "array",
		Items: itemSchema,
	}, nil
}

func parseSchemaTag(tag string, schema *JSONSchema) {
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		key, val, _ := strings.Cut(part, "=")

		switch key {
		case "enum":
			enums := strings.Split(val, "|")
			schema.Enum = make([]interface{}, len(enums))
			for i, e := range enums {
				schema.Enum[i] = e
			}
		case "default":
			schema.Default = val
			if b, err := strconv.ParseBool(val); err == nil && schema.Type == "boolean" {
				schema.Default = b
			}
		case "pattern":
			schema.Pattern = val
		case "minLength":
			schema.MinLength = atoi(val)
		case "maxLength":
			schema.MaxLength = atoi(val)
		case "minItems":
			schema.MinItems = atoi(val)
		case "maxItems":
			schema.MaxItems = atoi(val)
		}
	}
}

func atoi(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func (g *Generator) getFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return strings.ToLower(field.Name[:1]) + field.Name[1:]
	}
	return name
}

func isFieldRequired(field reflect.StructField) bool {
	for _, part := range strings.Split(field.Tag.Get("schema"), ",") {
		if strings.TrimSpace(part) == "required" {
			return true
		}
	}
	return false
}

// GenerateJSONSchema generates a JSON schema as an indented JSON string
func (g *Generator) GenerateJSONSchema(v interface{}) (string, error) {
	schema, err := g.GenerateSchema(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}
	return Marshal(schema)
}

func Marshal(schema *JSONSchema) (string, error) {
	jsonBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, jsonBytes, "", "  "); err != nil {
		return "", fmt.Errorf("failed to indent schema JSON: %w", err)
	}
	return buf.String(), nil
}

// Parse decodes a JSON Schema document.
func Parse(data []byte) (*JSONSchema, error) {
	var s JSONSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse JSON schema: %w", err)
	}
	return &s, nil
}
