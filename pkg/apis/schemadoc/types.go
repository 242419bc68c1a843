package schemadoc

import (
	"fmt"

	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis"
)

const Kind = "Schema"

// Schema declares the fields a metadata record may carry
// +schema:root=true
// +schema:group=relecov.io
// +schema:version=v1
type Schema struct {
	// Kind is the resource type identifier
	Kind string `json:"kind" yaml:"kind" validate:"required,eq=Schema" schema:"required,enum=Schema" description:"Resource type identifier"`

	// Version is the API version
	Version string `json:"version" yaml:"version" validate:"required,eq=v1" schema:"required,enum=v1" description:"API version"`

	Metadata apis.Metadata `json:"metadata" yaml:"metadata" validate:"required" schema:"required" description:"Schema metadata"`

	// Name and SchemaVersion form the schema id, "name@schemaVersion"
	Name          string `json:"name" yaml:"name" validate:"required,max=100" schema:"required,pattern=^[a-zA-Z0-9_.-]+$,minLength=1,maxLength=100" description:"Schema name"`
	SchemaVersion string `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty" validate:"max=50" schema:"maxLength=50" description:"Schema version"`

	Fields []Field `json:"fields" yaml:"fields" validate:"required,min=1,dive" schema:"required,minItems=1" description:"Field definitions in declaration order"`

	// Definitions holds named sub-schemas referenced by nested fields
	Definitions map[string]Definition `json:"definitions,omitempty" yaml:"definitions,omitempty" validate:"dive" description:"Named nested schemas"`
}

type Definition struct {
	Fields []Field `json:"fields" yaml:"fields" validate:"required,min=1,dive" schema:"required,minItems=1" description:"Field definitions"`
}

type Field struct {
	Name string `json:"name" yaml:"name" validate:"required" schema:"required,minLength=1" description:"Field name"`

	// Type is one of string, integer, float, boolean, date, enum, nested, list
	Type string `json:"type" yaml:"type" validate:"required" schema:"required,enum=string|integer|float|boolean|date|enum|nested|list" description:"Semantic type"`

	Required bool `json:"required,omitempty" yaml:"required,omitempty" schema:"default=false" description:"Whether the field must be present"`

	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty" validate:"required_if=Type enum,dive,required" description:"Allowed values for enum fields"`

	Default any `json:"default,omitempty" yaml:"default,omitempty" description:"Default value"`

	// Ref names an entry in Definitions; Fields declares the sub-schema inline
	Ref    string  `json:"ref,omitempty" yaml:"ref,omitempty" description:"Nested schema reference"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty" validate:"omitempty,dive" description:"Inline nested field definitions"`

	Items *Item `json:"items,omitempty" yaml:"items,omitempty" validate:"required_if=Type list" description:"List element definition"`

	Label       string `json:"label,omitempty" yaml:"label,omitempty" description:"Spreadsheet column label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" description:"Field description"`
}

// Item describes list elements. It has no name of its own.
type Item struct {
	Type   string   `json:"type" yaml:"type" validate:"required" schema:"required" description:"Element type"`
	Enum   []string `json:"enum,omitempty" yaml:"enum,omitempty" validate:"required_if=Type enum,dive,required" description:"Allowed values"`
	Ref    string   `json:"ref,omitempty" yaml:"ref,omitempty" description:"Nested schema reference"`
	Fields []Field  `json:"fields,omitempty" yaml:"fields,omitempty" validate:"omitempty,dive" description:"Inline nested field definitions"`
	Items  *Item    `json:"items,omitempty" yaml:"items,omitempty" validate:"required_if=Type list" description:"Element definition for nested lists"`
}

func (s *Schema) Validate() error {
	if err := apis.Check(Kind, s); err != nil {
		return err
	}
	return checkRefs(s.Fields, s.Definitions)
}

func checkRefs(fields []Field, defs map[string]Definition) error {
	for _, f := range fields {
		if f.Ref != "" {
			if _, ok := defs[f.Ref]; !ok {
				return fmt.Errorf("field %q: unknown ref %q", f.Name, f.Ref)
			}
		}
		if err := checkRefs(f.Fields, defs); err != nil {
			return err
		}
		for it := f.Items; it != nil; it = it.Items {
			if it.Ref != "" {
				if _, ok := defs[it.Ref]; !ok {
					return fmt.Errorf("field %q: unknown items ref %q", f.Name, it.Ref)
				}
			}
			if err := checkRefs(it.Fields, defs); err != nil {
				return err
			}
		}
	}
	return nil
}
