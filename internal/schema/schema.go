// Package schema holds the in-memory model of a declarative record schema.
//
// A Schema is built once (usually by the loader package) and is read-only
// afterwards, so a single instance can be shared by any number of concurrent
// validations and mappings.
package schema

import (
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
)

// Type is the semantic type of a field.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeFloat   Type = "float"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeEnum    Type = "enum"
	TypeNested  Type = "nested"
	TypeList    Type = "list"
)

var knownTypes = map[Type]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeFloat:   true,
	TypeBoolean: true,
	TypeDate:    true,
	TypeEnum:    true,
	TypeNested:  true,
	TypeList:    true,
}

// ParseType accepts the canonical names plus a few common aliases.
func ParseType(s string) (Type, error) {
	switch s {
	case "int", "integer":
		return TypeInteger, nil
	case "float", "number", "double":
		return TypeFloat, nil
	case "bool", "boolean":
		return TypeBoolean, nil
	case "str", "string", "text":
		return TypeString, nil
	case "object", "record", "nested":
		return TypeNested, nil
	case "array", "list":
		return TypeList, nil
	}
	t := Type(s)
	if !knownTypes[t] {
		return "", fmt.Errorf("unknown field type %q", s)
	}
	return t, nil
}

// Field is a single field definition.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Enum        []string
	Default     *record.Value
	Nested      *Schema
	Items       *Field
	Label       string
	Description string
}

// Allows reports whether s is in the enumerated value set.
func (f Field) Allows(s string) bool {
	for _, e := range f.Enum {
		if e == s {
			return true
		}
	}
	return false
}

// Expected renders the constraint a value must satisfy, used in violation reports.
func (f Field) Expected() string {
	switch f.Type {
	case TypeEnum:
		return fmt.Sprintf("one of %v", f.Enum)
	case TypeNested:
		if f.Nested != nil {
			return "record of " + f.Nested.ID()
		}
	case TypeList:
		if f.Items != nil {
			return "list of " + f.Items.Expected()
		}
	}
	return string(f.Type)
}

func (f Field) check(owner string) error {
	if f.Name == "" {
		return fmt.Errorf("schema %s: field with empty name", owner)
	}
	if !knownTypes[f.Type] {
		return fmt.Errorf("schema %s: field %q has unknown type %q", owner, f.Name, f.Type)
	}
	switch f.Type {
	case TypeEnum:
		if len(f.Enum) == 0 {
			return fmt.Errorf("schema %s: enum field %q has no allowed values", owner, f.Name)
		}
	case TypeNested:
		if f.Nested == nil {
			return fmt.Errorf("schema %s: nested field %q has no schema", owner, f.Name)
		}
	case TypeList:
		if f.Items == nil {
			return fmt.Errorf("schema %s: list field %q has no item definition", owner, f.Name)
		}
		item := *f.Items
		if item.Name == "" {
			item.Name = f.Name + "[]"
		}
		return item.check(owner)
	}
	return nil
}

// Schema is an ordered set of field definitions identified by name and version.
type Schema struct {
	Name    string
	Version string

	fields []Field
	index  map[string]int
}

// New validates the field invariants and builds an immutable Schema.
func New(name, version string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, errors.New("schema name is required")
	}
	s := &Schema{
		Name:    name,
		Version: version,
		fields:  make([]Field, 0, len(fields)),
		index:   make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := f.check(s.ID()); err != nil {
			return nil, err
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate field %q", s.ID(), f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustNew panics on invalid definitions; intended for fixtures.
func MustNew(name, version string, fields ...Field) *Schema {
	s, err := New(name, version, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// ID returns "name@version", or just the name when unversioned.
func (s *Schema) ID() string {
	if s.Version == "" {
		return s.Name
	}
	return s.Name + "@" + s.Version
}

// Fields returns the definitions in declaration order. The slice must not be modified.
func (s *Schema) Fields() []Field { return s.fields }

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Lookup resolves a dot-path through nested schemas and list items.
func (s *Schema) Lookup(path string) (Field, bool) {
	p, err := record.ParsePath(path)
	if err != nil {
		return Field{}, false
	}
	keys := p.Keys()

	cur := s
	var f Field
	for i, k := range keys {
		if cur == nil {
			return Field{}, false
		}
		var ok bool
		f, ok = cur.Field(k)
		if !ok {
			return Field{}, false
		}
		if i == len(keys)-1 {
			break
		}
		for f.Type == TypeList && f.Items != nil {
			f = *f.Items
		}
		cur = f.Nested
	}
	return f, true
}

// Requires reports whether every step of path is a required field.
// A target path is only required if its whole chain of parents is.
func (s *Schema) Requires(path string) bool {
	p, err := record.ParsePath(path)
	if err != nil {
		return false
	}
	keys := p.Keys()
	cur := s
	for i, k := range keys {
		if cur == nil {
			return false
		}
		f, ok := cur.Field(k)
		if !ok || !f.Required {
			return false
		}
		if i == len(keys)-1 {
			return true
		}
		if f.Type == TypeList {
			// individual list elements are never required
			return false
		}
		cur = f.Nested
	}
	return false
}

// Matches reports whether id names this schema. An unversioned id matches any version.
func (s *Schema) Matches(id string) bool {
	if s == nil {
		return false
	}
	return id == s.ID() || id == s.Name
}
