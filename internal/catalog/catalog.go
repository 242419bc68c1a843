// Package catalog holds the schemas and mapping specs a service or command
// works with, loaded once and shared read-only afterwards.
package catalog

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/relecov-tools/internal/loader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/mappingdoc"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/schemadoc"
)

type Catalog struct {
	schemas    map[string]*schema.Schema
	mappers    map[string]*mapping.Mapper
	mapperOpts []mapping.Option
}

type Option func(*Catalog)

// WithMapperOptions are applied to every mapper the catalog builds.
func WithMapperOptions(opts ...mapping.Option) Option {
	return func(c *Catalog) {
		c.mapperOpts = append(c.mapperOpts, opts...)
	}
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		schemas: make(map[string]*schema.Schema),
		mappers: make(map[string]*mapping.Mapper),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadDir reads every .yaml, .yml and .json document in dir. Schemas are
// registered before mappings so a mapping may reference any schema in dir.
func LoadDir(dir string, opts ...Option) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	var schemaFiles, mappingFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		kind, err := loader.DocumentKind(path)
		if err != nil {
			return nil, err
		}
		switch kind {
		case schemadoc.Kind:
			schemaFiles = append(schemaFiles, path)
		case mappingdoc.Kind:
			mappingFiles = append(mappingFiles, path)
		default:
			slog.Warn("Skipping document of unknown kind", "path", path, "kind", kind)
		}
	}

	c := New(opts...)
	for _, path := range schemaFiles {
		s, err := loader.LoadSchemaFile(path)
		if err != nil {
			return nil, err
		}
		if err := c.AddSchema(s); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, path := range mappingFiles {
		spec, err := loader.LoadMappingFile(path)
		if err != nil {
			return nil, err
		}
		if err := c.AddMapping(spec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	slog.Info("Catalog loaded", "dir", dir, "schemas", len(c.schemas), "mappings", len(c.mappers))
	return c, nil
}

func (c *Catalog) AddSchema(s *schema.Schema) error {
	if _, dup := c.schemas[s.ID()]; dup {
		return fmt.Errorf("schema %q is already registered", s.ID())
	}
	c.schemas[s.ID()] = s
	return nil
}

// AddMapping resolves the spec's schemas and builds its mapper.
func (c *Catalog) AddMapping(spec *mapping.Spec) error {
	if _, dup := c.mappers[spec.Name]; dup {
		return fmt.Errorf("mapping %q is already registered", spec.Name)
	}
	source, err := c.resolve(spec.Source)
	if err != nil {
		return fmt.Errorf("mapping %q: source: %w", spec.Name, err)
	}
	target, err := c.resolve(spec.Target)
	if err != nil {
		return fmt.Errorf("mapping %q: target: %w", spec.Name, err)
	}
	m, err := mapping.NewMapper(spec, source, target, c.mapperOpts...)
	if err != nil {
		return err
	}
	c.mappers[spec.Name] = m
	return nil
}

// Schema finds a schema by exact id, or by bare name when only one version is registered.
func (c *Catalog) Schema(id string) (*schema.Schema, bool) {
	s, err := c.resolve(id)
	return s, err == nil
}

func (c *Catalog) resolve(id string) (*schema.Schema, error) {
	if s, ok := c.schemas[id]; ok {
		return s, nil
	}
	var found []*schema.Schema
	for _, key := range c.SchemaIDs() {
		if s := c.schemas[key]; s.Matches(id) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("schema %q is not registered", id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("schema %q is ambiguous, %d versions are registered", id, len(found))
	}
}

func (c *Catalog) Mapper(name string) (*mapping.Mapper, bool) {
	m, ok := c.mappers[name]
	return m, ok
}

func (c *Catalog) SchemaIDs() []string {
	return slices.Sorted(maps.Keys(c.schemas))
}

func (c *Catalog) MappingNames() []string {
	return slices.Sorted(maps.Keys(c.mappers))
}
