package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/schemadoc"
)

// LoadSchemaFile reads a schema from a YAML schema document (.yaml, .yml)
// or a JSON Schema document (.json).
func LoadSchemaFile(path string) (*schema.Schema, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		s, err := SchemaFromJSONSchema(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	case ".yaml", ".yml":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		doc, err := NewYAMLLoader(file).LoadSchema(true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s, err := CompileSchema(doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: unsupported schema file extension", path)
	}
}

func LoadMappingFile(path string) (*mapping.Spec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := NewYAMLLoader(file).LoadMapping(true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	spec, err := CompileMapping(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// DocumentKind reports the kind of a schema or mapping file: the YAML
// "kind" key, or schemadoc.Kind for JSON Schema files.
func DocumentKind(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return schemadoc.Kind, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return "", apperr.NewValidationWrap(path+": malformed YAML document", err)
	}
	return head.Kind, nil
}
