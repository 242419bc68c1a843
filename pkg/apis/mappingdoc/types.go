package mappingdoc

import (
	"fmt"

	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis"
)

const Kind = "MappingSpec"

// MappingSpec declares how records of one schema are re-expressed in another
// +schema:root=true
// +schema:group=relecov.io
// +schema:version=v1
type MappingSpec struct {
	// Kind is the resource type identifier
	Kind string `json:"kind" yaml:"kind" validate:"required,eq=MappingSpec" schema:"required,enum=MappingSpec" description:"Resource type identifier"`

	// Version is the API version
	Version string `json:"version" yaml:"version" validate:"required,eq=v1" schema:"required,enum=v1" description:"API version"`

	// Metadata contains the mapping metadata
	Metadata apis.Metadata `json:"metadata" yaml:"metadata" validate:"required" schema:"required" description:"Mapping metadata"`

	// Source is the schema id records are read as, "name" or "name@version"
	Source string `json:"source" yaml:"source" validate:"required" schema:"required,minLength=1" description:"Source schema identifier"`

	// Target is the schema id records are written as
	Target string `json:"target" yaml:"target" validate:"required" schema:"required,minLength=1" description:"Target schema identifier"`

	// FieldMappings defines the field mapping rules, applied in order
	FieldMappings []FieldMapping `json:"fieldMappings" yaml:"fieldMappings" validate:"required,min=1,dive" schema:"required,minItems=1" description:"Array of field mapping definitions"`
}

type FieldMapping struct {
	// Source is a dot-path in the source record
	Source string `json:"source,omitempty" yaml:"source,omitempty" validate:"required_without=Default" schema:"maxLength=200" description:"Source field path, e.g. host.species or samples[0].id"`

	// Target is a dot-path in the target record
	Target string `json:"target" yaml:"target" validate:"required" schema:"required,minLength=1,maxLength=200" description:"Target field path"`

	// Translate maps source vocabulary terms to target terms
	Translate map[string]string `json:"translate,omitempty" yaml:"translate,omitempty" validate:"omitempty,min=1" description:"Value translation table for enumerated fields"`

	// Transform names a registered transform applied to the source value
	Transform string `json:"transform,omitempty" yaml:"transform,omitempty" schema:"enum=trim|upper|lower|to_string|to_integer|to_float|to_boolean|to_date|year|join|split|first" description:"Named transform"`

	// Default is used when the source value is absent
	Default any `json:"default,omitempty" yaml:"default,omitempty" description:"Value written when the source is absent"`
}

func (ms *MappingSpec) Validate() error {
	if err := apis.Check(Kind, ms); err != nil {
		return err
	}
	seen := make(map[string]int, len(ms.FieldMappings))
	for i, fm := range ms.FieldMappings {
		if j, dup := seen[fm.Target]; dup {
			return fmt.Errorf("fieldMappings[%d]: target %q already mapped by fieldMappings[%d]", i, fm.Target, j)
		}
		seen[fm.Target] = i
	}
	return nil
}
