package loader

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/mappingdoc"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/schemadoc"
)

type YAMLLoader struct {
	reader io.Reader
}

func NewYAMLLoader(reader io.Reader) *YAMLLoader {
	return &YAMLLoader{
		reader: reader,
	}
}

func (l *YAMLLoader) LoadSchema(validate bool) (*schemadoc.Schema, error) {
	var doc schemadoc.Schema
	if err := l.decode(&doc); err != nil {
		return nil, err
	}
	if validate {
		if err := doc.Validate(); err != nil {
			return nil, apperr.NewValidationWrap("invalid schema document", err)
		}
	}
	return &doc, nil
}

func (l *YAMLLoader) LoadMapping(validate bool) (*mappingdoc.MappingSpec, error) {
	var doc mappingdoc.MappingSpec
	if err := l.decode(&doc); err != nil {
		return nil, err
	}
	if validate {
		if err := doc.Validate(); err != nil {
			return nil, apperr.NewValidationWrap("invalid mapping document", err)
		}
	}
	return &doc, nil
}

func (l *YAMLLoader) decode(out any) error {
	decoder := yaml.NewDecoder(l.reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return apperr.NewValidationWrap("malformed YAML document", err)
	}
	return nil
}
