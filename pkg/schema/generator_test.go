package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/mappingdoc"
	"github.com/DjordjeVuckovic/relecov-tools/pkg/apis/schemadoc"
)

func TestGenerator_MappingDocument(t *testing.T) {
	out, err := NewGenerator("relecov.io").GenerateJSONSchema(mappingdoc.MappingSpec{})
	require.NoError(t, err)

	doc, err := Parse([]byte(out))
	require.NoError(t, err)

	assert.Equal(t, SchemaRef, doc.Schema)
	assert.Equal(t, "https://schemas.relecov.io/mappingspec", doc.ID)
	assert.Equal(t, []string{"kind", "version", "metadata", "source", "target", "fieldMappings"}, doc.Required)

	fm := doc.Properties["fieldMappings"]
	require.NotNil(t, fm)
	assert.Equal(t, TypeName("array"), fm.Type)
	require.NotNil(t, fm.Items.Properties["translate"].AdditionalProperties)
	assert.Equal(t, TypeName("string"), fm.Items.Properties["translate"].AdditionalProperties.Type)
	assert.Contains(t, fm.Items.Properties["transform"].Enum, "to_date")
}

func TestGenerator_RecursiveDocument(t *testing.T) {
	s, err := NewGenerator("relecov.io").GenerateJSONSchema(schemadoc.Schema{})
	require.NoError(t, err)
	assert.Less(t, len(s), 64<<10)
	assert.NotContains(t, s, strings.Repeat(" ", 64))

	doc, err := Parse([]byte(s))
	require.NoError(t, err)

	field := doc.Properties["fields"].Items
	require.NotNil(t, field)
	assert.Equal(t, TypeName("object"), field.Properties["fields"].Items.Type)
	assert.Nil(t, field.Properties["fields"].Items.Properties)
	assert.Equal(t, false, field.Properties["required"].Default)
}

func TestTypeName_Unmarshal(t *testing.T) {
	doc, err := Parse([]byte(`{"properties": {"a": {"type": ["null", "number"]}, "b": {"type": "string"}}}`))
	require.NoError(t, err)
	assert.Equal(t, TypeName("number"), doc.Properties["a"].Type)
	assert.Equal(t, TypeName("string"), doc.Properties["b"].Type)

	_, err = Parse([]byte(`{"type": 3}`))
	assert.Error(t, err)
}
