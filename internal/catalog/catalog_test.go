package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

func copyFixtures(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("..", "loader", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := copyFixtures(t, "relecov.yaml", "ena.yaml", "relecov-to-ena.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# docs"), 0o644))

	c, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"ena@1", "relecov@2.1"}, c.SchemaIDs())
	assert.Equal(t, []string{"relecov-to-ena"}, c.MappingNames())

	s, ok := c.Schema("relecov")
	require.True(t, ok)
	assert.Equal(t, "relecov@2.1", s.ID())

	m, ok := c.Mapper("relecov-to-ena")
	require.True(t, ok)
	assert.Equal(t, "ena@1", m.Target().ID())

	_, ok = c.Mapper("nope")
	assert.False(t, ok)
}

func TestLoadDir_Errors(t *testing.T) {
	t.Run("duplicate schema", func(t *testing.T) {
		dir := copyFixtures(t, "relecov.yaml", "relecov.schema.json")
		_, err := LoadDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("mapping without target schema", func(t *testing.T) {
		dir := copyFixtures(t, "relecov.yaml", "relecov-to-ena.yaml")
		_, err := LoadDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `schema "ena@1" is not registered`)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
		assert.Error(t, err)
	})
}

func TestCatalog_AmbiguousName(t *testing.T) {
	c := New()
	require.NoError(t, c.AddSchema(schema.MustNew("ena", "1", schema.Field{Name: "a", Type: schema.TypeString})))
	require.NoError(t, c.AddSchema(schema.MustNew("ena", "2", schema.Field{Name: "a", Type: schema.TypeString})))

	_, ok := c.Schema("ena")
	assert.False(t, ok)
	_, ok = c.Schema("ena@2")
	assert.True(t, ok)
}
