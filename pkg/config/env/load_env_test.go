package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "app.env")
	second := filepath.Join(dir, "pg.env")
	require.NoError(t, os.WriteFile(first, []byte("RELECOV_TEST_SCHEMA=relecov.yaml\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("RELECOV_TEST_PG=postgres://localhost\n"), 0o644))

	t.Setenv("ENV_PATH", first+", "+second)
	t.Setenv("RELECOV_TEST_SCHEMA", "")
	t.Setenv("RELECOV_TEST_PG", "")
	require.NoError(t, os.Unsetenv("RELECOV_TEST_SCHEMA"))
	require.NoError(t, os.Unsetenv("RELECOV_TEST_PG"))

	require.NoError(t, LoadDotEnv("local", "ignored.env"))
	assert.Equal(t, "relecov.yaml", os.Getenv("RELECOV_TEST_SCHEMA"))
	assert.Equal(t, "postgres://localhost", os.Getenv("RELECOV_TEST_PG"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.Error(t, LoadDotEnv("", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
	assert.NoError(t, LoadDotEnv("production"))
}
