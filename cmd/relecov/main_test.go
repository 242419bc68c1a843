package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../../internal/loader/testdata"

const samples = `sample_id,collection_date,host,ct_value
X1,2023-05-01,human,23.4
X2,2023-05-02,dog,20
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte(samples), 0o644))
	return path
}

func TestRun_Validate(t *testing.T) {
	dataset := writeDataset(t)
	schemaPath := filepath.Join(testdata, "relecov.yaml")

	var out bytes.Buffer
	err := run(t.Context(), "validate", []string{"-schema", schemaPath, "-id", "sample_id", dataset}, &out)
	assert.ErrorIs(t, err, errUnsuccessful)
	assert.Contains(t, out.String(), "invalid_enum_value(host")
	assert.Contains(t, out.String(), "X2")

	out.Reset()
	rejected := filepath.Join(t.TempDir(), "rejected.json")
	err = run(t.Context(), "validate", []string{"-schema", schemaPath, "-max-rejected", "1", "-rejected", rejected, dataset}, &out)
	require.NoError(t, err)

	data, err := os.ReadFile(rejected)
	require.NoError(t, err)
	var rows []struct {
		Index  int            `json:"index"`
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "dog", rows[0].Record["host"])
}

func TestRun_Map(t *testing.T) {
	dataset := writeDataset(t)

	var out bytes.Buffer
	err := run(t.Context(), "map", []string{
		"-mapping", filepath.Join(testdata, "relecov-to-ena.yaml"),
		"-source", filepath.Join(testdata, "relecov.yaml"),
		"-target", filepath.Join(testdata, "ena.yaml"),
		"-max-rejected", "1",
		"-q",
		dataset,
	}, &out)
	require.NoError(t, err)

	var mapped []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &mapped))
	require.Len(t, mapped, 1)
	assert.Equal(t, "X1", mapped[0]["sample_alias"])
	assert.Equal(t, "Homo sapiens", mapped[0]["host_scientific_name"])
	assert.Equal(t, 23.4, mapped[0]["ct"])
	assert.Equal(t, "Spain", mapped[0]["geographic_location"])
	assert.Equal(t, "ERC000033", mapped[0]["checklist"])
}

func TestRun_Lint(t *testing.T) {
	var out bytes.Buffer
	err := run(t.Context(), "lint", []string{
		"-mapping", filepath.Join(testdata, "relecov-to-ena.yaml"),
		"-source", filepath.Join(testdata, "relecov.yaml"),
		"-target", filepath.Join(testdata, "ena.yaml"),
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "every enum value has a translation")
}

func TestRun_Export(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(t.Context(), "export", []string{"-schema", filepath.Join(testdata, "relecov.yaml")}, &out))
	assert.Less(t, out.Len(), 256<<10)
	assert.NotContains(t, out.String(), strings.Repeat(" ", 64))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "sample_id")
}

func TestRun_BadUsage(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
	}{
		{name: "unknown command", cmd: "frobnicate"},
		{name: "validate without schema", cmd: "validate", args: []string{"samples.csv"}},
		{name: "validate without dataset", cmd: "validate", args: []string{"-schema", filepath.Join(testdata, "relecov.yaml")}},
		{name: "map without target", cmd: "map", args: []string{"-mapping", "m.yaml", "-source", "s.yaml", "x.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t.Context(), tt.cmd, tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.NotErrorIs(t, err, errUnsuccessful)
		})
	}
}
