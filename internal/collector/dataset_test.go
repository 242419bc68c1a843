package collector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		path    string
		want    Format
		wantErr bool
	}{
		{name: "csv by extension", path: "samples.CSV", want: FormatCSV},
		{name: "tsv by extension", path: "samples.tsv", want: FormatTSV},
		{name: "ndjson by extension", path: "samples.ndjson", want: FormatJSON},
		{name: "explicit wins", format: "json", path: "samples.csv", want: FormatJSON},
		{name: "unknown extension", path: "samples.xlsx", wantErr: true},
		{name: "unknown format", format: "xml", path: "samples.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.format, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForDataset(t *testing.T) {
	s := schema.MustNew("relecov", "",
		schema.Field{Name: "sample_id", Type: schema.TypeString},
		schema.Field{Name: "ct_value", Type: schema.TypeFloat},
	)

	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{name: "csv", format: FormatCSV, data: "sample_id,ct_value\nX1,23.5\n"},
		{name: "tsv", format: FormatTSV, data: "sample_id\tct_value\nX1\t23.5\n"},
		{name: "json", format: FormatJSON, data: `{"sample_id": "X1", "ct_value": 23.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ForDataset(strings.NewReader(tt.data), tt.format, s)
			require.NoError(t, err)

			results := drain(t, mustCollect(t, c))
			require.Len(t, results, 1)
			require.NoError(t, results[0].Err)
			assert.Equal(t, record.String("X1"), results[0].Result["sample_id"])
			assert.Equal(t, record.Float(23.5), results[0].Result["ct_value"])
		})
	}
}
