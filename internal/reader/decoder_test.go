package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

func samplesSchema() *schema.Schema {
	location := schema.MustNew("location", "",
		schema.Field{Name: "country", Type: schema.TypeString, Label: "Country"},
		schema.Field{Name: "region", Type: schema.TypeString},
	)
	return schema.MustNew("relecov", "2.1",
		schema.Field{Name: "sample_id", Type: schema.TypeString, Required: true, Label: "Sample ID"},
		schema.Field{Name: "collection_date", Type: schema.TypeDate},
		schema.Field{Name: "host", Type: schema.TypeEnum, Enum: []string{"human", "animal"}},
		schema.Field{Name: "ct_value", Type: schema.TypeFloat},
		schema.Field{Name: "read_count", Type: schema.TypeInteger},
		schema.Field{Name: "paired", Type: schema.TypeBoolean},
		schema.Field{Name: "location", Type: schema.TypeNested, Nested: location},
		schema.Field{Name: "lineages", Type: schema.TypeList, Items: &schema.Field{Name: "lineage", Type: schema.TypeString}},
		schema.Field{Name: "depths", Type: schema.TypeList, Items: &schema.Field{Name: "depth", Type: schema.TypeInteger}},
	)
}

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(samplesSchema())

	r, err := d.Decode(Row{
		"Sample ID":         "X1",
		"collection_date":   "2023-05-01",
		"host":              "human",
		"ct_value":          "23.4",
		"read_count":        "1200",
		"paired":            "true",
		"location.region":   "Madrid",
		"Country":           "Spain",
		"lineages":          "BA.1, BA.2,",
		"depths":            "10,20",
		"lab_notes":         "resequenced",
		"sequencing_center": "",
	})
	require.NoError(t, err)

	assert.Equal(t, record.Record{
		"sample_id":       record.String("X1"),
		"collection_date": record.MustDate("2023-05-01"),
		"host":            record.String("human"),
		"ct_value":        record.Float(23.4),
		"read_count":      record.Int(1200),
		"paired":          record.Bool(true),
		"location": record.Nested(record.Record{
			"region":  record.String("Madrid"),
			"country": record.String("Spain"),
		}),
		"lineages":  record.List(record.String("BA.1"), record.String("BA.2")),
		"depths":    record.List(record.Int(10), record.Int(20)),
		"lab_notes": record.String("resequenced"),
	}, r)
}

func TestDecoder_UnparsableCellsStayStrings(t *testing.T) {
	d := NewDecoder(samplesSchema())

	r, err := d.Decode(Row{
		"sample_id":       "X1",
		"collection_date": "01/05/2023",
		"ct_value":        "n/a",
		"read_count":      "12.5",
		"depths":          "10,many",
	})
	require.NoError(t, err)

	assert.Equal(t, record.String("01/05/2023"), r["collection_date"])
	assert.Equal(t, record.String("n/a"), r["ct_value"])
	assert.Equal(t, record.String("12.5"), r["read_count"])
	assert.Equal(t, record.List(record.Int(10), record.String("many")), r["depths"])
}

func TestDecoder_ListSeparator(t *testing.T) {
	d := NewDecoder(samplesSchema(), WithListSeparator("|"))

	r, err := d.Decode(Row{"lineages": "BA.1, sub|BA.2"})
	require.NoError(t, err)
	assert.Equal(t, record.List(record.String("BA.1, sub"), record.String("BA.2")), r["lineages"])
}

func TestDecoder_ConflictingColumns(t *testing.T) {
	d := NewDecoder(samplesSchema())

	_, err := d.Decode(Row{"location": "Spain", "location.country": "Spain"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location.country")
}

func TestJSONReader_Read(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "array", input: `[{"sample_id": "X1", "read_count": 3}, {"sample_id": "X2"}]`, want: 2},
		{name: "lines", input: "{\"sample_id\": \"X1\", \"read_count\": 3}\n\n{\"sample_id\": \"X2\"}\n", want: 2},
		{name: "empty", input: "  ", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NewJSONReader(strings.NewReader(tt.input)).Read()
			require.NoError(t, err)
			require.Len(t, records, tt.want)
			if tt.want > 0 {
				assert.Equal(t, record.String("X1"), records[0]["sample_id"])
				assert.Equal(t, record.Int(3), records[0]["read_count"])
			}
		})
	}
}

func TestJSONReader_Malformed(t *testing.T) {
	_, err := NewJSONReader(strings.NewReader("{\"a\": 1}\n{oops}\n")).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
