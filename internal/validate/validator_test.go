package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

func sampleSchema() *schema.Schema {
	return schema.MustNew("relecov", "1",
		schema.Field{Name: "sample_id", Type: schema.TypeString, Required: true},
		schema.Field{Name: "collection_date", Type: schema.TypeDate, Required: true},
		schema.Field{Name: "host", Type: schema.TypeEnum, Required: true, Enum: []string{"human", "animal"}},
	)
}

func TestValidate_Scenario(t *testing.T) {
	v := New()
	s := sampleSchema()

	res, err := v.Validate(s, record.Record{
		"sample_id":       record.String("X1"),
		"collection_date": record.String("2023-05-01"),
		"host":            record.String("human"),
	})
	require.NoError(t, err)
	assert.True(t, res.Valid())
	assert.Empty(t, res.Violations)

	res, err = v.Validate(s, record.Record{
		"sample_id": record.String("X2"),
		"host":      record.String("plant"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, res.Status)
	require.Len(t, res.Violations, 2)

	assert.Equal(t, MissingRequired, res.Violations[0].Kind)
	assert.Equal(t, "collection_date", res.Violations[0].Path)

	assert.Equal(t, InvalidEnumValue, res.Violations[1].Kind)
	assert.Equal(t, "host", res.Violations[1].Path)
	assert.Equal(t, record.String("plant"), res.Violations[1].Value)
}

func TestValidate_TypeMismatch(t *testing.T) {
	s := schema.MustNew("lab", "1",
		schema.Field{Name: "reads", Type: schema.TypeInteger},
		schema.Field{Name: "ct", Type: schema.TypeFloat},
		schema.Field{Name: "passed", Type: schema.TypeBoolean},
		schema.Field{Name: "collected", Type: schema.TypeDate},
		schema.Field{Name: "lineage", Type: schema.TypeEnum, Enum: []string{"BA.1"}},
	)

	res, err := New().Validate(s, record.Record{
		"reads":     record.String("many"),
		"ct":        record.Int(21),
		"passed":    record.String("yes"),
		"collected": record.String("01/05/2023"),
		"lineage":   record.Int(1),
	})
	require.NoError(t, err)

	var got []string
	for _, v := range res.Violations {
		assert.Equal(t, TypeMismatch, v.Kind, v.Path)
		got = append(got, v.Path)
	}
	// an integer satisfies a float field
	assert.Equal(t, []string{"reads", "passed", "collected", "lineage"}, got)
	assert.Equal(t, "integer", res.Violations[0].Expected)
}

func TestValidate_NestedAndLists(t *testing.T) {
	host := schema.MustNew("host", "1",
		schema.Field{Name: "species", Type: schema.TypeString, Required: true},
	)
	sample := schema.MustNew("sample", "1",
		schema.Field{Name: "sample_id", Type: schema.TypeString, Required: true},
		schema.Field{Name: "collection_date", Type: schema.TypeDate, Required: true},
	)
	batch := schema.MustNew("batch", "1",
		schema.Field{Name: "host", Type: schema.TypeNested, Nested: host},
		schema.Field{Name: "samples", Type: schema.TypeList, Items: &schema.Field{Type: schema.TypeNested, Nested: sample}},
		schema.Field{Name: "tags", Type: schema.TypeList, Items: &schema.Field{Type: schema.TypeString}},
	)

	r := record.Record{
		"host": record.Nested(record.Record{}),
		"samples": record.List(
			record.Nested(record.Record{"sample_id": record.String("a"), "collection_date": record.String("2023-01-01")}),
			record.Nested(record.Record{"sample_id": record.String("b")}),
			record.Nested(record.Record{"sample_id": record.Int(3), "collection_date": record.String("2023-01-03")}),
			record.Nested(record.Record{"sample_id": record.String("d"), "collection_date": record.String("bad")}),
		),
		"tags": record.List(record.String("x"), record.Int(1)),
	}

	res, err := New().Validate(batch, r)
	require.NoError(t, err)

	got := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		got = append(got, string(v.Kind)+" "+v.Path)
	}
	assert.Equal(t, []string{
		"missing_required host.species",
		"missing_required samples[1].collection_date",
		"type_mismatch samples[2].sample_id",
		"type_mismatch samples[3].collection_date",
		"type_mismatch tags[1]",
	}, got)
}

func TestValidate_UnknownFieldPolicy(t *testing.T) {
	s := sampleSchema()
	r := record.Record{
		"sample_id":       record.String("X1"),
		"collection_date": record.String("2023-05-01"),
		"host":            record.String("human"),
		"zeta":            record.Int(1),
		"alpha":           record.String("a"),
	}

	res, err := New().Validate(s, r)
	require.NoError(t, err)
	assert.True(t, res.Valid())

	res, err = New(WithUnknownFields(UnknownReport)).Validate(s, r)
	require.NoError(t, err)
	require.Len(t, res.Violations, 2)
	assert.Equal(t, UnexpectedField, res.Violations[0].Kind)
	assert.Equal(t, "alpha", res.Violations[0].Path)
	assert.Equal(t, "zeta", res.Violations[1].Path)
}

func TestValidate_MissingRequiredReportedOnce(t *testing.T) {
	s := sampleSchema()
	r := record.Record{
		"collection_date": record.String("2023-05-01"),
		"host":            record.String("human"),
		"sample_id":       record.Null(),
	}
	res, err := New().Validate(s, r)
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, MissingRequired, res.Violations[0].Kind)
	assert.Equal(t, "sample_id", res.Violations[0].Path)
}

func TestValidate_Idempotent(t *testing.T) {
	v := New(WithUnknownFields(UnknownReport))
	s := sampleSchema()
	r := record.Record{"host": record.String("plant"), "extra": record.Bool(true)}

	first, err := v.Validate(s, r)
	require.NoError(t, err)
	second, err := v.Validate(s, r)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidate_NilSchema(t *testing.T) {
	_, err := New().Validate(nil, record.Record{})
	require.Error(t, err)

	var ce *apperr.ContractError
	assert.True(t, errors.As(err, &ce))
}

func TestResult_Error(t *testing.T) {
	res := newResult([]Violation{
		{Path: "a", Kind: MissingRequired},
		{Path: "b", Kind: MissingRequired},
		{Path: "c", Kind: InvalidEnumValue, Value: record.String("x"), Expected: "one of [y]"},
		{Path: "d", Kind: MissingRequired},
	})
	assert.Equal(t,
		`missing_required(a); missing_required(b); invalid_enum_value(c, "x"): expected one of [y]; ... (total 4)`,
		res.Error())
}
