package collector

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/reader"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

func drain[T any](t *testing.T, ch <-chan Result[T]) []Result[T] {
	t.Helper()
	var out []Result[T]
	for res := range ch {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func TestRowCollector_Collect(t *testing.T) {
	s := schema.MustNew("relecov", "",
		schema.Field{Name: "sample_id", Type: schema.TypeString},
		schema.Field{Name: "ct_value", Type: schema.TypeFloat},
	)
	csv := "sample_id,ct_value\nX1,23.4\nX2,\nX3,abc\n"

	c := NewRowCollector(reader.NewCSVReader(strings.NewReader(csv)), reader.NewDecoder(s))
	ch, err := c.Collect(t.Context())
	require.NoError(t, err)

	results := drain(t, ch)
	require.Len(t, results, 3)
	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, i, res.Index)
	}
	assert.Equal(t, record.Float(23.4), results[0].Result["ct_value"])
	assert.NotContains(t, results[1].Result, "ct_value")
	assert.Equal(t, record.String("abc"), results[2].Result["ct_value"])
}

func TestRowCollector_RowError(t *testing.T) {
	c := NewRowCollector(reader.NewCSVReader(strings.NewReader("a\n1,2\n3\n")), reader.NewDecoder(nil))
	ch, err := c.Collect(t.Context())
	require.NoError(t, err)

	results := drain(t, ch)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestJSONCollector(t *testing.T) {
	c, err := NewJSONCollector(reader.NewJSONReader(strings.NewReader(`[{"a": 1}, {"a": 2}]`)))
	require.NoError(t, err)

	results := drain(t, mustCollect(t, c))
	require.Len(t, results, 2)
	assert.Equal(t, record.Int(2), results[1].Result["a"])

	_, err = NewJSONCollector(reader.NewJSONReader(strings.NewReader(`[{"a": `)))
	assert.Error(t, err)
}

func TestSliceCollector_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	c := NewSliceCollector([]record.Record{{}, {}, {}})
	ch, err := c.Collect(ctx)
	require.NoError(t, err)

	<-ch
	cancel()
	for range ch {
	}
}

func mustCollect(t *testing.T, c Collector[record.Record]) <-chan Result[record.Record] {
	t.Helper()
	ch, err := c.Collect(t.Context())
	require.NoError(t, err)
	return ch
}
