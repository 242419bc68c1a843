package reader

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplesCSV = `sample_id,collection_date,host,ct_value
X1,2023-05-01,human,23.4
X2,2023-05-02,animal,
X3,,human,31`

func TestCSVReader_Read(t *testing.T) {
	reader := NewCSVReader(strings.NewReader(samplesCSV))

	rows, err := reader.Read()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Row{
		"sample_id":       "X1",
		"collection_date": "2023-05-01",
		"host":            "human",
		"ct_value":        "23.4",
	}, rows[0])
	assert.Equal(t, "", rows[1]["ct_value"])
}

func TestCSVReader_Read_Options(t *testing.T) {
	data := "\uFEFFsample_id;host\nX1;human\n;\nX2;animal\n"

	rows, err := NewCSVReader(strings.NewReader(data), WithDelimiter(';')).Read()
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank rows are skipped")
	assert.Equal(t, Row{"sample_id": "X1", "host": "human"}, rows[0])
}

func TestCSVReader_Read_ShortAndLongRows(t *testing.T) {
	rows, err := NewCSVReader(strings.NewReader("a,b,c\n1\n")).Read()
	require.NoError(t, err)
	assert.Equal(t, Row{"a": "1", "b": "", "c": ""}, rows[0])

	_, err = NewCSVReader(strings.NewReader("a,b\n1,2,3\n")).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCSVReader_Read_MissingHeader(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader("")).Read()
	require.Error(t, err)
}

func TestCSVReader_ReadParallel(t *testing.T) {
	reader := NewCSVReader(strings.NewReader(samplesCSV))

	resultsChan, err := reader.ReadParallel(t.Context(), 2)
	require.NoError(t, err)

	var results []ParallelReaderResult
	for res := range resultsChan {
		require.NoError(t, res.Err)
		results = append(results, res)
	}
	require.Len(t, results, 3)

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}
	assert.Equal(t, "X1", results[0].Row["sample_id"])
	assert.Equal(t, "X2", results[1].Row["sample_id"])
	assert.Equal(t, "X3", results[2].Row["sample_id"])
}

func TestCSVReader_ReadParallel_CancelEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	reader := NewCSVReader(strings.NewReader(samplesCSV))

	resultsChan, err := reader.ReadParallel(ctx, 2)
	require.NoError(t, err)

	var results []Row
	for res := range resultsChan {
		require.NoError(t, res.Err)
		results = append(results, res.Row)
		if len(results) == 1 {
			cancel()
			break
		}
	}

	assert.Len(t, results, 1)
}
