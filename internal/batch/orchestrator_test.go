package batch

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/relecov-tools/internal/apperr"
	"github.com/DjordjeVuckovic/relecov-tools/internal/domain/record"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/schema"
)

func sourceSchema() *schema.Schema {
	return schema.MustNew("relecov", "1",
		schema.Field{Name: "sample_id", Type: schema.TypeString, Required: true},
		schema.Field{Name: "collection_date", Type: schema.TypeDate, Required: true},
		schema.Field{Name: "host", Type: schema.TypeEnum, Required: true, Enum: []string{"human", "animal", "environment"}},
	)
}

func targetSchema() *schema.Schema {
	return schema.MustNew("ena", "1",
		schema.Field{Name: "sample_alias", Type: schema.TypeString, Required: true},
		schema.Field{Name: "collection_date", Type: schema.TypeDate, Required: true},
		schema.Field{Name: "host_organism", Type: schema.TypeEnum, Required: true, Enum: []string{"Homo sapiens"}},
	)
}

func newMapper(t *testing.T) *mapping.Mapper {
	t.Helper()
	m, err := mapping.NewMapper(&mapping.Spec{
		Name:   "relecov-to-ena",
		Source: "relecov",
		Target: "ena",
		Fields: []mapping.FieldMapping{
			{Source: "sample_id", Target: "sample_alias"},
			{Source: "collection_date", Target: "collection_date"},
			{Source: "host", Target: "host_organism", Translate: map[string]string{"human": "Homo sapiens", "animal": "NA"}},
		},
	}, sourceSchema(), targetSchema())
	require.NoError(t, err)
	return m
}

func sample(id, host string) record.Record {
	return record.Record{
		"sample_id":       record.String(id),
		"collection_date": record.String("2023-05-01"),
		"host":            record.String(host),
	}
}

func TestRun_BatchIsolation(t *testing.T) {
	o, err := NewOrchestrator(sourceSchema(), WithMapper(newMapper(t)), WithRecordID("sample_id"), WithWorkers(4))
	require.NoError(t, err)

	const n, bad = 50, 17
	records := make([]record.Record, n)
	for i := range records {
		records[i] = sample(fmt.Sprintf("S%02d", i), "human")
	}
	records[bad] = record.Record{"sample_id": record.Int(17)}

	rep := o.Run(records)

	require.Len(t, rep.Outcomes, n)
	assert.Equal(t, Counts{Total: n, Valid: n - 1, Invalid: 1, Mapped: n - 1}, rep.Counts)
	assert.False(t, rep.Success)

	for i, out := range rep.Outcomes {
		assert.Equal(t, i, out.Index)
		if i == bad {
			assert.Equal(t, StageValidation, out.FailedStage)
			assert.Nil(t, out.Mapping)
			continue
		}
		assert.True(t, out.OK())
		assert.Equal(t, fmt.Sprintf("S%02d", i), out.RecordID)
	}

	mapped := rep.MappedRecords()
	require.Len(t, mapped, n-1)
	assert.Equal(t, record.String("S00"), mapped[0]["sample_alias"])
	assert.Equal(t, record.String("S18"), mapped[bad]["sample_alias"])

	rejected := rep.Rejected()
	require.Len(t, rejected, 1)
	assert.Equal(t, bad, rejected[0].Index)
}

func TestRun_FirstFailingStage(t *testing.T) {
	o, err := NewOrchestrator(sourceSchema(), WithMapper(newMapper(t)), WithMaxInvalid(3))
	require.NoError(t, err)

	rep := o.Run([]record.Record{
		sample("A", "human"),
		sample("B", "plant"),
		sample("C", "environment"),
		sample("D", "animal"),
	})

	stages := make([]Stage, len(rep.Outcomes))
	for i, out := range rep.Outcomes {
		stages[i] = out.FailedStage
	}
	assert.Equal(t, []Stage{StageNone, StageValidation, StageMapping, StagePostMap}, stages)
	assert.Equal(t, Counts{Total: 4, Valid: 3, Invalid: 1, Mapped: 1, Unmapped: 2}, rep.Counts)
	assert.Equal(t, mapping.UntranslatableValue, rep.Outcomes[2].Mapping.Violations[0].Kind)
	assert.True(t, rep.Success, "three rejections are within policy")
	assert.Equal(t, "ena@1", rep.Target)
	assert.Equal(t, "relecov-to-ena", rep.Mapping)
}

func TestRun_ValidationOnly(t *testing.T) {
	o, err := NewOrchestrator(sourceSchema())
	require.NoError(t, err)

	rep := o.Run([]record.Record{sample("A", "human"), sample("B", "animal")})
	assert.True(t, rep.Success)
	assert.Equal(t, Counts{Total: 2, Valid: 2}, rep.Counts)
	assert.Empty(t, rep.MappedRecords())
	assert.Empty(t, rep.Target)
}

func TestRun_Empty(t *testing.T) {
	o, err := NewOrchestrator(sourceSchema(), WithMapper(newMapper(t)))
	require.NoError(t, err)

	rep := o.Run(nil)
	assert.True(t, rep.Success)
	assert.Empty(t, rep.Outcomes)
	assert.NotEqual(t, rep.RunID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	records := make([]record.Record, 200)
	hosts := []string{"human", "animal", "plant", "environment"}
	for i := range records {
		records[i] = sample(fmt.Sprint(i), hosts[i%len(hosts)])
	}

	var reference []Outcome
	for _, workers := range []int{1, 3, 16} {
		o, err := NewOrchestrator(sourceSchema(), WithMapper(newMapper(t)), WithWorkers(workers))
		require.NoError(t, err)
		rep := o.Run(records)
		if reference == nil {
			reference = rep.Outcomes
			continue
		}
		assert.Equal(t, reference, rep.Outcomes, "workers=%d", workers)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes int
	runs     []*Report
}

func (r *recordingObserver) ObserveOutcome(Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes++
}

func (r *recordingObserver) ObserveRun(rep *Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, rep)
}

func TestRun_Observer(t *testing.T) {
	obs := &recordingObserver{}
	o, err := NewOrchestrator(sourceSchema(), WithObserver(obs), WithWorkers(2))
	require.NoError(t, err)

	rep := o.Run([]record.Record{sample("A", "human"), sample("B", "plant"), sample("C", "animal")})
	assert.Equal(t, 3, obs.outcomes)
	require.Len(t, obs.runs, 1)
	assert.Same(t, rep, obs.runs[0])
}

func TestNewOrchestrator_Contract(t *testing.T) {
	_, err := NewOrchestrator(nil)
	var ce *apperr.ContractError
	assert.True(t, errors.As(err, &ce))

	other := schema.MustNew("relecov", "2",
		schema.Field{Name: "sample_id", Type: schema.TypeString},
	)
	_, err = NewOrchestrator(other, WithMapper(newMapper(t)))
	assert.True(t, errors.As(err, &ce))
}
