package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DjordjeVuckovic/relecov-tools/internal/batch"
	"github.com/DjordjeVuckovic/relecov-tools/internal/mapping"
	"github.com/DjordjeVuckovic/relecov-tools/internal/validate"
)

// PromObserver exports batch outcomes as Prometheus metrics.
type PromObserver struct {
	records    *prometheus.CounterVec
	violations *prometheus.CounterVec
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
}

var _ batch.Observer = (*PromObserver)(nil)

// NewPromObserver registers its collectors on reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewPromObserver(reg prometheus.Registerer) *PromObserver {
	p := &PromObserver{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relecov_records_total",
			Help: "Records processed, by outcome (mapped, valid, rejected) and failed stage.",
		}, []string{"outcome", "stage"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relecov_violations_total",
			Help: "Field and mapping violations reported, by kind.",
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relecov_runs_total",
			Help: "Batch runs finished, by success.",
		}, []string{"success"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "relecov_run_duration_seconds",
			Help:    "Wall time of a batch run.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
	reg.MustRegister(p.records, p.violations, p.runs, p.duration)
	return p
}

func (p *PromObserver) ObserveOutcome(o batch.Outcome) {
	switch {
	case !o.OK():
		p.records.WithLabelValues("rejected", string(o.FailedStage)).Inc()
	case o.Mapping != nil:
		p.records.WithLabelValues("mapped", "").Inc()
	default:
		p.records.WithLabelValues("valid", "").Inc()
	}

	for _, v := range o.Validation.Violations {
		p.observeKind(v.Kind)
	}
	if o.Mapping != nil {
		for _, v := range o.Mapping.Violations {
			p.observeMappingKind(v.Kind)
		}
	}
}

func (p *PromObserver) ObserveRun(r *batch.Report) {
	success := "false"
	if r.Success {
		success = "true"
	}
	p.runs.WithLabelValues(success).Inc()
	p.duration.Observe(r.Duration().Seconds())
}

func (p *PromObserver) observeKind(k validate.Kind) {
	p.violations.WithLabelValues(string(k)).Inc()
}

func (p *PromObserver) observeMappingKind(k mapping.Kind) {
	p.violations.WithLabelValues(string(k)).Inc()
}
