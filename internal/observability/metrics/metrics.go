package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	ingestOutcomes *prometheus.CounterVec
	typeSeeds      *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	jobRuns        *prometheus.CounterVec
	jobErrors      *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
}

// New registers the service instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		ingestOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfits_ingest_outcomes_total",
			Help: "Killmail ingestion attempts by outcome.",
		}, []string{"outcome"}),
		typeSeeds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfits_item_type_seeds_total",
			Help: "Item type seeding attempts by result.",
		}, []string{"result"}),
		cacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfits_cache_lookups_total",
			Help: "Read-through cache lookups by result.",
		}, []string{"result"}),
		jobRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfits_job_runs_total",
			Help: "Scheduler job executions.",
		}, []string{"job"}),
		jobErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lostfits_job_errors_total",
			Help: "Scheduler job failures.",
		}, []string{"job"}),
		jobDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lostfits_job_duration_seconds",
			Help:    "Scheduler job wall time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
}

func (m *Metrics) IncIngestOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ingestOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncTypeSeed(result string) {
	if m == nil {
		return
	}
	m.typeSeeds.WithLabelValues(result).Inc()
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *Metrics) IncJobError(job string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *Metrics) ObserveJobDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}
