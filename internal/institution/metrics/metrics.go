package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the institution module.
type Metrics struct {
	InstitutionsCreated prometheus.Counter
	InstitutionsDeleted prometheus.Counter
	GetDetailDuration   prometheus.Histogram
	SearchDuration      prometheus.Histogram
}

// New creates a Metrics instance with all institution module metrics registered.
func New() *Metrics {
	return &Metrics{
		InstitutionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediq_institutions_created_total",
			Help: "Total number of institutions created",
		}),
		InstitutionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediq_institutions_deleted_total",
			Help: "Total number of institutions deleted",
		}),
		GetDetailDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediq_institution_get_detail_duration_seconds",
			Help:    "Duration of institution detail lookups (joined with services)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediq_institution_search_duration_seconds",
			Help:    "Duration of institution name searches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a successful institution creation.
func (m *Metrics) IncrementCreated() {
	m.InstitutionsCreated.Inc()
}

// IncrementDeleted records a successful institution deletion.
func (m *Metrics) IncrementDeleted() {
	m.InstitutionsDeleted.Inc()
}

// ObserveGetDetail records the duration of a detail lookup.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveGetDetail(start time.Time) {
	m.GetDetailDuration.Observe(time.Since(start).Seconds())
}

// ObserveSearch records the duration of a name search.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSearch(start time.Time) {
	m.SearchDuration.Observe(time.Since(start).Seconds())
}
