package history

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for statement processing. Each
// instance owns its registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	linesTotal     *prometheus.CounterVec
	recordsTotal   prometheus.Counter
	runDuration    prometheus.Histogram
	periodsMissing prometheus.Counter
}

// NewMetrics creates a dedicated registry and registers all metrics in it
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccs_extract_runs_total",
				Help: "Statements processed, by outcome.",
			},
			[]string{"status"},
		),
		linesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccs_extract_lines_total",
				Help: "Statement lines that did not become records, by reason.",
			},
			[]string{"reason"},
		),
		recordsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ccs_extract_records_total",
				Help: "Transaction records emitted.",
			},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ccs_extract_run_duration_seconds",
				Help:    "Time to process one statement.",
				Buckets: prometheus.DefBuckets,
			},
		),
		periodsMissing: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ccs_extract_period_unresolved_total",
				Help: "Statements without a usable period declaration.",
			},
		),
	}
}

// ObserveRun records a successful run
func (m *Metrics) ObserveRun(run *Run, elapsed time.Duration) {
	m.runsTotal.WithLabelValues("ok").Inc()
	m.runDuration.Observe(elapsed.Seconds())
	m.recordsTotal.Add(float64(run.Stats.RecordsEmitted))

	m.linesTotal.WithLabelValues("skipped").Add(float64(run.Stats.LinesSkipped))
	m.linesTotal.WithLabelValues("ambiguous").Add(float64(run.Stats.AmbiguousLines))
	m.linesTotal.WithLabelValues("invalid_date").Add(float64(run.Stats.InvalidDates))
	m.linesTotal.WithLabelValues("invalid_amount").Add(float64(run.Stats.InvalidAmounts))

	if !run.Stats.PeriodResolved {
		m.periodsMissing.Inc()
	}
}

// ObserveFailure records a statement that could not be processed
func (m *Metrics) ObserveFailure(elapsed time.Duration) {
	m.runsTotal.WithLabelValues("error").Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
