package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Pass related metrics
	PassDuration prometheus.Histogram
	PassFailures prometheus.Counter
	LastPassTime prometheus.Gauge

	// Trigger and ledger metrics
	TriggersFired    *prometheus.CounterVec
	ClaimsSkipped    prometheus.Counter
	LedgerOperations *prometheus.CounterVec
	WorkflowsSkipped *prometheus.CounterVec

	// Dispatch metrics
	Dispatches      *prometheus.CounterVec
	DispatchLatency *prometheus.HistogramVec

	// Broker metrics
	EventsPublished *prometheus.CounterVec
}

// NewMetrics creates all application metrics and registers them with reg.
// A nil reg registers with the default registry.
func NewMetrics(namespace, subsystem string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pass_duration_seconds",
			Help:      "Time spent in one scheduling pass",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		PassFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pass_failures_total",
			Help:      "Total number of passes aborted before evaluating workflows",
		}),
		LastPassTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_pass_timestamp_seconds",
			Help:      "Unix time of the last completed pass",
		}),

		TriggersFired: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "triggers_fired_total",
			Help:      "Total number of (workflow, project) pairs whose trigger window was open",
		}, []string{"schedule_type"}),
		ClaimsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "claims_skipped_total",
			Help:      "Total number of fired pairs that were already claimed",
		}),
		LedgerOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ledger_operations_total",
			Help:      "Total number of execution ledger operations",
		}, []string{"operation", "status"}),
		WorkflowsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workflows_skipped_total",
			Help:      "Total number of workflows skipped during a pass",
		}, []string{"reason"}),

		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatches_total",
			Help:      "Total number of dispatch attempts by outcome",
		}, []string{"channel", "status"}),
		DispatchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of dispatch calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"channel"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_published_total",
			Help:      "Total number of execution events published",
		}, []string{"status"}),
	}
}
