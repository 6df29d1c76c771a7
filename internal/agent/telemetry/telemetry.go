// Package telemetry holds the prometheus collectors of the report workflow.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "deepresearch"

// Metrics groups every collector recorded during a run. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	RunsStarted    prometheus.Counter
	RunsCompleted  *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	BranchDuration *prometheus.HistogramVec
	SearchFailures *prometheus.CounterVec
	LLMCalls       *prometheus.CounterVec
	LLMLatency     *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_started_total",
			Help: "Report runs started.",
		}),
		RunsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_completed_total",
			Help: "Report runs finished, by status (report, empty, error).",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help:    "Wall time of a report run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		BranchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "branch_duration_seconds",
			Help:    "Wall time of one fan-out branch, by kind (research, final).",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"kind"}),
		SearchFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "search_query_failures_total",
			Help: "Search queries dropped because the provider failed.",
		}, []string{"provider"}),
		LLMCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "llm_calls_total",
			Help: "LLM invocations by kind and status.",
		}, []string{"kind", "status"}),
		LLMLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "llm_call_duration_seconds",
			Help:    "LLM invocation latency by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.RunsStarted.Inc()
}

func (m *Metrics) RunFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsCompleted.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) BranchFinished(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.BranchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) SearchFailed(provider string) {
	if m == nil {
		return
	}
	m.SearchFailures.WithLabelValues(provider).Inc()
}

func (m *Metrics) LLMCall(kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMCalls.WithLabelValues(kind, status).Inc()
	m.LLMLatency.WithLabelValues(kind).Observe(d.Seconds())
}
