// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	TradesLoaded         prometheus.Counter
	TradeRowsSkipped     prometheus.Counter
	SnapshotLoadsByTable *prometheus.CounterVec

	// Detection metrics
	ClustersDetected prometheus.Counter
	RingsDetected    prometheus.Counter
	FindingsByKind   *prometheus.CounterVec
	RegimeAlerts     prometheus.Counter

	// Pipeline metrics
	PassesTotal  *prometheus.CounterVec
	PassDuration *prometheus.HistogramVec

	// Case metrics
	EvidenceSynthesized prometheus.Counter
	AgentDecisions      *prometheus.CounterVec

	// Health metrics
	LastSuccessfulPass prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "prism_engine"
	}

	return &Metrics{
		// Ingestion metrics
		TradesLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trades_loaded_total",
			Help:      "Total number of trade rows loaded",
		}),
		TradeRowsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trade_rows_skipped_total",
			Help:      "Total number of trade rows skipped for unparseable fields",
		}),
		SnapshotLoadsByTable: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "snapshot_loads_total",
			Help:      "Total number of snapshot table loads by table and status",
		}, []string{"table", "status"}),

		// Detection metrics
		ClustersDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "clusters_detected_total",
			Help:      "Total number of synchronized trade clusters detected",
		}),
		RingsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "rings_detected_total",
			Help:      "Total number of coordination rings detected",
		}),
		FindingsByKind: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "behavior_findings_total",
			Help:      "Total number of behavioral findings by kind",
		}, []string{"kind"}),
		RegimeAlerts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "regime_alerts_total",
			Help:      "Total number of regime shift alerts raised",
		}),

		// Pipeline metrics
		PassesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "passes_total",
			Help:      "Total number of detection passes by phase and status",
		}, []string{"phase", "status"}),
		PassDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "pass_duration_seconds",
			Help:      "Detection pass duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"phase"}),

		// Case metrics
		EvidenceSynthesized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cases",
			Name:      "evidence_synthesized_total",
			Help:      "Total number of evidence packages synthesized",
		}),
		AgentDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cases",
			Name:      "agent_decisions_total",
			Help:      "Total number of autonomous agent decisions by action",
		}, []string{"action"}),

		// Health metrics
		LastSuccessfulPass: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pass_timestamp",
			Help:      "Unix timestamp of last successful detection pass",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordClustersDetected adds to the cluster counter.
func RecordClustersDetected(n int) {
	DefaultMetrics.ClustersDetected.Add(float64(n))
}

// RecordRingsDetected adds to the ring counter.
func RecordRingsDetected(n int) {
	DefaultMetrics.RingsDetected.Add(float64(n))
}

// RecordFindings adds behavioral findings of one kind.
func RecordFindings(kind string, n int) {
	DefaultMetrics.FindingsByKind.WithLabelValues(kind).Add(float64(n))
}

// RecordRegimeAlerts adds to the regime alert counter.
func RecordRegimeAlerts(n int) {
	DefaultMetrics.RegimeAlerts.Add(float64(n))
}

// RecordAgentDecision increments the decision counter for an action.
func RecordAgentDecision(action string) {
	DefaultMetrics.AgentDecisions.WithLabelValues(action).Inc()
}
