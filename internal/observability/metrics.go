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
	// Provider metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	ProviderDegraded *prometheus.CounterVec

	// Scan metrics
	ScansTotal     *prometheus.CounterVec
	ScanFailures   *prometheus.CounterVec
	ScanDuration   prometheus.Histogram
	LedgerRaces    prometheus.Counter
	NameCacheTotal *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Gateway metrics
	GatewayEvents     *prometheus.CounterVec
	GatewayReconnects prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_scan_bot"
	}

	return &Metrics{
		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of provider requests by provider and result kind",
		}, []string{"provider", "result"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_latency_seconds",
			Help:      "Provider request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "endpoint"}),
		ProviderDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "optional_failures_total",
			Help:      "Optional provider failures absorbed with an empty partial",
		}, []string{"provider"}),

		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "outcomes_total",
			Help:      "Total number of completed scans by outcome",
		}, []string{"outcome"}),
		ScanFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "failures_total",
			Help:      "Total number of aborted scans by stage",
		}, []string{"stage"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "End-to-end scan duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		LedgerRaces: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "insert_races_total",
			Help:      "First-scan inserts that lost to a concurrent scan and were re-read",
		}),
		NameCacheTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "display_name_lookups_total",
			Help:      "Display name cache lookups by result",
		}, []string{"result"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),

		GatewayEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "events_total",
			Help:      "Gateway dispatch events received by type",
		}, []string{"type"}),
		GatewayReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "reconnects_total",
			Help:      "Total number of gateway reconnect attempts",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordProviderRequest records one provider call and its latency.
// result is "ok" or the error kind.
func RecordProviderRequest(provider, endpoint, result string, seconds float64) {
	DefaultMetrics.ProviderRequests.WithLabelValues(provider, result).Inc()
	DefaultMetrics.ProviderLatency.WithLabelValues(provider, endpoint).Observe(seconds)
}

// RecordOptionalDegraded records an absorbed optional provider failure.
func RecordOptionalDegraded(provider string) {
	DefaultMetrics.ProviderDegraded.WithLabelValues(provider).Inc()
}

// RecordScan records a completed scan.
func RecordScan(outcome string, seconds float64) {
	DefaultMetrics.ScansTotal.WithLabelValues(outcome).Inc()
	DefaultMetrics.ScanDuration.Observe(seconds)
}

// RecordScanFailure records a scan aborted at the given stage.
func RecordScanFailure(stage string) {
	DefaultMetrics.ScanFailures.WithLabelValues(stage).Inc()
}

// RecordLedgerRace records a lost first-scan insert race.
func RecordLedgerRace() {
	DefaultMetrics.LedgerRaces.Inc()
}

// RecordNameCache records a display name cache lookup ("hit", "miss", "error").
func RecordNameCache(result string) {
	DefaultMetrics.NameCacheTotal.WithLabelValues(result).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordGatewayEvent records a gateway dispatch event.
func RecordGatewayEvent(eventType string) {
	DefaultMetrics.GatewayEvents.WithLabelValues(eventType).Inc()
}

// RecordGatewayReconnect records a gateway reconnect attempt.
func RecordGatewayReconnect() {
	DefaultMetrics.GatewayReconnects.Inc()
}
