package monitoring

import "github.com/prometheus/client_golang/prometheus"

// MetricsCollector namespaces Prometheus metrics under a service name.
type MetricsCollector struct {
	serviceName string
	registry    *prometheus.Registry
}

// NewMetricsCollector creates a collector with its own registry.
func NewMetricsCollector(serviceName string) *MetricsCollector {
	return &MetricsCollector{
		serviceName: serviceName,
		registry:    prometheus.NewRegistry(),
	}
}

// Registry exposes the underlying registry for a /metrics handler.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// NewCounter creates and registers a counter vector.
func (mc *MetricsCollector) NewCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: mc.serviceName + "_" + name, Help: help},
		labels,
	)
	mc.registry.MustRegister(counter)
	return counter
}

// NewHistogram creates and registers a histogram vector.
func (mc *MetricsCollector) NewHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: mc.serviceName + "_" + name, Help: help, Buckets: buckets},
		labels,
	)
	mc.registry.MustRegister(histogram)
	return histogram
}

// LedgerMetrics registers counters for ledger postings, escrow holds and
// settlements, and RAL outcomes. Only RALOutcomes is incremented (by
// ral.Computer); the ledger and escrow packages do not update the others.
type LedgerMetrics struct {
	PostingsTotal *prometheus.CounterVec // labels: op, rail
	EscrowHolds   *prometheus.CounterVec // labels: result
	EscrowSettles *prometheus.CounterVec // labels: result
	RALOutcomes   *prometheus.CounterVec // labels: reason ("ok", "too_few_samples", "query_error")
}

// NewLedgerMetrics registers the standard set of ledger/escrow metrics.
func NewLedgerMetrics(mc *MetricsCollector) *LedgerMetrics {
	return &LedgerMetrics{
		PostingsTotal: mc.NewCounter("ledger_postings_total", "Ledger postings by operation and rail", []string{"op", "rail"}),
		EscrowHolds:   mc.NewCounter("escrow_holds_total", "AddPayment outcomes", []string{"result"}),
		EscrowSettles: mc.NewCounter("escrow_settles_total", "SettlePayment outcomes", []string{"result"}),
		RALOutcomes:   mc.NewCounter("ral_outcomes_total", "RAL computation outcomes", []string{"reason"}),
	}
}
