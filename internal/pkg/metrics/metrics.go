// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chain_probe"

var (
	// RPCRequestsTotal counts JSON-RPC calls by method and outcome.
	RPCRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "JSON-RPC requests issued to the node, by method and status.",
	}, []string{"method", "status"})

	// RPCRequestDuration observes JSON-RPC latency by method.
	RPCRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_request_duration_seconds",
		Help:      "Latency of JSON-RPC requests to the node.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// ChainDetectionsTotal counts classification outcomes by chain name.
	ChainDetectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chain_detections_total",
		Help:      "Chain detections by resulting chain name.",
	}, []string{"chain"})

	// PriceRequestsTotal counts exchange rate lookups by source and status.
	PriceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_requests_total",
		Help:      "Exchange rate lookups, by source (cache or api) and status.",
	}, []string{"source", "status"})
)

var registerOnce sync.Once

// MustRegisterMetrics registers all collectors with the default registry.
// Calling it more than once is a no-op.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RPCRequestsTotal,
			RPCRequestDuration,
			ChainDetectionsTotal,
			PriceRequestsTotal,
		)
	})
}
