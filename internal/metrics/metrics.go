package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_latency_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Lending transitions, labeled by operation and store outcome
	LendingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lending_transitions_total",
			Help: "Borrow and return attempts by outcome",
		},
		[]string{"op", "outcome"}, // borrow|return x applied|conflict|missing
	)

	// Audit worker queue
	auditQueueDepth = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Pending audit writes in the worker queue",
		},
		func() float64 { return float64(queueDepth()) },
	)

	queueDepth = func() int { return 0 }
)

// RegisterQueueDepth installs the probe behind the audit_queue_depth gauge.
func RegisterQueueDepth(fn func() int) {
	if fn != nil {
		queueDepth = fn
	}
}

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestLatency)
	prometheus.MustRegister(LendingTransitions)
	prometheus.MustRegister(auditQueueDepth)
}
