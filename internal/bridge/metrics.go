package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "huesnap",
			Name:      "bridge_requests_total",
			Help:      "Bridge API requests by method, resource collection and outcome.",
		}, []string{"method", "resource", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "huesnap",
			Name:      "bridge_request_duration_seconds",
			Help:      "Bridge API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
	}
	if registry != nil {
		registry.MustRegister(m.requests, m.duration)
	}
	return m
}
