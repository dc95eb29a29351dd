package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request counts and latencies per resource and operation.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "update_client",
				Name:      "requests_total",
				Help:      "Requests sent to the API by resource, operation and status code.",
			},
			[]string{"resource", "op", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "update_client",
				Name:      "request_duration_seconds",
				Help:      "Request latency by resource and operation.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource", "op"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(resource, op, code string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, op, code).Inc()
	m.latency.WithLabelValues(resource, op).Observe(seconds)
}
