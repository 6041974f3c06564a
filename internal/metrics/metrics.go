package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Transitions *prometheus.CounterVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clicktoeat",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"path", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clicktoeat",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"path"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clicktoeat",
		Subsystem: service,
		Name:      "order_transitions_total",
		Help:      "Order status transitions, including rejected ones.",
	}, []string{"to", "outcome"})

	prometheus.MustRegister(requests, latency, transitions)
	return &ServerMetrics{Requests: requests, LatencyMS: latency, Transitions: transitions}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
