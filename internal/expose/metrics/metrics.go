package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stateproof"

// Transports
const (
	HTTP = "http"
	GRPC = "grpc"
)

// Metrics groups the service collectors. All methods accept a nil receiver
// so callers never have to check whether metrics are enabled.
type Metrics struct {
	Requests       *prometheus.CounterVec
	BackendLatency *prometheus.HistogramVec
	Inflight       prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "State proof requests by transport and outcome stage.",
		}, []string{"transport", "outcome"}),
		BackendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_duration_seconds",
			Help:      "Duration of backend proof calls by variant.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"variant"}),
		Inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_inflight",
			Help:      "Backend proof calls in progress.",
		}),
	}
	reg.MustRegister(m.Requests, m.BackendLatency, m.Inflight)
	return m
}

// Request counts one finished request. outcome is "ok" or the failing stage.
func (m *Metrics) Request(transport, outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(transport, outcome).Inc()
}

// Backend tracks one backend call; the returned func must be called when it
// returns.
func (m *Metrics) Backend(variant string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	m.Inflight.Inc()
	return func() {
		m.Inflight.Dec()
		m.BackendLatency.WithLabelValues(variant).Observe(time.Since(start).Seconds())
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
