package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics holds the Prometheus collectors for outbound HTTP calls.
// Every collector is partitioned by a "client" label naming the caller
// (database, query_agent, transformation_agent, gfl).
type ClientMetrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
}

// NewClientMetrics creates the client collectors and registers them with
// reg. A nil reg leaves them unregistered.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weavekit_client_requests_total",
				Help: "Total number of outbound HTTP requests",
			},
			[]string{"client", "code", "method"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weavekit_client_request_duration_seconds",
				Help:    "Outbound HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"client", "method"},
		),
		RequestsInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "weavekit_client_requests_in_flight",
				Help: "Number of outbound HTTP requests currently in flight",
			},
			[]string{"client"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.RequestsInFlight)
	}

	return m
}

// InstrumentRoundTripper wraps next so that every request made through it
// is counted and timed under the given client name. A nil receiver returns
// next unchanged.
func (m *ClientMetrics) InstrumentRoundTripper(client string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}

	labels := prometheus.Labels{"client": client}
	return promhttp.InstrumentRoundTripperInFlight(m.RequestsInFlight.WithLabelValues(client),
		promhttp.InstrumentRoundTripperCounter(m.RequestsTotal.MustCurryWith(labels),
			promhttp.InstrumentRoundTripperDuration(m.RequestDuration.MustCurryWith(labels), next),
		),
	)
}
