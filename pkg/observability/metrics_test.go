package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)
	require.NotNil(t, m)

	// registering the same collectors twice must fail
	assert.Panics(t, func() { NewClientMetrics(reg) })
}

func TestInstrumentRoundTripper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewClientMetrics(reg)
	client := &http.Client{Transport: m.InstrumentRoundTripper("database", http.DefaultTransport)}

	for _, path := range []string{"/ok", "/ok", "/missing"} {
		resp, err := client.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("database", "200", "get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("database", "404", "get")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RequestsInFlight.WithLabelValues("database")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestInstrumentRoundTripperNilMetrics(t *testing.T) {
	var m *ClientMetrics
	rt := m.InstrumentRoundTripper("database", nil)
	assert.Equal(t, http.DefaultTransport, rt)
}

func TestNewTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := NewClientMetrics(nil)
	client := &http.Client{Transport: NewTransport("gfl", nil, m)}

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("gfl", "204", "get")))
	assert.NotNil(t, Tracer())
}
