package observability

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used for spans created by weavekit
const InstrumentationName = "github.com/platinummonkey/weavekit"

// Tracer returns the weavekit tracer from the global provider. Without an
// installed provider spans are no-ops.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// TraceTransport wraps base with client-side OpenTelemetry spans and
// trace context propagation
func TraceTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return otelhttp.NewTransport(base)
}

// NewTransport composes tracing and metrics around base for the named
// client. metrics may be nil.
func NewTransport(client string, base http.RoundTripper, metrics *ClientMetrics) http.RoundTripper {
	return TraceTransport(metrics.InstrumentRoundTripper(client, base))
}
