// Package observability provides logging, metrics and tracing for the
// outbound HTTP clients in weavekit.
//
// # Logging
//
// Components accept a logrus.FieldLogger. The CLI builds one with:
//
//	log := observability.NewLogger(observability.ParseLogLevel("debug"), os.Stderr)
//
// # Metrics
//
// ClientMetrics counts and times every request made through an instrumented
// transport, labelled by the client that made it:
//
//	m := observability.NewClientMetrics(prometheus.DefaultRegisterer)
//	httpClient := &http.Client{Transport: observability.NewTransport("database", nil, m)}
//
// # Tracing
//
// NewTransport also wraps requests in OpenTelemetry client spans. Spans are
// no-ops until SetupTelemetry installs an exporting provider:
//
//	tel, err := observability.SetupTelemetry(ctx, observability.TelemetryConfig{
//		Endpoint: "otel-collector:4317",
//		Insecure: true,
//	}, log)
//	defer tel.Shutdown(ctx)
package observability
