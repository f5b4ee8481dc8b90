package agents

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/httputil"
	"github.com/platinummonkey/weavekit/pkg/observability"
)

// DefaultHost is the hosted agents API
const DefaultHost = "https://api.agents.weaviate.io"

const (
	// ClusterURLHeader names the database the agent should act on
	ClusterURLHeader = "X-Weaviate-Cluster-Url"
)

// Settings is the configuration shared by the agent clients
type Settings struct {
	Host        string
	Timeout     time.Duration
	Concurrency int
	Metrics     *observability.ClientMetrics
	Transport   http.RoundTripper
	Logger      logrus.FieldLogger
}

// Option configures Settings
type Option func(*Settings)

// WithHost overrides the agents API host
func WithHost(host string) Option {
	return func(s *Settings) {
		s.Host = host
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(s *Settings) {
		s.Timeout = timeout
	}
}

// WithConcurrency sets how many requests a batch call may have in flight
func WithConcurrency(n int) Option {
	return func(s *Settings) {
		s.Concurrency = n
	}
}

// WithMetrics records agent requests in m
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(s *Settings) {
		s.Metrics = m
	}
}

// WithTransport sets the base HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Settings) {
		s.Transport = rt
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Settings) {
		s.Logger = log
	}
}

// NewSettings applies opts over the defaults
func NewSettings(timeout time.Duration, opts ...Option) Settings {
	s := Settings{Host: DefaultHost, Timeout: timeout, Concurrency: 1}
	for _, opt := range opts {
		opt(&s)
	}
	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	s.Host = strings.TrimRight(s.Host, "/")
	if s.Logger == nil {
		s.Logger = logrus.StandardLogger()
	}
	return s
}

// HTTPClient builds an instrumented client labelled with name
func (s Settings) HTTPClient(name string) *http.Client {
	return &http.Client{
		Timeout:   s.Timeout,
		Transport: observability.NewTransport(name, s.Transport, s.Metrics),
	}
}

// Headers returns the authentication headers the agents API expects: the
// raw token without its "Bearer " prefix and the cluster URL without an
// explicit :443 port.
func Headers(ctx context.Context, conn connection.Connection) (map[string]string, error) {
	token, err := conn.CurrentBearerToken(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization":  strings.ReplaceAll(token, "Bearer ", ""),
		ClusterURLHeader: strings.ReplaceAll(conn.URL(), ":443", ""),
	}, nil
}

// Post sends body as JSON to url. The caller owns the response body.
func Post(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}) (*http.Response, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	httputil.SetHeaders(req, headers)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	return resp, nil
}
