package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/platinummonkey/weavekit/pkg/httputil"
	"github.com/platinummonkey/weavekit/pkg/observability"
)

const (
	apiPrefix = "/v1"

	// DefaultTimeout bounds a single database request
	DefaultTimeout = 30 * time.Second
)

// ErrInvalidURL is returned for a database URL without scheme or host
var ErrInvalidURL = errors.New("invalid database URL")

// Connection is what the agent and gfl clients need from a database
// connection
type Connection interface {
	// URL returns the database base URL
	URL() string
	// CurrentBearerToken returns "Bearer <token>", or "" for anonymous access
	CurrentBearerToken(ctx context.Context) (string, error)
	// AdditionalHeaders returns headers sent with every request, such as
	// third-party model provider keys
	AdditionalHeaders() map[string]string
	// HTTPClient returns the instrumented client used for requests
	HTTPClient() *http.Client
}

// Config configures an HTTPConnection. At most one of APIKey, TokenSource
// and ClientCredentials should be set; they are tried in that order.
type Config struct {
	URL               string
	APIKey            string
	TokenSource       oauth2.TokenSource
	ClientCredentials *ClientCredentials
	AdditionalHeaders map[string]string
	Timeout           time.Duration
	Transport         http.RoundTripper
	Metrics           *observability.ClientMetrics
	Logger            logrus.FieldLogger
}

// HTTPConnection talks JSON to the database REST API
type HTTPConnection struct {
	url     string
	headers map[string]string
	tokens  oauth2.TokenSource
	client  *http.Client
	log     logrus.FieldLogger
}

// New validates cfg and opens a connection. With client credentials the
// identity provider is discovered through the database before returning.
func New(ctx context.Context, cfg Config) (*HTTPConnection, error) {
	base := strings.TrimRight(cfg.URL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	headers := make(map[string]string, len(cfg.AdditionalHeaders))
	for k, v := range cfg.AdditionalHeaders {
		headers[k] = v
	}

	c := &HTTPConnection{
		url:     base,
		headers: headers,
		client: &http.Client{
			Timeout:   timeout,
			Transport: observability.NewTransport("database", cfg.Transport, cfg.Metrics),
		},
		log: log.WithField("database", u.Host),
	}

	switch {
	case cfg.APIKey != "":
		c.tokens = staticToken(cfg.APIKey)
	case cfg.TokenSource != nil:
		c.tokens = cfg.TokenSource
	case cfg.ClientCredentials != nil:
		ts, err := clientCredentialsTokenSource(ctx, c.client, base, *cfg.ClientCredentials)
		if err != nil {
			return nil, err
		}
		c.tokens = ts
	}

	return c, nil
}

// URL implements Connection
func (c *HTTPConnection) URL() string {
	return c.url
}

// AdditionalHeaders implements Connection. The returned map is a copy.
func (c *HTTPConnection) AdditionalHeaders() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// HTTPClient implements Connection
func (c *HTTPConnection) HTTPClient() *http.Client {
	return c.client
}

// CurrentBearerToken implements Connection
func (c *HTTPConnection) CurrentBearerToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}
	return "Bearer " + tok.AccessToken, nil
}

// Do sends in as JSON to path under the versioned API and decodes the
// response into out. A nil in sends no body; a nil out discards the
// response. Non-2xx responses are returned as *httputil.StatusError.
func (c *HTTPConnection) Do(ctx context.Context, method, path string, in, out interface{}) error {
	req, err := httputil.NewJSONRequest(ctx, method, c.url+apiPrefix+path, in)
	if err != nil {
		return err
	}
	httputil.SetHeaders(req, c.headers)

	token, err := c.CurrentBearerToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	log := observability.WithTraceContext(ctx, c.log).WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": req.Header.Get(httputil.RequestIDHeader),
	})
	log.Debug("Sending request")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckResponse(resp); err != nil {
		log.WithField("status", resp.StatusCode).Debug("Request failed")
		return err
	}
	return httputil.DecodeJSON(resp, out)
}
