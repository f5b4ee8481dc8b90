package gfl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/httputil"
	"github.com/platinummonkey/weavekit/pkg/observability"
	"github.com/platinummonkey/weavekit/pkg/schema"
)

const (
	// DefaultHost is the GFL labs API
	DefaultHost = "https://gfl.labs.weaviate.io"

	// DefaultModel is used when a request names no model
	DefaultModel = "weaviate"

	defaultTimeout = 60 * time.Second
)

var (
	// ErrConnection wraps every failed GFL request
	ErrConnection = errors.New("gfl connection error")

	// ErrInvalidRequest is returned before sending a request missing
	// required fields
	ErrInvalidRequest = errors.New("invalid gfl request")
)

// Client sends GFL jobs for one collection
type Client struct {
	conn       connection.Connection
	collection string
	host       string
	client     *http.Client
	log        logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHost overrides the GFL host
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = strings.TrimRight(host, "/")
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a GFL client for collection. The HTTP client records into
// metrics, which may be nil.
func New(conn connection.Connection, collection string, metrics *observability.ClientMetrics, opts ...Option) *Client {
	c := &Client{
		conn:       conn,
		collection: collection,
		host:       DefaultHost,
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: observability.NewTransport("gfl", nil, metrics),
		},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateRequest adds a property generated from an instruction
type CreateRequest struct {
	PropertyName   string
	DataType       schema.DataType
	ViewProperties []string
	Instruction    string
	UUIDs          []string
	Headers        map[string]string
	Tenant         string
	Model          string
	APIKeyForModel string
}

// UpdateRequest rewrites existing properties from an instruction
type UpdateRequest struct {
	Instruction    string
	ViewProperties []string
	OnProperties   []string
	UUIDs          []string
	Headers        map[string]string
	Tenant         string
	Model          string
	APIKeyForModel string
}

type database struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type createProperty struct {
	Name     string          `json:"name"`
	DataType schema.DataType `json:"data_type"`
}

type jobRequest struct {
	UUIDs          []string          `json:"uuids"`
	Collection     string            `json:"collection"`
	Instruction    string            `json:"instruction"`
	OnProperties   interface{}       `json:"on_properties"`
	ViewProperties []string          `json:"view_properties"`
	Weaviate       database          `json:"weaviate"`
	Headers        map[string]string `json:"headers"`
	Tenant         *string           `json:"tenant"`
	Model          string            `json:"model"`
	APIKeyForModel *string           `json:"api_key_for_model"`
}

// Create starts a job that adds a property to the collection
func (c *Client) Create(ctx context.Context, req CreateRequest) error {
	if req.PropertyName == "" || req.DataType == "" {
		return fmt.Errorf("%w: property name and data type are required", ErrInvalidRequest)
	}
	return c.post(ctx, "/gfls/create", req.Model, req.Tenant, req.APIKeyForModel, jobRequest{
		UUIDs:          req.UUIDs,
		Instruction:    req.Instruction,
		OnProperties:   []createProperty{{Name: req.PropertyName, DataType: req.DataType}},
		ViewProperties: req.ViewProperties,
		Headers:        req.Headers,
	})
}

// Update starts a job that rewrites properties of the collection
func (c *Client) Update(ctx context.Context, req UpdateRequest) error {
	return c.post(ctx, "/gfls/update", req.Model, req.Tenant, req.APIKeyForModel, jobRequest{
		UUIDs:          req.UUIDs,
		Instruction:    req.Instruction,
		OnProperties:   req.OnProperties,
		ViewProperties: req.ViewProperties,
		Headers:        req.Headers,
	})
}

func (c *Client) post(ctx context.Context, path, model, tenant, apiKey string, body jobRequest) error {
	token, err := c.conn.CurrentBearerToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	body.Collection = c.collection
	body.Weaviate = database{URL: c.conn.URL(), Key: strings.ReplaceAll(token, "Bearer ", "")}
	body.Model = model
	if body.Model == "" {
		body.Model = DefaultModel
	}
	if tenant != "" {
		body.Tenant = &tenant
	}
	if apiKey != "" {
		body.APIKeyForModel = &apiKey
	}

	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.host+path, body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST request failed: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckResponse(resp); err != nil {
		c.log.WithFields(logrus.Fields{
			"collection": c.collection,
			"path":       path,
			"status":     resp.StatusCode,
		}).WithError(err).Debug("GFL request rejected")
		return fmt.Errorf("%w: POST request failed: %w", ErrConnection, err)
	}
	return nil
}
