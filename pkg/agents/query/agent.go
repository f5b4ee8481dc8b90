package query

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/platinummonkey/weavekit/pkg/agents"
	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/httputil"
	"github.com/platinummonkey/weavekit/pkg/observability"
)

const (
	// DefaultTimeout bounds a single query
	DefaultTimeout = 60 * time.Second

	resultLimit = 20
)

// ErrQueryAgent wraps every failure reported by the query agent
var ErrQueryAgent = errors.New("query agent error")

// Agent answers natural language questions over a fixed set of collections
type Agent struct {
	conn        connection.Connection
	collections []CollectionDescription
	settings    agents.Settings
	client      *http.Client
	url         string
}

// RunOptions tunes a single Run
type RunOptions struct {
	// ViewProperties limits the properties the agent may look at
	ViewProperties []string
	// Context is a previous response the question follows up on
	Context *Response
}

// New creates a query agent over collections
func New(conn connection.Connection, collections []CollectionDescription, opts ...agents.Option) *Agent {
	settings := agents.NewSettings(DefaultTimeout, opts...)
	return &Agent{
		conn:        conn,
		collections: collections,
		settings:    settings,
		client:      settings.HTTPClient("query_agent"),
		url:         settings.Host + "/agent/query",
	}
}

// CollectionNames returns the names of the collections the agent searches
func (a *Agent) CollectionNames() []string {
	names := make([]string, 0, len(a.collections))
	for _, c := range a.collections {
		names = append(names, c.Name)
	}
	return names
}

// Run asks the agent query. Any status other than 200 is an error.
func (a *Agent) Run(ctx context.Context, query string, opts RunOptions) (*Response, error) {
	ctx, span := observability.Tracer().Start(ctx, "query.Agent.Run",
		trace.WithAttributes(attribute.StringSlice("weavekit.collections", a.CollectionNames())))
	defer span.End()

	resp, err := a.run(ctx, query, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return resp, nil
}

func (a *Agent) run(ctx context.Context, query string, opts RunOptions) (*Response, error) {
	headers, err := agents.Headers(ctx, a.conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryAgent, err)
	}

	body := runRequest{
		Query:                    query,
		CollectionNames:          a.CollectionNames(),
		Headers:                  a.conn.AdditionalHeaders(),
		CollectionViewProperties: opts.ViewProperties,
		Limit:                    resultLimit,
		PreviousResponse:         opts.Context,
	}

	a.settings.Logger.WithField("collections", body.CollectionNames).Debug("Running query agent")

	resp, err := agents.Post(ctx, a.client, a.url, headers, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryAgent, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", ErrQueryAgent, httputil.NewStatusError(resp))
	}

	var out Response
	if err := httputil.DecodeJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryAgent, err)
	}
	return &out, nil
}
