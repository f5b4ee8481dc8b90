package transformation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/weavekit/pkg/agents"
	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/httputil"
	"github.com/platinummonkey/weavekit/pkg/observability"
)

// DefaultTimeout bounds a single operation request
const DefaultTimeout = 40 * time.Second

var (
	// ErrOperationFailed wraps a rejected operation request
	ErrOperationFailed = errors.New("transformation operation failed")

	// ErrInvalidOperation is returned for an operation that cannot be sent,
	// such as an append without a data type
	ErrInvalidOperation = errors.New("invalid transformation operation")
)

// Agent runs transformation operations on one collection
type Agent struct {
	conn       connection.Connection
	collection string
	steps      []Step
	settings   agents.Settings
	client     *http.Client
}

// New creates a transformation agent for collection. UpdateAll sends one
// operation at a time unless agents.WithConcurrency raises the limit.
func New(conn connection.Connection, collection string, steps []Step, opts ...agents.Option) *Agent {
	settings := agents.NewSettings(DefaultTimeout, opts...)
	return &Agent{
		conn:       conn,
		collection: collection,
		steps:      steps,
		settings:   settings,
		client:     settings.HTTPClient("transformation_agent"),
	}
}

// Validate checks every operation before anything is sent
func (a *Agent) Validate() error {
	for i, step := range a.steps {
		if err := validate(step.Root()); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

func validate(op Operation) error {
	if op.PropertyName == "" {
		return fmt.Errorf("%w: property name is required", ErrInvalidOperation)
	}
	switch op.Type {
	case OperationAppend:
		if op.DataType == "" {
			return fmt.Errorf("%w: append to %s requires a data type", ErrInvalidOperation, op.PropertyName)
		}
		if !op.DataType.Valid() {
			return fmt.Errorf("%w: unknown data type %q", ErrInvalidOperation, op.DataType)
		}
	case OperationUpdate:
	default:
		return fmt.Errorf("%w: unknown operation type %q", ErrInvalidOperation, op.Type)
	}
	return nil
}

// UpdateAll runs every operation and returns one response per operation in
// input order. Dependent operations are sent as their root operation. No
// request is made if any operation is invalid.
func (a *Agent) UpdateAll(ctx context.Context) ([]Response, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	ctx, span := observability.Tracer().Start(ctx, "transformation.Agent.UpdateAll",
		trace.WithAttributes(
			attribute.String("weavekit.collection", a.collection),
			attribute.Int("weavekit.operations", len(a.steps)),
		))
	defer span.End()

	headers, err := agents.Headers(ctx, a.conn)
	if err != nil {
		return nil, err
	}

	responses := make([]Response, len(a.steps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.settings.Concurrency)

	for i, step := range a.steps {
		op := step.Root()
		g.Go(func() error {
			resp, err := a.execute(gctx, headers, op)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return responses, nil
}

func (a *Agent) execute(ctx context.Context, headers map[string]string, op Operation) (Response, error) {
	var (
		path string
		body interface{}
	)
	switch op.Type {
	case OperationAppend:
		path = "/transformation/create"
		body = createRequest{
			Instruction:    op.Instruction,
			ViewProperties: op.ViewProperties,
			Collection:     a.collection,
			Headers:        a.conn.AdditionalHeaders(),
			OnProperties:   []appendProperty{{Name: op.PropertyName, DataType: op.DataType}},
		}
	default:
		path = "/transformation/update"
		body = updateRequest{
			Instruction:    op.Instruction,
			ViewProperties: op.ViewProperties,
			Collection:     a.collection,
			Headers:        a.conn.AdditionalHeaders(),
			OnProperties:   []string{op.PropertyName},
		}
	}

	log := a.settings.Logger.WithFields(logrus.Fields{
		"collection": a.collection,
		"property":   op.PropertyName,
		"operation":  op.Type,
	})
	log.Debug("Sending transformation operation")

	resp, err := agents.Post(ctx, a.client, a.settings.Host+path, headers, body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %s: %w", ErrOperationFailed, op.PropertyName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return Response{}, fmt.Errorf("%w: %s: %w", ErrOperationFailed, op.PropertyName, httputil.NewStatusError(resp))
	}

	var wf workflowResponse
	if err := httputil.DecodeJSON(resp, &wf); err != nil {
		return Response{}, fmt.Errorf("%w: %s: %w", ErrOperationFailed, op.PropertyName, err)
	}

	log.WithField("workflow_id", wf.WorkflowID).Info("Transformation workflow started")
	return Response{OperationName: op.PropertyName, WorkflowID: wf.WorkflowID}, nil
}
