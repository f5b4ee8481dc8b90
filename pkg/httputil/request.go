package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/platinummonkey/weavekit/pkg/contextkeys"
)

// RequestIDHeader carries a per-request correlation ID
const RequestIDHeader = "X-Request-ID"

// NewJSONRequest builds a request with body encoded as JSON. A nil body
// sends no payload. The request ID is taken from ctx when present and is
// otherwise freshly generated.
func NewJSONRequest(ctx context.Context, method, url string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := contextkeys.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req.Header.Set(RequestIDHeader, requestID)

	return req, nil
}

// SetHeaders copies headers onto the request, overwriting existing values
func SetHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
