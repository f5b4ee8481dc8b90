// Package contextkeys provides centralized context key definitions
//
// All context keys shared between packages are defined here so that their
// types and producers are discoverable in one place.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// RequestIDKey contains a request ID string
	// Set by: callers that want to correlate a request with their own logs
	// Used by: httputil.NewJSONRequest, which sends it as X-Request-ID
	// Type: string
	RequestIDKey Key = "request_id"
)

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
