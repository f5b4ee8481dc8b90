package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response body is kept
const maxErrorBody = 64 << 10

var (
	// ErrUnauthorized matches 401 responses
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden matches 403 responses
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound matches 404 responses
	ErrNotFound = errors.New("not found")
	// ErrUnprocessable matches 422 responses
	ErrUnprocessable = errors.New("unprocessable entity")
)

// ErrorResponse is the error envelope returned by the database API
type ErrorResponse struct {
	Error []ErrorMessage `json:"error"`
}

// ErrorMessage is a single entry of an ErrorResponse
type ErrorMessage struct {
	Message string `json:"message"`
}

// StatusError is returned when a response has an unexpected status code
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements error
func (e *StatusError) Error() string {
	msg := e.Body
	var envelope ErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &envelope); err == nil && len(envelope.Error) > 0 {
		parts := make([]string, 0, len(envelope.Error))
		for _, m := range envelope.Error {
			parts = append(parts, m.Message)
		}
		msg = strings.Join(parts, "; ")
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// Is maps well known status codes onto the package sentinels
func (e *StatusError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusUnprocessableEntity:
		return target == ErrUnprocessable
	}
	return false
}

// NewStatusError reads (and consumes) the response body into a StatusError
func NewStatusError(resp *http.Response) *StatusError {
	e := &StatusError{StatusCode: resp.StatusCode}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		if resp.Request.URL != nil {
			e.URL = resp.Request.URL.Redacted()
		}
	}
	if resp.Body != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		e.Body = strings.TrimSpace(string(body))
	}
	return e
}

// CheckResponse returns a StatusError for any non-2xx response
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return NewStatusError(resp)
}

// DecodeJSON decodes the response body into dest. An empty body leaves dest
// untouched.
func DecodeJSON(resp *http.Response, dest interface{}) error {
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	return nil
}
