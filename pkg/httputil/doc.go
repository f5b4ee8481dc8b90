// Package httputil provides the HTTP client helpers shared by the
// database, agent and GFL clients.
//
// # Requests
//
//	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, url, body)
//	httputil.SetHeaders(req, map[string]string{"X-Weaviate-Cluster-Url": host})
//
// Every request is tagged with an X-Request-ID, taken from
// contextkeys.WithRequestID when the caller set one.
//
// # Responses
//
//	if err := httputil.CheckResponse(resp); err != nil {
//		return err // *httputil.StatusError
//	}
//	err := httputil.DecodeJSON(resp, &out)
//
// StatusError matches the package sentinels through errors.Is:
//
//	if errors.Is(err, httputil.ErrNotFound) {
//		...
//	}
package httputil
