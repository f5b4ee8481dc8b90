package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/weavekit/pkg/agents"
	"github.com/platinummonkey/weavekit/pkg/connection"
	"github.com/platinummonkey/weavekit/pkg/httputil"
)

func newConn(t *testing.T) *connection.HTTPConnection {
	t.Helper()
	conn, err := connection.New(context.Background(), connection.Config{
		URL:               "https://cluster.example.com:443",
		APIKey:            "secret",
		AdditionalHeaders: map[string]string{"X-OpenAI-Api-Key": "sk"},
	})
	require.NoError(t, err)
	return conn
}

func TestAgentRun(t *testing.T) {
	var captured map[string]json.RawMessage

	r := mux.NewRouter()
	r.HandleFunc("/agent/query", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "secret", req.Header.Get("Authorization"))
		assert.Equal(t, "https://cluster.example.com", req.Header.Get(agents.ClusterURLHeader))
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{
			OriginalQuery:   "how many articles?",
			CollectionNames: []string{"Article"},
			Searches:        [][]QueryResult{},
			Aggregations:    [][]AggregationResult{{{Collection: "Article"}}},
			Usage:           Usage{Requests: 2},
			HasSearchAnswer: false,
			FinalAnswer:     "There are 42 articles.",
		})
	}).Methods(http.MethodPost)

	server := httptest.NewServer(r)
	defer server.Close()

	agent := New(newConn(t), []CollectionDescription{
		{Name: "Article", Description: "news articles"},
		{Name: "Author"},
	}, agents.WithHost(server.URL))

	resp, err := agent.Run(context.Background(), "how many articles?", RunOptions{ViewProperties: []string{"title"}})
	require.NoError(t, err)
	assert.Equal(t, "There are 42 articles.", resp.FinalAnswer)
	assert.Equal(t, 2, resp.Usage.Requests)
	require.Len(t, resp.Aggregations, 1)
	assert.Equal(t, "Article", resp.Aggregations[0][0].Collection)

	assert.JSONEq(t, `"how many articles?"`, string(captured["query"]))
	assert.JSONEq(t, `["Article","Author"]`, string(captured["collection_names"]))
	assert.JSONEq(t, `{"X-OpenAI-Api-Key":"sk"}`, string(captured["headers"]))
	assert.JSONEq(t, `["title"]`, string(captured["collection_view_properties"]))
	assert.JSONEq(t, `20`, string(captured["limit"]))
	assert.JSONEq(t, `null`, string(captured["tenant"]))
	assert.JSONEq(t, `null`, string(captured["previous_response"]))
}

func TestAgentRunWithContext(t *testing.T) {
	var captured runRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(Response{FinalAnswer: "follow up"})
	}))
	defer server.Close()

	agent := New(newConn(t), Collections("Article"), agents.WithHost(server.URL))
	previous := &Response{OriginalQuery: "first", FinalAnswer: "first answer"}

	resp, err := agent.Run(context.Background(), "second", RunOptions{Context: previous})
	require.NoError(t, err)
	assert.Equal(t, "follow up", resp.FinalAnswer)

	require.NotNil(t, captured.PreviousResponse)
	assert.Equal(t, "first answer", captured.PreviousResponse.FinalAnswer)
	assert.Nil(t, captured.CollectionViewProperties)
}

func TestAgentRunErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"created is not ok", http.StatusCreated},
		{"bad request", http.StatusBadRequest},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail":"boom"}`))
			}))
			defer server.Close()

			agent := New(newConn(t), Collections("Article"), agents.WithHost(server.URL))
			_, err := agent.Run(context.Background(), "q", RunOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrQueryAgent)

			var statusErr *httputil.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestCollectionNames(t *testing.T) {
	agent := New(newConn(t), Collections("A", "B"))
	assert.Equal(t, []string{"A", "B"}, agent.CollectionNames())
}
