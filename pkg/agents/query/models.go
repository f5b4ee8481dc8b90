package query

import "encoding/json"

// CollectionDescription names a collection the agent may search, with an
// optional description to steer it
type CollectionDescription struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Collections describes collections by name only
func Collections(names ...string) []CollectionDescription {
	out := make([]CollectionDescription, 0, len(names))
	for _, n := range names {
		out = append(out, CollectionDescription{Name: n})
	}
	return out
}

// QueryResult is one search the agent ran against a collection
type QueryResult struct {
	Collection      string            `json:"collection"`
	Queries         []*string         `json:"queries"`
	Filters         []json.RawMessage `json:"filters"`
	FilterOperators string            `json:"filter_operators"`
}

// AggregationResult is one aggregation the agent ran against a collection
type AggregationResult struct {
	Collection      string            `json:"collection"`
	SearchQuery     *string           `json:"search_query"`
	GroupbyProperty *string           `json:"groupby_property"`
	Aggregations    []json.RawMessage `json:"aggregations"`
	Filters         []json.RawMessage `json:"filters"`
}

// Usage is the model usage consumed by a run
type Usage struct {
	Requests       int             `json:"requests"`
	RequestTokens  *int            `json:"request_tokens"`
	ResponseTokens *int            `json:"response_tokens"`
	TotalTokens    *int            `json:"total_tokens"`
	Details        json.RawMessage `json:"details,omitempty"`
}

// Response is the answer to a query. It may be passed back as context for
// a follow-up question.
type Response struct {
	OriginalQuery        string                `json:"original_query"`
	CollectionNames      []string              `json:"collection_names"`
	Searches             [][]QueryResult       `json:"searches"`
	Aggregations         [][]AggregationResult `json:"aggregations"`
	Usage                Usage                 `json:"usage"`
	TotalTime            float64               `json:"total_time"`
	SearchAnswer         *string               `json:"search_answer"`
	AggregationAnswer    *string               `json:"aggregation_answer"`
	HasAggregationAnswer bool                  `json:"has_aggregation_answer"`
	HasSearchAnswer      bool                  `json:"has_search_answer"`
	IsPartialAnswer      bool                  `json:"is_partial_answer"`
	MissingInformation   []string              `json:"missing_information"`
	FinalAnswer          string                `json:"final_answer"`
}

type runRequest struct {
	Query                    string            `json:"query"`
	CollectionNames          []string          `json:"collection_names"`
	Headers                  map[string]string `json:"headers"`
	CollectionViewProperties []string          `json:"collection_view_properties"`
	Limit                    int               `json:"limit"`
	Tenant                   *string           `json:"tenant"`
	PreviousResponse         *Response         `json:"previous_response"`
}
