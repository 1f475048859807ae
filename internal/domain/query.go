package domain

import (
	"encoding/json"
	"strings"
)

// Reserved record fields returned by the search service.
const (
	FieldID       = "__id"
	FieldDistance = "__distance"
)

// SearchQuery is a search request as submitted by the frontend.
// APIKey and CollectionName come from the user's settings; Query and
// SQL are both optional, but at least one must be present.
type SearchQuery struct {
	APIKey         string `json:"api_key"`
	CollectionName string `json:"collection_name"`
	Query          string `json:"query,omitempty"`
	SQL            string `json:"sql,omitempty"`
}

// Validate checks that the query can be submitted.
func (q *SearchQuery) Validate() error {
	if strings.TrimSpace(q.APIKey) == "" || strings.TrimSpace(q.CollectionName) == "" {
		return ErrMissingCredentials
	}
	if strings.TrimSpace(q.Query) == "" && strings.TrimSpace(q.SQL) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// HasQueryText reports whether the request carries natural-language text to embed.
func (q *SearchQuery) HasQueryText() bool {
	return strings.TrimSpace(q.Query) != ""
}

// Record is a single search result: a mapping from field name to a
// string or number value, with reserved __id and __distance fields.
type Record map[string]any

// ID returns the record identifier, or "" if absent.
func (r Record) ID() string {
	if v, ok := r[FieldID].(string); ok {
		return v
	}
	return ""
}

// Distance returns the similarity score, or 0 if absent.
// JSON numbers decode as float64.
func (r Record) Distance() float64 {
	if v, ok := r[FieldDistance].(float64); ok {
		return v
	}
	return 0
}

// Fields returns the non-reserved field names of the record.
func (r Record) Fields() []string {
	fields := make([]string, 0, len(r))
	for k := range r {
		if k == FieldID || k == FieldDistance {
			continue
		}
		fields = append(fields, k)
	}
	return fields
}

// QueryResponse is the upstream search response, returned to the
// frontend verbatim. Result order is preserved as received.
type QueryResponse struct {
	CollectionID string   `json:"collection_id"`
	ResultCount  int      `json:"result_count"`
	SQL          *string  `json:"sql,omitempty"`
	Results      []Record `json:"results"`
}

// UnmarshalJSON keeps Results non-nil so an empty upstream result set
// serializes as [] rather than null.
func (q *QueryResponse) UnmarshalJSON(data []byte) error {
	type alias QueryResponse
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Results == nil {
		a.Results = []Record{}
	}
	*q = QueryResponse(a)
	return nil
}
