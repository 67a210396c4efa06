// Package db defines the storage contracts the criteria engine executes
// against: a search backend and a by-id document fetcher.
package db

import (
	"context"
	"encoding/json"
)

// SearchOptions carries the recognized query options for one search call.
// HasRows/HasStart distinguish "unset" from an explicit zero (rows=0 is a
// valid count-only query).
type SearchOptions struct {
	Rows     int
	Start    int
	Sort     string
	HasRows  bool
	HasStart bool
}

// Response is the raw backend response body for one search call. Parsing is
// deferred to the caller so a cached response is decoded at most once per
// cache generation.
type Response struct {
	Body json.RawMessage
}

// Searcher executes a query expression against one collection.
type Searcher interface {
	Search(ctx context.Context, collection, query string, opts SearchOptions) (*Response, error)
}

// DocFetcher retrieves full documents by id, in input order.
type DocFetcher interface {
	FetchDocs(ctx context.Context, collection string, ids []string) ([]map[string]any, error)
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
