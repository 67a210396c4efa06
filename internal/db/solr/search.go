package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/solrkit/solrkit/internal/db"
)

// Search runs the query through the select handler and returns the raw
// response body. The body is not parsed here; the criteria engine decodes it
// once per cache generation.
func (s *Store) Search(
	ctx context.Context, collection, query string, opts db.SearchOptions,
) (*db.Response, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	params := url.Values{
		"q":  {query},
		"wt": {"json"},
	}
	if opts.HasRows {
		params.Set("rows", strconv.Itoa(opts.Rows))
	}
	if opts.HasStart {
		params.Set("start", strconv.Itoa(opts.Start))
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}

	body, err := s.get(ctx, db.OpSelect, s.handlerURL(collection, "select", params))
	if err != nil {
		return nil, err
	}
	return &db.Response{Body: body}, nil
}

// rtgEnvelope is the real-time get response shape for multi-id lookups.
type rtgEnvelope struct {
	Response *struct {
		Docs []map[string]any `json:"docs"`
	} `json:"response"`
	Doc map[string]any `json:"doc"` // single-id shape
}

// FetchDocs retrieves full documents by id via the real-time get handler.
// Missing ids are simply absent from the result; callers reconcile order.
func (s *Store) FetchDocs(
	ctx context.Context, collection string, ids []string,
) ([]map[string]any, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{
		"ids": {strings.Join(ids, ",")},
		"wt":  {"json"},
	}
	body, err := s.get(ctx, db.OpGet, s.handlerURL(collection, "get", params))
	if err != nil {
		return nil, err
	}

	var env rtgEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Response != nil {
		return env.Response.Docs, nil
	}
	if env.Doc != nil {
		return []map[string]any{env.Doc}, nil
	}
	return nil, nil
}
