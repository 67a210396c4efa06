package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain/record"
)

// mockSearcher implements Searcher for tests.
type mockSearcher struct {
	searchFn  func(ctx context.Context, collection, query string, opts db.SearchOptions) (*db.Response, error)
	calls     int
	lastQuery string
	lastOpts  db.SearchOptions
}

func (m *mockSearcher) Search(
	ctx context.Context, collection, query string, opts db.SearchOptions,
) (*db.Response, error) {
	m.calls++
	m.lastQuery = query
	m.lastOpts = opts
	if m.searchFn != nil {
		return m.searchFn(ctx, collection, query, opts)
	}
	return &db.Response{Body: json.RawMessage(`{"response":{"numFound":0,"docs":[]}}`)}, nil
}

// fixedResponse builds a searcher returning a canned body on every call.
func fixedResponse(body string) *mockSearcher {
	return &mockSearcher{
		searchFn: func(_ context.Context, _, _ string, _ db.SearchOptions) (*db.Response, error) {
			return &db.Response{Body: json.RawMessage(body)}, nil
		},
	}
}

// windowedSearcher serves rows/start windows over a fixed id list, the way
// a real backend would: numFound is always the full corpus size.
func windowedSearcher(ids ...string) *mockSearcher {
	return &mockSearcher{
		searchFn: func(_ context.Context, _, _ string, opts db.SearchOptions) (*db.Response, error) {
			start, end := 0, len(ids)
			if opts.HasStart {
				start = min(opts.Start, len(ids))
			}
			if opts.HasRows {
				end = min(start+opts.Rows, len(ids))
			}
			docs := make([]map[string]any, 0, end-start)
			for _, id := range ids[start:end] {
				docs = append(docs, map[string]any{"id": id})
			}
			body, _ := json.Marshal(map[string]any{
				"response": map[string]any{"numFound": len(ids), "docs": docs},
			})
			return &db.Response{Body: body}, nil
		},
	}
}

// mockRecords implements RecordStore for tests.
type mockRecords struct {
	findFn  func(ctx context.Context, collection string, ids []string) ([]record.Record, error)
	calls   int
	lastIDs []string
}

func (m *mockRecords) Find(
	ctx context.Context, collection string, ids []string,
) ([]record.Record, error) {
	m.calls++
	m.lastIDs = ids
	if m.findFn != nil {
		return m.findFn(ctx, collection, ids)
	}
	out := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, record.New(id, map[string]any{"id": id}))
	}
	return out, nil
}

// mockModel implements Queryable for delegation tests.
type mockModel struct {
	known     map[string]any
	lastScope *Query
	lastArgs  []any
}

func (m *mockModel) ResolveQuery(
	_ context.Context, name string, scope *Query, args ...any,
) (any, error) {
	m.lastScope = scope
	m.lastArgs = args
	if v, ok := m.known[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("resolve %s: %w", name, errNoMethod(name))
}
