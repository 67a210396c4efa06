package chi

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain/record"
	queryuc "github.com/solrkit/solrkit/internal/usecase/query"
)

// mockSearcher records the last query and serves a canned body.
type mockSearcher struct {
	body      string
	err       error
	calls     int
	lastQuery string
	lastOpts  db.SearchOptions
}

func (m *mockSearcher) Search(
	_ context.Context, _, query string, opts db.SearchOptions,
) (*db.Response, error) {
	m.calls++
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return &db.Response{Body: json.RawMessage(m.body)}, nil
}

// mockRecords materializes ids into flat one-field records.
type mockRecords struct {
	calls int
}

func (m *mockRecords) Find(
	_ context.Context, _ string, ids []string,
) ([]record.Record, error) {
	m.calls++
	out := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, record.New(id, map[string]any{"id": id, "name": "rec-" + id}))
	}
	return out, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

func newTestServer(searcher *mockSearcher, pinger Pinger) *Server {
	svc := queryuc.NewService(searcher, &mockRecords{}, zap.NewNop())
	return NewServer(svc, pinger, 100, zap.NewNop())
}
