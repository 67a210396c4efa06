package record

import (
	"context"
	"time"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain/record"
)

// mockFetcher implements the fetcher consumer interface for tests.
type mockFetcher struct {
	fetchFn func(ctx context.Context, collection string, ids []string) ([]map[string]any, error)
	calls   int
	lastIDs []string
}

func (m *mockFetcher) FetchDocs(ctx context.Context, collection string, ids []string) ([]map[string]any, error) {
	m.calls++
	m.lastIDs = ids
	if m.fetchFn != nil {
		return m.fetchFn(ctx, collection, ids)
	}
	return nil, nil
}

// mockKV is an in-memory kv implementation for cache tests.
type mockKV struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
	lastTTL time.Duration
}

func newMockKV() *mockKV {
	return &mockKV{data: map[string][]byte{}}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	m.lastTTL = ttl
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// mockFinder implements Finder for cache tests.
type mockFinder struct {
	records []record.Record
	err     error
	calls   int
	lastIDs []string
}

func (m *mockFinder) Find(_ context.Context, _ string, ids []string) ([]record.Record, error) {
	m.calls++
	m.lastIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	var out []record.Record
	for _, r := range m.records {
		for _, id := range ids {
			if r.ID() == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}
