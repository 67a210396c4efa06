// Package record loads materialized documents by id, with an optional
// Redis-backed caching layer.
package record

import (
	"context"
	"fmt"

	"github.com/solrkit/solrkit/internal/domain/record"
)

// fetcher is the consumer interface for record loading (ISP).
type fetcher interface {
	FetchDocs(ctx context.Context, collection string, ids []string) ([]map[string]any, error)
}

// Repo implements the record-store collaborator over a document fetcher.
type Repo struct {
	store fetcher
}

// New creates a record repository.
func New(s fetcher) *Repo {
	return &Repo{store: s}
}

// Find retrieves records for the given ids, reconciled to input order.
// Ids the backend no longer knows are skipped.
func (r *Repo) Find(ctx context.Context, collection string, ids []string) ([]record.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	docs, err := r.store.FetchDocs(ctx, collection, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch %s records: %w", collection, err)
	}

	byID := make(map[string]map[string]any, len(docs))
	for _, doc := range docs {
		id, ok := doc["id"].(string)
		if !ok {
			continue
		}
		byID[id] = doc
	}

	records := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		doc, ok := byID[id]
		if !ok {
			continue
		}
		records = append(records, record.New(id, doc))
	}
	return records, nil
}
