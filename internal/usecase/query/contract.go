package query

import (
	"context"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain/record"
)

// Searcher executes a query expression against the search backend.
type Searcher interface {
	Search(ctx context.Context, collection, query string, opts db.SearchOptions) (*db.Response, error)
}

// RecordStore materializes records by id, preserving input order.
type RecordStore interface {
	Find(ctx context.Context, collection string, ids []string) ([]record.Record, error)
}

// Queryable is the capability a model type implements to receive delegated
// named query methods. The current query is passed explicitly as the scope;
// implementations return domain.ErrNoMethod (via domain.NewNoMethod) for
// names they do not support.
type Queryable interface {
	ResolveQuery(ctx context.Context, name string, scope *Query, args ...any) (any, error)
}
