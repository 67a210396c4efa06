// Package query implements deferred execution of a criteria against the
// search backend, with a parse-once result cache per criteria snapshot.
package query

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain"
	"github.com/solrkit/solrkit/internal/domain/criteria"
	"github.com/solrkit/solrkit/internal/domain/record"
	"github.com/solrkit/solrkit/internal/metrics"
)

// Service holds the collaborators shared by every query snapshot.
type Service struct {
	searcher Searcher
	records  RecordStore
	logger   *zap.Logger
}

// NewService creates a query service.
func NewService(searcher Searcher, records RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{searcher: searcher, records: records, logger: logger}
}

// Scope returns an empty query bound to a collection.
func (s *Service) Scope(collection string) *Query {
	return &Query{svc: s, collection: collection, crit: criteria.New(), cell: &cell{}}
}

// Query binds one criteria snapshot to the service collaborators plus a
// private result cell. Chain calls derive a new Query with a fresh cell;
// the receiver and its cache are never touched, so a base query can be
// shared across derived chains.
type Query struct {
	svc        *Service
	collection string
	model      Queryable
	crit       criteria.Criteria
	cell       *cell
}

// Collection returns the bound collection name.
func (q *Query) Collection() string { return q.collection }

// Criteria returns the underlying criteria value.
func (q *Query) Criteria() criteria.Criteria { return q.crit }

// Selector returns the accumulated query expression.
func (q *Query) Selector() string { return q.crit.Selector() }

// WithModel binds a Queryable model for delegated query methods.
func (q *Query) WithModel(m Queryable) *Query {
	derived := q.derive(q.crit)
	derived.model = m
	return derived
}

// derive produces the next snapshot: same collaborators, new criteria,
// fresh (invalidated) cache cell.
func (q *Query) derive(crit criteria.Criteria) *Query {
	return &Query{svc: q.svc, collection: q.collection, model: q.model, crit: crit, cell: &cell{}}
}

// --- Chain operations ---

// Where appends AND-joined field:value pairs as one fragment.
func (q *Query) Where(conds ...criteria.Condition) *Query { return q.derive(q.crit.Where(conds...)) }

// WhereRaw appends a raw expression fragment.
func (q *Query) WhereRaw(expr string) *Query { return q.derive(q.crit.WhereRaw(expr)) }

// Or appends an OR-joined group of alternatives.
func (q *Query) Or(groups ...criteria.Group) *Query { return q.derive(q.crit.Or(groups...)) }

// AnyOf is an alias for Or.
func (q *Query) AnyOf(groups ...criteria.Group) *Query { return q.Or(groups...) }

// Between appends inclusive range fragments.
func (q *Query) Between(spans ...criteria.Span) *Query { return q.derive(q.crit.Between(spans...)) }

// LessThan appends exclusive upper-bound range fragments.
func (q *Query) LessThan(conds ...criteria.Condition) *Query {
	return q.derive(q.crit.LessThan(conds...))
}

// GreaterThan appends exclusive lower-bound range fragments.
func (q *Query) GreaterThan(conds ...criteria.Condition) *Query {
	return q.derive(q.crit.GreaterThan(conds...))
}

// AtMost appends inclusive upper-bound range fragments.
func (q *Query) AtMost(conds ...criteria.Condition) *Query { return q.derive(q.crit.AtMost(conds...)) }

// AtLeast appends inclusive lower-bound range fragments.
func (q *Query) AtLeast(conds ...criteria.Condition) *Query {
	return q.derive(q.crit.AtLeast(conds...))
}

// Sort appends ordering clauses.
func (q *Query) Sort(clauses ...criteria.SortClause) *Query { return q.derive(q.crit.Sort(clauses...)) }

// OrderBy is an alias for Sort.
func (q *Query) OrderBy(clauses ...criteria.SortClause) *Query { return q.Sort(clauses...) }

// SortRaw appends a verbatim sort spec.
func (q *Query) SortRaw(spec string) *Query { return q.derive(q.crit.SortRaw(spec)) }

// Limit sets the page size.
func (q *Query) Limit(n int) *Query { return q.derive(q.crit.Limit(n)) }

// Rows is an alias for Limit.
func (q *Query) Rows(n int) *Query { return q.Limit(n) }

// Skip sets the result offset.
func (q *Query) Skip(n int) *Query { return q.derive(q.crit.Skip(n)) }

// Start is an alias for Skip.
func (q *Query) Start(n int) *Query { return q.Skip(n) }

// Merge AND-appends other's criteria; other's set options override.
func (q *Query) Merge(other *Query) *Query { return q.derive(q.crit.Merge(other.crit)) }

// Equal reports structural equality: same collection and same criteria.
// Cache state does not participate.
func (q *Query) Equal(other *Query) bool {
	return q.collection == other.collection && q.crit.Equal(other.crit)
}

// Scoped returns a zero-argument callable yielding the query itself, for
// use as a deferred scope.
func (q *Query) Scoped() func() *Query {
	return func() *Query { return q }
}

// --- Terminal accessors ---

// Execute sends the accumulated expression to the backend and stores the raw
// response. Fails with domain.ErrEmptyQuery when no filter has been applied.
func (q *Query) Execute(ctx context.Context) error {
	if q.crit.IsEmpty() {
		return domain.ErrEmptyQuery
	}

	opts := searchOptions(q.crit.Opts())

	start := time.Now()
	resp, err := q.svc.searcher.Search(ctx, q.collection, q.crit.Selector(), opts)
	q.observe(time.Since(start), err)
	if err != nil {
		q.cell.reset()
		q.svc.logger.Warn("search failed",
			zap.String("collection", q.collection),
			zap.String("selector", q.crit.Selector()),
			zap.Error(err),
		)
		return &queryError{err: err}
	}

	q.svc.logger.Debug("search executed",
		zap.String("collection", q.collection),
		zap.String("selector", q.crit.Selector()),
	)
	q.cell.resp = resp
	return nil
}

// Total returns the backend-reported match count for the current criteria.
func (q *Query) Total(ctx context.Context) (int, error) {
	if err := q.ensureParsed(ctx); err != nil {
		return 0, err
	}
	return q.cell.total, nil
}

// DocumentIDs returns the matched identifiers in backend order.
func (q *Query) DocumentIDs(ctx context.Context) ([]string, error) {
	if err := q.ensureParsed(ctx); err != nil {
		return nil, err
	}
	return q.cell.ids, nil
}

// Documents returns fully materialized records, fetched from the record
// store exactly once per cache generation.
func (q *Query) Documents(ctx context.Context) ([]record.Record, error) {
	if err := q.ensureParsed(ctx); err != nil {
		return nil, err
	}
	if q.cell.materialized {
		return q.cell.docs, nil
	}

	docs, err := q.svc.records.Find(ctx, q.collection, q.cell.ids)
	if err != nil {
		return nil, err
	}
	q.cell.docs = docs
	q.cell.materialized = true
	return docs, nil
}

// Count returns the number of matches. With unpaginated=false it counts the
// materialized, windowed document list; with unpaginated=true it returns the
// backend-reported total, ignoring rows/start.
func (q *Query) Count(ctx context.Context, unpaginated bool) (int, error) {
	if unpaginated {
		return q.Total(ctx)
	}
	docs, err := q.Documents(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// InBatches walks the result set page by page: each iteration derives a
// rows+start-bound snapshot, executes it (one backend round-trip per page),
// and yields it while pages are non-empty. There is no backend-side cursor;
// every page is a fresh query.
func (q *Query) InBatches(ctx context.Context, limit int, fn func(page *Query) error) error {
	if limit <= 0 {
		return domain.ErrInvalidBatchSize
	}

	for offset := 0; ; offset += limit {
		page := q.Limit(limit).Skip(offset)
		ids, err := page.DocumentIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := fn(page); err != nil {
			return err
		}
	}
}

// Resolve delegates a named query method to the bound model, passing the
// current query as the explicit scope. Fails with domain.ErrNoMethod when no
// model is bound; the model returns the same error for unknown names.
func (q *Query) Resolve(ctx context.Context, name string, args ...any) (any, error) {
	if q.model == nil {
		return nil, domain.NewNoMethod(name)
	}
	return q.model.ResolveQuery(ctx, name, q, args...)
}

func (q *Query) observe(d time.Duration, err error) {
	if metrics.QueriesTotal == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.QueriesTotal.WithLabelValues(q.collection, status).Inc()
	metrics.QueryDuration.WithLabelValues(q.collection).Observe(d.Seconds())
}

func searchOptions(o criteria.Options) db.SearchOptions {
	var opts db.SearchOptions
	if rows, ok := o.Rows(); ok {
		opts.Rows = rows
		opts.HasRows = true
	}
	if start, ok := o.Start(); ok {
		opts.Start = start
		opts.HasStart = true
	}
	opts.Sort = o.Sort()
	return opts
}
