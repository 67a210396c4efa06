package solrkit

import (
	"context"

	"github.com/solrkit/solrkit/internal/domain/criteria"
	"github.com/solrkit/solrkit/internal/domain/record"
	queryuc "github.com/solrkit/solrkit/internal/usecase/query"
)

// Wildcard is the open range bound, rendered as "*".
const Wildcard = criteria.Wildcard

// Condition is a single field:value pair.
type Condition struct {
	Field string
	Value any
}

// Group is a set of alternatives joined with OR.
type Group []Condition

// Span is a range over a field. Use Wildcard for an open bound.
type Span struct {
	Field string
	From  any
	To    any
}

// Direction orders a sort clause.
type Direction = criteria.Direction

// Sort directions.
const (
	Asc  = criteria.Asc
	Desc = criteria.Desc
)

// SortClause orders results by a field.
type SortClause struct {
	Field     string
	Direction Direction
}

// Record is a materialized document.
type Record struct {
	ID     string
	Fields map[string]any
}

// Query is an immutable criteria snapshot bound to a collection. Chain
// methods return a new snapshot; terminal methods execute lazily and
// cache the result on the snapshot they are called on.
type Query struct {
	inner *queryuc.Query
}

// Collection returns the bound collection name.
func (q *Query) Collection() string { return q.inner.Collection() }

// Selector returns the accumulated query expression.
func (q *Query) Selector() string { return q.inner.Selector() }

// --- Chain operations ---

// Where appends AND-joined field:value pairs as one fragment.
func (q *Query) Where(conds ...Condition) *Query {
	return &Query{inner: q.inner.Where(toConditions(conds)...)}
}

// WhereRaw appends a raw expression fragment verbatim.
func (q *Query) WhereRaw(expr string) *Query {
	return &Query{inner: q.inner.WhereRaw(expr)}
}

// Or appends a group of alternatives joined with OR.
func (q *Query) Or(groups ...Group) *Query {
	gs := make([]criteria.Group, len(groups))
	for i, g := range groups {
		gs[i] = criteria.Group(toConditions(g))
	}
	return &Query{inner: q.inner.Or(gs...)}
}

// AnyOf is an alias for Or.
func (q *Query) AnyOf(groups ...Group) *Query { return q.Or(groups...) }

// Between appends inclusive range fragments.
func (q *Query) Between(spans ...Span) *Query {
	ss := make([]criteria.Span, len(spans))
	for i, sp := range spans {
		ss[i] = criteria.Span{Field: sp.Field, Lo: sp.From, Hi: sp.To}
	}
	return &Query{inner: q.inner.Between(ss...)}
}

// LessThan appends exclusive upper-bound fragments.
func (q *Query) LessThan(conds ...Condition) *Query {
	return &Query{inner: q.inner.LessThan(toConditions(conds)...)}
}

// GreaterThan appends exclusive lower-bound fragments.
func (q *Query) GreaterThan(conds ...Condition) *Query {
	return &Query{inner: q.inner.GreaterThan(toConditions(conds)...)}
}

// AtMost appends inclusive upper-bound fragments.
func (q *Query) AtMost(conds ...Condition) *Query {
	return &Query{inner: q.inner.AtMost(toConditions(conds)...)}
}

// AtLeast appends inclusive lower-bound fragments.
func (q *Query) AtLeast(conds ...Condition) *Query {
	return &Query{inner: q.inner.AtLeast(toConditions(conds)...)}
}

// Sort appends ordering clauses.
func (q *Query) Sort(clauses ...SortClause) *Query {
	cs := make([]criteria.SortClause, len(clauses))
	for i, c := range clauses {
		cs[i] = criteria.SortClause{Field: c.Field, Direction: c.Direction}
	}
	return &Query{inner: q.inner.Sort(cs...)}
}

// OrderBy is an alias for Sort.
func (q *Query) OrderBy(clauses ...SortClause) *Query { return q.Sort(clauses...) }

// SortRaw appends a verbatim sort spec.
func (q *Query) SortRaw(spec string) *Query {
	return &Query{inner: q.inner.SortRaw(spec)}
}

// Limit sets the page size.
func (q *Query) Limit(n int) *Query { return &Query{inner: q.inner.Limit(n)} }

// Rows is an alias for Limit.
func (q *Query) Rows(n int) *Query { return q.Limit(n) }

// Skip sets the result offset.
func (q *Query) Skip(n int) *Query { return &Query{inner: q.inner.Skip(n)} }

// Start is an alias for Skip.
func (q *Query) Start(n int) *Query { return q.Skip(n) }

// Merge AND-appends another query's criteria; the other query's explicit
// pagination and sort settings override this one's.
func (q *Query) Merge(other *Query) *Query {
	return &Query{inner: q.inner.Merge(other.inner)}
}

// Equal reports structural equality of two queries: same collection, same
// expression, same options. Cached results do not participate.
func (q *Query) Equal(other *Query) bool { return q.inner.Equal(other.inner) }

// Scoped returns a zero-argument callable yielding the query itself.
func (q *Query) Scoped() func() *Query {
	return func() *Query { return q }
}

// --- Terminal operations ---

// Execute runs the query eagerly. Usually unnecessary: terminal accessors
// execute on first use.
func (q *Query) Execute(ctx context.Context) error { return q.inner.Execute(ctx) }

// Total returns the backend-reported match count, ignoring pagination.
func (q *Query) Total(ctx context.Context) (int, error) { return q.inner.Total(ctx) }

// DocumentIDs returns the matched identifiers in backend order.
func (q *Query) DocumentIDs(ctx context.Context) ([]string, error) {
	return q.inner.DocumentIDs(ctx)
}

// Documents returns the matched records, fully materialized.
func (q *Query) Documents(ctx context.Context) ([]Record, error) {
	docs, err := q.inner.Documents(ctx)
	if err != nil {
		return nil, err
	}
	return fromRecords(docs), nil
}

// Count returns the number of matches. With unpaginated=true the count
// ignores Limit and Skip.
func (q *Query) Count(ctx context.Context, unpaginated bool) (int, error) {
	return q.inner.Count(ctx, unpaginated)
}

// InBatches walks the result set page by page, yielding one bounded query
// snapshot per page until a page comes back empty.
func (q *Query) InBatches(ctx context.Context, limit int, fn func(page *Query) error) error {
	return q.inner.InBatches(ctx, limit, func(page *queryuc.Query) error {
		return fn(&Query{inner: page})
	})
}

// Resolve invokes a named query method on the model bound via WithModel,
// passing this query as the scope.
func (q *Query) Resolve(ctx context.Context, name string, args ...any) (any, error) {
	return q.inner.Resolve(ctx, name, args...)
}

func toConditions(cs []Condition) []criteria.Condition {
	out := make([]criteria.Condition, len(cs))
	for i, c := range cs {
		out[i] = criteria.Condition{Field: c.Field, Value: c.Value}
	}
	return out
}

func fromRecords(recs []record.Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = Record{ID: r.ID(), Fields: r.Fields()}
	}
	return out
}
