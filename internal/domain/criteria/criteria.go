// Package criteria implements an immutable, chainable Lucene-syntax query
// builder. A Criteria is a plain value: every chain call returns a new value
// and never mutates its receiver, so a base criteria can be shared across
// derived queries.
package criteria

import "strings"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Condition is a single field/value pair, rendered as `field:value`.
// Values are rendered verbatim; callers are responsible for safe values.
type Condition struct {
	Field string
	Value any
}

// Group is an AND-joined list of conditions forming one alternative
// inside an OR group.
type Group []Condition

// Span is an inclusive range over a field, rendered as `field:[lo TO hi]`.
type Span struct {
	Field string
	Lo    any
	Hi    any
}

// SortClause is one `field direction` ordering clause.
type SortClause struct {
	Field     string
	Direction Direction
}

// Criteria is the accumulated query expression plus pagination/sort options.
// The zero value is an empty criteria (no filter applied yet).
type Criteria struct {
	selector string
	opts     Options
}

// New returns an empty criteria.
func New() Criteria { return Criteria{} }

// Selector returns the accumulated boolean query expression.
// Empty string means no filter has been applied.
func (c Criteria) Selector() string { return c.selector }

// Opts returns the pagination and sort options.
func (c Criteria) Opts() Options { return c.opts }

// IsEmpty reports whether no filter has been applied yet.
func (c Criteria) IsEmpty() bool { return strings.TrimSpace(c.selector) == "" }

// Where appends one parenthesized fragment of AND-joined `field:value`
// pairs, itself AND-joined to any prior selector.
func (c Criteria) Where(conds ...Condition) Criteria {
	if len(conds) == 0 {
		return c
	}
	c.selector = appendFragment(c.selector, renderPairs(conds))
	return c
}

// WhereRaw appends a raw expression string as its own fragment.
func (c Criteria) WhereRaw(expr string) Criteria {
	if expr == "" {
		return c
	}
	c.selector = appendFragment(c.selector, expr)
	return c
}

// Or appends an OR-joined group of alternatives, the whole group
// AND-joined to any prior selector. Each alternative is a parenthesized
// AND-joined pair list.
func (c Criteria) Or(groups ...Group) Criteria {
	if len(groups) == 0 {
		return c
	}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		parts = append(parts, "("+renderPairs(g)+")")
	}
	if len(parts) == 0 {
		return c
	}
	c.selector = appendFragment(c.selector, strings.Join(parts, " OR "))
	return c
}

// AnyOf is an alias for Or.
func (c Criteria) AnyOf(groups ...Group) Criteria { return c.Or(groups...) }

// Between appends one inclusive `field:[lo TO hi]` fragment per span.
func (c Criteria) Between(spans ...Span) Criteria {
	for _, s := range spans {
		c.selector = appendFragment(c.selector, renderRange(s.Field, s.Lo, s.Hi, inclusive))
	}
	return c
}

// LessThan appends exclusive upper-bound ranges: `field:{* TO v}`.
func (c Criteria) LessThan(conds ...Condition) Criteria {
	for _, cond := range conds {
		c.selector = appendFragment(c.selector, renderRange(cond.Field, Wildcard, cond.Value, exclusive))
	}
	return c
}

// GreaterThan appends exclusive lower-bound ranges: `field:{v TO *}`.
func (c Criteria) GreaterThan(conds ...Condition) Criteria {
	for _, cond := range conds {
		c.selector = appendFragment(c.selector, renderRange(cond.Field, cond.Value, Wildcard, exclusive))
	}
	return c
}

// AtMost appends inclusive upper-bound ranges: `field:[* TO v]`.
func (c Criteria) AtMost(conds ...Condition) Criteria {
	for _, cond := range conds {
		c.selector = appendFragment(c.selector, renderRange(cond.Field, Wildcard, cond.Value, inclusive))
	}
	return c
}

// AtLeast appends inclusive lower-bound ranges: `field:[v TO *]`.
func (c Criteria) AtLeast(conds ...Condition) Criteria {
	for _, cond := range conds {
		c.selector = appendFragment(c.selector, renderRange(cond.Field, cond.Value, Wildcard, inclusive))
	}
	return c
}

// Sort appends `field direction` clauses to the sort spec, comma-joined.
func (c Criteria) Sort(clauses ...SortClause) Criteria {
	for _, cl := range clauses {
		c.opts = c.opts.appendSort(renderSort(cl))
	}
	return c
}

// OrderBy is an alias for Sort.
func (c Criteria) OrderBy(clauses ...SortClause) Criteria { return c.Sort(clauses...) }

// SortRaw appends a verbatim sort spec.
func (c Criteria) SortRaw(spec string) Criteria {
	if spec == "" {
		return c
	}
	c.opts = c.opts.appendSort(spec)
	return c
}

// Limit sets the page size.
func (c Criteria) Limit(n int) Criteria {
	c.opts = c.opts.withRows(n)
	return c
}

// Rows is an alias for Limit.
func (c Criteria) Rows(n int) Criteria { return c.Limit(n) }

// Skip sets the result offset.
func (c Criteria) Skip(n int) Criteria {
	c.opts = c.opts.withStart(n)
	return c
}

// Start is an alias for Skip.
func (c Criteria) Start(n int) Criteria { return c.Skip(n) }

// Merge AND-appends other's selector and overrides options that other has set.
func (c Criteria) Merge(other Criteria) Criteria {
	if !other.IsEmpty() {
		c.selector = appendFragment(c.selector, other.selector)
	}
	c.opts = c.opts.Merge(other.opts)
	return c
}

// Equal reports structural equality: same selector text and same options.
func (c Criteria) Equal(other Criteria) bool {
	return c.selector == other.selector && c.opts == other.opts
}
