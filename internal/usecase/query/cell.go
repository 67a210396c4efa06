package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain"
	"github.com/solrkit/solrkit/internal/domain/record"
)

// cell is the per-snapshot result cache. Lifecycle: empty (unexecuted) →
// resp stored (executed) → parsed (cached) → materialized. Any failure
// resets the cell to empty so a retry starts clean.
type cell struct {
	resp         *db.Response
	parsed       bool
	total        int
	ids          []string
	docs         []record.Record
	materialized bool
}

func (c *cell) reset() {
	*c = cell{}
}

// envelope is the fixed backend response shape. Pointer fields distinguish
// missing keys from zero values during validation.
type envelope struct {
	Response *struct {
		NumFound *int             `json:"numFound"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
}

// ensureParsed executes the query if needed, then decodes the cached raw
// response once. Malformed responses reset the cell and surface
// domain.ErrQueryFailed.
func (q *Query) ensureParsed(ctx context.Context) error {
	if q.cell.parsed {
		return nil
	}
	if q.cell.resp == nil {
		if err := q.Execute(ctx); err != nil {
			return err
		}
	}

	total, ids, err := parseResponse(q.cell.resp)
	if err != nil {
		q.cell.reset()
		return &queryError{err: err}
	}

	q.cell.total = total
	q.cell.ids = ids
	q.cell.parsed = true
	return nil
}

func parseResponse(resp *db.Response) (int, []string, error) {
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return 0, nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Response == nil {
		return 0, nil, fmt.Errorf("response key missing")
	}
	if env.Response.NumFound == nil {
		return 0, nil, fmt.Errorf("numFound key missing")
	}

	ids := make([]string, 0, len(env.Response.Docs))
	for i, doc := range env.Response.Docs {
		raw, ok := doc["id"]
		if !ok {
			return 0, nil, fmt.Errorf("doc %d: id key missing", i)
		}
		id, ok := raw.(string)
		if !ok {
			id = fmt.Sprintf("%v", raw)
		}
		ids = append(ids, id)
	}
	return *env.Response.NumFound, ids, nil
}

// queryError wraps a transport or parse failure so callers can match
// domain.ErrQueryFailed while keeping the cause.
type queryError struct {
	err error
}

func (e *queryError) Error() string {
	return domain.ErrQueryFailed.Error() + ": " + e.err.Error()
}

func (e *queryError) Unwrap() []error { return []error{domain.ErrQueryFailed, e.err} }
