package query

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain"
	"github.com/solrkit/solrkit/internal/domain/criteria"
)

func errNoMethod(name string) error { return domain.NewNoMethod(name) }

func newTestQuery(searcher *mockSearcher, records *mockRecords) *Query {
	svc := NewService(searcher, records, nil)
	return svc.Scope("products")
}

func TestExecute_EmptySelector(t *testing.T) {
	q := newTestQuery(&mockSearcher{}, &mockRecords{})

	err := q.Execute(context.Background())
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestExecute_PaginationAloneIsNotAFilter(t *testing.T) {
	q := newTestQuery(&mockSearcher{}, &mockRecords{})

	_, err := q.Limit(10).Total(context.Background())
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestParse_TotalAndIDs(t *testing.T) {
	searcher := fixedResponse(`{"response":{"numFound":2,"docs":[{"id":"a"},{"id":"b"}]}}`)
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "tags", Value: "nerd"})

	total, err := q.Total(context.Background())
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}

	ids, err := q.DocumentIDs(context.Background())
	if err != nil {
		t.Fatalf("DocumentIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ids = %v, want [a b]", ids)
	}
	if searcher.calls != 1 {
		t.Errorf("search calls = %d, want 1 (parse is cached)", searcher.calls)
	}
}

func TestDocuments_Idempotent(t *testing.T) {
	searcher := fixedResponse(`{"response":{"numFound":2,"docs":[{"id":"a"},{"id":"b"}]}}`)
	records := &mockRecords{}
	q := newTestQuery(searcher, records).
		Where(criteria.Condition{Field: "tags", Value: "nerd"})

	first, err := q.Documents(context.Background())
	if err != nil {
		t.Fatalf("first Documents: %v", err)
	}
	second, err := q.Documents(context.Background())
	if err != nil {
		t.Fatalf("second Documents: %v", err)
	}

	if searcher.calls != 1 {
		t.Errorf("search calls = %d, want 1", searcher.calls)
	}
	if records.calls != 1 {
		t.Errorf("record fetch calls = %d, want 1", records.calls)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 docs on both reads, got %d and %d", len(first), len(second))
	}
	if first[0].ID() != "a" || first[1].ID() != "b" {
		t.Errorf("doc order = %s, %s", first[0].ID(), first[1].ID())
	}
}

func TestChain_InvalidatesCacheOnDerivedOnly(t *testing.T) {
	searcher := fixedResponse(`{"response":{"numFound":1,"docs":[{"id":"a"}]}}`)
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "tags", Value: "nerd"})

	if _, err := q.Documents(context.Background()); err != nil {
		t.Fatalf("Documents: %v", err)
	}

	derived := q.Where(criteria.Condition{Field: "name", Value: "Joe"})
	if _, err := derived.Documents(context.Background()); err != nil {
		t.Fatalf("derived Documents: %v", err)
	}
	if searcher.calls != 2 {
		t.Errorf("search calls = %d, want 2 (derived re-executes)", searcher.calls)
	}

	// Base cache survives the derivation.
	if _, err := q.Documents(context.Background()); err != nil {
		t.Fatalf("base Documents after derive: %v", err)
	}
	if searcher.calls != 2 {
		t.Errorf("search calls = %d, want still 2 (base cache intact)", searcher.calls)
	}
}

func TestCount_PaginatedVsUnpaginated(t *testing.T) {
	searcher := windowedSearcher("a", "b", "c", "d", "e")
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "tags", Value: "nerd"}).
		Limit(2).Skip(1)

	paginated, err := q.Count(context.Background(), false)
	if err != nil {
		t.Fatalf("Count(false): %v", err)
	}
	if paginated != 2 {
		t.Errorf("Count(false) = %d, want 2 (window length)", paginated)
	}

	unpaginated, err := q.Count(context.Background(), true)
	if err != nil {
		t.Fatalf("Count(true): %v", err)
	}
	if unpaginated != 5 {
		t.Errorf("Count(true) = %d, want 5 (numFound)", unpaginated)
	}
}

func TestParse_MalformedResponse(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"missing response key", `{"foo":1}`},
		{"missing numFound", `{"response":{"docs":[]}}`},
		{"doc without id", `{"response":{"numFound":1,"docs":[{"name":"x"}]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			searcher := fixedResponse(tc.body)
			q := newTestQuery(searcher, &mockRecords{}).
				Where(criteria.Condition{Field: "a", Value: 1})

			_, err := q.Total(context.Background())
			if !errors.Is(err, domain.ErrQueryFailed) {
				t.Fatalf("expected ErrQueryFailed, got %v", err)
			}
		})
	}
}

func TestParse_FailureResetsCacheForRetry(t *testing.T) {
	good := `{"response":{"numFound":1,"docs":[{"id":"a"}]}}`
	calls := 0
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _, _ string, _ db.SearchOptions) (*db.Response, error) {
			calls++
			if calls == 1 {
				return &db.Response{Body: json.RawMessage(`{"broken":true}`)}, nil
			}
			return &db.Response{Body: json.RawMessage(good)}, nil
		},
	}
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1})

	if _, err := q.Total(context.Background()); !errors.Is(err, domain.ErrQueryFailed) {
		t.Fatalf("expected ErrQueryFailed on first read, got %v", err)
	}

	// Retry starts clean: a fresh round-trip, no stale partial state.
	total, err := q.Total(context.Background())
	if err != nil {
		t.Fatalf("retry Total: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if calls != 2 {
		t.Errorf("search calls = %d, want 2", calls)
	}
}

func TestExecute_TransportErrorIsQueryFailed(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, _, _ string, _ db.SearchOptions) (*db.Response, error) {
			return nil, errors.New("connection refused")
		},
	}
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1})

	err := q.Execute(context.Background())
	if !errors.Is(err, domain.ErrQueryFailed) {
		t.Errorf("expected ErrQueryFailed, got %v", err)
	}
}

func TestInBatches_TwoPagesThenStop(t *testing.T) {
	searcher := windowedSearcher("a", "b")
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "tags", Value: "nerd"})

	var pages [][]string
	err := q.InBatches(context.Background(), 1, func(page *Query) error {
		ids, err := page.DocumentIDs(context.Background())
		if err != nil {
			return err
		}
		pages = append(pages, ids)
		return nil
	})
	if err != nil {
		t.Fatalf("InBatches: %v", err)
	}

	if len(pages) != 2 {
		t.Fatalf("expected exactly 2 page callbacks, got %d", len(pages))
	}
	if pages[0][0] != "a" || pages[1][0] != "b" {
		t.Errorf("pages = %v", pages)
	}
	// Two non-empty pages plus the terminating empty probe.
	if searcher.calls != 3 {
		t.Errorf("search calls = %d, want 3", searcher.calls)
	}
}

func TestInBatches_InvalidLimit(t *testing.T) {
	q := newTestQuery(&mockSearcher{}, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1})

	err := q.InBatches(context.Background(), 0, func(*Query) error { return nil })
	if !errors.Is(err, domain.ErrInvalidBatchSize) {
		t.Errorf("expected ErrInvalidBatchSize, got %v", err)
	}
}

func TestInBatches_CallbackErrorStopsIteration(t *testing.T) {
	searcher := windowedSearcher("a", "b", "c")
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1})

	wantErr := errors.New("stop here")
	calls := 0
	err := q.InBatches(context.Background(), 1, func(*Query) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("callbacks = %d, want 1", calls)
	}
}

func TestResolve_NoModelBound(t *testing.T) {
	q := newTestQuery(&mockSearcher{}, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1})

	_, err := q.Resolve(context.Background(), "recent")
	if !errors.Is(err, domain.ErrNoMethod) {
		t.Errorf("expected ErrNoMethod, got %v", err)
	}
}

func TestResolve_DelegatesWithScope(t *testing.T) {
	model := &mockModel{known: map[string]any{"recent": 42}}
	q := newTestQuery(&mockSearcher{}, &mockRecords{}).
		WithModel(model).
		Where(criteria.Condition{Field: "a", Value: 1})

	got, err := q.Resolve(context.Background(), "recent", "x", 7)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %v, want 42", got)
	}
	if model.lastScope == nil || model.lastScope.Selector() != "(a:1)" {
		t.Error("expected current query passed as explicit scope")
	}
	if len(model.lastArgs) != 2 {
		t.Errorf("args = %v", model.lastArgs)
	}
}

func TestResolve_UnknownMethod(t *testing.T) {
	model := &mockModel{}
	q := newTestQuery(&mockSearcher{}, &mockRecords{}).
		WithModel(model).
		Where(criteria.Condition{Field: "a", Value: 1})

	_, err := q.Resolve(context.Background(), "bogus")
	if !errors.Is(err, domain.ErrNoMethod) {
		t.Errorf("expected ErrNoMethod, got %v", err)
	}
}

func TestScoped_YieldsSameQuery(t *testing.T) {
	q := newTestQuery(&mockSearcher{}, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1})

	scope := q.Scoped()
	if scope() != q {
		t.Error("deferred scope should yield the same snapshot")
	}
}

func TestMergeAndEqual(t *testing.T) {
	svc := NewService(&mockSearcher{}, &mockRecords{}, nil)
	a := svc.Scope("products").Where(criteria.Condition{Field: "tags", Value: "nerd"})
	b := svc.Scope("products").Where(criteria.Condition{Field: "name", Value: "Joe"}).Limit(5)

	m := a.Merge(b)
	if m.Selector() != "(tags:nerd) AND ((name:Joe))" {
		t.Errorf("merged selector = %q", m.Selector())
	}
	if rows, _ := m.Criteria().Opts().Rows(); rows != 5 {
		t.Errorf("merged rows = %d, want 5", rows)
	}

	twin := svc.Scope("products").Where(criteria.Condition{Field: "tags", Value: "nerd"})
	if !a.Equal(twin) {
		t.Error("structurally identical queries should be equal")
	}
	if a.Equal(b) {
		t.Error("different selectors should not be equal")
	}

	other := svc.Scope("users").Where(criteria.Condition{Field: "tags", Value: "nerd"})
	if a.Equal(other) {
		t.Error("different collections should not be equal")
	}
}

func TestSearchOptions_PassedThrough(t *testing.T) {
	searcher := fixedResponse(`{"response":{"numFound":0,"docs":[]}}`)
	q := newTestQuery(searcher, &mockRecords{}).
		Where(criteria.Condition{Field: "a", Value: 1}).
		Limit(25).Skip(50).
		Sort(criteria.SortClause{Field: "price", Direction: criteria.Desc})

	if _, err := q.Total(context.Background()); err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !searcher.lastOpts.HasRows || searcher.lastOpts.Rows != 25 {
		t.Errorf("rows = %+v", searcher.lastOpts)
	}
	if !searcher.lastOpts.HasStart || searcher.lastOpts.Start != 50 {
		t.Errorf("start = %+v", searcher.lastOpts)
	}
	if searcher.lastOpts.Sort != "price desc" {
		t.Errorf("sort = %q", searcher.lastOpts.Sort)
	}
}
