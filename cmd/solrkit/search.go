package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/solrkit/solrkit"
)

var searchFlags struct {
	solrURL     string
	collection  string
	where       []string
	raw         string
	sort        []string
	rows        int
	start       int
	timeout     time.Duration
	includeDocs bool
	countOnly   bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a one-shot query against a collection",
	Long: `Builds a criteria query from flags, executes it once, and prints the
result as JSON.

Conditions are field=value pairs; repeat --where to AND them together.
Sort clauses are field or field:desc; repeat --sort for secondary ordering.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runSearch()
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.solrURL, "solr", "http://localhost:8983/solr", "Solr base URL")
	searchCmd.Flags().StringVarP(&searchFlags.collection, "collection", "c", "", "Collection name (required)")
	searchCmd.Flags().StringArrayVarP(&searchFlags.where, "where", "w", nil, "Condition as field=value (repeatable)")
	searchCmd.Flags().StringVar(&searchFlags.raw, "raw", "", "Raw query fragment appended verbatim")
	searchCmd.Flags().StringArrayVarP(&searchFlags.sort, "sort", "s", nil, "Sort clause as field or field:desc (repeatable)")
	searchCmd.Flags().IntVar(&searchFlags.rows, "rows", 0, "Page size (0 = backend default)")
	searchCmd.Flags().IntVar(&searchFlags.start, "start", 0, "Result offset")
	searchCmd.Flags().DurationVar(&searchFlags.timeout, "timeout", 10*time.Second, "Request timeout")
	searchCmd.Flags().BoolVar(&searchFlags.includeDocs, "docs", false, "Materialize and print full documents")
	searchCmd.Flags().BoolVar(&searchFlags.countOnly, "count", false, "Print only the unpaginated match count")
	_ = searchCmd.MarkFlagRequired("collection")

	rootCmd.AddCommand(searchCmd)
}

func runSearch() error {
	client, err := solrkit.New(
		solrkit.WithSolr(searchFlags.solrURL),
		solrkit.WithTimeout(searchFlags.timeout),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	q, err := buildSearchQuery(client)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), searchFlags.timeout)
	defer cancel()

	if searchFlags.countOnly {
		count, err := q.Count(ctx, true)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"selector": q.Selector(), "count": count})
	}

	total, err := q.Total(ctx)
	if err != nil {
		return err
	}
	ids, err := q.DocumentIDs(ctx)
	if err != nil {
		return err
	}

	out := map[string]any{
		"selector": q.Selector(),
		"total":    total,
		"ids":      ids,
	}
	if searchFlags.includeDocs {
		docs, err := q.Documents(ctx)
		if err != nil {
			return err
		}
		fields := make([]map[string]any, len(docs))
		for i, d := range docs {
			fields[i] = d.Fields
		}
		out["docs"] = fields
	}
	return printJSON(out)
}

func buildSearchQuery(client *solrkit.Client) (*solrkit.Query, error) {
	q := client.Query(searchFlags.collection)

	for _, w := range searchFlags.where {
		field, value, ok := strings.Cut(w, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --where %q, want field=value", w)
		}
		q = q.Where(solrkit.Condition{Field: field, Value: value})
	}
	if searchFlags.raw != "" {
		q = q.WhereRaw(searchFlags.raw)
	}
	for _, s := range searchFlags.sort {
		field, dir, _ := strings.Cut(s, ":")
		if field == "" {
			return nil, fmt.Errorf("invalid --sort %q", s)
		}
		clause := solrkit.SortClause{Field: field, Direction: solrkit.Asc}
		switch dir {
		case "", "asc":
		case "desc":
			clause.Direction = solrkit.Desc
		default:
			return nil, fmt.Errorf("invalid --sort direction %q", dir)
		}
		q = q.Sort(clause)
	}
	if searchFlags.rows > 0 {
		q = q.Limit(searchFlags.rows)
	}
	if searchFlags.start > 0 {
		q = q.Skip(searchFlags.start)
	}
	return q, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
