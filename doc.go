// Package solrkit provides a fluent Go client for building and lazily
// executing Solr queries.
//
// Criteria are immutable: every chain call returns a new query snapshot
// and never mutates its receiver, so a base query can be shared and
// branched freely.
//
//	client, _ := solrkit.New(solrkit.WithSolr("http://localhost:8983/solr"))
//	base := client.Query("products").Where(solrkit.Condition{Field: "tags", Value: "nerd"})
//
//	cheap := base.AtMost(solrkit.Condition{Field: "price", Value: 20})
//	recent := base.Sort(solrkit.SortClause{Field: "created_at", Direction: solrkit.Desc}).Limit(10)
//
//	docs, _ := cheap.Documents(ctx)  // executes here, result cached on this snapshot
//	total, _ := cheap.Total(ctx)     // served from the cache, no second round-trip
package solrkit
