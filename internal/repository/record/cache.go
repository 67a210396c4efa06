package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/solrkit/solrkit/internal/db"
	"github.com/solrkit/solrkit/internal/domain/record"
)

const cacheKeyPrefix = "solrkit:rec:"

// DefaultCacheTTL bounds staleness of cached records.
const DefaultCacheTTL = 5 * time.Minute

// kv is the consumer interface for the record cache (ISP).
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Finder is the record-store contract the cache decorates.
type Finder interface {
	Find(ctx context.Context, collection string, ids []string) ([]record.Record, error)
}

// Cache is a read-through caching decorator over a record store.
// Cache errors are logged and treated as misses; the inner store is the
// source of truth.
type Cache struct {
	inner      Finder
	store      kv
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCache creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCache(
	inner Finder, store kv, ttl time.Duration,
	cacheTotal *prometheus.CounterVec, logger *zap.Logger,
) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{inner: inner, store: store, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// Find serves each id from the cache when possible and fetches the rest
// from the inner store in one call, preserving input order.
func (c *Cache) Find(ctx context.Context, collection string, ids []string) ([]record.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cached := make(map[string]record.Record, len(ids))
	var missing []string
	for _, id := range ids {
		if rec, ok := c.getFromCache(ctx, collection, id); ok {
			c.incCache("hit")
			cached[id] = rec
			continue
		}
		c.incCache("miss")
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := c.inner.Find(ctx, collection, missing)
		if err != nil {
			return nil, fmt.Errorf("find records: %w", err)
		}
		for _, rec := range fetched {
			cached[rec.ID()] = rec
			c.putToCache(ctx, collection, rec)
		}
	}

	out := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := cached[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(collection, id string) string {
	return cacheKeyPrefix + collection + ":" + id
}

func (c *Cache) getFromCache(ctx context.Context, collection, id string) (record.Record, bool) {
	data, err := c.store.Get(ctx, cacheKey(collection, id))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached record", zap.String("id", id), zap.Error(err))
		}
		return record.Record{}, false
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		c.logger.Warn("Failed to parse cached record", zap.String("id", id), zap.Error(err))
		return record.Record{}, false
	}
	return record.New(id, fields), true
}

func (c *Cache) putToCache(ctx context.Context, collection string, rec record.Record) {
	data, err := json.Marshal(rec.Fields())
	if err != nil {
		c.logger.Warn("Failed to marshal record for cache", zap.String("id", rec.ID()), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, cacheKey(collection, rec.ID()), data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache record", zap.String("id", rec.ID()), zap.Error(err))
	}
}
