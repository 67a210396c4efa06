package solrkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/solrkit/solrkit/internal/db/redis"
	dbSolr "github.com/solrkit/solrkit/internal/db/solr"
	"github.com/solrkit/solrkit/internal/metrics"
	recordrepo "github.com/solrkit/solrkit/internal/repository/record"
	queryuc "github.com/solrkit/solrkit/internal/usecase/query"
)

const defaultReadinessTimeout = 10 * time.Second

// Queryable lets a model answer named query methods invoked through
// Query.Resolve. The current query is passed as the explicit scope.
type Queryable interface {
	ResolveQuery(ctx context.Context, name string, scope *Query, args ...any) (any, error)
}

// Client is the solrkit SDK entry point.
type Client struct {
	solr  *dbSolr.Store
	redis *dbRedis.Store
	svc   *queryuc.Service
	model Queryable
}

// New creates a solrkit Client. A Solr base URL is required; the Redis
// record cache is optional.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.solrURL == "" {
		return nil, errors.New("solrkit: solr base url required (use WithSolr)")
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	solr, err := dbSolr.NewStore(dbSolr.Config{
		BaseURL: cfg.solrURL,
		Timeout: cfg.timeout,
		Client:  cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("solrkit: create solr store: %w", err)
	}

	return wireClient(solr, cfg, logger)
}

func wireClient(solr *dbSolr.Store, cfg *clientConfig, logger *zap.Logger) (*Client, error) {
	var finder recordrepo.Finder = recordrepo.New(solr)

	var redis *dbRedis.Store
	if len(cfg.redisAddrs) > 0 {
		var err error
		redis, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Username: cfg.redisUsername,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("solrkit: create redis store: %w", err)
		}
		finder = recordrepo.NewCache(finder, redis, cfg.cacheTTL, metrics.RecordCacheTotal, logger)
	}

	return &Client{
		solr:  solr,
		redis: redis,
		svc:   queryuc.NewService(solr, finder, logger),
		model: cfg.model,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.redis != nil {
		c.redis.Close()
	}
}

// Ping checks Solr connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.solr.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady blocks until Solr answers pings or the timeout elapses.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultReadinessTimeout
	}
	return c.solr.WaitForReady(ctx, timeout)
}

// Query starts an empty query against a collection.
func (c *Client) Query(collection string) *Query {
	inner := c.svc.Scope(collection)
	if c.model != nil {
		inner = inner.WithModel(&modelAdapter{inner: c.model})
	}
	return &Query{inner: inner}
}

// modelAdapter wraps the public Queryable to satisfy the internal contract.
type modelAdapter struct {
	inner Queryable
}

func (a *modelAdapter) ResolveQuery(
	ctx context.Context, name string, scope *queryuc.Query, args ...any,
) (any, error) {
	return a.inner.ResolveQuery(ctx, name, &Query{inner: scope}, args...)
}
