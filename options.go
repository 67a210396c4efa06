package solrkit

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	solrURL    string
	timeout    time.Duration
	httpClient *http.Client

	redisAddrs    []string
	redisUsername string
	redisPassword string
	redisDB       int
	cacheTTL      time.Duration

	logger *zap.Logger
	model  Queryable
}

// WithSolr sets the Solr base URL, for example "http://localhost:8983/solr".
// Required.
func WithSolr(baseURL string) Option {
	return func(c *clientConfig) {
		c.solrURL = baseURL
	}
}

// WithTimeout sets the per-request timeout for Solr calls. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client used for Solr calls.
// Useful for custom transports and for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithRedisCache enables the read-through record cache backed by Redis.
// Password may be empty. Without this option records are fetched from
// Solr on every materialization.
func WithRedisCache(addr, password string) Option {
	return func(c *clientConfig) {
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	}
}

// WithCacheTTL bounds staleness of cached records. Default: 5m.
// Only meaningful together with WithRedisCache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheTTL = ttl
	}
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithModel binds a Queryable model whose named query methods can be
// invoked through Query.Resolve.
func WithModel(m Queryable) Option {
	return func(c *clientConfig) {
		c.model = m
	}
}
