// Package solr implements the db contracts over Solr's HTTP JSON API.
// Collections map to Solr cores; one Store serves any number of them.
package solr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/solrkit/solrkit/internal/db"
)

const defaultTimeout = 10 * time.Second

// Config holds connection parameters for a Solr instance.
type Config struct {
	BaseURL string // e.g. http://localhost:8983/solr
	Timeout time.Duration
	Client  *http.Client // optional; a default client is built when nil
}

// Store talks to a Solr instance over HTTP.
type Store struct {
	base   string
	client *http.Client
}

// Compile-time checks.
var (
	_ db.Searcher   = (*Store)(nil)
	_ db.DocFetcher = (*Store)(nil)
	_ db.Pinger     = (*Store)(nil)
)

// NewStore creates a Solr store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Store{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: client,
	}, nil
}

// Ping checks instance availability via the cores status handler.
func (s *Store) Ping(ctx context.Context) error {
	params := url.Values{"action": {"STATUS"}, "wt": {"json"}}
	if _, err := s.get(ctx, db.OpPing, s.base+"/admin/cores?"+params.Encode()); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until Solr responds or the timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for solr: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) handlerURL(collection, handler string, params url.Values) string {
	return fmt.Sprintf("%s/%s/%s?%s", s.base, url.PathEscape(collection), handler, params.Encode())
}

// get issues one GET and returns the raw body. Non-2xx statuses map to
// db.ErrBadStatus wrapped with the operation name.
func (s *Store) get(ctx context.Context, op, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &db.Error{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("%w: %d", db.ErrBadStatus, resp.StatusCode)}
	}
	return body, nil
}
