package console

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt"
)

// TableCodeFetcher loads the display code for a single table.
type TableCodeFetcher interface {
	FetchCode(ctx context.Context, id string) (string, error)
}

// TableCodeCache memoizes table display codes for the session. Codes are
// immutable reference data, so entries are never invalidated. Concurrent
// resolves for the same ID share one underlying fetch; failures are not
// cached so a later resolve may retry.
type TableCodeCache struct {
	mu       sync.Mutex
	codes    map[string]string
	inflight map[string]chan struct{}
	fetcher  TableCodeFetcher
	logger   apt.Logger
}

func NewTableCodeCache(fetcher TableCodeFetcher, logger apt.Logger) *TableCodeCache {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &TableCodeCache{
		codes:    make(map[string]string),
		inflight: make(map[string]chan struct{}),
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Resolve returns the code for id, fetching it on first reference. Callers
// racing on the same ID wait for the single in-flight fetch instead of
// issuing their own.
func (c *TableCodeCache) Resolve(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}

	for {
		c.mu.Lock()
		if code, ok := c.codes[id]; ok {
			c.mu.Unlock()
			return code, true
		}

		if done, loading := c.inflight[id]; loading {
			c.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return "", false
			}
		}

		done := make(chan struct{})
		c.inflight[id] = done
		c.mu.Unlock()

		code, err := c.fetch(ctx, id)

		c.mu.Lock()
		if err == nil {
			c.codes[id] = code
		}
		delete(c.inflight, id)
		close(done)
		c.mu.Unlock()

		if err != nil {
			c.logger.Debug("table code lookup failed", "table_id", id, "error", err)
			return "", false
		}
		return code, true
	}
}

func (c *TableCodeCache) fetch(ctx context.Context, id string) (string, error) {
	if c.fetcher == nil {
		return "", errNoFetcher
	}
	return c.fetcher.FetchCode(ctx, id)
}

// Peek returns the cached code without triggering a fetch.
func (c *TableCodeCache) Peek(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code, ok := c.codes[id]
	return code, ok
}

// PlaceholderCode derives the truncated-ID fallback shown while a code is
// unresolved.
func PlaceholderCode(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[:4]
}

// DisplayCode returns the cached code or the placeholder fallback.
func (c *TableCodeCache) DisplayCode(id string) string {
	if code, ok := c.Peek(id); ok {
		return code
	}
	return PlaceholderCode(id)
}

type cacheError string

func (e cacheError) Error() string { return string(e) }

const errNoFetcher = cacheError("table code fetcher not configured")
