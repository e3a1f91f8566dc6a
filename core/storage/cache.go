package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const storeAPICache = "api_cache"

// ResponseCache stores API response payloads with a time-to-live. The
// default engine keeps entries in the structured tier's api_cache store;
// integration packages may substitute engines with native expiry.
type ResponseCache interface {
	// Put stores payload under key. Replaces any existing entry.
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Get returns the payload stored under key, or ErrCacheMiss when the
	// entry is absent or expired. Expired entries are removed.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the entry under key, if any.
	Delete(ctx context.Context, key string) error
	// Purge removes every expired entry and reports how many were removed.
	Purge(ctx context.Context) (int, error)
}

// CacheResponse stores a successful API response for the endpoint. A ttl of
// zero or less falls back to the configured default.
func (g *Gateway) CacheResponse(ctx context.Context, endpoint string, payload any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = g.cfg.DefaultCacheTTL
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("storage: failed to encode cached response for %s: %w", endpoint, err)
	}
	return g.cache.Put(ctx, endpoint, data, ttl)
}

// CachedResponse decodes the cached payload for the endpoint into out.
// Returns ErrCacheMiss when absent or expired.
func (g *Gateway) CachedResponse(ctx context.Context, endpoint string, out any) error {
	data, err := g.cache.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// InvalidateCached drops the cache entry for the endpoint, if any.
func (g *Gateway) InvalidateCached(ctx context.Context, endpoint string) error {
	return g.cache.Delete(ctx, endpoint)
}

// CleanExpiredCache removes every expired entry and reports the count.
func (g *Gateway) CleanExpiredCache(ctx context.Context) (int, error) {
	return g.cache.Purge(ctx)
}

// boltCache keeps cache entries as records in the api_cache store, expiring
// them lazily on read and in bulk during Purge.
type boltCache struct {
	g *Gateway
}

func (c *boltCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	spec, err := c.g.storeSpec(storeAPICache)
	if err != nil {
		return err
	}

	rec := Record{
		"key":       key,
		"data":      json.RawMessage(payload),
		"stored_at": c.g.now().UnixMilli(),
		"ttl_ms":    ttl.Milliseconds(),
	}
	return c.g.putRecord(ctx, spec, rec)
}

func (c *boltCache) Get(ctx context.Context, key string) ([]byte, error) {
	spec, err := c.g.storeSpec(storeAPICache)
	if err != nil {
		return nil, err
	}

	rec, err := c.g.getRecord(ctx, spec, key)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
		}
		return nil, err
	}

	if c.expired(rec) {
		if err := c.g.deleteRecord(ctx, spec, key); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}

	return json.Marshal(rec["data"])
}

func (c *boltCache) Delete(ctx context.Context, key string) error {
	spec, err := c.g.storeSpec(storeAPICache)
	if err != nil {
		return err
	}
	return c.g.deleteRecord(ctx, spec, key)
}

func (c *boltCache) Purge(ctx context.Context) (int, error) {
	spec, err := c.g.storeSpec(storeAPICache)
	if err != nil {
		return 0, err
	}

	expired, err := c.g.scanRecords(ctx, spec, c.expired)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range expired {
		key, err := rec.Key(spec.KeyField)
		if err != nil {
			continue
		}
		if err := c.g.deleteRecord(ctx, spec, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// expired applies the cache invariant: an entry is stale once strictly more
// than its ttl has elapsed since it was stored.
func (c *boltCache) expired(rec Record) bool {
	storedAt, ok := numField(rec, "stored_at")
	if !ok {
		return true
	}
	ttl, ok := numField(rec, "ttl_ms")
	if !ok {
		return true
	}
	return c.g.now().UnixMilli()-storedAt > ttl
}

func numField(rec Record, name string) (int64, bool) {
	switch v := rec[name].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
