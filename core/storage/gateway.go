package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/techfixpro/appkit/core/logger"
)

// Gateway is the persistence boundary of the application core. It exposes
// two tiers: a synchronous ephemeral key/value tier for small session values
// and an asynchronous structured tier of named record stores with an API
// response cache on top.
type Gateway struct {
	cfg    Config
	schema Schema
	kv     KV
	db     *bolt.DB
	cache  ResponseCache
	log    *slog.Logger
	now    func() time.Time

	// Sweeper lifecycle
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger for internal operations.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// WithKV replaces the ephemeral tier engine.
func WithKV(kv KV) Option {
	return func(g *Gateway) {
		if kv != nil {
			g.kv = kv
		}
	}
}

// WithResponseCache replaces the response cache engine. The default keeps
// cache entries in the structured tier's api_cache store.
func WithResponseCache(cache ResponseCache) Option {
	return func(g *Gateway) {
		if cache != nil {
			g.cache = cache
		}
	}
}

// WithClock replaces the time source. Used by tests to control TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// WithSchema replaces the default store schema.
func WithSchema(schema Schema) Option {
	return func(g *Gateway) {
		if len(schema.Stores) > 0 {
			g.schema = schema
		}
	}
}

// Open creates a Gateway and runs idempotent schema creation against the
// configured database file. Existing stores are left untouched; new stores
// appear only on first run or a schema version bump.
func Open(cfg Config, opts ...Option) (*Gateway, error) {
	if cfg.DefaultCacheTTL <= 0 {
		cfg.DefaultCacheTTL = 5 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}

	g := &Gateway{
		cfg:    cfg,
		schema: DefaultSchema(),
		kv:     NewMemoryKV(),
		log:    logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	db, err := openBolt(cfg.Path, g.schema)
	if err != nil {
		return nil, err
	}
	g.db = db

	if g.cache == nil {
		g.cache = &boltCache{g: g}
	}

	return g, nil
}

// Close releases the underlying database. Structured-tier calls after Close
// return ErrNotInitialized; closing twice is a no-op.
func (g *Gateway) Close() error {
	g.mu.Lock()
	db := g.db
	g.db = nil
	g.mu.Unlock()

	if db == nil {
		return nil
	}
	return db.Close()
}

// database hands out the bolt handle under the lock so structured-tier calls
// racing a Close observe ErrNotInitialized instead of a nil handle.
func (g *Gateway) database() (*bolt.DB, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil, ErrNotInitialized
	}
	return g.db, nil
}

// Ephemeral tier

func (g *Gateway) nsKey(key string) string {
	return g.cfg.Namespace + "_" + key
}

// SetEphemeral stores a JSON-encoded value in the ephemeral tier.
func (g *Gateway) SetEphemeral(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: failed to encode ephemeral value %q: %w", key, err)
	}
	return g.kv.Set(g.nsKey(key), data)
}

// GetEphemeral decodes the value stored under key into out. Returns
// ErrKeyNotFound for absent keys so callers choose their own fallback.
func (g *Gateway) GetEphemeral(key string, out any) error {
	data, ok, err := g.kv.Get(g.nsKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return json.Unmarshal(data, out)
}

// EphemeralStringOr returns the string stored under key, or def when the key
// is absent or the engine fails. Failures are logged, preserving the
// never-fails contract of the original ephemeral tier for callers that
// prefer degradation over explicit errors.
func (g *Gateway) EphemeralStringOr(key, def string) string {
	var value string
	if err := g.GetEphemeral(key, &value); err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			g.log.Warn("ephemeral read failed", logger.Key("key", key), logger.Error(err))
		}
		return def
	}
	return value
}

// RemoveEphemeral deletes the value stored under key. Removing an absent
// key is not an error.
func (g *Gateway) RemoveEphemeral(key string) error {
	return g.kv.Remove(g.nsKey(key))
}

// ClearEphemeral removes every key in the gateway's namespace.
func (g *Gateway) ClearEphemeral() error {
	keys, err := g.kv.Keys(g.cfg.Namespace + "_")
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := g.kv.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// Structured tier

func (g *Gateway) storeSpec(name string) (StoreSpec, error) {
	spec, ok := g.schema.spec(name)
	if !ok {
		return StoreSpec{}, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return spec, nil
}

// PutRecord inserts or replaces a record keyed by its own key field.
func (g *Gateway) PutRecord(ctx context.Context, store string, rec Record) error {
	spec, err := g.storeSpec(store)
	if err != nil {
		return err
	}
	return g.putRecord(ctx, spec, rec)
}

// GetRecord returns the record stored under key, or ErrRecordNotFound.
func (g *Gateway) GetRecord(ctx context.Context, store, key string) (Record, error) {
	spec, err := g.storeSpec(store)
	if err != nil {
		return nil, err
	}
	return g.getRecord(ctx, spec, key)
}

// Records returns every record in the store.
func (g *Gateway) Records(ctx context.Context, store string) ([]Record, error) {
	spec, err := g.storeSpec(store)
	if err != nil {
		return nil, err
	}
	return g.scanRecords(ctx, spec, nil)
}

// RecordsByIndex returns the records whose indexed field matches value.
// The index must be declared in the store's schema.
func (g *Gateway) RecordsByIndex(ctx context.Context, store, index string, value any) ([]Record, error) {
	spec, err := g.storeSpec(store)
	if err != nil {
		return nil, err
	}

	declared := false
	for _, idx := range spec.Indexes {
		if idx == index {
			declared = true
			break
		}
	}
	if !declared {
		return nil, fmt.Errorf("%w: no index %q on %s", ErrUnknownStore, index, store)
	}

	want := normalizeKey(value)
	return g.scanRecords(ctx, spec, func(rec Record) bool {
		v, ok := rec[index]
		return ok && normalizeKey(v) == want
	})
}

// DeleteRecord removes the record stored under key, if any.
func (g *Gateway) DeleteRecord(ctx context.Context, store, key string) error {
	spec, err := g.storeSpec(store)
	if err != nil {
		return err
	}
	return g.deleteRecord(ctx, spec, key)
}

// ClearStore removes every record from the store.
func (g *Gateway) ClearStore(ctx context.Context, store string) error {
	spec, err := g.storeSpec(store)
	if err != nil {
		return err
	}
	return g.clearStore(ctx, spec)
}
