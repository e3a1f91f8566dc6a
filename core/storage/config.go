package storage

import "time"

// Config provides environment-based configuration for the storage gateway.
type Config struct {
	// Path is the bolt database file backing the structured tier.
	Path string `env:"STORAGE_PATH" envDefault:"techfix.db"`
	// Namespace prefixes every ephemeral key to keep the tier isolated
	// from other tenants of the same engine.
	Namespace string `env:"STORAGE_NAMESPACE" envDefault:"techfix"`
	// DefaultCacheTTL applies when CacheResponse is called with ttl <= 0.
	DefaultCacheTTL time.Duration `env:"STORAGE_CACHE_TTL" envDefault:"5m"`
	// SweepInterval drives the background expired-cache sweeper.
	SweepInterval time.Duration `env:"STORAGE_SWEEP_INTERVAL" envDefault:"5m"`
}
