package storage

import "errors"

var (
	// ErrNotInitialized indicates a structured-tier operation against a
	// gateway whose database has not been opened.
	ErrNotInitialized = errors.New("storage: not initialized")

	// ErrUnknownStore indicates an operation against a store name that is
	// not part of the declared schema.
	ErrUnknownStore = errors.New("storage: unknown store")

	// ErrRecordNotFound indicates a lookup for a key with no record.
	ErrRecordNotFound = errors.New("storage: record not found")

	// ErrMissingKey indicates a record without a value under its store's
	// key field.
	ErrMissingKey = errors.New("storage: record is missing its key field")

	// ErrKeyNotFound indicates an ephemeral lookup for an absent key.
	ErrKeyNotFound = errors.New("storage: key not found")

	// ErrCacheMiss indicates an absent or expired response cache entry.
	ErrCacheMiss = errors.New("storage: cache miss")

	// ErrInvalidSnapshot indicates an import payload that does not match
	// the declared schema.
	ErrInvalidSnapshot = errors.New("storage: invalid snapshot")

	// ErrAlreadyRunning indicates a second Start on a running sweeper.
	ErrAlreadyRunning = errors.New("storage: sweeper already running")

	// ErrNotRunning indicates a Stop without a prior Start.
	ErrNotRunning = errors.New("storage: sweeper not running")
)
